package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tta-backend/internal/models"
	"tta-backend/internal/services"
	"tta-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// TrialPDF streams a single trial report as a PDF download.
func (h *ReportHandler) TrialPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid trial ID")
		return
	}

	data, err := h.Service.GetTrialReportData(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	pdf, err := h.Service.GenerateTrialPDF(data)
	if err != nil {
		utils.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trial_%s.pdf"`, data.Trial.TrialCode))
	w.Write(pdf)
}

// SeasonPDFZip bundles every trial report of a season into one zip.
func (h *ReportHandler) SeasonPDFZip(w http.ResponseWriter, r *http.Request) {
	season := mux.Vars(r)["season"]

	pdfs, err := h.Service.GenerateSeasonTrialPDFs(r.Context(), season)
	if err != nil {
		utils.Error(w, err)
		return
	}
	if len(pdfs) == 0 {
		utils.BadRequest(w, "No trials found for season "+season)
		return
	}

	archive, err := h.Service.CreatePDFZip(pdfs)
	if err != nil {
		utils.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trials_%s.zip"`, season))
	w.Write(archive)
}

func (h *ReportHandler) REPsCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.REPListFilter{
		Search: q.Get("search"),
		State:  q.Get("state"),
		Status: q.Get("status"),
		Season: q.Get("season"),
	}

	data, err := h.Service.GenerateREPsCSV(r.Context(), filter)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeCSV(w, "reps.csv", data)
}

func (h *ReportHandler) TrialCitiesCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.TrialCityListFilter{
		Search:    q.Get("search"),
		State:     q.Get("state"),
		TrialType: q.Get("type"),
		Verified:  q.Get("verified"),
	}

	data, err := h.Service.GenerateTrialCitiesCSV(r.Context(), filter)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeCSV(w, "trial_cities.csv", data)
}

func (h *ReportHandler) TrialsCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.TrialListFilter{
		Search:    q.Get("search"),
		Season:    q.Get("season"),
		TrialType: q.Get("type"),
		Status:    q.Get("status"),
		City:      q.Get("city"),
	}

	data, err := h.Service.GenerateTrialsCSV(r.Context(), filter)
	if err != nil {
		utils.Error(w, err)
		return
	}
	writeCSV(w, "trials.csv", data)
}

// SeasonSummary returns the aggregate numbers shown on the season
// dashboard tiles.
func (h *ReportHandler) SeasonSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.GetSeasonSummary(r.Context(), mux.Vars(r)["season"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(data)
}
