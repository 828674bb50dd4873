package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tta-backend/internal/metrics"
	"tta-backend/internal/middleware"
	"tta-backend/internal/services"
	"tta-backend/internal/wizard"
	"tta-backend/pkg/utils"
)

// WizardHandler exposes the trial creation wizard. Drafts live in the
// in-memory store and only turn into a trial on submit.
type WizardHandler struct {
	Store        *wizard.Store
	TrialService *services.TrialService
}

func NewWizardHandler(store *wizard.Store, trialService *services.TrialService) *WizardHandler {
	return &WizardHandler{Store: store, TrialService: trialService}
}

func (h *WizardHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	draft := h.Store.Create()
	utils.JSON(w, http.StatusCreated, draft.Snapshot())
}

func (h *WizardHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.Store.Get(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, draft.Snapshot())
}

func (h *WizardHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	h.Store.Delete(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

// SetProjectDetails saves step one and kicks off the async name
// uniqueness check. Stale check results are dropped by generation, so a
// fast typist only ever sees the verdict for the latest name.
func (h *WizardHandler) SetProjectDetails(w http.ResponseWriter, r *http.Request) {
	draft, err := h.Store.Get(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req struct {
		Name      string `json:"name"`
		Season    string `json:"season"`
		TrialType string `json:"trialType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	draft.SetProjectDetails(req.Name, req.Season, req.TrialType)

	if req.Name != "" {
		gen := draft.NameGeneration()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			exists, err := h.TrialService.CheckNameExists(ctx, req.Name)
			if err != nil {
				log.Printf("[Wizard] Name check failed for draft %s: %v", draft.ID, err)
				return
			}
			draft.ApplyNameCheck(gen, exists)
		}()
	}

	utils.JSON(w, http.StatusOK, draft.Snapshot())
}

func (h *WizardHandler) AddCity(w http.ResponseWriter, r *http.Request) {
	draft, err := h.Store.Get(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req struct {
		CityName    string `json:"cityName"`
		TrialRegion string `json:"trialRegion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	if _, err := draft.AddCity(req.CityName, req.TrialRegion); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, draft.Snapshot())
}

func (h *WizardHandler) RemoveCity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	draft, err := h.Store.Get(vars["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	if !draft.RemoveCity(vars["code"]) {
		utils.BadRequest(w, "No such city in this draft")
		return
	}
	utils.JSON(w, http.StatusOK, draft.Snapshot())
}

// ImportCities bulk-loads cities from an uploaded CSV into the draft.
func (h *WizardHandler) ImportCities(w http.ResponseWriter, r *http.Request) {
	draft, err := h.Store.Get(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		utils.BadRequest(w, "Invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		utils.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	summary, err := draft.ImportCitiesCSV(file)
	if err != nil {
		utils.BadRequest(w, "Could not parse CSV: "+err.Error())
		return
	}

	metrics.BulkImportRowsTotal.WithLabelValues("imported").Add(float64(summary.Imported))
	metrics.BulkImportRowsTotal.WithLabelValues("skipped").Add(float64(summary.Skipped))

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"summary": summary,
		"draft":   draft.Snapshot(),
	})
}

// CitiesTemplate serves the sample CSV for the bulk import control.
func (h *WizardHandler) CitiesTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trial_cities_template.csv"`)
	w.Write([]byte(wizard.CitiesCSVTemplate))
}

func (h *WizardHandler) SetTierPricing(w http.ResponseWriter, r *http.Request) {
	draft, err := h.Store.Get(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req struct {
		TierType             string `json:"tierType"`
		TierDetails          string `json:"tierDetails"`
		TierAmount           string `json:"tierAmount"`
		ExpectedParticipants string `json:"expectedParticipants"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	draft.SetTierPricing(req.TierType, req.TierDetails, req.TierAmount, req.ExpectedParticipants)
	utils.JSON(w, http.StatusOK, draft.Snapshot())
}

func (h *WizardHandler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	draft, err := h.Store.Get(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req struct {
		ScheduleType       string     `json:"scheduleType"`
		StartDate          *time.Time `json:"startDate"`
		EndDate            *time.Time `json:"endDate"`
		TentativeMonth     string     `json:"tentativeMonth"`
		TentativeDateRange string     `json:"tentativeDateRange"`
		NextTrialDate      *time.Time `json:"nextTrialDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	draft.SetSchedule(req.ScheduleType, req.StartDate, req.EndDate, req.TentativeMonth, req.TentativeDateRange, req.NextTrialDate)
	utils.JSON(w, http.StatusOK, draft.Snapshot())
}

func (h *WizardHandler) SetReview(w http.ResponseWriter, r *http.Request) {
	draft, err := h.Store.Get(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req struct {
		Confirmed bool   `json:"confirmed"`
		Comment   string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	draft.SetConfirmed(req.Confirmed)
	draft.SetComment(req.Comment)
	utils.JSON(w, http.StatusOK, draft.Snapshot())
}

func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	draft, err := h.Store.Get(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := draft.Next(); err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, draft.Snapshot())
}

func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	draft, err := h.Store.Get(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	draft.Back()
	utils.JSON(w, http.StatusOK, draft.Snapshot())
}

// Submit turns a completed draft into a real trial and discards the
// draft on success.
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	draft, err := h.Store.Get(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	createdBy, _ := middleware.GetEmailFromContext(r.Context())
	payload, err := draft.Payload(createdBy)
	if err != nil {
		utils.Error(w, err)
		return
	}

	trial, err := h.TrialService.CreateTrial(r.Context(), payload)
	if err != nil {
		utils.Error(w, err)
		return
	}

	h.Store.Delete(draft.ID)
	utils.JSON(w, http.StatusCreated, trial)
}
