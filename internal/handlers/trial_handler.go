package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"tta-backend/internal/models"
	"tta-backend/internal/services"
	"tta-backend/pkg/utils"
)

type TrialHandler struct {
	Service *services.TrialService
}

func NewTrialHandler(service *services.TrialService) *TrialHandler {
	return &TrialHandler{Service: service}
}

func (h *TrialHandler) CreateTrial(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTrialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	trial, err := h.Service.CreateTrial(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, trial)
}

func (h *TrialHandler) GetTrial(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid trial ID")
		return
	}

	trial, err := h.Service.GetTrial(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, trial)
}

func (h *TrialHandler) ListTrials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.TrialListFilter{
		Search:     q.Get("search"),
		Season:     q.Get("season"),
		TrialType:  q.Get("type"),
		Status:     q.Get("status"),
		City:       q.Get("city"),
		DateBucket: q.Get("dateBucket"),
		SortKey:    q.Get("sort"),
		Desc:       q.Get("order") == "desc",
	}

	trials, err := h.Service.ListTrials(r.Context(), filter)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, trials)
}

func (h *TrialHandler) UpdateTrial(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid trial ID")
		return
	}

	var req models.UpdateTrialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	trial, err := h.Service.UpdateTrial(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, trial)
}

func (h *TrialHandler) DeleteTrial(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid trial ID")
		return
	}

	var req models.DeleteTrialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.Service.DeleteTrial(r.Context(), id, req.Confirm); err != nil {
		utils.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckName reports whether a trial name is already taken. The wizard
// calls this on every name edit, so it must stay cheap.
func (h *TrialHandler) CheckName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		utils.BadRequest(w, "name query parameter is required")
		return
	}

	exists, err := h.Service.CheckNameExists(r.Context(), name)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.NameCheckResponse{Name: name, Exists: exists})
}
