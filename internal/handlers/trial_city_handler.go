package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"tta-backend/internal/metrics"
	"tta-backend/internal/models"
	"tta-backend/internal/services"
	"tta-backend/pkg/utils"
)

type TrialCityHandler struct {
	Service *services.TrialCityService
}

func NewTrialCityHandler(service *services.TrialCityService) *TrialCityHandler {
	return &TrialCityHandler{Service: service}
}

var importUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (h *TrialCityHandler) CreateTrialCity(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTrialCityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	city, err := h.Service.CreateTrialCity(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, city)
}

func (h *TrialCityHandler) GetTrialCity(w http.ResponseWriter, r *http.Request) {
	city, err := h.Service.GetTrialCity(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, city)
}

func (h *TrialCityHandler) ListTrialCities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.TrialCityListFilter{
		Search:    q.Get("search"),
		State:     q.Get("state"),
		TrialType: q.Get("type"),
		Verified:  q.Get("verified"),
		SortKey:   q.Get("sort"),
		Desc:      q.Get("order") == "desc",
	}

	cities, err := h.Service.ListTrialCities(r.Context(), filter)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, cities)
}

func (h *TrialCityHandler) UpdateTrialCity(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateTrialCityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	city, err := h.Service.UpdateTrialCity(r.Context(), mux.Vars(r)["code"], &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, city)
}

// Reverify stamps the ground as freshly verified today.
func (h *TrialCityHandler) Reverify(w http.ResponseWriter, r *http.Request) {
	city, err := h.Service.Reverify(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, city)
}

func (h *TrialCityHandler) DeleteTrialCity(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteTrialCityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.Service.DeleteTrialCity(r.Context(), mux.Vars(r)["code"], req.ConfirmCity); err != nil {
		utils.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportCSV bulk-creates trial cities from an uploaded CSV and returns
// the per-row outcome once the whole file is processed.
func (h *TrialCityHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.BadRequest(w, "Invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		utils.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	reqs, err := services.ParseCitiesCSV(file)
	if err != nil {
		utils.BadRequest(w, "Could not parse CSV: "+err.Error())
		return
	}

	result := h.Service.BulkImport(r.Context(), reqs, nil)
	recordImportMetrics(result)
	utils.JSON(w, http.StatusOK, result)
}

// ImportCSVLive runs the bulk import over a websocket so the dashboard
// can show per-row progress on large files. The client sends the raw
// CSV as a single text message; each processed row comes back as a
// progress frame, followed by a final summary frame.
func (h *TrialCityHandler) ImportCSVLive(w http.ResponseWriter, r *http.Request) {
	conn, err := importUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Import] Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	_, payload, err := conn.ReadMessage()
	if err != nil {
		return
	}

	reqs, err := services.ParseCitiesCSV(strings.NewReader(string(payload)))
	if err != nil {
		conn.WriteJSON(map[string]string{"type": "error", "message": err.Error()})
		return
	}

	conn.WriteJSON(map[string]interface{}{"type": "start", "total": len(reqs)})

	result := h.Service.BulkImport(r.Context(), reqs, func(item models.BulkImportItemResult) {
		if err := conn.WriteJSON(map[string]interface{}{"type": "progress", "item": item}); err != nil {
			log.Printf("[Import] Progress write failed: %v", err)
		}
	})
	recordImportMetrics(result)

	conn.WriteJSON(map[string]interface{}{"type": "done", "result": result})
}

func recordImportMetrics(result *models.BulkImportResult) {
	metrics.BulkImportRowsTotal.WithLabelValues("imported").Add(float64(result.Imported))
	metrics.BulkImportRowsTotal.WithLabelValues("skipped").Add(float64(result.Skipped))
	metrics.BulkImportRowsTotal.WithLabelValues("failed").Add(float64(result.Failed))
}
