package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"tta-backend/internal/models"
	"tta-backend/internal/services"
	"tta-backend/internal/storage"
	"tta-backend/pkg/utils"
)

type REPHandler struct {
	Service *services.REPService
	Storage *storage.R2Client
}

func NewREPHandler(service *services.REPService, store *storage.R2Client) *REPHandler {
	return &REPHandler{Service: service, Storage: store}
}

func (h *REPHandler) CreateREP(w http.ResponseWriter, r *http.Request) {
	var req models.CreateREPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	rep, err := h.Service.CreateREP(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, rep)
}

func (h *REPHandler) GetREP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid REP ID")
		return
	}

	rep, err := h.Service.GetREP(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rep)
}

func (h *REPHandler) ListREPs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.REPListFilter{
		Search:  q.Get("search"),
		State:   q.Get("state"),
		Status:  q.Get("status"),
		Season:  q.Get("season"),
		SortKey: q.Get("sort"),
		Desc:    q.Get("order") == "desc",
	}

	reps, err := h.Service.ListREPs(r.Context(), filter)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, reps)
}

func (h *REPHandler) UpdateREP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid REP ID")
		return
	}

	var req models.UpdateREPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	rep, err := h.Service.UpdateREP(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rep)
}

// DeleteREP requires the caller to type the REP name back as confirmation.
func (h *REPHandler) DeleteREP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid REP ID")
		return
	}

	var req models.DeleteREPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.Service.DeleteREP(r.Context(), id, req.ConfirmName); err != nil {
		utils.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadDocument stores a MoU document or logo for a REP. The "kind" form
// field selects which slot the file lands in.
func (h *REPHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if h.Storage == nil {
		http.Error(w, "Document storage not configured", http.StatusServiceUnavailable)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid REP ID")
		return
	}

	rep, err := h.Service.GetREP(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.BadRequest(w, "Invalid multipart form")
		return
	}

	kind := r.FormValue("kind")
	if kind != "mou" && kind != "logo" {
		utils.BadRequest(w, "kind must be mou or logo")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if kind == "mou" && ext != ".pdf" {
		utils.BadRequest(w, "MoU document must be a PDF")
		return
	}

	contentType := header.Header.Get("Content-Type")
	key := fmt.Sprintf("reps/%d/%s%s", id, kind, ext)
	url, err := h.Storage.Upload(r.Context(), key, contentType, file)
	if err != nil {
		utils.Error(w, err)
		return
	}

	update := models.UpdateREPRequest{
		Name:   rep.Name,
		State:  rep.State,
		City:   rep.City,
		Season: rep.Season,
		Region: rep.Region,
		Status: rep.Status,

		ContactName:  rep.ContactName,
		ContactPhone: rep.ContactPhone,
		ContactEmail: rep.ContactEmail,

		BackupContactName:  rep.BackupContactName,
		BackupContactPhone: rep.BackupContactPhone,
		BackupContactEmail: rep.BackupContactEmail,

		PhysicalAddress: rep.PhysicalAddress,
		GroundLocation:  rep.GroundLocation,
		PinCode:         rep.PinCode,

		PANCard: rep.PANCard,
		GSTNo:   rep.GSTNo,

		MOUStatus:      rep.MOUStatus,
		MOUDocumentURL: rep.MOUDocumentURL,
		LogoURL:        rep.LogoURL,
	}
	if kind == "mou" {
		update.MOUDocumentURL = url
	} else {
		update.LogoURL = url
	}

	updated, err := h.Service.UpdateREP(r.Context(), id, &update)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, updated)
}
