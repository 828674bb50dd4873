package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"tta-backend/internal/models"
	"tta-backend/internal/services"
	"tta-backend/pkg/utils"
)

type VendorHandler struct {
	Service *services.VendorService
}

func NewVendorHandler(service *services.VendorService) *VendorHandler {
	return &VendorHandler{Service: service}
}

func (h *VendorHandler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	vendor, err := h.Service.CreateVendor(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, vendor)
}

func (h *VendorHandler) GetVendor(w http.ResponseWriter, r *http.Request) {
	vendor, err := h.Service.GetVendor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, vendor)
}

// ListVendors returns direct vendors merged with the read-only REP
// projection rows.
func (h *VendorHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.VendorListFilter{
		Search:  q.Get("search"),
		Type:    q.Get("type"),
		Status:  q.Get("status"),
		SortKey: q.Get("sort"),
		Desc:    q.Get("order") == "desc",
	}

	vendors, err := h.Service.ListVendors(r.Context(), filter)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, vendors)
}

func (h *VendorHandler) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	vendor, err := h.Service.UpdateVendor(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, vendor)
}

func (h *VendorHandler) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteVendor(r.Context(), mux.Vars(r)["id"]); err != nil {
		utils.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
