package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tta-backend/internal/models"
	"tta-backend/internal/services"
	"tta-backend/pkg/utils"
)

type PaymentHandler struct {
	Service *services.RazorpayService
}

func NewPaymentHandler(service *services.RazorpayService) *PaymentHandler {
	return &PaymentHandler{Service: service}
}

// Status reports whether online tier fee collection is enabled.
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]bool{"enabled": h.Service.IsEnabled()})
}

// CreateOrder opens a Razorpay order for a trial's tier fee.
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if !h.Service.IsEnabled() {
		http.Error(w, "Online payments are not configured", http.StatusServiceUnavailable)
		return
	}

	var req models.CreateTierOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	order, err := h.Service.CreateTierOrder(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, order)
}

// VerifyPayment confirms the checkout callback signature and marks the
// payment completed. Safe to call more than once for the same order.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyTierPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "Invalid request body")
		return
	}

	payment, err := h.Service.VerifyPayment(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, payment)
}

// ListTrialPayments returns the payment history for one trial.
func (h *PaymentHandler) ListTrialPayments(w http.ResponseWriter, r *http.Request) {
	trialID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.BadRequest(w, "Invalid trial ID")
		return
	}

	payments, err := h.Service.ListTrialPayments(r.Context(), trialID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}

// Webhook receives server-to-server payment events from Razorpay. The
// signature covers the raw body, so the body must be read before any
// JSON decode.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		utils.BadRequest(w, "Could not read request body")
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if !h.Service.VerifyWebhookSignature(body, signature) {
		log.Printf("[Razorpay] Webhook signature mismatch")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var event struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		utils.BadRequest(w, "Invalid webhook payload")
		return
	}

	if err := h.Service.ProcessWebhook(r.Context(), event.Event, event.Payload); err != nil {
		log.Printf("[Razorpay] Webhook %s failed: %v", event.Event, err)
	}

	// Always 200 so Razorpay does not retry events we chose to skip
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
