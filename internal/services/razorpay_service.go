package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/models"
	"tta-backend/internal/repositories"
	"tta-backend/internal/timeutil"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayService raises and verifies Razorpay orders for trial tier fees.
type RazorpayService struct {
	paymentRepo repositories.TierPaymentStore
	trialRepo   repositories.TrialStore
	repRepo     repositories.REPStore

	keyID         string
	keySecret     string
	webhookSecret string
}

func NewRazorpayService(
	keyID, keySecret, webhookSecret string,
	paymentRepo repositories.TierPaymentStore,
	trialRepo repositories.TrialStore,
	repRepo repositories.REPStore,
) *RazorpayService {
	return &RazorpayService{
		paymentRepo:   paymentRepo,
		trialRepo:     trialRepo,
		repRepo:       repRepo,
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// getClient returns a Razorpay client, or nil when credentials are absent
func (s *RazorpayService) getClient() *razorpay.Client {
	if s.keyID == "" || s.keySecret == "" {
		return nil
	}
	return razorpay.NewClient(s.keyID, s.keySecret)
}

// IsEnabled reports whether online tier-fee collection is configured
func (s *RazorpayService) IsEnabled() bool {
	return s.keyID != "" && s.keySecret != ""
}

// CreateTierOrder creates a Razorpay order for a trial's tier fee and
// stores the pending payment record. Trials without a priced tier cannot
// raise orders.
func (s *RazorpayService) CreateTierOrder(ctx context.Context, req *models.CreateTierOrderRequest) (*models.TierOrderResponse, error) {
	client := s.getClient()
	if client == nil {
		return nil, fmt.Errorf("razorpay client not configured")
	}

	trial, err := s.trialRepo.Get(ctx, req.TrialID)
	if err != nil {
		return nil, err
	}
	if trial.TierType == models.TierNotAny || trial.TierAmount == nil || *trial.TierAmount <= 0 {
		return nil, apperrors.Validation("trialId", "trial has no priced tier")
	}
	rep, err := s.repRepo.Get(ctx, req.REPID)
	if err != nil {
		return nil, err
	}

	amountPaise := int(*trial.TierAmount * 100)
	orderData := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("tier_%d_%d_%d", trial.ID, rep.ID, time.Now().Unix()),
		"notes": map[string]interface{}{
			"trial_code": trial.TrialCode,
			"rep_id":     rep.ID,
			"tier_type":  trial.TierType,
		},
	}

	order, err := client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}
	orderID := order["id"].(string)

	payment := &models.TierPayment{
		RazorpayOrderID: orderID,
		TrialID:         trial.ID,
		TrialCode:       trial.TrialCode,
		REPID:           rep.ID,
		REPName:         rep.Name,
		TierType:        trial.TierType,
		Amount:          *trial.TierAmount,
		Status:          models.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to store payment record: %w", err)
	}

	return &models.TierOrderResponse{
		OrderID:   orderID,
		Amount:    amountPaise,
		Currency:  "INR",
		KeyID:     s.keyID,
		TrialCode: trial.TrialCode,
		REPName:   rep.Name,
		TierType:  trial.TierType,
		TierFee:   *trial.TierAmount,
	}, nil
}

// VerifyPayment checks the checkout signature and marks the payment
// record success or failed. Verification is idempotent: an already
// successful payment is returned as is.
func (s *RazorpayService) VerifyPayment(ctx context.Context, req *models.VerifyTierPaymentRequest) (*models.TierPayment, error) {
	payment, err := s.paymentRepo.GetByOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusSuccess {
		return payment, nil
	}

	if !s.verifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		payment.Status = models.PaymentStatusFailed
		payment.FailureReason = "Invalid signature"
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			log.Printf("[Razorpay] Failed to mark payment failed for %s: %v", req.RazorpayOrderID, err)
		}
		return nil, apperrors.Validation("razorpaySignature", "invalid payment signature")
	}

	payment.RazorpayPaymentID = req.RazorpayPaymentID
	payment.RazorpaySignature = req.RazorpaySignature
	payment.Status = models.PaymentStatusSuccess
	now := timeutil.Now()
	payment.CompletedAt = &now

	// Payment method is informational only; a fetch failure does not
	// fail verification.
	if client := s.getClient(); client != nil {
		if details, err := client.Payment.Fetch(req.RazorpayPaymentID, nil, nil); err == nil {
			if method, ok := details["method"].(string); ok {
				payment.PaymentMethod = method
			}
		} else {
			log.Printf("[Razorpay] Failed to fetch payment details: %v", err)
		}
	}

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}
	return payment, nil
}

// verifySignature verifies the Razorpay checkout signature
func (s *RazorpayService) verifySignature(orderID, paymentID, signature string) bool {
	if s.keySecret == "" {
		return false
	}
	data := orderID + "|" + paymentID
	h := hmac.New(sha256.New, []byte(s.keySecret))
	h.Write([]byte(data))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature verifies the webhook signature
func (s *RazorpayService) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.webhookSecret == "" {
		return true // Skip verification if not configured
	}
	h := hmac.New(sha256.New, []byte(s.webhookSecret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ProcessWebhook processes Razorpay webhook events
func (s *RazorpayService) ProcessWebhook(ctx context.Context, event string, paymentData map[string]interface{}) error {
	switch event {
	case "payment.captured":
		return s.handlePaymentCaptured(ctx, paymentData)
	case "payment.failed":
		return s.handlePaymentFailed(ctx, paymentData)
	case "refund.processed":
		return s.handleRefundProcessed(ctx, paymentData)
	default:
		log.Printf("[Razorpay] Unhandled webhook event: %s", event)
		return nil
	}
}

// webhookEntity digs the payment entity out of the webhook payload
func webhookEntity(paymentData map[string]interface{}) map[string]interface{} {
	paymentEntity, ok := paymentData["payment"].(map[string]interface{})
	if !ok {
		paymentEntity = paymentData
	}
	entity, ok := paymentEntity["entity"].(map[string]interface{})
	if !ok {
		entity = paymentEntity
	}
	return entity
}

func (s *RazorpayService) handlePaymentCaptured(ctx context.Context, paymentData map[string]interface{}) error {
	entity := webhookEntity(paymentData)
	orderID, _ := entity["order_id"].(string)
	paymentID, _ := entity["id"].(string)
	if orderID == "" {
		return fmt.Errorf("missing order_id in webhook")
	}

	payment, err := s.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if payment.Status == models.PaymentStatusSuccess {
		log.Printf("[Razorpay] Payment already processed: %s", orderID)
		return nil
	}

	payment.RazorpayPaymentID = paymentID
	payment.Status = models.PaymentStatusSuccess
	now := timeutil.Now()
	payment.CompletedAt = &now
	if method, ok := entity["method"].(string); ok {
		payment.PaymentMethod = method
	}
	return s.paymentRepo.Update(ctx, payment)
}

func (s *RazorpayService) handlePaymentFailed(ctx context.Context, paymentData map[string]interface{}) error {
	entity := webhookEntity(paymentData)
	orderID, _ := entity["order_id"].(string)
	if orderID == "" {
		return nil
	}

	reason := "Payment failed"
	if desc, ok := entity["error_description"].(string); ok && desc != "" {
		reason = desc
	}

	payment, err := s.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if payment.Status == models.PaymentStatusSuccess {
		return nil
	}
	payment.Status = models.PaymentStatusFailed
	payment.FailureReason = reason
	return s.paymentRepo.Update(ctx, payment)
}

func (s *RazorpayService) handleRefundProcessed(ctx context.Context, paymentData map[string]interface{}) error {
	entity := webhookEntity(paymentData)
	orderID, _ := entity["order_id"].(string)
	if orderID == "" {
		return nil
	}

	payment, err := s.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	payment.Status = models.PaymentStatusRefunded
	return s.paymentRepo.Update(ctx, payment)
}

// ListTrialPayments returns the payment history for a trial
func (s *RazorpayService) ListTrialPayments(ctx context.Context, trialID int) ([]*models.TierPayment, error) {
	return s.paymentRepo.ListByTrial(ctx, trialID)
}
