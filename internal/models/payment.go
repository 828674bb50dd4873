package models

import "time"

// PaymentStatus represents the status of a tier-fee payment order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusSuccess  PaymentStatus = "success"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// TierPayment records a Razorpay order raised to collect a trial's tier fee
// from a REP.
type TierPayment struct {
	ID                int           `json:"id"`
	RazorpayOrderID   string        `json:"razorpay_order_id"`
	RazorpayPaymentID string        `json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string        `json:"-"` // Don't expose signature in JSON
	TrialID           int           `json:"trial_id"`
	TrialCode         string        `json:"trial_code"`
	REPID             int           `json:"rep_id"`
	REPName           string        `json:"rep_name"`
	TierType          string        `json:"tier_type"`
	Amount            float64       `json:"amount"` // In rupees
	PaymentMethod     string        `json:"payment_method,omitempty"`
	Status            PaymentStatus `json:"status"`
	FailureReason     string        `json:"failure_reason,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	CompletedAt       *time.Time    `json:"completed_at,omitempty"`
}

// CreateTierOrderRequest initiates a tier-fee payment order for a trial
type CreateTierOrderRequest struct {
	TrialID int `json:"trial_id"`
	REPID   int `json:"rep_id"`
}

// TierOrderResponse is returned to the dashboard for Razorpay checkout
type TierOrderResponse struct {
	OrderID   string  `json:"order_id"`
	Amount    int     `json:"amount"` // In paise
	Currency  string  `json:"currency"`
	KeyID     string  `json:"key_id"`
	TrialCode string  `json:"trial_code"`
	REPName   string  `json:"rep_name"`
	TierType  string  `json:"tier_type"`
	TierFee   float64 `json:"tier_fee"` // In rupees
}

// VerifyTierPaymentRequest is sent after the Razorpay checkout callback
type VerifyTierPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}
