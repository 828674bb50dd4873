package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"tta-backend/internal/models"
)

type TierPaymentRepository struct {
	DB *pgxpool.Pool
}

func NewTierPaymentRepository(db *pgxpool.Pool) *TierPaymentRepository {
	return &TierPaymentRepository{DB: db}
}

const tierPaymentColumns = `id, razorpay_order_id, razorpay_payment_id, razorpay_signature,
	trial_id, trial_code, rep_id, rep_name, tier_type, amount,
	payment_method, status, failure_reason, created_at, completed_at`

func scanTierPayment(row interface{ Scan(...any) error }) (*models.TierPayment, error) {
	var p models.TierPayment
	err := row.Scan(&p.ID, &p.RazorpayOrderID, &p.RazorpayPaymentID, &p.RazorpaySignature,
		&p.TrialID, &p.TrialCode, &p.REPID, &p.REPName, &p.TierType, &p.Amount,
		&p.PaymentMethod, &p.Status, &p.FailureReason, &p.CreatedAt, &p.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *TierPaymentRepository) Create(ctx context.Context, p *models.TierPayment) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO tier_payments(razorpay_order_id, trial_id, trial_code, rep_id, rep_name, tier_type, amount, status)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id, created_at`,
		p.RazorpayOrderID, p.TrialID, p.TrialCode, p.REPID, p.REPName, p.TierType, p.Amount, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	return translateErr(err, "payment")
}

func (r *TierPaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*models.TierPayment, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+tierPaymentColumns+` FROM tier_payments WHERE razorpay_order_id=$1`, orderID)
	p, err := scanTierPayment(row)
	if err != nil {
		return nil, translateErr(err, "payment")
	}
	return p, nil
}

func (r *TierPaymentRepository) Update(ctx context.Context, p *models.TierPayment) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE tier_payments SET razorpay_payment_id=$1, razorpay_signature=$2,
            payment_method=$3, status=$4, failure_reason=$5, completed_at=$6
         WHERE id=$7`,
		p.RazorpayPaymentID, p.RazorpaySignature,
		p.PaymentMethod, p.Status, p.FailureReason, p.CompletedAt, p.ID)
	if err != nil {
		return translateErr(err, "payment")
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows, "payment")
	}
	return nil
}

func (r *TierPaymentRepository) ListByTrial(ctx context.Context, trialID int) ([]*models.TierPayment, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+tierPaymentColumns+` FROM tier_payments WHERE trial_id=$1 ORDER BY created_at DESC`, trialID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.TierPayment
	for rows.Next() {
		p, err := scanTierPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
