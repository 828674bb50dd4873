package repositories

import (
	"context"
	"sync"
	"time"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/models"
)

// MemoryTierPaymentStore is a map-backed TierPaymentStore keyed by
// Razorpay order id.
type MemoryTierPaymentStore struct {
	mu       sync.RWMutex
	payments map[string]models.TierPayment
	nextID   int
}

func NewMemoryTierPaymentStore() *MemoryTierPaymentStore {
	return &MemoryTierPaymentStore{
		payments: make(map[string]models.TierPayment),
		nextID:   1,
	}
}

func (s *MemoryTierPaymentStore) Create(ctx context.Context, p *models.TierPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[p.RazorpayOrderID]; ok {
		return apperrors.Conflict("payment already exists")
	}
	p.ID = s.nextID
	s.nextID++
	p.CreatedAt = time.Now()
	s.payments[p.RazorpayOrderID] = *p
	return nil
}

func (s *MemoryTierPaymentStore) GetByOrderID(ctx context.Context, orderID string) (*models.TierPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[orderID]
	if !ok {
		return nil, apperrors.NotFound("payment")
	}
	return &p, nil
}

func (s *MemoryTierPaymentStore) Update(ctx context.Context, p *models.TierPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[p.RazorpayOrderID]; !ok {
		return apperrors.NotFound("payment")
	}
	s.payments[p.RazorpayOrderID] = *p
	return nil
}

func (s *MemoryTierPaymentStore) ListByTrial(ctx context.Context, trialID int) ([]*models.TierPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payments []*models.TierPayment
	for _, p := range s.payments {
		if p.TrialID == trialID {
			payment := p
			payments = append(payments, &payment)
		}
	}
	return payments, nil
}
