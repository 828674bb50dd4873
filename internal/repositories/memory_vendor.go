package repositories

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/models"
)

// MemoryVendorStore is a map-backed VendorStore for independent vendors.
type MemoryVendorStore struct {
	mu      sync.RWMutex
	vendors map[int]models.Vendor
	nextID  int
}

func NewMemoryVendorStore() *MemoryVendorStore {
	return &MemoryVendorStore{
		vendors: make(map[int]models.Vendor),
		nextID:  1,
	}
}

func (s *MemoryVendorStore) Create(ctx context.Context, v *models.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	v.ID = strconv.Itoa(id)
	v.Source = models.VendorSourceIndependent
	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now
	s.vendors[id] = *v
	return nil
}

func (s *MemoryVendorStore) Get(ctx context.Context, id int) (*models.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vendors[id]
	if !ok {
		return nil, apperrors.NotFound("vendor")
	}
	return &v, nil
}

func (s *MemoryVendorStore) List(ctx context.Context) ([]*models.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vendors := make([]*models.Vendor, 0, len(s.vendors))
	for _, v := range s.vendors {
		vendor := v
		vendors = append(vendors, &vendor)
	}
	sort.Slice(vendors, func(i, j int) bool {
		if vendors[i].CreatedAt.Equal(vendors[j].CreatedAt) {
			return vendors[i].ID > vendors[j].ID
		}
		return vendors[i].CreatedAt.After(vendors[j].CreatedAt)
	})
	return vendors, nil
}

func (s *MemoryVendorStore) Update(ctx context.Context, v *models.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := strconv.Atoi(v.ID)
	if err != nil {
		return apperrors.NotFound("vendor")
	}
	existing, ok := s.vendors[id]
	if !ok {
		return apperrors.NotFound("vendor")
	}

	v.Source = models.VendorSourceIndependent
	v.CreatedAt = existing.CreatedAt
	v.UpdatedAt = time.Now()
	s.vendors[id] = *v
	return nil
}

func (s *MemoryVendorStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vendors[id]; !ok {
		return apperrors.NotFound("vendor")
	}
	delete(s.vendors, id)
	return nil
}
