package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/models"
)

// MemoryTrialCityStore is a map-backed TrialCityStore keyed by code.
type MemoryTrialCityStore struct {
	mu     sync.RWMutex
	cities map[string]models.TrialCity
}

func NewMemoryTrialCityStore() *MemoryTrialCityStore {
	return &MemoryTrialCityStore{
		cities: make(map[string]models.TrialCity),
	}
}

func (s *MemoryTrialCityStore) Create(ctx context.Context, city *models.TrialCity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cities[city.Code]; ok {
		return apperrors.Conflict("trial city already exists")
	}
	for _, existing := range s.cities {
		if strings.EqualFold(existing.City, city.City) && strings.EqualFold(existing.State, city.State) {
			return apperrors.Conflict("trial city already exists")
		}
	}

	now := time.Now()
	city.CreatedAt = now
	city.UpdatedAt = now
	s.cities[city.Code] = *city
	return nil
}

func (s *MemoryTrialCityStore) Get(ctx context.Context, code string) (*models.TrialCity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	city, ok := s.cities[code]
	if !ok {
		return nil, apperrors.NotFound("trial city")
	}
	return &city, nil
}

func (s *MemoryTrialCityStore) List(ctx context.Context) ([]*models.TrialCity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cities := make([]*models.TrialCity, 0, len(s.cities))
	for _, city := range s.cities {
		c := city
		cities = append(cities, &c)
	}
	sort.Slice(cities, func(i, j int) bool {
		return cities[i].Code < cities[j].Code
	})
	return cities, nil
}

// Update keeps state and city from the stored record. Both are locked
// after creation.
func (s *MemoryTrialCityStore) Update(ctx context.Context, city *models.TrialCity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.cities[city.Code]
	if !ok {
		return apperrors.NotFound("trial city")
	}

	city.State = existing.State
	city.City = existing.City
	city.CreatedAt = existing.CreatedAt
	city.UpdatedAt = time.Now()
	s.cities[city.Code] = *city
	return nil
}

func (s *MemoryTrialCityStore) Delete(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cities[code]; !ok {
		return apperrors.NotFound("trial city")
	}
	delete(s.cities, code)
	return nil
}
