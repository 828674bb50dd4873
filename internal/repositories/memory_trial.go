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

// MemoryTrialStore is a map-backed TrialStore.
type MemoryTrialStore struct {
	mu     sync.RWMutex
	trials map[int]models.Trial
	nextID int
}

func NewMemoryTrialStore() *MemoryTrialStore {
	return &MemoryTrialStore{
		trials: make(map[int]models.Trial),
		nextID: 1,
	}
}

func (s *MemoryTrialStore) Create(ctx context.Context, trial *models.Trial) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.trials {
		if strings.EqualFold(existing.Name, trial.Name) {
			return apperrors.Conflict("trial already exists")
		}
		if existing.TrialCode == trial.TrialCode {
			return apperrors.Conflict("trial already exists")
		}
	}

	trial.ID = s.nextID
	s.nextID++
	now := time.Now()
	trial.CreatedAt = now
	trial.UpdatedAt = now
	if trial.AssignedCities == nil {
		trial.AssignedCities = []models.AssignedCity{}
	}
	s.trials[trial.ID] = *trial
	return nil
}

func (s *MemoryTrialStore) Get(ctx context.Context, id int) (*models.Trial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trial, ok := s.trials[id]
	if !ok {
		return nil, apperrors.NotFound("trial")
	}
	return &trial, nil
}

func (s *MemoryTrialStore) List(ctx context.Context) ([]*models.Trial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trials := make([]*models.Trial, 0, len(s.trials))
	for _, trial := range s.trials {
		t := trial
		trials = append(trials, &t)
	}
	sort.Slice(trials, func(i, j int) bool {
		if trials[i].CreatedAt.Equal(trials[j].CreatedAt) {
			return trials[i].ID > trials[j].ID
		}
		return trials[i].CreatedAt.After(trials[j].CreatedAt)
	})
	return trials, nil
}

// Update keeps name and trial code from the stored record. Both are
// immutable after creation.
func (s *MemoryTrialStore) Update(ctx context.Context, trial *models.Trial) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.trials[trial.ID]
	if !ok {
		return apperrors.NotFound("trial")
	}

	trial.Name = existing.Name
	trial.TrialCode = existing.TrialCode
	trial.CreatedAt = existing.CreatedAt
	trial.CreatedBy = existing.CreatedBy
	trial.UpdatedAt = time.Now()
	s.trials[trial.ID] = *trial
	return nil
}

func (s *MemoryTrialStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trials[id]; !ok {
		return apperrors.NotFound("trial")
	}
	delete(s.trials, id)
	return nil
}

func (s *MemoryTrialStore) NameExists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, trial := range s.trials {
		if strings.EqualFold(trial.Name, name) {
			return true, nil
		}
	}
	return false, nil
}
