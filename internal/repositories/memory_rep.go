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

// MemoryREPStore is a map-backed REPStore used by the memory run mode
// and the test suite.
type MemoryREPStore struct {
	mu     sync.RWMutex
	reps   map[int]models.REP
	nextID int
}

func NewMemoryREPStore() *MemoryREPStore {
	return &MemoryREPStore{
		reps:   make(map[int]models.REP),
		nextID: 1,
	}
}

func (s *MemoryREPStore) Create(ctx context.Context, rep *models.REP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.reps {
		if strings.EqualFold(existing.Name, rep.Name) && strings.EqualFold(existing.City, rep.City) {
			return apperrors.Conflict("rep already exists")
		}
	}

	rep.ID = s.nextID
	s.nextID++
	now := time.Now()
	rep.CreatedAt = now
	rep.UpdatedAt = now
	if rep.AssignedTrials == nil {
		rep.AssignedTrials = []models.AssignedTrial{}
	}
	s.reps[rep.ID] = *rep
	return nil
}

func (s *MemoryREPStore) Get(ctx context.Context, id int) (*models.REP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rep, ok := s.reps[id]
	if !ok {
		return nil, apperrors.NotFound("rep")
	}
	return &rep, nil
}

func (s *MemoryREPStore) List(ctx context.Context) ([]*models.REP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reps := make([]*models.REP, 0, len(s.reps))
	for _, rep := range s.reps {
		r := rep
		reps = append(reps, &r)
	}
	sort.Slice(reps, func(i, j int) bool {
		if reps[i].CreatedAt.Equal(reps[j].CreatedAt) {
			return reps[i].ID > reps[j].ID
		}
		return reps[i].CreatedAt.After(reps[j].CreatedAt)
	})
	return reps, nil
}

func (s *MemoryREPStore) Update(ctx context.Context, rep *models.REP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.reps[rep.ID]
	if !ok {
		return apperrors.NotFound("rep")
	}
	for id, other := range s.reps {
		if id != rep.ID && strings.EqualFold(other.Name, rep.Name) && strings.EqualFold(other.City, rep.City) {
			return apperrors.Conflict("rep already exists")
		}
	}

	rep.CreatedAt = existing.CreatedAt
	rep.UpdatedAt = time.Now()
	s.reps[rep.ID] = *rep
	return nil
}

func (s *MemoryREPStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reps[id]; !ok {
		return apperrors.NotFound("rep")
	}
	delete(s.reps, id)
	return nil
}
