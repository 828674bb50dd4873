package wizard

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/metrics"
)

// DefaultDraftTTL is how long an untouched draft survives before the
// janitor drops it.
const DefaultDraftTTL = 2 * time.Hour

// Store keeps wizard drafts in memory with a sliding TTL. Abandoned
// drafts are reaped in the background.
type Store struct {
	mu     sync.Mutex
	drafts map[string]*entry
	ttl    time.Duration
	stop   chan struct{}
}

type entry struct {
	draft   *Draft
	expires time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	s := &Store{
		drafts: make(map[string]*entry),
		ttl:    ttl,
		stop:   make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Create starts a new draft and returns it.
func (s *Store) Create() *Draft {
	id := newDraftID()
	draft := newDraft(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[id] = &entry{draft: draft, expires: time.Now().Add(s.ttl)}
	metrics.WizardDraftsActive.Set(float64(len(s.drafts)))
	return draft
}

// Get returns a live draft and extends its TTL.
func (s *Store) Get(id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.drafts[id]
	if !ok || time.Now().After(e.expires) {
		delete(s.drafts, id)
		metrics.WizardDraftsActive.Set(float64(len(s.drafts)))
		return nil, apperrors.NotFound("draft")
	}
	e.expires = time.Now().Add(s.ttl)
	return e.draft, nil
}

// Delete removes a draft, typically after a successful submit.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	metrics.WizardDraftsActive.Set(float64(len(s.drafts)))
}

// Close stops the background janitor.
func (s *Store) Close() {
	close(s.stop)
}

func (s *Store) janitor() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, e := range s.drafts {
				if now.After(e.expires) {
					delete(s.drafts, id)
				}
			}
			metrics.WizardDraftsActive.Set(float64(len(s.drafts)))
			s.mu.Unlock()
		}
	}
}

func newDraftID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))[:32]
	}
	return hex.EncodeToString(b)
}
