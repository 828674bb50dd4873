package repositories

import (
	"context"
	"sync"
	"time"
)

// MemoryTOTPStore is a map-backed TOTPStore.
type MemoryTOTPStore struct {
	mu       sync.Mutex
	attempts []totpAttempt
	codes    map[int]backupCode
	nextID   int
}

type totpAttempt struct {
	userID  int
	success bool
	at      time.Time
}

type backupCode struct {
	userID int
	hash   string
	used   bool
}

func NewMemoryTOTPStore() *MemoryTOTPStore {
	return &MemoryTOTPStore{
		codes:  make(map[int]backupCode),
		nextID: 1,
	}
}

func (s *MemoryTOTPStore) LogVerificationAttempt(ctx context.Context, userID int, ipAddress string, success bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts = append(s.attempts, totpAttempt{userID: userID, success: success, at: time.Now()})
	return nil
}

func (s *MemoryTOTPStore) GetRecentFailedAttempts(ctx context.Context, userID int, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-window)
	count := 0
	for _, a := range s.attempts {
		if a.userID == userID && !a.success && a.at.After(cutoff) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryTOTPStore) ReplaceBackupCodes(ctx context.Context, userID int, codeHashes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.codes {
		if c.userID == userID {
			delete(s.codes, id)
		}
	}
	for _, hash := range codeHashes {
		s.codes[s.nextID] = backupCode{userID: userID, hash: hash}
		s.nextID++
	}
	return nil
}

func (s *MemoryTOTPStore) GetUnusedBackupCodes(ctx context.Context, userID int) (map[int]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	codes := make(map[int]string)
	for id, c := range s.codes {
		if c.userID == userID && !c.used {
			codes[id] = c.hash
		}
	}
	return codes, nil
}

func (s *MemoryTOTPStore) MarkBackupCodeUsed(ctx context.Context, codeID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.codes[codeID]; ok {
		c.used = true
		s.codes[codeID] = c
	}
	return nil
}

func (s *MemoryTOTPStore) CleanupOldAttempts(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-24 * time.Hour)
	kept := s.attempts[:0]
	for _, a := range s.attempts {
		if a.at.After(cutoff) {
			kept = append(kept, a)
		}
	}
	s.attempts = kept
	return nil
}
