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

// MemoryUserStore is a map-backed UserStore.
type MemoryUserStore struct {
	mu      sync.RWMutex
	users   map[int]models.User
	secrets map[int]string
	nextID  int
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:   make(map[int]models.User),
		secrets: make(map[int]string),
		nextID:  1,
	}
}

func (s *MemoryUserStore) Create(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperrors.Conflict("user already exists")
		}
	}

	if u.Role == "" {
		u.Role = "operator"
	}
	u.ID = s.nextID
	s.nextID++
	u.IsActive = true
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryUserStore) Get(ctx context.Context, id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return &u, nil
}

func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (s *MemoryUserStore) List(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		user := u
		users = append(users, &user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (s *MemoryUserStore) Update(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[u.ID]
	if !ok {
		return apperrors.NotFound("user")
	}

	u.PasswordHash = existing.PasswordHash
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now()
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryUserStore) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return apperrors.NotFound("user")
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return nil
}

func (s *MemoryUserStore) SetTOTP(ctx context.Context, id int, secret string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return apperrors.NotFound("user")
	}
	s.secrets[id] = secret
	u.TOTPEnabled = enabled
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return nil
}

func (s *MemoryUserStore) GetTOTPSecret(ctx context.Context, id int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.users[id]; !ok {
		return "", apperrors.NotFound("user")
	}
	return s.secrets[id], nil
}

func (s *MemoryUserStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return apperrors.NotFound("user")
	}
	delete(s.users, id)
	delete(s.secrets, id)
	return nil
}

// MemoryLoginLogStore is a slice-backed LoginLogStore.
type MemoryLoginLogStore struct {
	mu     sync.Mutex
	logs   []models.LoginLog
	nextID int
}

func NewMemoryLoginLogStore() *MemoryLoginLogStore {
	return &MemoryLoginLogStore{nextID: 1}
}

func (s *MemoryLoginLogStore) CreateLoginLog(ctx context.Context, userID int, ipAddress, userAgent string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	l := models.LoginLog{
		ID:        s.nextID,
		UserID:    userID,
		LoginTime: now,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: now,
	}
	s.nextID++
	s.logs = append(s.logs, l)
	return l.ID, nil
}

func (s *MemoryLoginLogStore) UpdateLogoutTimeByUser(ctx context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.logs) - 1; i >= 0; i-- {
		if s.logs[i].UserID == userID && s.logs[i].LogoutTime == nil {
			now := time.Now()
			s.logs[i].LogoutTime = &now
			return nil
		}
	}
	return nil
}

func (s *MemoryLoginLogStore) ListByUser(ctx context.Context, userID int, limit int) ([]*models.LoginLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	var logs []*models.LoginLog
	for i := len(s.logs) - 1; i >= 0 && len(logs) < limit; i-- {
		if s.logs[i].UserID == userID {
			l := s.logs[i]
			logs = append(logs, &l)
		}
	}
	return logs, nil
}

// MemoryProfileStore is a map-backed ProfileStore keyed by email.
type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]models.ProfileExtension
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{
		profiles: make(map[string]models.ProfileExtension),
	}
}

func (s *MemoryProfileStore) Get(ctx context.Context, email string) (*models.ProfileExtension, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.NotFound("profile")
	}
	return &p, nil
}

func (s *MemoryProfileStore) Upsert(ctx context.Context, p *models.ProfileExtension) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.UpdatedAt = time.Now()
	s.profiles[strings.ToLower(p.Email)] = *p
	return nil
}
