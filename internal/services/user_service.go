package services

import (
	"context"
	"log"
	"strings"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/auth"
	"tta-backend/internal/cache"
	"tta-backend/internal/models"
	"tta-backend/internal/repositories"
)

// LoginResult is the outcome of the password step of login. When the
// account has 2FA enabled only the temp token is set and the caller
// must complete verification before a session token is issued.
type LoginResult struct {
	Auth        *models.AuthResponse
	Requires2FA bool
	TempToken   string
}

type UserService struct {
	Repo       repositories.UserStore
	LoginLogs  repositories.LoginLogStore
	Profiles   repositories.ProfileStore
	JWTManager *auth.JWTManager
}

func NewUserService(repo repositories.UserStore, loginLogs repositories.LoginLogStore, profiles repositories.ProfileStore, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		Repo:       repo,
		LoginLogs:  loginLogs,
		Profiles:   profiles,
		JWTManager: jwtManager,
	}
}

func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.Validation("name", "name is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, apperrors.Validation("email", "email is required")
	}
	if req.Password == "" {
		return nil, apperrors.Validation("password", "password is required")
	}
	if req.Role != "" && req.Role != models.RoleAdmin && req.Role != models.RoleOperator {
		return nil, apperrors.Validation("role", "role must be admin or operator")
	}

	if existing, _ := s.Repo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, apperrors.Conflict("user with this email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

// ListUsers returns all users
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

// UpdateUser updates name, phone, role, and active flag. A non-empty
// password in the request rotates the password hash as well.
func (s *UserService) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Role != "" && req.Role != models.RoleAdmin && req.Role != models.RoleOperator {
		return nil, apperrors.Validation("role", "role must be admin or operator")
	}

	if req.Name != "" {
		user.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		user.Email = strings.TrimSpace(req.Email)
	}
	user.Phone = req.Phone
	if req.Role != "" {
		user.Role = req.Role
	}
	user.IsActive = req.IsActive
	if err := s.Repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		if err := s.Repo.UpdatePassword(ctx, id, hash); err != nil {
			return nil, err
		}
	}
	cache.InvalidateAuth(ctx, user.Email)
	return user, nil
}

// DeleteUser deletes a user
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	user, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateAuth(ctx, user.Email)
	return nil
}

// Login verifies credentials. Accounts with 2FA enabled get a temp
// token and must call CompleteLogin to finish; others get a session
// token immediately. Successful password checks are recorded in the
// login log.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest, ipAddress, userAgent string) (*LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.Validation("email", "email and password are required")
	}

	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Validation("email", "invalid email or password")
	}
	// Redis caches a verified credential hash briefly so repeated
	// logins skip the bcrypt check
	if id, ok := cache.GetCachedAuth(ctx, req.Email, req.Password); !ok || id != user.ID {
		if !auth.VerifyPassword(user.PasswordHash, req.Password) {
			return nil, apperrors.Validation("email", "invalid email or password")
		}
		cache.CacheAuth(ctx, req.Email, req.Password, user.ID)
	}
	if !user.IsActive {
		return nil, apperrors.Validation("email", "account is suspended")
	}

	if user.TOTPEnabled {
		tempToken, err := s.JWTManager.GenerateTempToken(user)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Requires2FA: true, TempToken: tempToken}, nil
	}

	return s.issueSession(ctx, user, ipAddress, userAgent)
}

// CompleteLogin issues the session token after 2FA verification.
func (s *UserService) CompleteLogin(ctx context.Context, userID int, ipAddress, userAgent string) (*LoginResult, error) {
	user, err := s.Repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.Validation("email", "account is suspended")
	}
	return s.issueSession(ctx, user, ipAddress, userAgent)
}

func (s *UserService) issueSession(ctx context.Context, user *models.User, ipAddress, userAgent string) (*LoginResult, error) {
	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	if s.LoginLogs != nil {
		// Login succeeds even when the audit insert fails
		if _, err := s.LoginLogs.CreateLoginLog(ctx, user.ID, ipAddress, userAgent); err != nil {
			log.Printf("[Auth] Failed to record login log for user %d: %v", user.ID, err)
		}
	}
	return &LoginResult{Auth: &models.AuthResponse{Token: token, User: user}}, nil
}

// Logout stamps the logout time on the user's open login log entry.
func (s *UserService) Logout(ctx context.Context, userID int) error {
	if s.LoginLogs == nil {
		return nil
	}
	return s.LoginLogs.UpdateLogoutTimeByUser(ctx, userID)
}

// ChangePassword rotates a user's password after verifying the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID int, current, next string) error {
	if next == "" {
		return apperrors.Validation("newPassword", "new password is required")
	}
	user, err := s.Repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(user.PasswordHash, current) {
		return apperrors.Validation("currentPassword", "current password is incorrect")
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	cache.InvalidateAuth(ctx, user.Email)
	return nil
}

// LoginHistory returns the most recent login log entries for a user.
func (s *UserService) LoginHistory(ctx context.Context, userID, limit int) ([]*models.LoginLog, error) {
	if s.LoginLogs == nil {
		return nil, nil
	}
	return s.LoginLogs.ListByUser(ctx, userID, limit)
}

// GetProfile returns the dashboard profile extension for a user. A
// missing profile is not an error; an empty one is returned instead.
func (s *UserService) GetProfile(ctx context.Context, email string) (*models.ProfileExtension, error) {
	profile, err := s.Profiles.Get(ctx, email)
	if apperrors.IsNotFound(err) {
		return &models.ProfileExtension{Email: strings.ToLower(email)}, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile upserts the dashboard profile extension.
func (s *UserService) UpdateProfile(ctx context.Context, email string, p *models.ProfileExtension) (*models.ProfileExtension, error) {
	p.Email = strings.ToLower(strings.TrimSpace(email))
	if p.Email == "" {
		return nil, apperrors.Validation("email", "email is required")
	}
	if err := s.Profiles.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
