package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tta-backend/internal/apperrors"
	"tta-backend/internal/auth"
	"tta-backend/internal/config"
	"tta-backend/internal/models"
	"tta-backend/internal/repositories"
)

func isValidation(t *testing.T, err error) {
	t.Helper()
	_, ok := apperrors.AsValidation(err)
	assert.True(t, ok, "expected validation error, got %v", err)
}

func newUserService() *UserService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "tta-test"
	return NewUserService(
		repositories.NewMemoryUserStore(),
		repositories.NewMemoryLoginLogStore(),
		repositories.NewMemoryProfileStore(),
		auth.NewJWTManager(cfg),
	)
}

func TestCreateUserValidation(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, &models.CreateUserRequest{Email: "a@b.com", Password: "pw"})
	isValidation(t, err)

	_, err = svc.CreateUser(ctx, &models.CreateUserRequest{Name: "A", Password: "pw"})
	isValidation(t, err)

	_, err = svc.CreateUser(ctx, &models.CreateUserRequest{Name: "A", Email: "a@b.com", Password: "pw", Role: "superuser"})
	isValidation(t, err)

	user, err := svc.CreateUser(ctx, &models.CreateUserRequest{Name: "A", Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleOperator, user.Role)
	assert.True(t, user.IsActive)

	_, err = svc.CreateUser(ctx, &models.CreateUserRequest{Name: "B", Email: "A@B.com", Password: "pw"})
	assert.True(t, apperrors.IsConflict(err))
}

func TestLoginIssuesSessionAndLogsIt(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &models.CreateUserRequest{
		Name: "Ops", Email: "ops@example.com", Password: "secret", Role: models.RoleAdmin,
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, &models.LoginRequest{Email: "ops@example.com", Password: "secret"}, "10.0.0.1", "go-test")
	require.NoError(t, err)
	require.NotNil(t, result.Auth)
	assert.False(t, result.Requires2FA)
	assert.NotEmpty(t, result.Auth.Token)
	assert.Equal(t, user.ID, result.Auth.User.ID)

	logs, err := svc.LoginLogs.ListByUser(ctx, user.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "10.0.0.1", logs[0].IPAddress)
	assert.Nil(t, logs[0].LogoutTime)

	require.NoError(t, svc.Logout(ctx, user.ID))
	logs, err = svc.LoginLogs.ListByUser(ctx, user.ID, 10)
	require.NoError(t, err)
	assert.NotNil(t, logs[0].LogoutTime)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, &models.CreateUserRequest{Name: "Ops", Email: "ops@example.com", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "ops@example.com", Password: "wrong"}, "", "")
	isValidation(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret"}, "", "")
	isValidation(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "", Password: ""}, "", "")
	isValidation(t, err)
}

func TestLoginSuspendedAccount(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &models.CreateUserRequest{Name: "Ops", Email: "ops@example.com", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, user.ID, &models.UpdateUserRequest{IsActive: false})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "ops@example.com", Password: "secret"}, "", "")
	isValidation(t, err)
}

func TestLoginWith2FARequiresCompletion(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &models.CreateUserRequest{Name: "Ops", Email: "ops@example.com", Password: "secret"})
	require.NoError(t, err)
	require.NoError(t, svc.Repo.SetTOTP(ctx, user.ID, "JBSWY3DPEHPK3PXP", true))

	result, err := svc.Login(ctx, &models.LoginRequest{Email: "ops@example.com", Password: "secret"}, "10.0.0.1", "go-test")
	require.NoError(t, err)
	assert.True(t, result.Requires2FA)
	assert.Nil(t, result.Auth)
	assert.NotEmpty(t, result.TempToken)

	// No session log until verification completes
	logs, err := svc.LoginLogs.ListByUser(ctx, user.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)

	claims, err := svc.JWTManager.ValidateTempToken(result.TempToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	completed, err := svc.CompleteLogin(ctx, claims.UserID, "10.0.0.1", "go-test")
	require.NoError(t, err)
	require.NotNil(t, completed.Auth)
	assert.NotEmpty(t, completed.Auth.Token)

	logs, err = svc.LoginLogs.ListByUser(ctx, user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestChangePassword(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &models.CreateUserRequest{Name: "Ops", Email: "ops@example.com", Password: "old-pass"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrong", "new-pass")
	isValidation(t, err)

	err = svc.ChangePassword(ctx, user.ID, "old-pass", "")
	isValidation(t, err)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "old-pass", "new-pass"))

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "ops@example.com", Password: "old-pass"}, "", "")
	assert.Error(t, err)
	result, err := svc.Login(ctx, &models.LoginRequest{Email: "ops@example.com", Password: "new-pass"}, "", "")
	require.NoError(t, err)
	assert.NotNil(t, result.Auth)
}
