package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"image/png"
	"time"

	"tta-backend/internal/auth"
	"tta-backend/internal/models"
	"tta-backend/internal/repositories"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

const (
	totpIssuer        = "TTA Dashboard"
	backupCodeCount   = 10
	backupCodeLength  = 8
	maxFailedAttempts = 5
	rateLimitWindow   = 15 * time.Minute
)

type TOTPService struct {
	userRepo repositories.UserStore
	totpRepo repositories.TOTPStore
}

func NewTOTPService(userRepo repositories.UserStore, totpRepo repositories.TOTPStore) *TOTPService {
	return &TOTPService{
		userRepo: userRepo,
		totpRepo: totpRepo,
	}
}

// GenerateSetup creates a new TOTP secret and QR code for a user
func (s *TOTPService) GenerateSetup(ctx context.Context, user *models.User) (*models.TOTPSetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	// Store the secret (not yet enabled)
	if err := s.userRepo.SetTOTP(ctx, user.ID, key.Secret(), false); err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}
	qrBase64 := base64.StdEncoding.EncodeToString(buf.Bytes())

	return &models.TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + qrBase64,
		Issuer:      totpIssuer,
		AccountName: user.Email,
	}, nil
}

// VerifyAndEnable verifies a TOTP code and enables 2FA for the user
func (s *TOTPService) VerifyAndEnable(ctx context.Context, userID int, code string, ipAddress string) (*models.BackupCodesResponse, error) {
	if exceeded, err := s.isRateLimited(ctx, userID); err != nil {
		return nil, err
	} else if exceeded {
		return nil, ErrTooManyAttempts
	}

	secret, err := s.userRepo.GetTOTPSecret(ctx, userID)
	if err != nil {
		return nil, err
	}
	if secret == "" {
		return nil, ErrNoTOTPSecret
	}

	if !totp.Validate(code, secret) {
		s.totpRepo.LogVerificationAttempt(ctx, userID, ipAddress, false)
		return nil, ErrInvalidTOTPCode
	}
	s.totpRepo.LogVerificationAttempt(ctx, userID, ipAddress, true)

	if err := s.userRepo.SetTOTP(ctx, userID, secret, true); err != nil {
		return nil, err
	}

	codes, err := s.generateBackupCodes(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.BackupCodesResponse{Codes: codes}, nil
}

// Verify validates a TOTP code or backup code during login
func (s *TOTPService) Verify(ctx context.Context, userID int, code string, ipAddress string) (bool, error) {
	if exceeded, err := s.isRateLimited(ctx, userID); err != nil {
		return false, err
	} else if exceeded {
		return false, ErrTooManyAttempts
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	secret, err := s.userRepo.GetTOTPSecret(ctx, userID)
	if err != nil {
		return false, err
	}
	if !user.TOTPEnabled || secret == "" {
		return false, ErrTOTPNotEnabled
	}

	// Try TOTP code first
	if totp.Validate(code, secret) {
		s.totpRepo.LogVerificationAttempt(ctx, userID, ipAddress, true)
		return true, nil
	}

	// Fall back to backup codes
	if s.verifyAndConsumeBackupCode(ctx, userID, code) {
		s.totpRepo.LogVerificationAttempt(ctx, userID, ipAddress, true)
		return true, nil
	}

	s.totpRepo.LogVerificationAttempt(ctx, userID, ipAddress, false)
	return false, ErrInvalidTOTPCode
}

// Disable disables 2FA for a user after verifying password and current TOTP code
func (s *TOTPService) Disable(ctx context.Context, userID int, password, code string) error {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return ErrInvalidPassword
	}

	secret, err := s.userRepo.GetTOTPSecret(ctx, userID)
	if err != nil {
		return err
	}
	if !totp.Validate(code, secret) {
		return ErrInvalidTOTPCode
	}

	if err := s.totpRepo.ReplaceBackupCodes(ctx, userID, nil); err != nil {
		return err
	}
	return s.userRepo.SetTOTP(ctx, userID, "", false)
}

// RegenerateBackupCodes creates new backup codes (invalidates old ones)
func (s *TOTPService) RegenerateBackupCodes(ctx context.Context, userID int, password string) (*models.BackupCodesResponse, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidPassword
	}
	if !user.TOTPEnabled {
		return nil, ErrTOTPNotEnabled
	}

	codes, err := s.generateBackupCodes(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.BackupCodesResponse{Codes: codes}, nil
}

// GetStatus returns the 2FA status for a user
func (s *TOTPService) GetStatus(ctx context.Context, userID int) (*models.User2FAStatus, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	remaining, err := s.totpRepo.GetUnusedBackupCodes(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.User2FAStatus{
		Enabled:        user.TOTPEnabled,
		HasBackupCodes: len(remaining) > 0,
	}, nil
}

// generateBackupCodes creates a fresh backup code set and stores the hashes
func (s *TOTPService) generateBackupCodes(ctx context.Context, userID int) ([]string, error) {
	codes := make([]string, backupCodeCount)
	hashes := make([]string, backupCodeCount)

	for i := 0; i < backupCodeCount; i++ {
		code := generateRandomCode(backupCodeLength)
		codes[i] = code

		hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashes[i] = string(hash)
	}

	if err := s.totpRepo.ReplaceBackupCodes(ctx, userID, hashes); err != nil {
		return nil, err
	}
	return codes, nil
}

// verifyAndConsumeBackupCode checks the code against the unused backup
// codes and consumes the match so it cannot be replayed
func (s *TOTPService) verifyAndConsumeBackupCode(ctx context.Context, userID int, code string) bool {
	unused, err := s.totpRepo.GetUnusedBackupCodes(ctx, userID)
	if err != nil {
		return false
	}

	for id, hash := range unused {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil {
			s.totpRepo.MarkBackupCodeUsed(ctx, id)
			return true
		}
	}
	return false
}

// isRateLimited checks if the user has exceeded the failed attempt limit
func (s *TOTPService) isRateLimited(ctx context.Context, userID int) (bool, error) {
	attempts, err := s.totpRepo.GetRecentFailedAttempts(ctx, userID, rateLimitWindow)
	if err != nil {
		return false, err
	}
	return attempts >= maxFailedAttempts, nil
}

// generateRandomCode creates a random alphanumeric code
func generateRandomCode(length int) string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // Excludes similar chars: I, O, 0, 1
	code := make([]byte, length)
	randomBytes := make([]byte, length)
	rand.Read(randomBytes)
	for i := range code {
		code[i] = charset[int(randomBytes[i])%len(charset)]
	}
	return string(code)
}

// Custom errors
var (
	ErrTooManyAttempts = &TOTPError{Message: "too many failed attempts, please try again later"}
	ErrNoTOTPSecret    = &TOTPError{Message: "2FA setup not initiated"}
	ErrInvalidTOTPCode = &TOTPError{Message: "invalid verification code"}
	ErrTOTPNotEnabled  = &TOTPError{Message: "2FA is not enabled"}
	ErrInvalidPassword = &TOTPError{Message: "invalid password"}
)

type TOTPError struct {
	Message string
}

func (e *TOTPError) Error() string {
	return e.Message
}
