package repositories

import (
	"context"
	"time"

	"tta-backend/internal/models"
)

// Stores are the persistence contracts the service layer depends on.
// Postgres implementations live alongside in this package; in-memory
// implementations back the memory run mode and the test suite.

type REPStore interface {
	Create(ctx context.Context, rep *models.REP) error
	Get(ctx context.Context, id int) (*models.REP, error)
	List(ctx context.Context) ([]*models.REP, error)
	Update(ctx context.Context, rep *models.REP) error
	Delete(ctx context.Context, id int) error
}

type TrialStore interface {
	Create(ctx context.Context, trial *models.Trial) error
	Get(ctx context.Context, id int) (*models.Trial, error)
	List(ctx context.Context) ([]*models.Trial, error)
	Update(ctx context.Context, trial *models.Trial) error
	Delete(ctx context.Context, id int) error
	NameExists(ctx context.Context, name string) (bool, error)
}

type TrialCityStore interface {
	Create(ctx context.Context, city *models.TrialCity) error
	Get(ctx context.Context, code string) (*models.TrialCity, error)
	List(ctx context.Context) ([]*models.TrialCity, error)
	Update(ctx context.Context, city *models.TrialCity) error
	Delete(ctx context.Context, code string) error
}

type VendorStore interface {
	Create(ctx context.Context, vendor *models.Vendor) error
	Get(ctx context.Context, id int) (*models.Vendor, error)
	List(ctx context.Context) ([]*models.Vendor, error)
	Update(ctx context.Context, vendor *models.Vendor) error
	Delete(ctx context.Context, id int) error
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	SetTOTP(ctx context.Context, id int, secret string, enabled bool) error
	GetTOTPSecret(ctx context.Context, id int) (string, error)
	Delete(ctx context.Context, id int) error
}

type LoginLogStore interface {
	CreateLoginLog(ctx context.Context, userID int, ipAddress, userAgent string) (int, error)
	UpdateLogoutTimeByUser(ctx context.Context, userID int) error
	ListByUser(ctx context.Context, userID int, limit int) ([]*models.LoginLog, error)
}

type TOTPStore interface {
	LogVerificationAttempt(ctx context.Context, userID int, ipAddress string, success bool) error
	GetRecentFailedAttempts(ctx context.Context, userID int, window time.Duration) (int, error)
	ReplaceBackupCodes(ctx context.Context, userID int, codeHashes []string) error
	GetUnusedBackupCodes(ctx context.Context, userID int) (map[int]string, error)
	MarkBackupCodeUsed(ctx context.Context, codeID int) error
	CleanupOldAttempts(ctx context.Context) error
}

type ProfileStore interface {
	Get(ctx context.Context, email string) (*models.ProfileExtension, error)
	Upsert(ctx context.Context, p *models.ProfileExtension) error
}

type TierPaymentStore interface {
	Create(ctx context.Context, p *models.TierPayment) error
	GetByOrderID(ctx context.Context, orderID string) (*models.TierPayment, error)
	Update(ctx context.Context, p *models.TierPayment) error
	ListByTrial(ctx context.Context, trialID int) ([]*models.TierPayment, error)
}

// SequenceStore hands out the next sequence number for a code prefix.
// Next is atomic per prefix; Seed initializes a prefix counter only when
// it is absent or behind the given value.
type SequenceStore interface {
	Next(ctx context.Context, prefix string) (int, error)
	Seed(ctx context.Context, prefix string, lastSeq int) error
}
