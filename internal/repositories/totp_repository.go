package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TOTPRepository struct {
	DB *pgxpool.Pool
}

func NewTOTPRepository(db *pgxpool.Pool) *TOTPRepository {
	return &TOTPRepository{DB: db}
}

// LogVerificationAttempt records a 2FA verification attempt for rate limiting
func (r *TOTPRepository) LogVerificationAttempt(ctx context.Context, userID int, ipAddress string, success bool) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO totp_verification_attempts (user_id, ip_address, success) VALUES ($1, $2, $3)`,
		userID, ipAddress, success)
	return err
}

// GetRecentFailedAttempts returns failed attempt count for a user in time window
func (r *TOTPRepository) GetRecentFailedAttempts(ctx context.Context, userID int, window time.Duration) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM totp_verification_attempts
		 WHERE user_id = $1 AND success = false AND created_at > $2`,
		userID, time.Now().Add(-window)).Scan(&count)
	return count, err
}

// ReplaceBackupCodes deletes any existing backup codes for a user and
// stores a fresh set of hashes
func (r *TOTPRepository) ReplaceBackupCodes(ctx context.Context, userID int, codeHashes []string) error {
	if _, err := r.DB.Exec(ctx,
		`DELETE FROM totp_backup_codes WHERE user_id=$1`, userID); err != nil {
		return err
	}
	for _, hash := range codeHashes {
		if _, err := r.DB.Exec(ctx,
			`INSERT INTO totp_backup_codes (user_id, code_hash) VALUES ($1, $2)`,
			userID, hash); err != nil {
			return err
		}
	}
	return nil
}

// GetUnusedBackupCodes returns the stored hashes not yet consumed
func (r *TOTPRepository) GetUnusedBackupCodes(ctx context.Context, userID int) (map[int]string, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, code_hash FROM totp_backup_codes WHERE user_id=$1 AND used_at IS NULL`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := make(map[int]string)
	for rows.Next() {
		var id int
		var hash string
		if err := rows.Scan(&id, &hash); err != nil {
			return nil, err
		}
		codes[id] = hash
	}
	return codes, rows.Err()
}

// MarkBackupCodeUsed consumes a backup code so it cannot be replayed
func (r *TOTPRepository) MarkBackupCodeUsed(ctx context.Context, codeID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE totp_backup_codes SET used_at=NOW() WHERE id=$1`, codeID)
	return err
}

// CleanupOldAttempts removes attempts older than 24 hours
func (r *TOTPRepository) CleanupOldAttempts(ctx context.Context) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM totp_verification_attempts WHERE created_at < NOW() - INTERVAL '24 hours'`)
	return err
}
