package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"tta-backend/internal/models"
)

type LoginLogRepository struct {
	DB *pgxpool.Pool
}

func NewLoginLogRepository(db *pgxpool.Pool) *LoginLogRepository {
	return &LoginLogRepository{DB: db}
}

// CreateLoginLog records a new login event
func (r *LoginLogRepository) CreateLoginLog(ctx context.Context, userID int, ipAddress, userAgent string) (int, error) {
	var logID int
	err := r.DB.QueryRow(ctx,
		`INSERT INTO login_logs (user_id, login_time, ip_address, user_agent)
         VALUES ($1, NOW(), $2, $3)
         RETURNING id`,
		userID, ipAddress, userAgent).Scan(&logID)
	if err != nil {
		return 0, err
	}
	return logID, nil
}

// UpdateLogoutTimeByUser records logout for the most recent open login of a user
func (r *LoginLogRepository) UpdateLogoutTimeByUser(ctx context.Context, userID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE login_logs
         SET logout_time = NOW()
         WHERE id = (
             SELECT id FROM login_logs
             WHERE user_id = $1 AND logout_time IS NULL
             ORDER BY login_time DESC
             LIMIT 1
         )`, userID)
	return err
}

// ListByUser returns the most recent login events for a user
func (r *LoginLogRepository) ListByUser(ctx context.Context, userID int, limit int) ([]*models.LoginLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.Query(ctx,
		`SELECT id, user_id, login_time, logout_time, COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at
         FROM login_logs
         WHERE user_id = $1
         ORDER BY login_time DESC
         LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.LoginLog
	for rows.Next() {
		var l models.LoginLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.LoginTime, &l.LogoutTime, &l.IPAddress, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
