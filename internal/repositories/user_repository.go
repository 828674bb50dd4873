package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"tta-backend/internal/models"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = "operator" // Default role
	}
	u.IsActive = true
	err := r.DB.QueryRow(ctx,
		`INSERT INTO users(name, email, phone, password_hash, role, is_active)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return translateErr(err, "user")
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, email, phone, password_hash, role, COALESCE(totp_enabled, false), is_active, created_at, updated_at
         FROM users WHERE id=$1`, id)

	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash,
		&user.Role, &user.TOTPEnabled, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translateErr(err, "user")
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, email, phone, password_hash, role, COALESCE(totp_enabled, false), is_active, created_at, updated_at
         FROM users WHERE email=$1`, email)

	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash,
		&user.Role, &user.TOTPEnabled, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translateErr(err, "user")
	}
	return &user, nil
}

// List returns all users
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, email, phone, role, COALESCE(totp_enabled, false), is_active, created_at, updated_at
         FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.Role,
			&user.TOTPEnabled, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// Update updates an existing user without touching the password
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE users SET name=$1, email=$2, phone=$3, role=$4, is_active=$5, updated_at=CURRENT_TIMESTAMP
         WHERE id=$6`,
		u.Name, u.Email, u.Phone, u.Role, u.IsActive, u.ID)
	if err != nil {
		return translateErr(err, "user")
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows, "user")
	}
	return nil
}

// UpdatePassword sets a new password hash for a user
func (r *UserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE users SET password_hash=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows, "user")
	}
	return nil
}

// SetTOTP stores the TOTP secret and enabled flag together
func (r *UserRepository) SetTOTP(ctx context.Context, id int, secret string, enabled bool) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET totp_secret=$1, totp_enabled=$2, updated_at=CURRENT_TIMESTAMP WHERE id=$3`,
		nullIfEmpty(secret), enabled, id)
	return err
}

// GetTOTPSecret returns the stored TOTP secret, empty if none
func (r *UserRepository) GetTOTPSecret(ctx context.Context, id int) (string, error) {
	var secret string
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(totp_secret, '') FROM users WHERE id=$1`, id).Scan(&secret)
	if err != nil {
		return "", translateErr(err, "user")
	}
	return secret, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows, "user")
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
