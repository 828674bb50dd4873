package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"tta-backend/internal/models"
)

// ProfileRepository stores per-user dashboard profile extensions keyed
// by email.
type ProfileRepository struct {
	DB *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) Get(ctx context.Context, email string) (*models.ProfileExtension, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT email, display_name, designation, photo_url, updated_at
         FROM profile_extensions WHERE email=$1`, email)

	var p models.ProfileExtension
	err := row.Scan(&p.Email, &p.DisplayName, &p.Designation, &p.PhotoURL, &p.UpdatedAt)
	if err != nil {
		return nil, translateErr(err, "profile")
	}
	return &p, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *models.ProfileExtension) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO profile_extensions(email, display_name, designation, photo_url, updated_at)
         VALUES($1, $2, $3, $4, CURRENT_TIMESTAMP)
         ON CONFLICT (email) DO UPDATE
         SET display_name=EXCLUDED.display_name, designation=EXCLUDED.designation,
             photo_url=EXCLUDED.photo_url, updated_at=CURRENT_TIMESTAMP
         RETURNING updated_at`,
		p.Email, p.DisplayName, p.Designation, p.PhotoURL,
	).Scan(&p.UpdatedAt)
}
