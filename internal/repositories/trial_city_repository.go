package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"tta-backend/internal/models"
)

type TrialCityRepository struct {
	DB *pgxpool.Pool
}

func NewTrialCityRepository(db *pgxpool.Pool) *TrialCityRepository {
	return &TrialCityRepository{DB: db}
}

const trialCityColumns = `code, state, region, city,
	assigned_rep, ground_location, ground_verified,
	trial_type, trial_date, trial_month, comment, next_trial_date,
	scout_name, scout_phone, scout_backup_name,
	last_reverified, created_at, updated_at`

func scanTrialCity(row interface{ Scan(...any) error }) (*models.TrialCity, error) {
	var city models.TrialCity
	err := row.Scan(&city.Code, &city.State, &city.Region, &city.City,
		&city.AssignedREP, &city.GroundLocation, &city.GroundVerified,
		&city.TrialType, &city.TrialDate, &city.TrialMonth, &city.Comment, &city.NextTrialDate,
		&city.ScoutName, &city.ScoutPhone, &city.ScoutBackupName,
		&city.LastReverified, &city.CreatedAt, &city.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *TrialCityRepository) Create(ctx context.Context, city *models.TrialCity) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO trial_cities(code, state, region, city,
            assigned_rep, ground_location, ground_verified,
            trial_type, trial_date, trial_month, comment, next_trial_date,
            scout_name, scout_phone, scout_backup_name)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
         RETURNING created_at, updated_at`,
		city.Code, city.State, city.Region, city.City,
		city.AssignedREP, city.GroundLocation, city.GroundVerified,
		city.TrialType, city.TrialDate, city.TrialMonth, city.Comment, city.NextTrialDate,
		city.ScoutName, city.ScoutPhone, city.ScoutBackupName,
	).Scan(&city.CreatedAt, &city.UpdatedAt)
	return translateErr(err, "trial city")
}

func (r *TrialCityRepository) Get(ctx context.Context, code string) (*models.TrialCity, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+trialCityColumns+` FROM trial_cities WHERE code=$1`, code)
	city, err := scanTrialCity(row)
	if err != nil {
		return nil, translateErr(err, "trial city")
	}
	return city, nil
}

func (r *TrialCityRepository) List(ctx context.Context) ([]*models.TrialCity, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+trialCityColumns+` FROM trial_cities ORDER BY code ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []*models.TrialCity
	for rows.Next() {
		city, err := scanTrialCity(rows)
		if err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

// Update leaves code, state and city untouched. They are locked after creation.
func (r *TrialCityRepository) Update(ctx context.Context, city *models.TrialCity) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE trial_cities SET region=$1,
            assigned_rep=$2, ground_location=$3, ground_verified=$4,
            trial_type=$5, trial_date=$6, trial_month=$7, comment=$8, next_trial_date=$9,
            scout_name=$10, scout_phone=$11, scout_backup_name=$12,
            last_reverified=$13, updated_at=CURRENT_TIMESTAMP
         WHERE code=$14`,
		city.Region,
		city.AssignedREP, city.GroundLocation, city.GroundVerified,
		city.TrialType, city.TrialDate, city.TrialMonth, city.Comment, city.NextTrialDate,
		city.ScoutName, city.ScoutPhone, city.ScoutBackupName,
		city.LastReverified, city.Code)
	if err != nil {
		return translateErr(err, "trial city")
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows, "trial city")
	}
	return nil
}

func (r *TrialCityRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM trial_cities WHERE code=$1`, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows, "trial city")
	}
	return nil
}
