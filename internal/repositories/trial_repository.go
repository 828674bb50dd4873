package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"tta-backend/internal/models"
)

type TrialRepository struct {
	DB *pgxpool.Pool
}

func NewTrialRepository(db *pgxpool.Pool) *TrialRepository {
	return &TrialRepository{DB: db}
}

const trialColumns = `id, name, trial_code, season, trial_type,
	tier_type, tier_details, tier_amount, expected_participants,
	schedule_type, start_date, end_date, tentative_month, tentative_date_range, next_trial_date,
	status, comment, assigned_cities, created_by, created_at, updated_at`

func scanTrial(row interface{ Scan(...any) error }) (*models.Trial, error) {
	var trial models.Trial
	var cities []byte
	err := row.Scan(&trial.ID, &trial.Name, &trial.TrialCode, &trial.Season, &trial.TrialType,
		&trial.TierType, &trial.TierDetails, &trial.TierAmount, &trial.ExpectedParticipants,
		&trial.ScheduleType, &trial.StartDate, &trial.EndDate, &trial.TentativeMonth,
		&trial.TentativeDateRange, &trial.NextTrialDate,
		&trial.Status, &trial.Comment, &cities, &trial.CreatedBy, &trial.CreatedAt, &trial.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cities, &trial.AssignedCities); err != nil {
		return nil, err
	}
	if trial.AssignedCities == nil {
		trial.AssignedCities = []models.AssignedCity{}
	}
	return &trial, nil
}

func (r *TrialRepository) Create(ctx context.Context, trial *models.Trial) error {
	cities, err := json.Marshal(trial.AssignedCities)
	if err != nil {
		return err
	}
	err = r.DB.QueryRow(ctx,
		`INSERT INTO trials(name, trial_code, season, trial_type,
            tier_type, tier_details, tier_amount, expected_participants,
            schedule_type, start_date, end_date, tentative_month, tentative_date_range, next_trial_date,
            status, comment, assigned_cities, created_by)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
         RETURNING id, created_at, updated_at`,
		trial.Name, trial.TrialCode, trial.Season, trial.TrialType,
		trial.TierType, trial.TierDetails, trial.TierAmount, trial.ExpectedParticipants,
		trial.ScheduleType, trial.StartDate, trial.EndDate, trial.TentativeMonth,
		trial.TentativeDateRange, trial.NextTrialDate,
		trial.Status, trial.Comment, cities, trial.CreatedBy,
	).Scan(&trial.ID, &trial.CreatedAt, &trial.UpdatedAt)
	return translateErr(err, "trial")
}

func (r *TrialRepository) Get(ctx context.Context, id int) (*models.Trial, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+trialColumns+` FROM trials WHERE id=$1`, id)
	trial, err := scanTrial(row)
	if err != nil {
		return nil, translateErr(err, "trial")
	}
	return trial, nil
}

func (r *TrialRepository) List(ctx context.Context) ([]*models.Trial, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+trialColumns+` FROM trials ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trials []*models.Trial
	for rows.Next() {
		trial, err := scanTrial(rows)
		if err != nil {
			return nil, err
		}
		trials = append(trials, trial)
	}
	return trials, rows.Err()
}

// Update never touches name or trial_code. Both are immutable after creation.
func (r *TrialRepository) Update(ctx context.Context, trial *models.Trial) error {
	cities, err := json.Marshal(trial.AssignedCities)
	if err != nil {
		return err
	}
	tag, err := r.DB.Exec(ctx,
		`UPDATE trials SET season=$1, trial_type=$2,
            tier_type=$3, tier_details=$4, tier_amount=$5, expected_participants=$6,
            schedule_type=$7, start_date=$8, end_date=$9, tentative_month=$10,
            tentative_date_range=$11, next_trial_date=$12,
            status=$13, comment=$14, assigned_cities=$15, updated_at=CURRENT_TIMESTAMP
         WHERE id=$16`,
		trial.Season, trial.TrialType,
		trial.TierType, trial.TierDetails, trial.TierAmount, trial.ExpectedParticipants,
		trial.ScheduleType, trial.StartDate, trial.EndDate, trial.TentativeMonth,
		trial.TentativeDateRange, trial.NextTrialDate,
		trial.Status, trial.Comment, cities, trial.ID)
	if err != nil {
		return translateErr(err, "trial")
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows, "trial")
	}
	return nil
}

func (r *TrialRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM trials WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows, "trial")
	}
	return nil
}

func (r *TrialRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM trials WHERE LOWER(name)=LOWER($1))`, name,
	).Scan(&exists)
	return exists, err
}
