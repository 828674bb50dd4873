package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"tta-backend/internal/models"
)

type REPRepository struct {
	DB *pgxpool.Pool
}

func NewREPRepository(db *pgxpool.Pool) *REPRepository {
	return &REPRepository{DB: db}
}

const repColumns = `id, name, state, city, season, region, status,
	contact_name, contact_phone, contact_email,
	backup_contact_name, backup_contact_phone, backup_contact_email,
	physical_address, ground_location, pin_code,
	pan_card, gst_no, mou_status, mou_document_url, logo_url,
	assigned_trials, created_at, updated_at`

func scanREP(row interface{ Scan(...any) error }) (*models.REP, error) {
	var rep models.REP
	var trials []byte
	err := row.Scan(&rep.ID, &rep.Name, &rep.State, &rep.City, &rep.Season, &rep.Region, &rep.Status,
		&rep.ContactName, &rep.ContactPhone, &rep.ContactEmail,
		&rep.BackupContactName, &rep.BackupContactPhone, &rep.BackupContactEmail,
		&rep.PhysicalAddress, &rep.GroundLocation, &rep.PinCode,
		&rep.PANCard, &rep.GSTNo, &rep.MOUStatus, &rep.MOUDocumentURL, &rep.LogoURL,
		&trials, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(trials, &rep.AssignedTrials); err != nil {
		return nil, err
	}
	if rep.AssignedTrials == nil {
		rep.AssignedTrials = []models.AssignedTrial{}
	}
	return &rep, nil
}

func (r *REPRepository) Create(ctx context.Context, rep *models.REP) error {
	trials, err := json.Marshal(rep.AssignedTrials)
	if err != nil {
		return err
	}
	err = r.DB.QueryRow(ctx,
		`INSERT INTO reps(name, state, city, season, region, status,
            contact_name, contact_phone, contact_email,
            backup_contact_name, backup_contact_phone, backup_contact_email,
            physical_address, ground_location, pin_code,
            pan_card, gst_no, mou_status, mou_document_url, logo_url, assigned_trials)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
         RETURNING id, created_at, updated_at`,
		rep.Name, rep.State, rep.City, rep.Season, rep.Region, rep.Status,
		rep.ContactName, rep.ContactPhone, rep.ContactEmail,
		rep.BackupContactName, rep.BackupContactPhone, rep.BackupContactEmail,
		rep.PhysicalAddress, rep.GroundLocation, rep.PinCode,
		rep.PANCard, rep.GSTNo, rep.MOUStatus, rep.MOUDocumentURL, rep.LogoURL, trials,
	).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
	return translateErr(err, "rep")
}

func (r *REPRepository) Get(ctx context.Context, id int) (*models.REP, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+repColumns+` FROM reps WHERE id=$1`, id)
	rep, err := scanREP(row)
	if err != nil {
		return nil, translateErr(err, "rep")
	}
	return rep, nil
}

func (r *REPRepository) List(ctx context.Context) ([]*models.REP, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+repColumns+` FROM reps ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reps []*models.REP
	for rows.Next() {
		rep, err := scanREP(rows)
		if err != nil {
			return nil, err
		}
		reps = append(reps, rep)
	}
	return reps, rows.Err()
}

func (r *REPRepository) Update(ctx context.Context, rep *models.REP) error {
	trials, err := json.Marshal(rep.AssignedTrials)
	if err != nil {
		return err
	}
	tag, err := r.DB.Exec(ctx,
		`UPDATE reps SET name=$1, state=$2, city=$3, season=$4, region=$5, status=$6,
            contact_name=$7, contact_phone=$8, contact_email=$9,
            backup_contact_name=$10, backup_contact_phone=$11, backup_contact_email=$12,
            physical_address=$13, ground_location=$14, pin_code=$15,
            pan_card=$16, gst_no=$17, mou_status=$18, mou_document_url=$19, logo_url=$20,
            assigned_trials=$21, updated_at=CURRENT_TIMESTAMP
         WHERE id=$22`,
		rep.Name, rep.State, rep.City, rep.Season, rep.Region, rep.Status,
		rep.ContactName, rep.ContactPhone, rep.ContactEmail,
		rep.BackupContactName, rep.BackupContactPhone, rep.BackupContactEmail,
		rep.PhysicalAddress, rep.GroundLocation, rep.PinCode,
		rep.PANCard, rep.GSTNo, rep.MOUStatus, rep.MOUDocumentURL, rep.LogoURL,
		trials, rep.ID)
	if err != nil {
		return translateErr(err, "rep")
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows, "rep")
	}
	return nil
}

func (r *REPRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM reps WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows, "rep")
	}
	return nil
}
