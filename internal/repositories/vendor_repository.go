package repositories

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"tta-backend/internal/models"
)

// VendorRepository stores independent vendors only. REP-sourced vendor
// rows are projected by the service layer and never hit this table.
type VendorRepository struct {
	DB *pgxpool.Pool
}

func NewVendorRepository(db *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{DB: db}
}

const vendorColumns = `id, name, type,
	gst_number, gst_verified, pan_number, pan_verified,
	contact_person, contact_phone, contact_email, address,
	bank_name, bank_account, bank_ifsc, status, created_at, updated_at`

func scanVendor(row interface{ Scan(...any) error }) (*models.Vendor, error) {
	var v models.Vendor
	var id int
	err := row.Scan(&id, &v.Name, &v.Type,
		&v.GSTNumber, &v.GSTVerified, &v.PANNumber, &v.PANVerified,
		&v.ContactPerson, &v.ContactPhone, &v.ContactEmail, &v.Address,
		&v.BankName, &v.BankAccount, &v.BankIFSC, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.ID = strconv.Itoa(id)
	v.Source = models.VendorSourceIndependent
	return &v, nil
}

func (r *VendorRepository) Create(ctx context.Context, v *models.Vendor) error {
	var id int
	err := r.DB.QueryRow(ctx,
		`INSERT INTO vendors(name, type,
            gst_number, gst_verified, pan_number, pan_verified,
            contact_person, contact_phone, contact_email, address,
            bank_name, bank_account, bank_ifsc, status)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
         RETURNING id, created_at, updated_at`,
		v.Name, v.Type,
		v.GSTNumber, v.GSTVerified, v.PANNumber, v.PANVerified,
		v.ContactPerson, v.ContactPhone, v.ContactEmail, v.Address,
		v.BankName, v.BankAccount, v.BankIFSC, v.Status,
	).Scan(&id, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return translateErr(err, "vendor")
	}
	v.ID = strconv.Itoa(id)
	v.Source = models.VendorSourceIndependent
	return nil
}

func (r *VendorRepository) Get(ctx context.Context, id int) (*models.Vendor, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id=$1`, id)
	v, err := scanVendor(row)
	if err != nil {
		return nil, translateErr(err, "vendor")
	}
	return v, nil
}

func (r *VendorRepository) List(ctx context.Context) ([]*models.Vendor, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+vendorColumns+` FROM vendors ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []*models.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *VendorRepository) Update(ctx context.Context, v *models.Vendor) error {
	id, err := strconv.Atoi(v.ID)
	if err != nil {
		return translateErr(errNoRows, "vendor")
	}
	tag, err := r.DB.Exec(ctx,
		`UPDATE vendors SET name=$1, type=$2,
            gst_number=$3, gst_verified=$4, pan_number=$5, pan_verified=$6,
            contact_person=$7, contact_phone=$8, contact_email=$9, address=$10,
            bank_name=$11, bank_account=$12, bank_ifsc=$13, status=$14, updated_at=CURRENT_TIMESTAMP
         WHERE id=$15`,
		v.Name, v.Type,
		v.GSTNumber, v.GSTVerified, v.PANNumber, v.PANVerified,
		v.ContactPerson, v.ContactPhone, v.ContactEmail, v.Address,
		v.BankName, v.BankAccount, v.BankIFSC, v.Status, id)
	if err != nil {
		return translateErr(err, "vendor")
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows, "vendor")
	}
	return nil
}

func (r *VendorRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM vendors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return translateErr(errNoRows, "vendor")
	}
	return nil
}
