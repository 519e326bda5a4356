package repository

import (
	"context"
	"database/sql"

	"github.com/nivaan/health-booking-admin/internal/model"
)

// OfficeRepo provides CRUD for company offices.
type OfficeRepo struct{ db *sql.DB }

// NewOfficeRepo returns a new OfficeRepo bound to the given database.
func NewOfficeRepo(db *sql.DB) *OfficeRepo { return &OfficeRepo{db: db} }

// Create inserts an office and populates its generated ID.
func (r *OfficeRepo) Create(ctx context.Context, o *model.CompanyOffice) error {
	const q = `INSERT INTO company_offices
		(company_id, name, address1, address2, city, state, pincode,
		 spoc_name, spoc_email, spoc_phone, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		o.CompanyID, o.Name, o.Address1, o.Address2, o.City, o.State, o.Pincode,
		o.SpocName, o.SpocEmail, o.SpocPhone, o.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

const officeSelect = `SELECT id, company_id, name, address1, address2, city, state,
	pincode, spoc_name, spoc_email, spoc_phone, is_active, created_at, updated_at
	FROM company_offices WHERE deleted_at IS NULL`

func scanOffice(row interface{ Scan(...any) error }) (*model.CompanyOffice, error) {
	var o model.CompanyOffice
	err := row.Scan(&o.ID, &o.CompanyID, &o.Name, &o.Address1, &o.Address2, &o.City,
		&o.State, &o.Pincode, &o.SpocName, &o.SpocEmail, &o.SpocPhone,
		&o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID returns one active office or sql.ErrNoRows.
func (r *OfficeRepo) GetByID(ctx context.Context, id uint64) (*model.CompanyOffice, error) {
	return scanOffice(r.db.QueryRowContext(ctx, officeSelect+` AND id = ?`, id))
}

// ListByCompany returns the active offices of one company ordered by name.
func (r *OfficeRepo) ListByCompany(ctx context.Context, companyID uint64) ([]model.CompanyOffice, error) {
	rows, err := r.db.QueryContext(ctx, officeSelect+` AND company_id = ? ORDER BY name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CompanyOffice, 0)
	for rows.Next() {
		o, err := scanOffice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the editable fields of an office.
func (r *OfficeRepo) Update(ctx context.Context, o *model.CompanyOffice) error {
	const q = `UPDATE company_offices
		SET name = ?, address1 = ?, address2 = ?, city = ?, state = ?, pincode = ?,
		    spoc_name = ?, spoc_email = ?, spoc_phone = ?, is_active = ?
		WHERE id = ? AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q,
		o.Name, o.Address1, o.Address2, o.City, o.State, o.Pincode,
		o.SpocName, o.SpocEmail, o.SpocPhone, o.IsActive, o.ID)
	if err != nil {
		return err
	}
	return requireRow(ctx, res, r.db, `SELECT 1 FROM company_offices WHERE id = ? AND deleted_at IS NULL`, o.ID)
}

// SoftDelete marks an office deleted.
func (r *OfficeRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE company_offices SET deleted_at = UTC_TIMESTAMP() WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
