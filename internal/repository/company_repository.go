package repository

import (
	"context"
	"database/sql"

	"github.com/nivaan/health-booking-admin/internal/model"
)

// CompanyRepo provides CRUD for the tenant table.  Soft-deleted companies
// stay out of every query.
type CompanyRepo struct{ db *sql.DB }

// NewCompanyRepo returns a new CompanyRepo bound to the given database.
func NewCompanyRepo(db *sql.DB) *CompanyRepo { return &CompanyRepo{db: db} }

// Create inserts a company and populates its generated ID.
func (r *CompanyRepo) Create(ctx context.Context, c *model.Company) error {
	const q = `INSERT INTO companies
		(name, short_name, contact_name, contact_email, contact_phone, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		c.Name, c.ShortName, c.ContactName, c.ContactEmail, c.ContactPhone, c.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

const companySelect = `SELECT id, name, short_name, contact_name, contact_email,
	contact_phone, is_active, created_at, updated_at
	FROM companies WHERE deleted_at IS NULL`

func scanCompany(row interface{ Scan(...any) error }) (*model.Company, error) {
	var c model.Company
	err := row.Scan(&c.ID, &c.Name, &c.ShortName, &c.ContactName, &c.ContactEmail,
		&c.ContactPhone, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID returns one active company or sql.ErrNoRows.
func (r *CompanyRepo) GetByID(ctx context.Context, id uint64) (*model.Company, error) {
	return scanCompany(r.db.QueryRowContext(ctx, companySelect+` AND id = ?`, id))
}

// List returns all active companies ordered by name.
func (r *CompanyRepo) List(ctx context.Context) ([]model.Company, error) {
	rows, err := r.db.QueryContext(ctx, companySelect+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the editable fields of a company.
func (r *CompanyRepo) Update(ctx context.Context, c *model.Company) error {
	const q = `UPDATE companies
		SET name = ?, short_name = ?, contact_name = ?, contact_email = ?,
		    contact_phone = ?, is_active = ?
		WHERE id = ? AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q,
		c.Name, c.ShortName, c.ContactName, c.ContactEmail, c.ContactPhone, c.IsActive, c.ID)
	if err != nil {
		return err
	}
	return requireRow(ctx, res, r.db, `SELECT 1 FROM companies WHERE id = ? AND deleted_at IS NULL`, c.ID)
}

// SoftDelete marks a company deleted.
func (r *CompanyRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE companies SET deleted_at = UTC_TIMESTAMP() WHERE id = ? AND deleted_at IS NULL`, id)
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

// requireRow treats "zero rows affected" as sql.ErrNoRows unless the row
// still exists (an update writing identical values affects zero rows on
// MySQL).
func requireRow(ctx context.Context, res sql.Result, db *sql.DB, probe string, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var one int
	return db.QueryRowContext(ctx, probe, args...).Scan(&one)
}
