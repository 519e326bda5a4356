package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/nivaan/health-booking-admin/internal/model"
)

// CompanyUserRepo provides CRUD for company portal users.  Office
// affiliation is a proper many-to-many through company_user_offices; the
// old delimited office-ID string and its accessor parsing are gone.
type CompanyUserRepo struct{ db *sql.DB }

// NewCompanyUserRepo returns a new CompanyUserRepo bound to the given database.
func NewCompanyUserRepo(db *sql.DB) *CompanyUserRepo { return &CompanyUserRepo{db: db} }

// Create inserts a company user plus their office join rows in one
// transaction.  A duplicate email surfaces as ErrEmailExists.
func (r *CompanyUserRepo) Create(ctx context.Context, u *model.CompanyUser) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO company_users
		(company_id, name, email, phone, password_hash, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		u.CompanyID, u.Name, u.Email, u.Phone, u.PasswordHash, u.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	if err := r.replaceOfficesTx(ctx, tx, u.ID, u.OfficeIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

const companyUserSelect = `SELECT id, company_id, name, email, phone, password_hash,
	is_active, created_at, updated_at
	FROM company_users WHERE deleted_at IS NULL`

func scanCompanyUser(row interface{ Scan(...any) error }) (*model.CompanyUser, error) {
	var u model.CompanyUser
	err := row.Scan(&u.ID, &u.CompanyID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns one active company user with their office IDs populated,
// or sql.ErrNoRows.
func (r *CompanyUserRepo) GetByID(ctx context.Context, id uint64) (*model.CompanyUser, error) {
	u, err := scanCompanyUser(r.db.QueryRowContext(ctx, companyUserSelect+` AND id = ?`, id))
	if err != nil {
		return nil, err
	}
	u.OfficeIDs, err = r.officeIDs(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByEmail returns one active company user for login, with office IDs.
func (r *CompanyUserRepo) GetByEmail(ctx context.Context, email string) (*model.CompanyUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanCompanyUser(r.db.QueryRowContext(ctx, companyUserSelect+` AND email = ?`, email))
	if err != nil {
		return nil, err
	}
	u.OfficeIDs, err = r.officeIDs(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListByCompany returns the active users of one company with office IDs.
func (r *CompanyUserRepo) ListByCompany(ctx context.Context, companyID uint64) ([]model.CompanyUser, error) {
	rows, err := r.db.QueryContext(ctx, companyUserSelect+` AND company_id = ? ORDER BY name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CompanyUser, 0)
	for rows.Next() {
		u, err := scanCompanyUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].OfficeIDs, err = r.officeIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Update overwrites the editable fields and replaces the office join rows.
func (r *CompanyUserRepo) Update(ctx context.Context, u *model.CompanyUser) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `UPDATE company_users
		SET name = ?, email = ?, phone = ?, is_active = ?
		WHERE id = ? AND deleted_at IS NULL`
	if _, err := tx.ExecContext(ctx, q, u.Name, u.Email, u.Phone, u.IsActive, u.ID); err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	if err := r.replaceOfficesTx(ctx, tx, u.ID, u.OfficeIDs); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// SoftDelete marks a company user deleted.  Join rows stay for history.
func (r *CompanyUserRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE company_users SET deleted_at = UTC_TIMESTAMP() WHERE id = ? AND deleted_at IS NULL`, id)
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

// MemberOfOffice reports whether the user is affiliated with the office.
func (r *CompanyUserRepo) MemberOfOffice(ctx context.Context, userID, officeID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM company_user_offices WHERE company_user_id = ? AND office_id = ? LIMIT 1`,
		userID, officeID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *CompanyUserRepo) officeIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT office_id FROM company_user_offices WHERE company_user_id = ? ORDER BY office_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *CompanyUserRepo) replaceOfficesTx(ctx context.Context, tx *sql.Tx, userID uint64, officeIDs []uint64) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM company_user_offices WHERE company_user_id = ?`, userID); err != nil {
		return err
	}
	if len(officeIDs) == 0 {
		return nil
	}
	query := `INSERT INTO company_user_offices (company_user_id, office_id) VALUES `
	args := make([]any, 0, len(officeIDs)*2)
	for i, oid := range officeIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, userID, oid)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
