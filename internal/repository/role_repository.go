package repository

import (
	"context"
	"database/sql"

	"github.com/nivaan/health-booking-admin/internal/model"
)

// RoleRepo manages roles, their permission rows (one per allowed route
// name) and the user_roles assignments of staff accounts.
type RoleRepo struct{ db *sql.DB }

// NewRoleRepo returns a new RoleRepo bound to the given database.
func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{db: db} }

// Create inserts a role and replaces its permission rows in one
// transaction.
func (r *RoleRepo) Create(ctx context.Context, role *model.Role, routeNames []string) error {
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

	res, err := tx.ExecContext(ctx,
		`INSERT INTO roles (name, scope, is_active) VALUES (?, ?, ?)`,
		role.Name, role.Scope, role.IsActive)
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
	role.ID = uint64(id)
	if err := r.replacePermissionsTx(ctx, tx, role.ID, routeNames); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns a role and its permission route names or sql.ErrNoRows.
func (r *RoleRepo) GetByID(ctx context.Context, id uint64) (*model.Role, []string, error) {
	var role model.Role
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, scope, is_active, created_at, updated_at FROM roles WHERE id = ?`, id).
		Scan(&role.ID, &role.Name, &role.Scope, &role.IsActive, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return nil, nil, err
	}
	routes, err := r.routeNames(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return &role, routes, nil
}

// List returns all roles ordered by name.
func (r *RoleRepo) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, scope, is_active, created_at, updated_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Role, 0)
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Scope, &role.IsActive,
			&role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// Update overwrites a role and replaces its permission rows.
func (r *RoleRepo) Update(ctx context.Context, role *model.Role, routeNames []string) error {
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

	if _, err := tx.ExecContext(ctx,
		`UPDATE roles SET name = ?, scope = ?, is_active = ? WHERE id = ?`,
		role.Name, role.Scope, role.IsActive, role.ID); err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if err := r.replacePermissionsTx(ctx, tx, role.ID, routeNames); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a role that is not assigned to anyone; a role still held
// by users is reported as ErrConflict.
func (r *RoleRepo) Delete(ctx context.Context, id uint64) error {
	var assigned int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_roles WHERE role_id = ?`, id).Scan(&assigned); err != nil {
		return err
	}
	if assigned > 0 {
		return ErrConflict
	}
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
	if _, err := tx.ExecContext(ctx, `DELETE FROM permissions WHERE role_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, id)
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
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// AssignToUser links a role to a staff user (idempotent).
func (r *RoleRepo) AssignToUser(ctx context.Context, userID, roleID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO user_roles (user_id, role_id) VALUES (?, ?)`, userID, roleID)
	return err
}

// RemoveFromUser unlinks a role from a staff user.
func (r *RoleRepo) RemoveFromUser(ctx context.Context, userID, roleID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = ? AND role_id = ?`, userID, roleID)
	return err
}

// PermissionsForUser returns the effective permission set of a staff user:
// the union of route names across their active backend-scoped roles.
func (r *RoleRepo) PermissionsForUser(ctx context.Context, userID uint64) (map[string]bool, error) {
	const q = `SELECT DISTINCT p.route_name
		FROM permissions p
		JOIN roles ro      ON ro.id = p.role_id
		JOIN user_roles ur ON ur.role_id = ro.id
		WHERE ur.user_id = ? AND ro.scope = 'backend' AND ro.is_active = 1`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	perms := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		perms[name] = true
	}
	return perms, rows.Err()
}

func (r *RoleRepo) routeNames(ctx context.Context, roleID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT route_name FROM permissions WHERE role_id = ? ORDER BY route_name`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (r *RoleRepo) replacePermissionsTx(ctx context.Context, tx *sql.Tx, roleID uint64, routeNames []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM permissions WHERE role_id = ?`, roleID); err != nil {
		return err
	}
	if len(routeNames) == 0 {
		return nil
	}
	query := `INSERT INTO permissions (role_id, route_name) VALUES `
	args := make([]any, 0, len(routeNames)*2)
	for i, name := range routeNames {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, roleID, name)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
