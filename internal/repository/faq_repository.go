package repository

import (
	"context"
	"database/sql"

	"github.com/nivaan/health-booking-admin/internal/model"
)

// FAQRepo manages published FAQ entries.
type FAQRepo struct{ db *sql.DB }

func NewFAQRepo(db *sql.DB) *FAQRepo { return &FAQRepo{db: db} }

// Create inserts an entry and populates its generated ID.
func (r *FAQRepo) Create(ctx context.Context, f *model.FAQ) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO faqs (question, answer, sort_order, is_active) VALUES (?, ?, ?, ?)`,
		f.Question, f.Answer, f.SortOrder, f.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// List returns entries by sort order.  activeOnly hides unpublished rows
// (the company portal view); staff pass false to manage everything.
func (r *FAQRepo) List(ctx context.Context, activeOnly bool) ([]model.FAQ, error) {
	q := `SELECT id, question, answer, sort_order, is_active, created_at, updated_at FROM faqs`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.FAQ, 0)
	for rows.Next() {
		var f model.FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.SortOrder, &f.IsActive,
			&f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Update overwrites an entry.
func (r *FAQRepo) Update(ctx context.Context, f *model.FAQ) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE faqs SET question = ?, answer = ?, sort_order = ?, is_active = ? WHERE id = ?`,
		f.Question, f.Answer, f.SortOrder, f.IsActive, f.ID)
	if err != nil {
		return err
	}
	return requireRow(ctx, res, r.db, `SELECT 1 FROM faqs WHERE id = ?`, f.ID)
}

// Delete removes an entry.
func (r *FAQRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM faqs WHERE id = ?`, id)
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
