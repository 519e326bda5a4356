package repository

import (
	"context"
	"database/sql"

	"github.com/nivaan/health-booking-admin/internal/model"
)

// ReportItemRepo manages the uploaded report file entries of a booking
// detail (one row per test/category with a shareable flag).
type ReportItemRepo struct{ db *sql.DB }

// NewReportItemRepo returns a new ReportItemRepo bound to the given database.
func NewReportItemRepo(db *sql.DB) *ReportItemRepo { return &ReportItemRepo{db: db} }

// Add inserts one report item row and populates its generated ID.
func (r *ReportItemRepo) Add(ctx context.Context, item *model.BookingReportItem) error {
	const q = `INSERT INTO booking_report_items
		(booking_detail_id, media_id, test_name, category, shareable)
		VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		item.BookingDetailID, item.MediaID, item.TestName, item.Category, item.Shareable)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = uint64(id)
	return nil
}

// ListByDetail returns all report items of one detail, oldest first.
func (r *ReportItemRepo) ListByDetail(ctx context.Context, detailID uint64) ([]model.BookingReportItem, error) {
	const q = `SELECT id, booking_detail_id, media_id, test_name, category, shareable, created_at
		FROM booking_report_items WHERE booking_detail_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, detailID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.BookingReportItem, 0)
	for rows.Next() {
		var it model.BookingReportItem
		if err := rows.Scan(&it.ID, &it.BookingDetailID, &it.MediaID, &it.TestName,
			&it.Category, &it.Shareable, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByDetail returns total and shareable counts, which the upload
// handler uses to pick between report_uploaded and
// report_partially_uploaded.
func (r *ReportItemRepo) CountByDetail(ctx context.Context, detailID uint64) (total, shareable int, err error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(CASE WHEN shareable THEN 1 ELSE 0 END), 0)
		FROM booking_report_items WHERE booking_detail_id = ?`
	err = r.db.QueryRowContext(ctx, q, detailID).Scan(&total, &shareable)
	return
}
