package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/nivaan/health-booking-admin/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  Soft-deleted rows
// (deleted_at set) are excluded from every query here; cancellation of a
// booking is a soft delete plus a status update so history is preserved.
// All timestamp fields are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span bookings and booking_details.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID and timestamps on the model.
// The caller must commit or rollback the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
		(company_id, office_id, requested_by, mode, appointment_date, slot,
		 employee_count, dependent_count, notes, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		b.CompanyID, b.OfficeID, b.RequestedBy, b.Mode, b.AppointmentDate, b.Slot,
		b.EmployeeCount, b.DependentCount, b.Notes, b.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// BookingView joins a booking to the display names a list or export
// needs: company, office, requester and the account that last changed
// the status.
type BookingView struct {
	model.Booking
	CompanyName   string `json:"company_name"`
	CompanyShort  string `json:"company_short"`
	OfficeName    string `json:"office_name"`
	RequesterName string `json:"requester_name"`
	RequesterMail string `json:"requester_email"`
	UpdatedByName string `json:"status_updated_by_name,omitempty"`
}

// The updater id alone is ambiguous: staff and company accounts live in
// different tables and their ids overlap, so status_updated_by_type picks
// the table the name comes from.
const bookingViewSelect = `
	SELECT b.id, b.company_id, b.office_id, b.requested_by, b.mode,
	       b.appointment_date, b.slot, b.employee_count, b.dependent_count,
	       b.notes, b.status, b.status_updated_by, b.status_updated_by_type,
	       b.status_updated_on, b.status_remarks, b.created_at, b.updated_at,
	       c.name, c.short_name, o.name, cu.name, cu.email,
	       COALESCE(su.name, cup.name)
	FROM bookings b
	JOIN companies c         ON c.id = b.company_id
	JOIN company_offices o   ON o.id = b.office_id
	JOIN company_users cu    ON cu.id = b.requested_by
	LEFT JOIN users su       ON su.id = b.status_updated_by AND b.status_updated_by_type = 'staff'
	LEFT JOIN company_users cup ON cup.id = b.status_updated_by AND b.status_updated_by_type = 'company'
	WHERE b.deleted_at IS NULL`

func scanBookingView(row interface{ Scan(...any) error }) (*BookingView, error) {
	var v BookingView
	var updBy sql.NullInt64
	var updOn sql.NullTime
	var remarks, notes sql.NullString
	var updByType, updByName sql.NullString
	err := row.Scan(
		&v.ID, &v.CompanyID, &v.OfficeID, &v.RequestedBy, &v.Mode,
		&v.AppointmentDate, &v.Slot, &v.EmployeeCount, &v.DependentCount,
		&notes, &v.Status, &updBy, &updByType, &updOn, &remarks,
		&v.CreatedAt, &v.UpdatedAt,
		&v.CompanyName, &v.CompanyShort, &v.OfficeName,
		&v.RequesterName, &v.RequesterMail, &updByName,
	)
	if err != nil {
		return nil, err
	}
	v.Notes = notes.String
	v.StatusRemarks = remarks.String
	if updBy.Valid {
		id := uint64(updBy.Int64)
		v.StatusUpdatedBy = &id
	}
	v.StatusUpdatedByType = updByType.String
	if updOn.Valid {
		t := updOn.Time
		v.StatusUpdatedOn = &t
	}
	v.UpdatedByName = updByName.String
	return &v, nil
}

// GetByID returns one active booking with its display names, or
// sql.ErrNoRows when it does not exist or is soft-deleted.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*BookingView, error) {
	return scanBookingView(r.db.QueryRowContext(ctx, bookingViewSelect+` AND b.id = ?`, id))
}

// ListFilter narrows and pages the booking list.  Zero values mean "no
// filter".  Page is 1-based; PerPage is clamped to 1..100.
type ListFilter struct {
	CompanyID uint64
	OfficeID  uint64
	Status    string
	DateFrom  string
	DateTo    string
	Page      int
	PerPage   int
}

// List returns active bookings matching the filter, newest first, along
// with the total count before paging.
func (r *BookingRepo) List(ctx context.Context, f ListFilter) ([]BookingView, int, error) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 6)
	if f.CompanyID != 0 {
		where = append(where, "b.company_id = ?")
		args = append(args, f.CompanyID)
	}
	if f.OfficeID != 0 {
		where = append(where, "b.office_id = ?")
		args = append(args, f.OfficeID)
	}
	if f.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, f.Status)
	}
	if f.DateFrom != "" {
		where = append(where, "b.appointment_date >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where = append(where, "b.appointment_date <= ?")
		args = append(args, f.DateTo)
	}
	cond := ""
	if len(where) > 0 {
		cond = " AND " + strings.Join(where, " AND ")
	}

	var total int
	countQ := `SELECT COUNT(*) FROM bookings b WHERE b.deleted_at IS NULL` + cond
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
	if f.Page < 1 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.PerPage
	q := bookingViewSelect + cond + ` ORDER BY b.created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, append(args, f.PerPage, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]BookingView, 0, f.PerPage)
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateStatus overwrites the booking status and its audit triple.  The
// transition has already been validated by the handler; repeating a target
// status only refreshes the audit fields (last-write-wins).  actorType is
// the account kind of actorID, "staff" or "company".
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status, remarks string, actorID uint64, actorType string, at time.Time) error {
	const q = `UPDATE bookings
		SET status = ?, status_remarks = ?, status_updated_by = ?, status_updated_by_type = ?, status_updated_on = ?
		WHERE id = ? AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, status, remarks, actorID, actorType, at, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "gone" from "no change": repeating the same values
		// reports zero affected rows on MySQL, so re-check existence.
		var exists int
		if err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM bookings WHERE id = ? AND deleted_at IS NULL`, id).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

// SoftDelete cancels a booking: marks it deleted and records who cancelled
// it.  Details under the booking are cancelled by the handler in the same
// transaction.
func (r *BookingRepo) SoftDelete(ctx context.Context, tx *sql.Tx, id uint64, actorID uint64, actorType, remarks string) error {
	now := time.Now().UTC()
	const q = `UPDATE bookings
		SET deleted_at = ?, status = ?, status_remarks = ?, status_updated_by = ?, status_updated_by_type = ?, status_updated_on = ?
		WHERE id = ? AND deleted_at IS NULL`
	res, err := tx.ExecContext(ctx, q, now, model.BookingCancelled, remarks, actorID, actorType, now, id)
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
