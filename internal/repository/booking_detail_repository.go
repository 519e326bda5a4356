package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/nivaan/health-booking-admin/internal/model"
)

// BookingDetailRepo provides operations on applicant rows.  The uarn column
// carries a database unique index; InsertTx surfaces a duplicate as
// ErrCodeTaken so the caller can redraw the code and retry inside the same
// transaction.  Soft-deleted rows are excluded everywhere.
type BookingDetailRepo struct {
	db *sql.DB
}

// NewBookingDetailRepo returns a new BookingDetailRepo bound to the given database.
func NewBookingDetailRepo(db *sql.DB) *BookingDetailRepo { return &BookingDetailRepo{db: db} }

// CodeExistsTx reports whether a reference code is already present.  Runs
// inside the booking-creation transaction so the subsequent insert sees the
// same snapshot; the unique index remains the final arbiter under
// concurrency.
func (r *BookingDetailRepo) CodeExistsTx(ctx context.Context, tx *sql.Tx, code string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM booking_details WHERE uarn = ? LIMIT 1`, code).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertTx inserts one applicant row and populates its generated ID.
// A duplicate uarn is reported as ErrCodeTaken.
func (r *BookingDetailRepo) InsertTx(ctx context.Context, tx *sql.Tx, d *model.BookingDetail) error {
	const q = `INSERT INTO booking_details
		(booking_id, applicant_type, uarn, employee_code, employee_name,
		 department, designation, dependent_name, relationship, parent_detail_id,
		 gender, dob, phone, email, health_package_id, health_package_name,
		 appointment_date, slot, location, address1, address2, city, state,
		 pincode, remarks, status, report_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		d.BookingID, d.ApplicantType, d.UARN, d.EmployeeCode, d.EmployeeName,
		d.Department, d.Designation, d.DependentName, d.Relationship, d.ParentDetailID,
		d.Gender, d.DOB, d.Phone, d.Email, d.HealthPackageID, d.HealthPackageName,
		d.AppointmentDate, d.Slot, d.Location, d.Address1, d.Address2, d.City, d.State,
		d.Pincode, d.Remarks, d.Status, d.ReportStatus)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrCodeTaken
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

const detailSelect = `
	SELECT id, booking_id, applicant_type, uarn, employee_code, employee_name,
	       department, designation, dependent_name, relationship, parent_detail_id,
	       gender, dob, phone, email, health_package_id, health_package_name,
	       appointment_date, slot, location, address1, address2, city, state,
	       pincode, remarks,
	       status, status_updated_by, status_updated_on, status_reason,
	       report_status, report_status_updated_by, report_status_updated_on,
	       report_status_reason, bill_media_id, report_media_id,
	       created_at, updated_at
	FROM booking_details
	WHERE deleted_at IS NULL`

func scanDetail(row interface{ Scan(...any) error }) (*model.BookingDetail, error) {
	var d model.BookingDetail
	var parent, statBy, repBy sql.NullInt64
	var statOn, repOn sql.NullTime
	var bill, report sql.NullString
	var statReason, repReason sql.NullString
	err := row.Scan(
		&d.ID, &d.BookingID, &d.ApplicantType, &d.UARN, &d.EmployeeCode, &d.EmployeeName,
		&d.Department, &d.Designation, &d.DependentName, &d.Relationship, &parent,
		&d.Gender, &d.DOB, &d.Phone, &d.Email, &d.HealthPackageID, &d.HealthPackageName,
		&d.AppointmentDate, &d.Slot, &d.Location, &d.Address1, &d.Address2, &d.City, &d.State,
		&d.Pincode, &d.Remarks,
		&d.Status, &statBy, &statOn, &statReason,
		&d.ReportStatus, &repBy, &repOn, &repReason, &bill, &report,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		id := uint64(parent.Int64)
		d.ParentDetailID = &id
	}
	if statBy.Valid {
		id := uint64(statBy.Int64)
		d.StatusUpdatedBy = &id
	}
	if statOn.Valid {
		t := statOn.Time
		d.StatusUpdatedOn = &t
	}
	d.StatusReason = statReason.String
	if repBy.Valid {
		id := uint64(repBy.Int64)
		d.ReportStatusUpdatedBy = &id
	}
	if repOn.Valid {
		t := repOn.Time
		d.ReportStatusUpdatedOn = &t
	}
	d.ReportStatusReason = repReason.String
	if bill.Valid {
		v := bill.String
		d.BillMediaID = &v
	}
	if report.Valid {
		v := report.String
		d.ReportMediaID = &v
	}
	return &d, nil
}

// GetByID returns one active applicant row or sql.ErrNoRows.
func (r *BookingDetailRepo) GetByID(ctx context.Context, id uint64) (*model.BookingDetail, error) {
	return scanDetail(r.db.QueryRowContext(ctx, detailSelect+` AND id = ?`, id))
}

// ListByBooking returns the active applicant rows of one booking in export
// order: employee rows before dependent rows, then by primary key.
func (r *BookingDetailRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.BookingDetail, error) {
	q := detailSelect + ` AND booking_id = ?
		ORDER BY CASE applicant_type WHEN 'employee' THEN 0 ELSE 1 END, id`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.BookingDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus overwrites the appointment status and its audit triple.
// Validation against the transition table happens in the handler; repeating
// the same target is idempotent last-write-wins.
func (r *BookingDetailRepo) UpdateStatus(ctx context.Context, id uint64, status, reason string, actorID uint64, at time.Time) error {
	const q = `UPDATE booking_details
		SET status = ?, status_reason = ?, status_updated_by = ?, status_updated_on = ?
		WHERE id = ? AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, status, reason, actorID, at, id)
	return err
}

// UpdateReportStatus overwrites the report status and its audit triple.
func (r *BookingDetailRepo) UpdateReportStatus(ctx context.Context, id uint64, status, reason string, actorID uint64, at time.Time) error {
	const q = `UPDATE booking_details
		SET report_status = ?, report_status_reason = ?, report_status_updated_by = ?, report_status_updated_on = ?
		WHERE id = ? AND deleted_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, status, reason, actorID, at, id)
	return err
}

// SetBillMedia records the single bill file of a detail, replacing any
// previous one.  The caller removes the superseded file from disk.
func (r *BookingDetailRepo) SetBillMedia(ctx context.Context, id uint64, mediaID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE booking_details SET bill_media_id = ? WHERE id = ? AND deleted_at IS NULL`,
		mediaID, id)
	return err
}

// SetReportMedia records the single report file of a detail.
func (r *BookingDetailRepo) SetReportMedia(ctx context.Context, id uint64, mediaID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE booking_details SET report_media_id = ? WHERE id = ? AND deleted_at IS NULL`,
		mediaID, id)
	return err
}

// CancelByBookingTx soft-deletes and cancels every active detail of a
// booking, as part of cancelling the booking itself.
func (r *BookingDetailRepo) CancelByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64, actorID uint64, reason string) error {
	now := time.Now().UTC()
	const q = `UPDATE booking_details
		SET deleted_at = ?, status = 'cancelled', status_reason = ?, status_updated_by = ?, status_updated_on = ?
		WHERE booking_id = ? AND deleted_at IS NULL`
	_, err := tx.ExecContext(ctx, q, now, reason, actorID, now, bookingID)
	return err
}
