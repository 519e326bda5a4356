package model

import "time"

// Booking represents one booking request raised by a company office, as
// stored in the `bookings` table.  A booking aggregates one row per
// applicant in `booking_details` and tracks an overall status with a
// single audit pair recording who last changed it and why.  Soft-deleted
// bookings keep their rows (DeletedAt set) and are excluded from every
// active-state query by the repository layer.
//
// Fields:
//  ID              – primary key identifier.
//  CompanyID       – company that owns the booking.
//  OfficeID        – office the booking was raised from.
//  RequestedBy     – company user who submitted the booking.
//  Mode            – appointment mode (e.g. "onsite", "clinic").
//  AppointmentDate – requested date for the appointments.
//  Slot            – requested time slot label.
//  EmployeeCount   – number of employee applicants.
//  DependentCount  – number of dependent applicants.
//  Notes           – free-text notes from the requester.
//  Status          – overall status (submitted, confirmed, completed, cancelled).
//  StatusUpdatedBy – account that last changed the status (nullable).
//  StatusUpdatedByType – which account table StatusUpdatedBy points at,
//                    "staff" or "company" (empty while unset).
//  StatusUpdatedOn – when the status was last changed (nullable).
//  StatusRemarks   – free-text remarks recorded with the last change.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
//  DeletedAt       – soft-delete timestamp (null while active).
type Booking struct {
	ID                  uint64     // bookings.id
	CompanyID           uint64     // bookings.company_id
	OfficeID            uint64     // bookings.office_id
	RequestedBy         uint64     // bookings.requested_by
	Mode                string     // bookings.mode
	AppointmentDate     string     // bookings.appointment_date (YYYY-MM-DD)
	Slot                string     // bookings.slot
	EmployeeCount       uint32     // bookings.employee_count
	DependentCount      uint32     // bookings.dependent_count
	Notes               string     // bookings.notes
	Status              string     // bookings.status
	StatusUpdatedBy     *uint64    // bookings.status_updated_by (nullable)
	StatusUpdatedByType string     // bookings.status_updated_by_type (empty while unset)
	StatusUpdatedOn     *time.Time // bookings.status_updated_on (nullable)
	StatusRemarks       string     // bookings.status_remarks
	CreatedAt           time.Time  // bookings.created_at
	UpdatedAt           time.Time  // bookings.updated_at
	DeletedAt           *time.Time // bookings.deleted_at (nullable)
}

// Overall booking status values.
const (
	BookingSubmitted = "submitted"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Applicant type discriminator on booking details.
const (
	ApplicantEmployee  = "employee"
	ApplicantDependent = "dependent"
)

// BookingDetail is one applicant row within a booking, as stored in the
// `booking_details` table.  The UARN is generated once at creation and is
// immutable and unique across the table (enforced by a unique index).
// Appointment status and report status are independent dimensions; report
// status transitions only make sense once the applicant has attended.
type BookingDetail struct {
	ID                    uint64     // booking_details.id
	BookingID             uint64     // booking_details.booking_id
	ApplicantType         string     // booking_details.applicant_type (employee|dependent)
	UARN                  string     // booking_details.uarn (unique)
	EmployeeCode          string     // booking_details.employee_code (company HR code, not the UARN)
	EmployeeName          string     // booking_details.employee_name
	Department            string     // booking_details.department
	Designation           string     // booking_details.designation
	DependentName         string     // booking_details.dependent_name
	Relationship          string     // booking_details.relationship
	ParentDetailID        *uint64    // booking_details.parent_detail_id (dependent's employee row)
	Gender                string     // booking_details.gender
	DOB                   string     // booking_details.dob (YYYY-MM-DD)
	Phone                 string     // booking_details.phone
	Email                 string     // booking_details.email
	HealthPackageID       string     // booking_details.health_package_id
	HealthPackageName     string     // booking_details.health_package_name
	AppointmentDate       string     // booking_details.appointment_date
	Slot                  string     // booking_details.slot
	Location              string     // booking_details.location
	Address1              string     // booking_details.address1
	Address2              string     // booking_details.address2
	City                  string     // booking_details.city
	State                 string     // booking_details.state
	Pincode               string     // booking_details.pincode
	Remarks               string     // booking_details.remarks
	Status                string     // booking_details.status
	StatusUpdatedBy       *uint64    // booking_details.status_updated_by (nullable)
	StatusUpdatedOn       *time.Time // booking_details.status_updated_on (nullable)
	StatusReason          string     // booking_details.status_reason
	ReportStatus          string     // booking_details.report_status
	ReportStatusUpdatedBy *uint64    // booking_details.report_status_updated_by (nullable)
	ReportStatusUpdatedOn *time.Time // booking_details.report_status_updated_on (nullable)
	ReportStatusReason    string     // booking_details.report_status_reason
	BillMediaID           *string    // booking_details.bill_media_id (single file)
	ReportMediaID         *string    // booking_details.report_media_id (single file)
	CreatedAt             time.Time  // booking_details.created_at
	UpdatedAt             time.Time  // booking_details.updated_at
	DeletedAt             *time.Time // booking_details.deleted_at (nullable)
}

// BookingReportItem is one uploaded report file entry for a booking detail,
// tagged to a test/category with a shareable flag.  Stored in the
// `booking_report_items` table.
type BookingReportItem struct {
	ID              uint64    // booking_report_items.id
	BookingDetailID uint64    // booking_report_items.booking_detail_id
	MediaID         string    // booking_report_items.media_id
	TestName        string    // booking_report_items.test_name
	Category        string    // booking_report_items.category
	Shareable       bool      // booking_report_items.shareable
	CreatedAt       time.Time // booking_report_items.created_at
}
