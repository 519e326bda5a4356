package handler

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nivaan/health-booking-admin/internal/config"
	"github.com/nivaan/health-booking-admin/internal/lifecycle"
	"github.com/nivaan/health-booking-admin/internal/model"
	"github.com/nivaan/health-booking-admin/internal/queue"
	"github.com/nivaan/health-booking-admin/internal/refcode"
	"github.com/nivaan/health-booking-admin/internal/repository"
	queuepub "github.com/nivaan/health-booking-admin/internal/service"
	"github.com/nivaan/health-booking-admin/internal/storage"
	"github.com/nivaan/health-booking-admin/internal/utils"
)

// codeInsertAttempts bounds how often a booking row is redrawn when the
// generated reference code loses a race against a concurrent insert.
const codeInsertAttempts = 3

// BookingHandler serves booking creation, listing and lifecycle endpoints.
type BookingHandler struct {
	Cfg          config.Config
	Bookings     *repository.BookingRepo
	Details      *repository.BookingDetailRepo
	Companies    *repository.CompanyRepo
	Offices      *repository.OfficeRepo
	CompanyUsers *repository.CompanyUserRepo
	Media        *repository.MediaRepo
	Store        *storage.Store
	Codes        *refcode.Generator
}

// ----- DTOs -----

type dependentReq struct {
	Name              string `json:"name" validate:"required"`
	Relationship      string `json:"relationship" validate:"required"`
	Gender            string `json:"gender"`
	DOB               string `json:"dob"`
	HealthPackageID   string `json:"health_package_id"`
	HealthPackageName string `json:"health_package_name"`
}

type applicantReq struct {
	EmployeeCode      string         `json:"employee_code"`
	EmployeeName      string         `json:"employee_name" validate:"required"`
	Department        string         `json:"department"`
	Designation       string         `json:"designation"`
	Gender            string         `json:"gender"`
	DOB               string         `json:"dob"`
	Phone             string         `json:"phone"`
	Email             string         `json:"email" validate:"omitempty,email"`
	HealthPackageID   string         `json:"health_package_id"`
	HealthPackageName string         `json:"health_package_name"`
	Remarks           string         `json:"remarks"`
	Dependents        []dependentReq `json:"dependents" validate:"dive"`
}

type createBookingReq struct {
	OfficeID        uint64         `json:"office_id" validate:"required"`
	Mode            string         `json:"mode" validate:"required,oneof=onsite clinic home"`
	AppointmentDate string         `json:"appointment_date" validate:"required,datetime=2006-01-02"`
	Slot            string         `json:"slot" validate:"required"`
	Notes           string         `json:"notes"`
	Location        string         `json:"location"`
	Address1        string         `json:"address1"`
	Address2        string         `json:"address2"`
	City            string         `json:"city"`
	State           string         `json:"state"`
	Pincode         string         `json:"pincode"`
	Applicants      []applicantReq `json:"applicants" validate:"required,min=1,dive"`
}

// Create records a booking with one detail row per applicant.  Reference
// codes are generated inside the same transaction that inserts the rows;
// a unique-index conflict triggers a redraw.  The requester is notified
// asynchronously with the export workbook attached when it could be built.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	requester, err := h.CompanyUsers.GetByID(ctx, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown account"})
	}
	office, err := h.Offices.GetByID(ctx, req.OfficeID)
	if err != nil || office.CompanyID != requester.CompanyID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "office not available"})
	}
	member, err := h.CompanyUsers.MemberOfOffice(ctx, requester.ID, req.OfficeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "membership check failed"})
	}
	if !member {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a member of this office"})
	}
	company, err := h.Companies.GetByID(ctx, requester.CompanyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load company failed"})
	}

	dependents := 0
	for _, a := range req.Applicants {
		dependents += len(a.Dependents)
	}
	booking := &model.Booking{
		CompanyID:       requester.CompanyID,
		OfficeID:        req.OfficeID,
		RequestedBy:     requester.ID,
		Mode:            req.Mode,
		AppointmentDate: req.AppointmentDate,
		Slot:            req.Slot,
		EmployeeCount:   uint32(len(req.Applicants)),
		DependentCount:  uint32(dependents),
		Notes:           req.Notes,
		Status:          model.BookingSubmitted,
	}

	if err := h.persistBooking(ctx, booking, req); err != nil {
		h.publishFailure(company, office, requester, req, err)
		if err == repository.ErrCodeTaken {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reference code conflict, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking could not be recorded"})
	}

	view, details, loadErr := h.loadFull(ctx, booking.ID)
	if loadErr != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}

	// The export is best effort; a failed workbook never unwinds the
	// booking, the confirmation just goes out without the attachment.
	attachment := ""
	if path, err := h.writeExport(ctx, view, details); err != nil {
		log.Printf("[booking] export for booking=%d failed: %v", booking.ID, err)
	} else {
		attachment = path
	}

	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = queuepub.PublishNotification(pubCtx, queue.NotificationEvent{
			Type:            queue.EventBookingSubmitted,
			BookingID:       view.ID,
			Reference:       bookingReference(view.ID),
			CompanyName:     view.CompanyName,
			CompanyShort:    view.CompanyShort,
			OfficeName:      view.OfficeName,
			RequesterName:   view.RequesterName,
			RequesterEmail:  view.RequesterMail,
			AppointmentDate: view.AppointmentDate,
			Slot:            view.Slot,
			EmployeeCount:   view.EmployeeCount,
			DependentCount:  view.DependentCount,
			AttachmentPath:  attachment,
		})
	}()

	return c.JSON(http.StatusCreated, echo.Map{"booking": view, "details": details})
}

// persistBooking runs the whole insert inside one transaction so a failed
// detail row never leaves a half-recorded booking behind.
func (h *BookingHandler) persistBooking(ctx context.Context, booking *model.Booking, req createBookingReq) error {
	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := h.Bookings.CreateTx(ctx, tx, booking); err != nil {
		return err
	}

	exists := func(ctx context.Context, code string) (bool, error) {
		return h.Details.CodeExistsTx(ctx, tx, code)
	}

	for _, a := range req.Applicants {
		emp := &model.BookingDetail{
			BookingID:         booking.ID,
			ApplicantType:     model.ApplicantEmployee,
			EmployeeCode:      a.EmployeeCode,
			EmployeeName:      a.EmployeeName,
			Department:        a.Department,
			Designation:       a.Designation,
			Gender:            a.Gender,
			DOB:               a.DOB,
			Phone:             a.Phone,
			Email:             a.Email,
			HealthPackageID:   a.HealthPackageID,
			HealthPackageName: a.HealthPackageName,
			AppointmentDate:   req.AppointmentDate,
			Slot:              req.Slot,
			Location:          req.Location,
			Address1:          req.Address1,
			Address2:          req.Address2,
			City:              req.City,
			State:             req.State,
			Pincode:           req.Pincode,
			Remarks:           a.Remarks,
			Status:            lifecycle.StatusScheduled,
		}

		inserted := false
		for attempt := 0; attempt < codeInsertAttempts; attempt++ {
			code, err := h.Codes.EmployeeCode(ctx, a.EmployeeName, exists)
			if err != nil {
				return err
			}
			emp.UARN = code
			if err := h.Details.InsertTx(ctx, tx, emp); err != nil {
				if err == repository.ErrCodeTaken {
					continue // lost the race, draw again
				}
				return err
			}
			inserted = true
			break
		}
		if !inserted {
			return repository.ErrCodeTaken
		}

		for i, d := range a.Dependents {
			dep := &model.BookingDetail{
				BookingID:         booking.ID,
				ApplicantType:     model.ApplicantDependent,
				UARN:              refcode.DependentCode(emp.UARN, i+1),
				EmployeeCode:      a.EmployeeCode,
				EmployeeName:      a.EmployeeName,
				DependentName:     d.Name,
				Relationship:      d.Relationship,
				ParentDetailID:    &emp.ID,
				Gender:            d.Gender,
				DOB:               d.DOB,
				HealthPackageID:   d.HealthPackageID,
				HealthPackageName: d.HealthPackageName,
				AppointmentDate:   req.AppointmentDate,
				Slot:              req.Slot,
				Location:          req.Location,
				Address1:          req.Address1,
				Address2:          req.Address2,
				City:              req.City,
				State:             req.State,
				Pincode:           req.Pincode,
				Status:            lifecycle.StatusScheduled,
			}
			if err := h.Details.InsertTx(ctx, tx, dep); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (h *BookingHandler) publishFailure(company *model.Company, office *model.CompanyOffice, requester *model.CompanyUser, req createBookingReq, cause error) {
	dependents := 0
	for _, a := range req.Applicants {
		dependents += len(a.Dependents)
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// Failed attempts never get a booking row, so each event carries
		// its own id; repeated failures by one company must all notify.
		_ = queuepub.PublishNotification(ctx, queue.NotificationEvent{
			Type:            queue.EventBookingFailed,
			EventID:         uuid.NewString(),
			CompanyName:     company.Name,
			CompanyShort:    company.ShortName,
			OfficeName:      office.Name,
			RequesterName:   requester.Name,
			RequesterEmail:  requester.Email,
			AppointmentDate: req.AppointmentDate,
			Slot:            req.Slot,
			EmployeeCount:   uint32(len(req.Applicants)),
			DependentCount:  uint32(dependents),
			FailureReason:   cause.Error(),
		})
	}()
}

func (h *BookingHandler) loadFull(ctx context.Context, id uint64) (*repository.BookingView, []model.BookingDetail, error) {
	view, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	details, err := h.Details.ListByBooking(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return view, details, nil
}

// bookingReference is the human-facing booking number used in subjects.
func bookingReference(id uint64) string {
	return fmt.Sprintf("BK-%d", id)
}

// List returns bookings matching the query filters with pagination.
// Company users only ever see their own company's bookings regardless of
// the filters they pass.
func (h *BookingHandler) List(c echo.Context) error {
	var f repository.ListFilter
	f.CompanyID, _ = strconv.ParseUint(c.QueryParam("company_id"), 10, 64)
	f.OfficeID, _ = strconv.ParseUint(c.QueryParam("office_id"), 10, 64)
	f.Status = c.QueryParam("status")
	f.DateFrom = c.QueryParam("date_from")
	f.DateTo = c.QueryParam("date_to")
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.PerPage, _ = strconv.Atoi(c.QueryParam("per_page"))

	if f.Status != "" && !lifecycle.ValidBookingStatus(f.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if currentActor(c) == utils.ActorCompany {
		u, err := h.CompanyUsers.GetByID(ctx, currentUserID(c))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown account"})
		}
		f.CompanyID = u.CompanyID
	}

	rows, total, err := h.Bookings.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": rows, "total": total})
}

// Get returns a booking with its applicant rows.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	view, details, err := h.loadFull(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if denied := h.denyForeignCompany(c, ctx, view.CompanyID); denied != nil {
		return denied
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": view, "details": details})
}

// UpdateStatus moves the overall booking through its state machine.
// Staff only; transitions outside the allowed edges answer 422.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Status  string `json:"status" validate:"required"`
		Remarks string `json:"remarks"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}
	if !lifecycle.ValidBookingStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	view, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := lifecycle.CheckBookingStatus(view.Status, req.Status); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error(), "from": view.Status, "to": req.Status})
	}

	t := lifecycle.NewTransition(req.Status, req.Remarks, currentUserID(c))
	if err := h.Bookings.UpdateStatus(ctx, id, t.Target, t.Reason, t.ActorID, currentActor(c), t.At); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": req.Status})
}

// Cancel soft-deletes a booking and cancels every applicant row with it.
// Company users may cancel their own company's bookings while they are
// still submitted; staff can cancel any non-terminal booking.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Remarks string `json:"remarks"`
	}
	_ = c.Bind(&req)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	view, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if denied := h.denyForeignCompany(c, ctx, view.CompanyID); denied != nil {
		return denied
	}
	if currentActor(c) == utils.ActorCompany && view.Status != model.BookingSubmitted {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "booking already in progress"})
	}
	if err := lifecycle.CheckBookingStatus(view.Status, lifecycle.BookingCancelled); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	defer tx.Rollback()

	actorID := currentUserID(c)
	if err := h.Bookings.SoftDelete(ctx, tx, id, actorID, currentActor(c), req.Remarks); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if err := h.Details.CancelByBookingTx(ctx, tx, id, actorID, req.Remarks); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.BookingCancelled})
}

// denyForeignCompany rejects company users reaching for another company's
// booking.  Staff pass through.
func (h *BookingHandler) denyForeignCompany(c echo.Context, ctx context.Context, companyID uint64) error {
	if currentActor(c) != utils.ActorCompany {
		return nil
	}
	u, err := h.CompanyUsers.GetByID(ctx, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown account"})
	}
	if u.CompanyID != companyID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return nil
}
