package handler

import (
	"context"
	"database/sql"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nivaan/health-booking-admin/internal/lifecycle"
	"github.com/nivaan/health-booking-admin/internal/model"
	"github.com/nivaan/health-booking-admin/internal/queue"
	"github.com/nivaan/health-booking-admin/internal/repository"
	queuepub "github.com/nivaan/health-booking-admin/internal/service"
	"github.com/nivaan/health-booking-admin/internal/storage"
)

// DetailHandler serves the per-applicant endpoints: appointment status,
// report status, bill and report uploads and the report item list.
type DetailHandler struct {
	Bookings    *repository.BookingRepo
	Details     *repository.BookingDetailRepo
	ReportItems *repository.ReportItemRepo
	Media       *repository.MediaRepo
	Store       *storage.Store
}

// loadDetail fetches the detail row and confirms it belongs to the booking
// named in the path.
func (h *DetailHandler) loadDetail(c echo.Context, ctx context.Context) (*model.BookingDetail, error) {
	bookingID, ok := pathID(c, "id")
	if !ok {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detailID, ok := pathID(c, "detailID")
	if !ok {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid detail id"})
	}
	d, err := h.Details.GetByID(ctx, detailID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "detail not found"})
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if d.BookingID != bookingID {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "detail not found"})
	}
	return d, nil
}

// UpdateStatus moves an applicant through the appointment machine.  The
// attended transition also enters the report machine at processing.
func (h *DetailHandler) UpdateStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status" validate:"required"`
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}
	if !lifecycle.ValidStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, errResp := h.loadDetail(c, ctx)
	if d == nil {
		return errResp
	}
	if err := lifecycle.CheckStatus(d.Status, req.Status); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error(), "from": d.Status, "to": req.Status})
	}

	t := lifecycle.NewTransition(req.Status, req.Reason, currentUserID(c))
	if err := h.Details.UpdateStatus(ctx, d.ID, t.Target, t.Reason, t.ActorID, t.At); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	// Attendance opens the report pipeline.
	if req.Status == lifecycle.StatusAttended && d.ReportStatus == "" {
		if err := h.Details.UpdateReportStatus(ctx, d.ID, lifecycle.ReportProcessing, "", t.ActorID, t.At); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"id": d.ID, "status": req.Status})
}

// UpdateReportStatus moves an applicant through the report machine.
func (h *DetailHandler) UpdateReportStatus(c echo.Context) error {
	var req struct {
		ReportStatus string `json:"report_status" validate:"required"`
		Reason       string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil || req.ReportStatus == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "report_status required"})
	}
	if !lifecycle.ValidReportStatus(req.ReportStatus) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown report status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, errResp := h.loadDetail(c, ctx)
	if d == nil {
		return errResp
	}
	if err := lifecycle.CheckReportStatus(d.ReportStatus, req.ReportStatus, d.Status); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error(), "from": d.ReportStatus, "to": req.ReportStatus})
	}

	t := lifecycle.NewTransition(req.ReportStatus, req.Reason, currentUserID(c))
	if err := h.Details.UpdateReportStatus(ctx, d.ID, t.Target, t.Reason, t.ActorID, t.At); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": d.ID, "report_status": req.ReportStatus})
}

// saveUpload stores one multipart file in the given collection and records
// it in the media table.
func (h *DetailHandler) saveUpload(ctx context.Context, fh *multipart.FileHeader, collection string) (*model.Media, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mime := fh.Header.Get("Content-Type")
	id, storedPath, err := h.Store.Save(collection, fh.Filename, mime, src, fh.Size)
	if err != nil {
		return nil, err
	}
	m := &model.Media{
		ID:           id,
		Collection:   collection,
		OriginalName: fh.Filename,
		StoredPath:   storedPath,
		Mime:         mime,
		Size:         fh.Size,
	}
	if err := h.Media.Add(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func uploadErrorResponse(c echo.Context, err error) error {
	switch err {
	case storage.ErrFileTooLarge:
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file too large"})
	case storage.ErrContentType:
		return c.JSON(http.StatusUnsupportedMediaType, echo.Map{"error": "content type not allowed"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store file failed"})
	}
}

// UploadBill attaches the bill file to an applicant row and notifies the
// requester asynchronously.
func (h *DetailHandler) UploadBill(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	d, errResp := h.loadDetail(c, ctx)
	if d == nil {
		return errResp
	}

	m, err := h.saveUpload(ctx, fh, "bills")
	if err != nil {
		return uploadErrorResponse(c, err)
	}
	if err := h.Details.SetBillMedia(ctx, d.ID, m.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "attach bill failed"})
	}

	if view, err := h.Bookings.GetByID(ctx, d.BookingID); err == nil {
		attachment := m.StoredPath
		go func() {
			pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer pubCancel()
			// Keyed per detail: one booking carries one bill per
			// applicant and every upload must notify.
			_ = queuepub.PublishNotification(pubCtx, queue.NotificationEvent{
				Type:            queue.EventBillUploaded,
				EventID:         strconv.FormatUint(d.ID, 10),
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
	}

	return c.JSON(http.StatusOK, echo.Map{"id": d.ID, "bill_media_id": m.ID, "url": h.Store.URL(m.StoredPath)})
}

// UploadReport attaches the consolidated report file to an applicant row.
func (h *DetailHandler) UploadReport(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	d, errResp := h.loadDetail(c, ctx)
	if d == nil {
		return errResp
	}

	m, err := h.saveUpload(ctx, fh, "reports")
	if err != nil {
		return uploadErrorResponse(c, err)
	}
	if err := h.Details.SetReportMedia(ctx, d.ID, m.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "attach report failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": d.ID, "report_media_id": m.ID, "url": h.Store.URL(m.StoredPath)})
}

// AddReportItem uploads one report file tagged to a test, then recomputes
// the report status: all items shareable means report_uploaded, otherwise
// report_partially_uploaded.  The applicant must be in QC or later.
func (h *DetailHandler) AddReportItem(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}
	testName := c.FormValue("test_name")
	if testName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "test_name required"})
	}
	category := c.FormValue("category")
	shareable, _ := strconv.ParseBool(c.FormValue("shareable"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	d, errResp := h.loadDetail(c, ctx)
	if d == nil {
		return errResp
	}

	// The upload only makes sense once QC has started on the detail.
	target := lifecycle.ReportUploaded
	if err := lifecycle.CheckReportStatus(d.ReportStatus, target, d.Status); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error(), "from": d.ReportStatus})
	}

	m, err := h.saveUpload(ctx, fh, "reports")
	if err != nil {
		return uploadErrorResponse(c, err)
	}
	item := &model.BookingReportItem{
		BookingDetailID: d.ID,
		MediaID:         m.ID,
		TestName:        testName,
		Category:        category,
		Shareable:       shareable,
	}
	if err := h.ReportItems.Add(ctx, item); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record item failed"})
	}

	total, shareableCount, err := h.ReportItems.CountByDetail(ctx, d.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count items failed"})
	}
	if shareableCount < total {
		target = lifecycle.ReportPartiallyUploaded
	}

	t := lifecycle.NewTransition(target, "", currentUserID(c))
	if err := h.Details.UpdateReportStatus(ctx, d.ID, t.Target, t.Reason, t.ActorID, t.At); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"item_id":       item.ID,
		"report_status": target,
		"url":           h.Store.URL(m.StoredPath),
	})
}

// ListReportItems returns the uploaded report entries with media URLs.
func (h *DetailHandler) ListReportItems(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	d, errResp := h.loadDetail(c, ctx)
	if d == nil {
		return errResp
	}
	items, err := h.ReportItems.ListByDetail(ctx, d.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
