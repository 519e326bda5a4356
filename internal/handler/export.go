package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nivaan/health-booking-admin/internal/export"
	"github.com/nivaan/health-booking-admin/internal/model"
	"github.com/nivaan/health-booking-admin/internal/repository"
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// buildExportBooking flattens a booking view and its detail rows into the
// workbook input.  Dependent rows repeat the owning employee's identity so
// the sheet reads standalone.
func buildExportBooking(view *repository.BookingView, details []model.BookingDetail) export.Booking {
	b := export.Booking{
		BookingID:       view.ID,
		CompanyName:     view.CompanyName,
		OfficeName:      view.OfficeName,
		RequestedBy:     view.RequesterName,
		Mode:            view.Mode,
		AppointmentDate: view.AppointmentDate,
		Slot:            view.Slot,
		Notes:           view.Notes,
		Status:          view.Status,
		StatusUpdatedBy: view.UpdatedByName,
		StatusUpdatedOn: fmtTimePtr(view.StatusUpdatedOn),
		StatusRemarks:   view.StatusRemarks,
		CreatedAt:       view.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
	for _, d := range details {
		row := export.DetailRow{
			RowID:             d.ID,
			ApplicantType:     d.ApplicantType,
			EmployeeCode:      d.EmployeeCode,
			EmployeeName:      d.EmployeeName,
			Relationship:      d.Relationship,
			Gender:            d.Gender,
			DOB:               d.DOB,
			Phone:             d.Phone,
			Email:             d.Email,
			Department:        d.Department,
			Designation:       d.Designation,
			HealthPackageID:   d.HealthPackageID,
			HealthPackageName: d.HealthPackageName,
			AppointmentDate:   d.AppointmentDate,
			Slot:              d.Slot,
			Location:          d.Location,
			Address1:          d.Address1,
			Address2:          d.Address2,
			City:              d.City,
			State:             d.State,
			Pincode:           d.Pincode,
			Remarks:           d.Remarks,
		}
		if d.ApplicantType == model.ApplicantDependent {
			row.DependentID = d.UARN
			row.DependentName = d.DependentName
		} else {
			row.EmployeeID = d.UARN
		}
		b.Details = append(b.Details, row)
	}
	export.SortDetails(b.Details)
	return b
}

func fmtTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

// writeExport renders the workbook and stores it in the exports media
// collection, returning the public-relative path of the stored file.
func (h *BookingHandler) writeExport(ctx context.Context, view *repository.BookingView, details []model.BookingDetail) (string, error) {
	f, err := export.Workbook(buildExportBooking(view, details))
	if err != nil {
		return "", err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("booking-%d.xlsx", view.ID)
	id, storedPath, err := h.Store.Save("exports", name, xlsxMime, buf, int64(buf.Len()))
	if err != nil {
		return "", err
	}
	m := &model.Media{
		ID:           id,
		Collection:   "exports",
		OriginalName: name,
		StoredPath:   storedPath,
		Mime:         xlsxMime,
		Size:         int64(buf.Len()),
	}
	if err := h.Media.Add(ctx, m); err != nil {
		return "", err
	}
	return storedPath, nil
}

// Export streams the booking workbook as an xlsx download.  The file is
// rebuilt from the current state on every call rather than replaying the
// copy stored at submission time.
func (h *BookingHandler) Export(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
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

	f, err := export.Workbook(buildExportBooking(view, details))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build workbook failed"})
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render workbook failed"})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="booking-%d.xlsx"`, id))
	return c.Blob(http.StatusOK, xlsxMime, buf.Bytes())
}
