// Package export renders the "master + details" Excel workbook for a single
// booking.  The sheet carries a flat key/value master block followed by one
// row per applicant under a fixed 24-column header.  Every field
// null-coalesces to the empty string so a row is never dropped for missing
// data.
package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet the export writes to.
const SheetName = "Booking"

// DetailColumns is the fixed details-block header, in column order.
var DetailColumns = []string{
	"Applicant Type", "Employee ID", "Employee Code", "Employee Name",
	"Dependent ID", "Dependent Name", "Relationship", "Gender", "DOB",
	"Phone", "Email", "Department", "Designation", "Health Package ID",
	"Health Package Name", "Appointment Date", "Slot",
	"Appointment Location", "Address 1", "Address 2", "City", "State",
	"Pincode", "Remarks",
}

// Booking is the flattened input for one export.  The caller (handler)
// assembles it from the booking, company, office and requester rows so this
// package stays free of database access.
type Booking struct {
	BookingID       uint64
	CompanyName     string
	OfficeName      string
	RequestedBy     string
	Mode            string
	AppointmentDate string
	Slot            string
	Notes           string
	Status          string
	StatusUpdatedBy string
	StatusUpdatedOn string
	StatusRemarks   string
	CreatedAt       string
	Details         []DetailRow
}

// DetailRow is one applicant line of the details block.  RowID carries the
// booking_details primary key and is used only for ordering.
type DetailRow struct {
	RowID             uint64
	ApplicantType     string
	EmployeeID        string
	EmployeeCode      string
	EmployeeName      string
	DependentID       string
	DependentName     string
	Relationship      string
	Gender            string
	DOB               string
	Phone             string
	Email             string
	Department        string
	Designation       string
	HealthPackageID   string
	HealthPackageName string
	AppointmentDate   string
	Slot              string
	Location          string
	Address1          string
	Address2          string
	City              string
	State             string
	Pincode           string
	Remarks           string
}

func (d DetailRow) cells() []interface{} {
	return []interface{}{
		d.ApplicantType, d.EmployeeID, d.EmployeeCode, d.EmployeeName,
		d.DependentID, d.DependentName, d.Relationship, d.Gender, d.DOB,
		d.Phone, d.Email, d.Department, d.Designation, d.HealthPackageID,
		d.HealthPackageName, d.AppointmentDate, d.Slot, d.Location,
		d.Address1, d.Address2, d.City, d.State, d.Pincode, d.Remarks,
	}
}

// SortDetails orders applicant rows the way the details block requires:
// employee rows before dependent rows, then by primary key.
func SortDetails(rows []DetailRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ApplicantType != rows[j].ApplicantType {
			return rows[i].ApplicantType == "employee"
		}
		return rows[i].RowID < rows[j].RowID
	})
}

// Workbook builds the export workbook for one booking.  Master labels and
// the details header are bolded and the viewport is frozen just below the
// details header row.
func Workbook(b Booking) (*excelize.File, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	// The default sheet created by NewFile is not needed.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	master := []struct{ label, value string }{
		{"Booking ID", fmt.Sprintf("%d", b.BookingID)},
		{"Company", b.CompanyName},
		{"Office", b.OfficeName},
		{"Requested By", b.RequestedBy},
		{"Mode", b.Mode},
		{"Appointment Date", b.AppointmentDate},
		{"Slot", b.Slot},
		{"Notes", b.Notes},
		{"Status", b.Status},
		{"Status Updated By", b.StatusUpdatedBy},
		{"Status Updated On", b.StatusUpdatedOn},
		{"Status Remarks", b.StatusRemarks},
		{"Created At", b.CreatedAt},
	}
	row := 1
	for _, m := range master {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(SheetName, labelCell, m.label); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(SheetName, valueCell, m.value); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(SheetName, labelCell, labelCell, bold); err != nil {
			return nil, err
		}
		row++
	}

	// Blank spacer row between the master block and the details header.
	row++
	headerRow := row
	for col, name := range DetailColumns {
		cell, _ := excelize.CoordinatesToCellName(col+1, headerRow)
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return nil, err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(DetailColumns), headerRow)
	if err := f.SetCellStyle(SheetName, first, last, bold); err != nil {
		return nil, err
	}

	details := make([]DetailRow, len(b.Details))
	copy(details, b.Details)
	SortDetails(details)

	row = headerRow + 1
	for _, d := range details {
		for col, v := range d.cells() {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, err
			}
		}
		row++
	}

	topLeft, _ := excelize.CoordinatesToCellName(1, headerRow+1)
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: topLeft,
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}
	return f, nil
}

// HeaderRowIndex returns the 1-based row number of the details header for a
// given booking export, letting readers locate the details block without
// scanning for it.  The master block has a fixed 13 rows plus one spacer.
func HeaderRowIndex() int { return 15 }
