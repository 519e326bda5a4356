package export

import (
	"testing"
)

func sampleBooking() Booking {
	return Booking{
		BookingID:       42,
		CompanyName:     "Acme Industries",
		OfficeName:      "Pune HQ",
		RequestedBy:     "Priya Nair",
		Mode:            "onsite",
		AppointmentDate: "2026-09-10",
		Slot:            "09:00-12:00",
		Status:          "confirmed",
		CreatedAt:       "2026-08-28 11:02:00",
		Details: []DetailRow{
			{RowID: 3, ApplicantType: "dependent", DependentID: "7", DependentName: "Riya Kumar", Relationship: "daughter"},
			{RowID: 1, ApplicantType: "employee", EmployeeID: "11", EmployeeCode: "E-1001", EmployeeName: "Anil Kumar"},
			{RowID: 2, ApplicantType: "employee", EmployeeID: "12", EmployeeCode: "E-1002", EmployeeName: "Sunita Rao"},
		},
	}
}

func TestSortDetails_EmployeesBeforeDependents(t *testing.T) {
	b := sampleBooking()
	SortDetails(b.Details)
	got := make([]uint64, 0, len(b.Details))
	for _, d := range b.Details {
		got = append(got, d.RowID)
	}
	want := []uint64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted order = %v, want %v", got, want)
		}
	}
}

// Exporting then re-reading the details block must recover exactly the rows
// supplied, in employee-before-dependent order.
func TestWorkbook_RoundTrip(t *testing.T) {
	b := sampleBooking()
	f, err := Workbook(b)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	headerIdx := HeaderRowIndex() - 1
	if len(rows) <= headerIdx {
		t.Fatalf("sheet has %d rows, want header at row %d", len(rows), HeaderRowIndex())
	}
	header := rows[headerIdx]
	if len(header) != len(DetailColumns) {
		t.Fatalf("header has %d columns, want %d", len(header), len(DetailColumns))
	}
	for i, name := range DetailColumns {
		if header[i] != name {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], name)
		}
	}

	detailRows := rows[headerIdx+1:]
	if len(detailRows) != len(b.Details) {
		t.Fatalf("details block has %d rows, want %d", len(detailRows), len(b.Details))
	}
	// Employee rows first, then the dependent.
	if detailRows[0][0] != "employee" || detailRows[1][0] != "employee" || detailRows[2][0] != "dependent" {
		t.Fatalf("applicant type order = [%s %s %s], want employees first",
			detailRows[0][0], detailRows[1][0], detailRows[2][0])
	}
	if detailRows[0][3] != "Anil Kumar" {
		t.Errorf("first employee name = %q, want Anil Kumar", detailRows[0][3])
	}
	if detailRows[2][5] != "Riya Kumar" {
		t.Errorf("dependent name = %q, want Riya Kumar", detailRows[2][5])
	}
}

func TestWorkbook_MasterBlock(t *testing.T) {
	f, err := Workbook(sampleBooking())
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	defer f.Close()

	v, err := f.GetCellValue(SheetName, "A1")
	if err != nil || v != "Booking ID" {
		t.Fatalf("A1 = %q (%v), want Booking ID", v, err)
	}
	v, _ = f.GetCellValue(SheetName, "B1")
	if v != "42" {
		t.Errorf("B1 = %q, want 42", v)
	}
	v, _ = f.GetCellValue(SheetName, "B2")
	if v != "Acme Industries" {
		t.Errorf("B2 = %q, want Acme Industries", v)
	}
}

// Missing fields render as empty cells; the row itself is never skipped.
func TestWorkbook_EmptyFieldsKeepRows(t *testing.T) {
	b := Booking{BookingID: 1, Details: []DetailRow{{RowID: 1, ApplicantType: "employee"}}}
	f, err := Workbook(b)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if got := len(rows) - HeaderRowIndex(); got != 1 {
		t.Fatalf("details block has %d rows, want 1", got)
	}
}
