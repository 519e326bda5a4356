package handler

import (
	"testing"
	"time"

	"github.com/nivaan/health-booking-admin/internal/model"
	"github.com/nivaan/health-booking-admin/internal/repository"
)

func TestBuildExportBooking_FlattensAndOrders(t *testing.T) {
	updated := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	view := &repository.BookingView{
		Booking: model.Booking{
			ID:              42,
			Mode:            "onsite",
			AppointmentDate: "2026-03-10",
			Slot:            "09:00-11:00",
			Status:          model.BookingConfirmed,
			StatusUpdatedOn: &updated,
			CreatedAt:       time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		},
		CompanyName:   "Acme Industries",
		OfficeName:    "Pune HQ",
		RequesterName: "Priya Sharma",
		UpdatedByName: "Desk Admin",
	}
	details := []model.BookingDetail{
		{ID: 3, ApplicantType: model.ApplicantDependent, UARN: "AK482101",
			EmployeeName: "Anil Kumar", DependentName: "Meera Kumar", Relationship: "spouse"},
		{ID: 2, ApplicantType: model.ApplicantEmployee, UARN: "ZZ9012", EmployeeName: "Zara Zaidi"},
		{ID: 1, ApplicantType: model.ApplicantEmployee, UARN: "AK4821", EmployeeName: "Anil Kumar"},
	}

	b := buildExportBooking(view, details)

	if b.BookingID != 42 || b.CompanyName != "Acme Industries" {
		t.Fatalf("master block = %+v", b)
	}
	if b.StatusUpdatedOn != "2026-03-02 10:30:00" {
		t.Errorf("StatusUpdatedOn = %q", b.StatusUpdatedOn)
	}
	if len(b.Details) != 3 {
		t.Fatalf("len(Details) = %d, want 3", len(b.Details))
	}

	// Employees first in insertion order, dependents after.
	if b.Details[0].EmployeeID != "AK4821" || b.Details[1].EmployeeID != "ZZ9012" {
		t.Errorf("employee order = %q, %q", b.Details[0].EmployeeID, b.Details[1].EmployeeID)
	}
	dep := b.Details[2]
	if dep.DependentID != "AK482101" || dep.DependentName != "Meera Kumar" {
		t.Errorf("dependent row = %+v", dep)
	}
	if dep.EmployeeID != "" {
		t.Errorf("dependent row carries EmployeeID %q", dep.EmployeeID)
	}
	if dep.EmployeeName != "Anil Kumar" {
		t.Errorf("dependent should repeat employee name, got %q", dep.EmployeeName)
	}
}

func TestFmtTimePtr(t *testing.T) {
	if got := fmtTimePtr(nil); got != "" {
		t.Errorf("nil = %q, want empty", got)
	}
	ts := time.Date(2026, 1, 5, 23, 59, 59, 0, time.UTC)
	if got := fmtTimePtr(&ts); got != "2026-01-05 23:59:59" {
		t.Errorf("got %q", got)
	}
}

func TestBookingReference(t *testing.T) {
	if got := bookingReference(7); got != "BK-7" {
		t.Fatalf("got %q, want BK-7", got)
	}
}
