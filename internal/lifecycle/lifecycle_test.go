package lifecycle

import (
	"errors"
	"testing"
)

func TestCheckStatus_AllowedEdges(t *testing.T) {
	cases := []struct{ from, to string }{
		{StatusScheduled, StatusAttended},
		{StatusScheduled, StatusNoShow},
		{StatusScheduled, StatusCancelled},
	}
	for _, c := range cases {
		if err := CheckStatus(c.from, c.to); err != nil {
			t.Errorf("CheckStatus(%s, %s) = %v, want nil", c.from, c.to, err)
		}
	}
}

func TestCheckStatus_IllegalEdges(t *testing.T) {
	cases := []struct{ from, to string }{
		{StatusAttended, StatusScheduled},
		{StatusAttended, StatusNoShow},
		{StatusNoShow, StatusAttended},
		{StatusCancelled, StatusScheduled},
	}
	for _, c := range cases {
		if err := CheckStatus(c.from, c.to); !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("CheckStatus(%s, %s) = %v, want ErrIllegalTransition", c.from, c.to, err)
		}
	}
}

// Repeating the current state must succeed so that a double-submitted status
// update leaves the row in the same terminal state.
func TestCheckStatus_SelfTransitionIdempotent(t *testing.T) {
	for _, s := range []string{StatusScheduled, StatusAttended, StatusNoShow, StatusCancelled} {
		if err := CheckStatus(s, s); err != nil {
			t.Errorf("CheckStatus(%s, %s) = %v, want nil", s, s, err)
		}
	}
}

func TestCheckStatus_UnknownState(t *testing.T) {
	if err := CheckStatus("booked", StatusAttended); !errors.Is(err, ErrUnknownState) {
		t.Errorf("got %v, want ErrUnknownState", err)
	}
	if err := CheckStatus(StatusScheduled, "done"); !errors.Is(err, ErrUnknownState) {
		t.Errorf("got %v, want ErrUnknownState", err)
	}
}

func TestCheckReportStatus_RequiresAttendance(t *testing.T) {
	err := CheckReportStatus(ReportProcessing, ReportInQC, StatusScheduled)
	if !errors.Is(err, ErrReportBeforeAttendance) {
		t.Fatalf("got %v, want ErrReportBeforeAttendance", err)
	}
	if err := CheckReportStatus(ReportProcessing, ReportInQC, StatusAttended); err != nil {
		t.Fatalf("got %v, want nil", err)
	}
}

func TestCheckReportStatus_HappyPath(t *testing.T) {
	steps := []struct{ from, to string }{
		{ReportProcessing, ReportInQC},
		{ReportInQC, ReportPartiallyUploaded},
		{ReportPartiallyUploaded, ReportUploaded},
		{ReportUploaded, ReportShared},
	}
	for _, s := range steps {
		if err := CheckReportStatus(s.from, s.to, StatusAttended); err != nil {
			t.Errorf("CheckReportStatus(%s, %s) = %v, want nil", s.from, s.to, err)
		}
	}
}

func TestCheckReportStatus_UploadedMayRegress(t *testing.T) {
	if err := CheckReportStatus(ReportUploaded, ReportPartiallyUploaded, StatusAttended); err != nil {
		t.Fatalf("got %v, want nil", err)
	}
}

func TestCheckReportStatus_CancelFromAnyNonTerminal(t *testing.T) {
	for _, s := range []string{ReportProcessing, ReportInQC, ReportUploaded, ReportPartiallyUploaded} {
		if err := CheckReportStatus(s, ReportCancelled, StatusAttended); err != nil {
			t.Errorf("CheckReportStatus(%s, cancelled) = %v, want nil", s, err)
		}
	}
}

func TestCheckReportStatus_TerminalStatesAreFinal(t *testing.T) {
	cases := []struct{ from, to string }{
		{ReportShared, ReportInQC},
		{ReportShared, ReportCancelled},
		{ReportCancelled, ReportProcessing},
	}
	for _, c := range cases {
		if err := CheckReportStatus(c.from, c.to, StatusAttended); !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("CheckReportStatus(%s, %s) = %v, want ErrIllegalTransition", c.from, c.to, err)
		}
	}
}

func TestCheckReportStatus_SkippingQCIsIllegal(t *testing.T) {
	if err := CheckReportStatus(ReportProcessing, ReportShared, StatusAttended); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("got %v, want ErrIllegalTransition", err)
	}
}

func TestCheckReportStatus_EmptyEntersThroughProcessing(t *testing.T) {
	if err := CheckReportStatus("", ReportProcessing, StatusAttended); err != nil {
		t.Fatalf("got %v, want nil", err)
	}
	if err := CheckReportStatus("", ReportInQC, StatusAttended); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("got %v, want ErrIllegalTransition", err)
	}
}

func TestCheckBookingStatus_HappyPath(t *testing.T) {
	steps := []struct{ from, to string }{
		{BookingSubmitted, BookingConfirmed},
		{BookingConfirmed, BookingCompleted},
	}
	for _, s := range steps {
		if err := CheckBookingStatus(s.from, s.to); err != nil {
			t.Errorf("CheckBookingStatus(%s, %s) = %v, want nil", s.from, s.to, err)
		}
	}
}

func TestCheckBookingStatus_CancelOnlyFromNonTerminal(t *testing.T) {
	for _, s := range []string{BookingSubmitted, BookingConfirmed} {
		if err := CheckBookingStatus(s, BookingCancelled); err != nil {
			t.Errorf("CheckBookingStatus(%s, cancelled) = %v, want nil", s, err)
		}
	}
	if err := CheckBookingStatus(BookingCompleted, BookingCancelled); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("got %v, want ErrIllegalTransition", err)
	}
}

func TestCheckBookingStatus_NoSkippingConfirmation(t *testing.T) {
	if err := CheckBookingStatus(BookingSubmitted, BookingCompleted); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("got %v, want ErrIllegalTransition", err)
	}
}
