package mailer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	gomail "gopkg.in/gomail.v2"
)

func testSettings() Settings {
	return Settings{
		AppName:          "Arogya_Desk",
		CompanyShortName: "ACME",
		SupportEmail:     "support@example.com",
		Signature:        "Team Arogya",
		CC:               []string{"hr@example.com"},
	}
}

func testBooking() BookingInfo {
	return BookingInfo{
		Reference:       "BK-42",
		CompanyName:     "Acme Industries",
		OfficeName:      "Pune_HQ",
		RequesterName:   "Priya Nair",
		RequesterEmail:  "priya@example.com",
		AppointmentDate: "2026-09-10",
		Slot:            "09:00-12:00",
		EmployeeCount:   3,
		DependentCount:  1,
	}
}

func TestSubject_SanitizesShortCodes(t *testing.T) {
	got := Subject("ACME", "Arogya_Desk", "Booking BK-42", "Pune_HQ")
	want := "ACME | Arogya Desk | Booking BK-42 | Pune HQ"
	if got != want {
		t.Fatalf("Subject = %q, want %q", got, want)
	}
}

func TestSubject_DropsEmptyParts(t *testing.T) {
	if got := Subject("", "App", "  ", "Office"); got != "App | Office" {
		t.Fatalf("Subject = %q, want %q", got, "App | Office")
	}
}

func TestBuildBookingSubmitted(t *testing.T) {
	msg, err := BuildBookingSubmitted(testSettings(), testBooking())
	if err != nil {
		t.Fatalf("BuildBookingSubmitted: %v", err)
	}
	if msg.To != "priya@example.com" {
		t.Errorf("To = %q", msg.To)
	}
	if len(msg.CC) != 1 || msg.CC[0] != "hr@example.com" {
		t.Errorf("CC = %v", msg.CC)
	}
	if !strings.Contains(msg.HTMLBody, "BK-42") || !strings.Contains(msg.HTMLBody, "Priya Nair") {
		t.Errorf("body missing booking fields: %s", msg.HTMLBody)
	}
	if !strings.Contains(msg.Subject, "Booking BK-42") {
		t.Errorf("Subject = %q", msg.Subject)
	}
}

func TestBuildBookingFailed_GoesToSupportWithRequesterCC(t *testing.T) {
	b := testBooking()
	b.FailureReason = "duplicate applicant rows"
	msg, err := BuildBookingFailed(testSettings(), b)
	if err != nil {
		t.Fatalf("BuildBookingFailed: %v", err)
	}
	if msg.To != "support@example.com" {
		t.Errorf("To = %q", msg.To)
	}
	found := false
	for _, cc := range msg.CC {
		if cc == "priya@example.com" {
			found = true
		}
	}
	if !found {
		t.Errorf("requester not CCed: %v", msg.CC)
	}
	if !strings.Contains(msg.HTMLBody, "duplicate applicant rows") {
		t.Errorf("body missing failure reason")
	}
}

// A send whose attachment file has been deleted must still succeed; the
// attachment is silently dropped (warning log only).
func TestSend_MissingAttachmentIsNotFatal(t *testing.T) {
	var sent *gomail.Message
	m := NewWithSender(SMTPConfig{From: "noreply@example.com"}, t.TempDir(),
		func(gm *gomail.Message) error { sent = gm; return nil })

	err := m.Send(Message{
		To:             "priya@example.com",
		Subject:        "test",
		HTMLBody:       "<p>hi</p>",
		AttachmentPath: "exports/deleted.xlsx",
	})
	if err != nil {
		t.Fatalf("Send returned %v, want nil", err)
	}
	if sent == nil {
		t.Fatal("message was not delivered")
	}
}

func TestSend_ExistingAttachmentIsAttached(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "exports"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "exports", "booking.xlsx"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	var sent *gomail.Message
	m := NewWithSender(SMTPConfig{From: "noreply@example.com"}, dir,
		func(gm *gomail.Message) error { sent = gm; return nil })

	if err := m.Send(Message{To: "a@b.c", Subject: "s", HTMLBody: "b", AttachmentPath: "exports/booking.xlsx"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sent == nil {
		t.Fatal("message was not delivered")
	}
}

func TestNew_WiresDialerSender(t *testing.T) {
	m := New(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"}, t.TempDir())
	if m.send == nil {
		t.Fatal("New returned a Mailer without a sender")
	}
	// The sender must be assignable from the dialer's variadic DialAndSend;
	// calling it here would dial a real server, so only the wiring is checked.
	var _ sendFunc = m.send
}
