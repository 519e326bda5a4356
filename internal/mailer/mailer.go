// Package mailer assembles and sends the platform's outbound email for the
// three business events: booking submitted, booking failed and bill
// uploaded.  Assembly is pure (settings in, message out) so it can be tested
// without a mail server; delivery goes through gomail over SMTP.  A missing
// attachment never fails a send — the file is dropped with a warning and the
// mail goes out without it.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"strings"

	gomail "gopkg.in/gomail.v2"
)

// Settings carries the values the old system fetched through global settings
// lookups.  It is passed explicitly into every build function so assembly
// stays testable without a container.
type Settings struct {
	AppName          string
	CompanyShortName string
	SupportEmail     string
	Signature        string
	CC               []string
	BCC              []string
}

// SMTPConfig holds the SMTP transport parameters.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Message is one assembled outbound email.  AttachmentPath, when set, is
// relative to the public media root and resolved to an absolute path at
// send time.
type Message struct {
	To             string
	CC             []string
	BCC            []string
	Subject        string
	HTMLBody       string
	AttachmentPath string
}

// sendFunc abstracts delivery so tests can capture messages instead of
// dialing a real server.
type sendFunc func(m *gomail.Message) error

// Mailer resolves attachments and delivers assembled messages.
type Mailer struct {
	cfg      SMTPConfig
	mediaDir string
	send     sendFunc
}

// New returns a Mailer that delivers through the configured SMTP server.
// mediaDir is the public media root that attachment paths are relative to.
func New(cfg SMTPConfig, mediaDir string) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	// DialAndSend is variadic and does not fit sendFunc directly.
	return &Mailer{cfg: cfg, mediaDir: mediaDir, send: func(gm *gomail.Message) error {
		return d.DialAndSend(gm)
	}}
}

// NewWithSender returns a Mailer with a custom delivery function.  Tests use
// this to assert on the assembled gomail message.
func NewWithSender(cfg SMTPConfig, mediaDir string, send func(m *gomail.Message) error) *Mailer {
	return &Mailer{cfg: cfg, mediaDir: mediaDir, send: send}
}

// Send delivers one message.  The attachment is resolved from its
// public-relative path; if the file is gone the send still proceeds and
// only a warning is logged, per the notification contract.
func (m *Mailer) Send(msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.cfg.From)
	gm.SetHeader("To", msg.To)
	if len(msg.CC) > 0 {
		gm.SetHeader("Cc", msg.CC...)
	}
	if len(msg.BCC) > 0 {
		gm.SetHeader("Bcc", msg.BCC...)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTMLBody)

	if msg.AttachmentPath != "" {
		abs := m.Abs(msg.AttachmentPath)
		if _, err := os.Stat(abs); err != nil {
			log.Printf("mailer: attachment %s missing, sending without it: %v", msg.AttachmentPath, err)
		} else {
			gm.Attach(abs)
		}
	}
	if err := m.send(gm); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", msg.To, err)
	}
	return nil
}

// Abs resolves a public-relative attachment path against the media root.
func (m *Mailer) Abs(rel string) string {
	return strings.TrimRight(m.mediaDir, "/") + "/" + strings.TrimLeft(rel, "/")
}

// Subject joins the non-empty short-code parts with " | " after
// sanitizing each one.
func Subject(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := sanitizeShortCode(p); s != "" {
			clean = append(clean, s)
		}
	}
	return strings.Join(clean, " | ")
}

// sanitizeShortCode strips underscores and collapses runs of whitespace, so
// stored identifiers read cleanly in a subject line.
func sanitizeShortCode(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// BookingInfo is the event payload shared by all three build functions.
// FailureReason is only meaningful for the booking-failed event and
// AttachmentPath only for events that carry a file.
type BookingInfo struct {
	Reference       string
	CompanyName     string
	OfficeName      string
	RequesterName   string
	RequesterEmail  string
	AppointmentDate string
	Slot            string
	EmployeeCount   uint32
	DependentCount  uint32
	FailureReason   string
	AttachmentPath  string
}

// BuildBookingSubmitted assembles the confirmation sent to the requester
// after a booking is recorded, with the export workbook attached.
func BuildBookingSubmitted(s Settings, b BookingInfo) (Message, error) {
	body, err := render(bookingSubmittedTmpl, templateData{Settings: s, Booking: b})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:             b.RequesterEmail,
		CC:             s.CC,
		BCC:            s.BCC,
		Subject:        Subject(s.CompanyShortName, s.AppName, "Booking "+b.Reference, b.OfficeName),
		HTMLBody:       body,
		AttachmentPath: b.AttachmentPath,
	}, nil
}

// BuildBookingFailed assembles the failure notice sent to the support
// mailbox with the requester on CC.
func BuildBookingFailed(s Settings, b BookingInfo) (Message, error) {
	body, err := render(bookingFailedTmpl, templateData{Settings: s, Booking: b})
	if err != nil {
		return Message{}, err
	}
	cc := s.CC
	if b.RequesterEmail != "" {
		cc = append(append([]string{}, cc...), b.RequesterEmail)
	}
	return Message{
		To:       s.SupportEmail,
		CC:       cc,
		BCC:      s.BCC,
		Subject:  Subject(s.CompanyShortName, s.AppName, "Booking failed "+b.Reference, b.OfficeName),
		HTMLBody: body,
	}, nil
}

// BuildBillUploaded assembles the notice sent to the requester when a bill
// is uploaded against one of their booking's applicants, with the bill
// attached.
func BuildBillUploaded(s Settings, b BookingInfo) (Message, error) {
	body, err := render(billUploadedTmpl, templateData{Settings: s, Booking: b})
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:             b.RequesterEmail,
		CC:             s.CC,
		BCC:            s.BCC,
		Subject:        Subject(s.CompanyShortName, s.AppName, "Bill uploaded "+b.Reference, b.OfficeName),
		HTMLBody:       body,
		AttachmentPath: b.AttachmentPath,
	}, nil
}

func render(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("mailer: render template: %w", err)
	}
	return buf.String(), nil
}
