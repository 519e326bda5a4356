package queue

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	gomail "gopkg.in/gomail.v2"

	"github.com/nivaan/health-booking-admin/internal/mailer"
)

func TestDedupeKey_SeparatesEvents(t *testing.T) {
	// Failed attempts have no booking row; without their own id they
	// would all collapse onto booking 0.
	f1 := NotificationEvent{Type: EventBookingFailed, EventID: "a1"}
	f2 := NotificationEvent{Type: EventBookingFailed, EventID: "b2"}
	if f1.DedupeKey() == f2.DedupeKey() {
		t.Fatalf("two failures share dedupe key %s", f1.DedupeKey())
	}

	// Two bills on one booking are distinct events, keyed by detail.
	b1 := NotificationEvent{Type: EventBillUploaded, BookingID: 7, EventID: "101"}
	b2 := NotificationEvent{Type: EventBillUploaded, BookingID: 7, EventID: "102"}
	if b1.DedupeKey() == b2.DedupeKey() {
		t.Fatalf("two bill uploads on one booking share dedupe key %s", b1.DedupeKey())
	}

	// A submitted event keys on its booking alone, and a redelivery of
	// the same event maps to the same key.
	s1 := NotificationEvent{Type: EventBookingSubmitted, BookingID: 7}
	s2 := NotificationEvent{Type: EventBookingSubmitted, BookingID: 7}
	if s1.DedupeKey() != s2.DedupeKey() {
		t.Fatalf("redelivered event changed key: %s vs %s", s1.DedupeKey(), s2.DedupeKey())
	}
	if !strings.Contains(s1.DedupeKey(), EventBookingSubmitted) {
		t.Fatalf("key %s does not carry the event type", s1.DedupeKey())
	}
}

func testConsumer(send func(*gomail.Message) error) *Consumer {
	m := mailer.NewWithSender(mailer.SMTPConfig{From: "noreply@example.com"}, "", send)
	return NewConsumer(m, mailer.Settings{AppName: "Bookings", SupportEmail: "ops@example.com"}, nil)
}

func submittedBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(NotificationEvent{
		Type:           EventBookingSubmitted,
		BookingID:      12,
		Reference:      "BK-12",
		CompanyName:    "Acme",
		RequesterName:  "Dana",
		RequesterEmail: "dana@acme.test",
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return body
}

func TestHandleMessage_SendsAndAcks(t *testing.T) {
	sent := 0
	c := testConsumer(func(*gomail.Message) error {
		sent++
		return nil
	})
	requeue, err := c.handleMessage(submittedBody(t))
	if err != nil {
		t.Fatalf("handleMessage: %v", err)
	}
	if requeue {
		t.Fatal("successful send asked for requeue")
	}
	if sent != 1 {
		t.Fatalf("sent %d mails, want 1", sent)
	}
}

func TestHandleMessage_SendFailureRequeues(t *testing.T) {
	c := testConsumer(func(*gomail.Message) error {
		return errors.New("smtp down")
	})
	requeue, err := c.handleMessage(submittedBody(t))
	if err == nil {
		t.Fatal("expected send error")
	}
	if !requeue {
		t.Fatal("transient send failure must requeue for redelivery")
	}
}

func TestHandleMessage_PoisonMessagesAreDropped(t *testing.T) {
	c := testConsumer(func(*gomail.Message) error {
		t.Fatal("no mail expected for an unreadable message")
		return nil
	})

	requeue, err := c.handleMessage([]byte("{not json"))
	if err == nil {
		t.Fatal("expected unmarshal error")
	}
	if requeue {
		t.Fatal("malformed message must not be requeued")
	}

	body, _ := json.Marshal(NotificationEvent{Type: "booking.unknown", BookingID: 3})
	requeue, err = c.handleMessage(body)
	if err == nil {
		t.Fatal("expected unknown type error")
	}
	if requeue {
		t.Fatal("unrecognized event type must not be requeued")
	}
}
