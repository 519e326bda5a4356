// Package queue defines the notification events exchanged over the message
// broker and the background consumer that turns them into outbound email.
package queue

import "fmt"

// Notification event types.
const (
	EventBookingSubmitted = "booking.submitted"
	EventBookingFailed    = "booking.failed"
	EventBillUploaded     = "booking.bill_uploaded"
)

// NotificationQueueName is the single durable queue all notification events
// flow through; Type discriminates the handling.
const NotificationQueueName = "booking.notifications"

// NotificationEvent is published when a booking is recorded, when recording
// fails after validation, or when a bill is uploaded.  It carries enough of
// the booking for the consumer to assemble the email without querying the
// primary database.  AttachmentPath is relative to the public media root
// and may point at a file that no longer exists by the time the consumer
// runs; the mailer degrades to sending without it.
type NotificationEvent struct {
	Type            string `json:"type"`
	EventID         string `json:"event_id,omitempty"`
	BookingID       uint64 `json:"booking_id"`
	Reference       string `json:"reference"`
	CompanyName     string `json:"company_name"`
	CompanyShort    string `json:"company_short"`
	OfficeName      string `json:"office_name"`
	RequesterName   string `json:"requester_name"`
	RequesterEmail  string `json:"requester_email"`
	AppointmentDate string `json:"appointment_date"`
	Slot            string `json:"slot"`
	EmployeeCount   uint32 `json:"employee_count"`
	DependentCount  uint32 `json:"dependent_count"`
	FailureReason   string `json:"failure_reason,omitempty"`
	AttachmentPath  string `json:"attachment_path,omitempty"`
	OccurredAt      string `json:"occurred_at"`
}

// DedupeKey identifies one event for the consumer's duplicate suppression.
// Publishers that can emit several events of the same type for one booking
// (failures, per-detail bill uploads) set EventID; for the rest the type and
// booking id are identity enough.
func (ev NotificationEvent) DedupeKey() string {
	if ev.EventID != "" {
		return fmt.Sprintf("notify:%s:%s", ev.Type, ev.EventID)
	}
	return fmt.Sprintf("notify:%s:%d", ev.Type, ev.BookingID)
}
