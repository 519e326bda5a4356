// Package lifecycle defines the appointment status and report status state
// machines for booking details.  The original workflow allowed any state to
// be overwritten by any other; here every transition is checked against an
// explicit allowed-edges table and illegal edges are rejected with a typed
// error so handlers can answer 422 instead of silently corrupting state.
package lifecycle

import (
	"errors"
	"time"
)

// Appointment status values for a booking detail.  A detail starts out
// scheduled and ends in exactly one of the terminal states.
const (
	StatusScheduled = "scheduled"
	StatusAttended  = "attended"
	StatusNoShow    = "no_show"
	StatusCancelled = "cancelled"
)

// Report status values.  The report dimension only becomes meaningful once
// the applicant has attended; processing is entered on that transition.
const (
	ReportProcessing        = "processing"
	ReportInQC              = "in_qc"
	ReportUploaded          = "report_uploaded"
	ReportPartiallyUploaded = "report_partially_uploaded"
	ReportShared            = "report_shared"
	ReportCancelled         = "cancelled"
)

// Overall booking status values, mirroring the model constants.
const (
	BookingSubmitted = "submitted"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// ErrUnknownState is returned when a state name is not part of either
// machine.  Handlers should treat this as a validation failure.
var ErrUnknownState = errors.New("unknown state")

// ErrIllegalTransition is returned when the requested edge is not in the
// allowed-edges table.  Handlers should translate this into a 422 response.
var ErrIllegalTransition = errors.New("illegal transition")

// ErrReportBeforeAttendance is returned when a report status change is
// requested while the appointment status is not attended.
var ErrReportBeforeAttendance = errors.New("report status requires attended appointment")

// statusEdges lists the outgoing edges of the appointment status machine.
// Self-transitions are handled separately in Check so that repeating a
// transition with the same target stays idempotent (last-write-wins on the
// audit pair, never append-only).
var statusEdges = map[string][]string{
	StatusScheduled: {StatusAttended, StatusNoShow, StatusCancelled},
	StatusAttended:  {},
	StatusNoShow:    {},
	StatusCancelled: {},
}

// reportEdges lists the outgoing edges of the report status machine.  An
// uploaded report may regress to partially uploaded when a later upload
// replaces part of the set before sharing.  Cancellation is reachable from
// every non-terminal state.
var reportEdges = map[string][]string{
	ReportProcessing:        {ReportInQC, ReportCancelled},
	ReportInQC:              {ReportUploaded, ReportPartiallyUploaded, ReportCancelled},
	ReportUploaded:          {ReportPartiallyUploaded, ReportShared, ReportCancelled},
	ReportPartiallyUploaded: {ReportUploaded, ReportShared, ReportCancelled},
	ReportShared:            {},
	ReportCancelled:         {},
}

// bookingEdges lists the outgoing edges of the overall booking machine.
var bookingEdges = map[string][]string{
	BookingSubmitted: {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCompleted: {},
	BookingCancelled: {},
}

// Transition captures a single requested state change together with the
// audit fields that are persisted alongside it.  Reason is free text and
// may be empty.  ActorID identifies the authenticated user performing the
// change.
type Transition struct {
	Target  string
	Reason  string
	ActorID uint64
	At      time.Time
}

// NewTransition builds a Transition stamped with the current UTC time.
func NewTransition(target, reason string, actorID uint64) Transition {
	return Transition{Target: target, Reason: reason, ActorID: actorID, At: time.Now().UTC()}
}

// CheckStatus validates a transition of the appointment status machine from
// the current state to the target.  Repeating the current state is allowed.
func CheckStatus(current, target string) error {
	return check(statusEdges, current, target)
}

// CheckReportStatus validates a transition of the report status machine.
// The appointment status must be attended for any report transition to be
// meaningful; everything else is rejected up front.  An empty current
// state enters the machine through processing only.
func CheckReportStatus(current, target, appointmentStatus string) error {
	if appointmentStatus != StatusAttended {
		return ErrReportBeforeAttendance
	}
	if current == "" {
		if target == ReportProcessing {
			return nil
		}
		return ErrIllegalTransition
	}
	return check(reportEdges, current, target)
}

// CheckBookingStatus validates a transition of the overall booking machine.
func CheckBookingStatus(current, target string) error {
	return check(bookingEdges, current, target)
}

// ValidStatus reports whether s names an appointment status.
func ValidStatus(s string) bool { _, ok := statusEdges[s]; return ok }

// ValidReportStatus reports whether s names a report status.
func ValidReportStatus(s string) bool { _, ok := reportEdges[s]; return ok }

// ValidBookingStatus reports whether s names an overall booking status.
func ValidBookingStatus(s string) bool { _, ok := bookingEdges[s]; return ok }

func check(edges map[string][]string, current, target string) error {
	out, ok := edges[current]
	if !ok {
		return ErrUnknownState
	}
	if _, ok := edges[target]; !ok {
		return ErrUnknownState
	}
	if current == target {
		return nil
	}
	for _, t := range out {
		if t == target {
			return nil
		}
	}
	return ErrIllegalTransition
}
