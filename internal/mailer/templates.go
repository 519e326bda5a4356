package mailer

import "html/template"

// templateData is what every body template receives.
type templateData struct {
	Settings Settings
	Booking  BookingInfo
}

var bookingSubmittedTmpl = template.Must(template.New("booking_submitted").Parse(`
<p>Dear {{.Booking.RequesterName}},</p>
<p>Your booking <strong>{{.Booking.Reference}}</strong> for {{.Booking.OfficeName}} has been recorded.</p>
<table cellpadding="4">
  <tr><td>Company</td><td>{{.Booking.CompanyName}}</td></tr>
  <tr><td>Office</td><td>{{.Booking.OfficeName}}</td></tr>
  <tr><td>Appointment date</td><td>{{.Booking.AppointmentDate}}</td></tr>
  <tr><td>Slot</td><td>{{.Booking.Slot}}</td></tr>
  <tr><td>Employees</td><td>{{.Booking.EmployeeCount}}</td></tr>
  <tr><td>Dependents</td><td>{{.Booking.DependentCount}}</td></tr>
</table>
<p>The applicant sheet is attached. For any change please write to {{.Settings.SupportEmail}}.</p>
<p>{{.Settings.Signature}}</p>
`))

var bookingFailedTmpl = template.Must(template.New("booking_failed").Parse(`
<p>A booking submission from {{.Booking.RequesterName}} ({{.Booking.CompanyName}}, {{.Booking.OfficeName}}) could not be recorded.</p>
<p>Reference: <strong>{{.Booking.Reference}}</strong></p>
<p>Reason: {{.Booking.FailureReason}}</p>
<p>{{.Settings.Signature}}</p>
`))

var billUploadedTmpl = template.Must(template.New("bill_uploaded").Parse(`
<p>Dear {{.Booking.RequesterName}},</p>
<p>A bill has been uploaded against booking <strong>{{.Booking.Reference}}</strong> ({{.Booking.OfficeName}}).</p>
<p>The bill is attached. For queries please write to {{.Settings.SupportEmail}}.</p>
<p>{{.Settings.Signature}}</p>
`))
