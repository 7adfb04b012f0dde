package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Template data types.

// IntroRequestData fills the introduction-request email.
type IntroRequestData struct {
	CandidateName string
	EmployerName  string
	JobTitle      string
	ResponseURL   string
	ExpiresAt     time.Time
}

// CheckInData fills the scheduled check-in email.
type CheckInData struct {
	CandidateName string
	CompanyName   string
	Number        int
	ResponseURL   string
}

// FinalCheckInData fills the final yes/no check-in email.
type FinalCheckInData struct {
	CandidateName string
	CompanyName   string
	ResponseURL   string
}

// ExpiryWarningEntry is one row in the expiry digest.
type ExpiryWarningEntry struct {
	CandidateName string
	EmployerName  string
	EndsAt        time.Time
	LastCheckIn   string
}

// ExpiryDigestData fills the aggregated admin expiry warning.
type ExpiryDigestData struct {
	Entries []ExpiryWarningEntry
}

// PaymentReminderData fills the overdue-payment email.
type PaymentReminderData struct {
	EmployerName  string
	CandidateName string
	Part          string
	Amount        float64
}

// EscalationData fills the candidate-questions escalation email.
type EscalationData struct {
	CandidateID int64
	EmployerID  int64
	Message     string
}

var templates = template.Must(template.New("emails").Parse(`
{{define "intro_request"}}
<p>Hi {{.CandidateName}},</p>
<p>{{.EmployerName}} would like to be introduced to you{{if .JobTitle}} for the role of {{.JobTitle}}{{end}}.</p>
<p><a href="{{.ResponseURL}}">Accept, decline, or ask a question</a> before {{.ExpiresAt.Format "Jan 2, 2006"}}.</p>
{{end}}

{{define "checkin"}}
<p>Hi {{.CandidateName}},</p>
<p>A while ago we introduced you to {{.CompanyName}}. How is your search going?</p>
<p><a href="{{.ResponseURL}}">Reply with a quick update</a> — a sentence is plenty.</p>
{{end}}

{{define "final_checkin"}}
<p>Hi {{.CandidateName}},</p>
<p>One last question about your introduction to {{.CompanyName}}: did you end up working there?</p>
<p><a href="{{.ResponseURL}}">Yes or no — one click</a>.</p>
{{end}}

{{define "expiry_digest"}}
<p>The following introductions leave protection within a week:</p>
<ul>
{{range .Entries}}<li>{{.CandidateName}} / {{.EmployerName}} — ends {{.EndsAt.Format "Jan 2, 2006"}}{{if .LastCheckIn}} (last check-in: {{.LastCheckIn}}){{end}}</li>
{{end}}</ul>
{{end}}

{{define "payment_reminder"}}
<p>Hi {{.EmployerName}},</p>
<p>The {{.Part}} fee of {{printf "%.2f" .Amount}} for the placement of {{.CandidateName}} is overdue.</p>
{{end}}

{{define "escalation"}}
<p>Candidate {{.CandidateID}} responded to the introduction request from employer {{.EmployerID}} with questions:</p>
<blockquote>{{.Message}}</blockquote>
{{end}}
`))

// Render executes the named email template.
func Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}
