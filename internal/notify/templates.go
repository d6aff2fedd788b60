package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/seventattoolv/vision-intake/internal/intake"
)

// templateData carries one rendered submission plus the variant labels.
type templateData struct {
	Heading      string
	MeaningLabel string
	AccentColor  string

	FullName   string
	Email      string
	Phone      string
	Artist     string
	SourceLink string
	Meaning    string
	Vision     string
	Placement  string
	Scale      string
	HearAbout  string
	Consent    string
	Submitted  string
	DBStatus   string
}

const notificationText = `{{.Heading}}
Submitted: {{.Submitted}}

Full Name: {{.FullName}}
Email: {{.Email}}
Phone: {{.Phone}}
Requested Artist: {{.Artist}}
Source Link: {{.SourceLink}}

{{.MeaningLabel}}:
{{.Meaning}}
{{if .Vision}}
Vision:
{{.Vision}}
{{end}}
Placement: {{.Placement}}
Scale: {{.Scale}}
How did you hear about us?: {{.HearAbout}}
Consent to review: {{.Consent}}
{{if .DBStatus}}
CRM record: {{.DBStatus}}
{{end}}`

const notificationHTML = `<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="background: {{.AccentColor}}; color: #ffffff; padding: 12px 16px;">{{.Heading}}</h2>
<p style="color: #6b7280;">Submitted: {{.Submitted}}</p>
<table style="border-collapse: collapse; margin: 20px 0;">
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Full Name:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.FullName}}</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Email:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Phone:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><a href="tel:{{.Phone}}">{{.Phone}}</a></td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Requested Artist:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.Artist}}</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Source Link:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.SourceLink}}</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Placement:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.Placement}}</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Scale:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.Scale}}</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Heard about us:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.HearAbout}}</td></tr>
  <tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>Consent to review:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">{{.Consent}}</td></tr>
</table>
<h3 style="color: {{.AccentColor}};">{{.MeaningLabel}}</h3>
<p style="white-space: pre-wrap;">{{.Meaning}}</p>
{{if .Vision}}<h3 style="color: {{.AccentColor}};">Vision</h3>
<p style="white-space: pre-wrap;">{{.Vision}}</p>
{{end}}{{if .DBStatus}}<p style="color: #6b7280; font-size: 12px;">CRM record: {{.DBStatus}}</p>
{{end}}</div>`

const confirmationText = `Hi {{.FullName}},

Thanks — we received your Vision Call request.

If it’s a fit, our team will reach out with next steps.

— Seven Tattoo`

var (
	notificationTextTmpl = texttemplate.Must(
		texttemplate.New("notification").Option("missingkey=error").Parse(notificationText))
	notificationHTMLTmpl = htmltemplate.Must(
		htmltemplate.New("notification").Option("missingkey=error").Parse(notificationHTML))
	confirmationTextTmpl = texttemplate.Must(
		texttemplate.New("confirmation").Option("missingkey=error").Parse(confirmationText))
)

func buildTemplateData(rec *intake.Record, dbStatus string, submitted time.Time) templateData {
	data := templateData{
		FullName:   rec.FullName,
		Email:      rec.Email,
		Phone:      rec.Phone,
		Artist:     rec.ArtistOrDefault(),
		SourceLink: orPlaceholder(rec.SourceLink),
		Meaning:    rec.Meaning,
		Vision:     rec.Vision,
		Placement:  rec.Placement,
		Scale:      rec.Scale,
		HearAbout:  rec.HearAbout,
		Consent:    "NO",
		Submitted:  submitted.UTC().Format(time.RFC1123),
		DBStatus:   dbStatus,
	}
	if rec.Consent {
		data.Consent = "YES"
	}

	switch rec.Variant() {
	case intake.VariantInquiry:
		data.Heading = "Seven Tattoo — General Contact Inquiry"
		data.MeaningLabel = "Message"
		data.AccentColor = "#6b7280"
	default:
		data.Heading = "Seven Tattoo — Vision Call / Booking Intake"
		data.MeaningLabel = "Meaning / Story"
		data.AccentColor = "#111111"
	}
	return data
}

// renderNotification produces the operator email subject, plain body and HTML
// body for one submission.
func renderNotification(rec *intake.Record, dbStatus string, submitted time.Time) (subject, body, html string, err error) {
	data := buildTemplateData(rec, dbStatus, submitted)

	switch rec.Variant() {
	case intake.VariantInquiry:
		subject = fmt.Sprintf("New CONTACT INQUIRY — %s", rec.FullName)
	default:
		subject = fmt.Sprintf("New VISION CALL intake — %s", rec.FullName)
	}

	var textBuf bytes.Buffer
	if err = notificationTextTmpl.Execute(&textBuf, data); err != nil {
		return "", "", "", fmt.Errorf("notify: render text: %w", err)
	}

	var htmlBuf bytes.Buffer
	if err = notificationHTMLTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", "", fmt.Errorf("notify: render html: %w", err)
	}

	return subject, textBuf.String(), htmlBuf.String(), nil
}

// renderConfirmation produces the applicant's confirmation copy.
func renderConfirmation(rec *intake.Record) (subject, body string, err error) {
	var buf bytes.Buffer
	if err = confirmationTextTmpl.Execute(&buf, buildTemplateData(rec, "", time.Now())); err != nil {
		return "", "", fmt.Errorf("notify: render confirmation: %w", err)
	}
	return "Seven Tattoo — We received your Vision Call request", buf.String(), nil
}

func orPlaceholder(s string) string {
	if s == "" {
		return intake.NotSpecified
	}
	return s
}
