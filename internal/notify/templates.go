package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

const signature = "The Project Gateway Team"

// Email is a rendered message body.
type Email struct {
	Subject string
	HTML    string
	Text    string
}

type bodyData struct {
	Subject    string
	Paragraphs []template.HTML
	Meta       [][2]string
	ButtonURL  string
	ButtonText string
	Signature  string
}

var bodyTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
<div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px;">
{{range .Paragraphs}}<p style="margin:0 0 18px 0;line-height:1.7;">{{.}}</p>
{{end}}{{if .Meta}}<table role="presentation" cellpadding="0" cellspacing="0" width="100%" style="border:1px solid #e5e7eb;border-radius:12px;background-color:#f9fafb;margin:0 0 24px 0;">
{{range .Meta}}<tr><td style="padding:10px 16px;color:#6b7280;width:38%;">{{index . 0}}</td><td style="padding:10px 16px;color:#111827;font-weight:600;">{{index . 1}}</td></tr>
{{end}}</table>
{{end}}{{if .ButtonURL}}<div style="text-align:center;margin:12px 0 24px 0;"><a href="{{.ButtonURL}}" style="display:inline-block;padding:12px 28px;background-color:#2563eb;color:#ffffff;text-decoration:none;border-radius:999px;">{{.ButtonText}}</a></div>
{{end}}<p style="margin:0;line-height:1.7;">Best regards,<br/>{{.Signature}}</p>
</div>
</div>
</body>
</html>`))

// p escapes text and lets <strong> through for the parts we format ourselves.
func p(format string, args ...any) template.HTML {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = template.HTMLEscapeString(fmt.Sprint(a))
	}
	return template.HTML(fmt.Sprintf(format, escaped...))
}

func render(data bodyData) string {
	data.Signature = signature
	var buf bytes.Buffer
	if err := bodyTmpl.Execute(&buf, data); err != nil {
		// The template is static; failure here means a programming error.
		panic(err)
	}
	return buf.String()
}

func withSignature(text string) string {
	return text + "\n\nBest regards,\n" + signature
}

// SubmissionConfirmation is sent to the client after a successful submit.
func SubmissionConfirmation(projectTitle, clientName, submissionID string) Email {
	subject := fmt.Sprintf("Your Project \"%s\" Has Been Submitted", projectTitle)
	html := render(bodyData{
		Subject: subject,
		Paragraphs: []template.HTML{
			p("Dear %s,", clientName),
			p(`Thank you for submitting your project "<strong>%s</strong>". We have received your details and will review them shortly.`, projectTitle),
			p("Your Submission ID is: <strong>%s</strong>.", submissionID),
			p("You will be notified once there's an update on your submission status."),
		},
	})
	text := withSignature(fmt.Sprintf("Dear %s,\n\nThank you for submitting your project \"%s\". We have received your details and will review them shortly.\n"+
		"Your Submission ID is: %s.\nYou will be notified once there's an update on your submission status.", clientName, projectTitle, submissionID))
	return Email{Subject: subject, HTML: html, Text: text}
}

// AdminAlert tells the team a new submission arrived. dashboardURL may be
// empty, in which case no link is rendered.
func AdminAlert(projectTitle, clientName, clientEmail, submissionID, dashboardURL string) Email {
	subject := fmt.Sprintf("New Project Submission: \"%s\"", projectTitle)
	data := bodyData{
		Subject: subject,
		Paragraphs: []template.HTML{
			p(`A new project "<strong>%s</strong>" has been submitted.`, projectTitle),
			p("Please review it in the admin dashboard."),
		},
		Meta: [][2]string{
			{"Client Name", clientName},
			{"Client Email", clientEmail},
			{"Submission ID", submissionID},
		},
	}
	if dashboardURL != "" {
		data.ButtonURL = dashboardURL
		data.ButtonText = "Open dashboard"
	}
	var text strings.Builder
	fmt.Fprintf(&text, "A new project \"%s\" has been submitted.\n\nClient Name: %s\nClient Email: %s\nSubmission ID: %s\n\nPlease review it in the admin dashboard.",
		projectTitle, clientName, clientEmail, submissionID)
	if dashboardURL != "" {
		fmt.Fprintf(&text, "\n%s", dashboardURL)
	}
	return Email{Subject: subject, HTML: render(data), Text: text.String()}
}

// StatusUpdate tells the client about a triage decision. detail carries the
// conditions or the rejection reason.
func StatusUpdate(projectTitle, clientName string, status model.Status, detail string) Email {
	var (
		subject string
		paras   []template.HTML
		text    string
	)
	switch status {
	case model.StatusAccepted:
		subject = fmt.Sprintf("Congratulations! Your project \"%s\" has been accepted!", projectTitle)
		paras = []template.HTML{
			p("Dear %s,", clientName),
			p(`We are pleased to inform you that your project "<strong>%s</strong>" has been accepted.`, projectTitle),
			p("We will be in touch shortly with the next steps."),
		}
		text = fmt.Sprintf("Dear %s,\n\nWe are pleased to inform you that your project \"%s\" has been accepted.\nWe will be in touch shortly with the next steps.",
			clientName, projectTitle)
	case model.StatusAcceptedWithConditions:
		if detail == "" {
			detail = "Please contact us for details."
		}
		subject = fmt.Sprintf("Your project \"%s\" has been accepted with conditions", projectTitle)
		paras = []template.HTML{
			p("Dear %s,", clientName),
			p(`Your project "<strong>%s</strong>" has been accepted with the following conditions:`, projectTitle),
			p("<em>%s</em>", detail),
			p("Please review these conditions. We will contact you to discuss them further."),
		}
		text = fmt.Sprintf("Dear %s,\n\nYour project \"%s\" has been accepted with the following conditions:\n\n%s\n\n"+
			"Please review these conditions. We will contact you to discuss them further.", clientName, projectTitle, detail)
	case model.StatusRejected:
		if detail == "" {
			detail = "Not specified."
		}
		subject = fmt.Sprintf("Update on your project submission: \"%s\"", projectTitle)
		paras = []template.HTML{
			p("Dear %s,", clientName),
			p(`We regret to inform you that after careful consideration, your project "<strong>%s</strong>" has been rejected.`, projectTitle),
			p("<strong>Reason:</strong> %s", detail),
			p("If you would like to discuss this further, please feel free to contact us."),
		}
		text = fmt.Sprintf("Dear %s,\n\nWe regret to inform you that after careful consideration, your project \"%s\" has been rejected.\n\n"+
			"Reason: %s\n\nIf you would like to discuss this further, please feel free to contact us.", clientName, projectTitle, detail)
	default:
		subject = fmt.Sprintf("Update on your project submission: \"%s\"", projectTitle)
		paras = []template.HTML{
			p("Dear %s,", clientName),
			p(`The status of your project "<strong>%s</strong>" has been updated.`, projectTitle),
		}
		text = fmt.Sprintf("Dear %s,\n\nThe status of your project \"%s\" has been updated.", clientName, projectTitle)
	}
	return Email{Subject: subject, HTML: render(bodyData{Subject: subject, Paragraphs: paras}), Text: withSignature(text)}
}
