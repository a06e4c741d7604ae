package notify

import (
	"context"
	"errors"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

// Notifier turns workflow events into emails.
type Notifier struct {
	mailer       Mailer
	adminEmail   string
	dashboardURL string
}

// NewNotifier builds a Notifier. adminEmail may be empty to skip admin
// alerts; baseURL is used to link the admin dashboard.
func NewNotifier(mailer Mailer, adminEmail, baseURL string) *Notifier {
	n := &Notifier{mailer: mailer, adminEmail: adminEmail}
	if baseURL != "" {
		n.dashboardURL = baseURL + "/admin"
	}
	return n
}

// SubmissionReceived confirms receipt to the client and alerts the admin.
// Both sends are attempted; their errors are joined.
func (n *Notifier) SubmissionReceived(ctx context.Context, sub *model.Submission) error {
	confirm := SubmissionConfirmation(sub.ProjectTitle, sub.Name, sub.ID)
	err := n.send(ctx, sub.Email, confirm)
	if n.adminEmail != "" {
		alert := AdminAlert(sub.ProjectTitle, sub.Name, sub.Email, sub.ID, n.dashboardURL)
		err = errors.Join(err, n.send(ctx, n.adminEmail, alert))
	}
	return err
}

// StatusChanged informs the client of the submission's current status.
func (n *Notifier) StatusChanged(ctx context.Context, sub *model.Submission) error {
	detail := sub.AcceptanceConditions
	if sub.Status == model.StatusRejected {
		detail = sub.RejectionReason
	}
	return n.send(ctx, sub.Email, StatusUpdate(sub.ProjectTitle, sub.Name, sub.Status, detail))
}

func (n *Notifier) send(ctx context.Context, to string, e Email) error {
	return n.mailer.Send(ctx, Message{To: []string{to}, Subject: e.Subject, HTML: e.HTML, Text: e.Text})
}
