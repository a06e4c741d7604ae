package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xn-coder/Project-Gateway/internal/config"
	"github.com/xn-coder/Project-Gateway/internal/model"
)

type recordingMailer struct {
	sent []Message
	err  error
}

func (r *recordingMailer) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func TestSubmissionConfirmation(t *testing.T) {
	e := SubmissionConfirmation("Website Revamp", "Alice", "abc-123")
	if e.Subject != `Your Project "Website Revamp" Has Been Submitted` {
		t.Fatalf("unexpected subject %q", e.Subject)
	}
	if !strings.Contains(e.HTML, "<strong>abc-123</strong>") || !strings.Contains(e.Text, "abc-123") {
		t.Fatalf("submission id missing from bodies")
	}
	if !strings.HasSuffix(e.Text, "The Project Gateway Team") {
		t.Fatalf("text body missing signature: %q", e.Text)
	}
}

func TestTemplatesEscapeClientInput(t *testing.T) {
	e := AdminAlert("<script>x</script>", "Bob & Co", "b@x.com", "id-1", "https://gw.example/admin")
	if strings.Contains(e.HTML, "<script>") {
		t.Fatalf("html body not escaped: %s", e.HTML)
	}
	if !strings.Contains(e.HTML, "Bob &amp; Co") {
		t.Fatalf("expected escaped client name")
	}
	if !strings.Contains(e.HTML, `href="https://gw.example/admin"`) {
		t.Fatalf("dashboard link missing")
	}
	if strings.Contains(AdminAlert("t", "n", "e", "i", "").HTML, "Open dashboard") {
		t.Fatalf("link rendered without a dashboard url")
	}
}

func TestStatusUpdateVariants(t *testing.T) {
	cases := []struct {
		status  model.Status
		detail  string
		subject string
		body    string
	}{
		{model.StatusAccepted, "", "has been accepted!", "has been accepted."},
		{model.StatusAcceptedWithConditions, "Fixed budget", "accepted with conditions", "Fixed budget"},
		{model.StatusAcceptedWithConditions, "", "accepted with conditions", "Please contact us for details."},
		{model.StatusRejected, "Budget mismatch", "Update on your project submission", "Reason: Budget mismatch"},
		{model.StatusRejected, "", "Update on your project submission", "Reason: Not specified."},
	}
	for _, tc := range cases {
		e := StatusUpdate("Website Revamp", "Alice", tc.status, tc.detail)
		if !strings.Contains(e.Subject, tc.subject) {
			t.Fatalf("%s: unexpected subject %q", tc.status, e.Subject)
		}
		if !strings.Contains(e.Text, tc.body) {
			t.Fatalf("%s: text body missing %q: %q", tc.status, tc.body, e.Text)
		}
	}
}

func TestNotifierSendsConfirmationAndAlert(t *testing.T) {
	m := &recordingMailer{}
	n := NewNotifier(m, "team@x.com", "https://gw.example")
	sub := &model.Submission{ID: "id-1", Name: "Alice", Email: "a@x.com", ProjectTitle: "Website Revamp"}
	if err := n.SubmissionReceived(context.Background(), sub); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(m.sent) != 2 || m.sent[0].To[0] != "a@x.com" || m.sent[1].To[0] != "team@x.com" {
		t.Fatalf("unexpected messages %+v", m.sent)
	}
	if !strings.Contains(m.sent[1].HTML, "https://gw.example/admin") {
		t.Fatalf("admin alert should link the dashboard")
	}
}

func TestNotifierStatusChangedUsesReason(t *testing.T) {
	m := &recordingMailer{err: errors.New("relay down")}
	n := NewNotifier(m, "", "")
	sub := &model.Submission{Name: "Alice", Email: "a@x.com", ProjectTitle: "Website Revamp",
		Status: model.StatusRejected, RejectionReason: "Budget mismatch"}
	if err := n.StatusChanged(context.Background(), sub); err == nil {
		t.Fatalf("expected mailer error to propagate")
	}
	if len(m.sent) != 1 || !strings.Contains(m.sent[0].Text, "Budget mismatch") {
		t.Fatalf("unexpected messages %+v", m.sent)
	}
}

func TestNewMailerWithoutSMTPLogsOnly(t *testing.T) {
	m := NewMailer(&config.Config{})
	if _, ok := m.(LogMailer); !ok {
		t.Fatalf("expected LogMailer, got %T", m)
	}
	if err := m.Send(context.Background(), Message{To: []string{"a@x.com"}, Subject: "hi"}); err != nil {
		t.Fatalf("log mailer must not fail: %v", err)
	}
	if _, ok := NewMailer(&config.Config{SMTPHost: "smtp.example", SMTPFrom: "gw@example", SMTPPort: 587}).(*SMTPMailer); !ok {
		t.Fatalf("expected SMTPMailer when configured")
	}
}
