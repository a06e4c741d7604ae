package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

func TestRenderProducesReadablePDF(t *testing.T) {
	updated := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	sub := &model.Submission{
		ID:                 "abc-123",
		Name:               "Zoë Alvarez",
		Email:              "zoe@example.com",
		Phone:              "+1 555 0100",
		ProjectTitle:       "Website Revamp",
		ProjectDescription: strings.Repeat("A new marketing site with a blog. ", 20),
		Status:             model.StatusRejected,
		RejectionReason:    "Budget mismatch",
		SubmittedAt:        time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:          &updated,
		Files: []model.Attachment{
			{Name: "brief.pdf", Size: 2048, Type: "application/pdf"},
			{Name: "logo.png", Size: 3 << 20, Type: "image/png"},
		},
	}
	var buf bytes.Buffer
	if err := Render(&buf, sub); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if !bytes.Contains(buf.Bytes(), []byte("%%EOF")) {
		t.Fatalf("PDF trailer missing")
	}
}

func TestFormatSize(t *testing.T) {
	cases := map[int64]string{
		512:     "512 B",
		2048:    "2.0 KB",
		5 << 20: "5.0 MB",
	}
	for in, want := range cases {
		if got := formatSize(in); got != want {
			t.Fatalf("formatSize(%d) = %q, want %q", in, got, want)
		}
	}
}
