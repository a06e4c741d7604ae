// Package report renders a printable one-page summary of a submission:
// contact details, the project brief, the triage decision and the list of
// attachments.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

// Render writes the summary PDF for sub to w.
func Render(w io.Writer, sub *model.Submission) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.SetTitle("Submission "+sub.ID, true)
	pdf.AddPage()
	// Core fonts are cp1252; translate so names like "Zoë" print correctly.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	marginL, marginT, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// Header bar
	pdf.SetFillColor(37, 99, 235)
	pdf.Rect(marginL, marginT, contentW, 11, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginL+2, marginT+2)
	pdf.CellFormat(contentW-4, 7, tr("PROJECT SUBMISSION  "+sub.ProjectTitle), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetY(marginT + 15)

	section(pdf, contentW, "CLIENT")
	row(pdf, tr, "Name", sub.Name)
	row(pdf, tr, "Email", sub.Email)
	if sub.Phone != "" {
		row(pdf, tr, "Phone", sub.Phone)
	}
	row(pdf, tr, "Submission ID", sub.ID)
	row(pdf, tr, "Submitted", sub.SubmittedAt.UTC().Format(time.RFC1123))
	pdf.Ln(4)

	section(pdf, contentW, "STATUS")
	row(pdf, tr, "Status", statusLabel(sub.Status))
	if sub.AcceptanceConditions != "" {
		row(pdf, tr, "Conditions", sub.AcceptanceConditions)
	}
	if sub.RejectionReason != "" {
		row(pdf, tr, "Reason", sub.RejectionReason)
	}
	if sub.UpdatedAt != nil {
		row(pdf, tr, "Updated", sub.UpdatedAt.UTC().Format(time.RFC1123))
	}
	pdf.Ln(4)

	section(pdf, contentW, "PROJECT DESCRIPTION")
	pdf.SetFont("Helvetica", "", 9.5)
	pdf.MultiCell(contentW, 5, tr(sub.ProjectDescription), "", "L", false)
	pdf.Ln(4)

	section(pdf, contentW, fmt.Sprintf("ATTACHMENTS (%d)", len(sub.Files)))
	if len(sub.Files) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 6, "No files were attached.", "", 1, "L", false, 0, "")
	}
	for i, f := range sub.Files {
		pdf.SetFont("Helvetica", "", 9)
		if i%2 == 1 {
			pdf.SetFillColor(248, 248, 248)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.CellFormat(contentW*0.55, 6, tr(f.Name), "", 0, "L", true, 0, "")
		pdf.CellFormat(contentW*0.3, 6, f.Type, "", 0, "L", true, 0, "")
		pdf.CellFormat(contentW*0.15, 6, formatSize(f.Size), "", 1, "R", true, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return pdf.Output(w)
}

func section(pdf *fpdf.Fpdf, width float64, title string) {
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(width, 6, title, "", 1, "L", true, 0, "")
	pdf.Ln(1)
}

func row(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont("Helvetica", "", 8.5)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(38, 5.5, label, "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.MultiCell(0, 5.5, tr(value), "", "L", false)
}

func statusLabel(s model.Status) string {
	switch s {
	case model.StatusPending:
		return "Pending review"
	case model.StatusAccepted:
		return "Accepted"
	case model.StatusAcceptedWithConditions:
		return "Accepted with conditions"
	case model.StatusRejected:
		return "Rejected"
	}
	return string(s)
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
