package pdfutil

import (
	"bytes"
	"testing"

	"github.com/go-pdf/fpdf"
)

func TestPageCountRejectsGarbage(t *testing.T) {
	if _, err := PageCount([]byte("definitely not a pdf document")); err == nil {
		t.Fatalf("expected error for non-pdf bytes")
	}
	if _, err := PageCount(nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestPageCountReadsGeneratedDocument(t *testing.T) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 12)
	doc.AddPage()
	doc.Cell(40, 10, "brief")
	doc.AddPage()
	doc.Cell(40, 10, "appendix")
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("generate pdf: %v", err)
	}
	n, err := PageCount(buf.Bytes())
	if err != nil {
		t.Fatalf("page count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 pages, got %d", n)
	}
}
