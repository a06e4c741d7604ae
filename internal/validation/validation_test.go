package validation

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

var testLimits = Limits{
	MaxFiles:     5,
	MaxFileSize:  5 << 20,
	AllowedTypes: []string{"image/jpeg", "image/png", "application/pdf", "text/plain"},
}

func validInput() Input {
	return Input{
		Name:               "Alice",
		Email:              "a@x.com",
		ProjectTitle:       "Website Revamp",
		ProjectDescription: "Rebuild the marketing site with a new CMS.",
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var errs Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation Errors, got %v", err)
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field] = fe.Message
	}
	return out
}

func TestValidateAcceptsValidInput(t *testing.T) {
	v := New(testLimits)
	in := validInput()
	in.Phone = "+1 (555) 123-4567"
	in.Files = []model.Upload{{Name: "brief.txt", Type: "text/plain", Data: []byte("hello")}}
	if err := v.Validate(in); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestValidateReportsEveryViolation(t *testing.T) {
	v := New(testLimits)
	in := Input{
		Name:               "A",
		Email:              "not-an-email",
		Phone:              "abc",
		ProjectTitle:       "Web",
		ProjectDescription: "too short",
	}
	fields := fieldsOf(t, v.Validate(in))
	for _, name := range []string{"name", "email", "phone", "projectTitle", "projectDescription"} {
		if _, ok := fields[name]; !ok {
			t.Fatalf("expected error for %s, got %v", name, fields)
		}
	}
	if fields["projectDescription"] != "Project description must be at least 20 characters long." {
		t.Fatalf("unexpected message %q", fields["projectDescription"])
	}
}

func TestValidateDescriptionUpperBound(t *testing.T) {
	v := New(testLimits)
	in := validInput()
	in.ProjectDescription = strings.Repeat("x", 5001)
	fields := fieldsOf(t, v.Validate(in))
	if !strings.Contains(fields["projectDescription"], "at most 5000") {
		t.Fatalf("unexpected message %q", fields["projectDescription"])
	}
}

func TestValidateEmptyEmail(t *testing.T) {
	v := New(testLimits)
	in := validInput()
	in.Email = ""
	fields := fieldsOf(t, v.Validate(in))
	if fields["email"] != "Please enter a valid email address." {
		t.Fatalf("unexpected message %q", fields["email"])
	}
}

func TestValidateFileCount(t *testing.T) {
	v := New(testLimits)
	in := validInput()
	for i := 0; i < 6; i++ {
		in.Files = append(in.Files, model.Upload{Name: "a.txt", Type: "text/plain", Data: []byte("x")})
	}
	fields := fieldsOf(t, v.Validate(in))
	if !strings.Contains(fields["files"], "at most 5") {
		t.Fatalf("expected file-count error, got %v", fields)
	}
}

func TestValidateFileSizeAndType(t *testing.T) {
	v := New(Limits{MaxFiles: 5, MaxFileSize: 200 << 10, AllowedTypes: testLimits.AllowedTypes})
	in := validInput()
	in.Files = []model.Upload{
		{Name: "big.png", Type: "image/png", Data: bytes.Repeat([]byte{1}, 200<<10+1)},
		{Name: "run.exe", Type: "application/x-msdownload", Data: []byte("MZ")},
		{Name: "empty.txt", Type: "text/plain"},
	}
	fields := fieldsOf(t, v.Validate(in))
	if fields["files[0]"] != "File size should be less than 200KB." {
		t.Fatalf("unexpected size message %q", fields["files[0]"])
	}
	if !strings.HasPrefix(fields["files[1]"], "Only .jpg") {
		t.Fatalf("unexpected type message %q", fields["files[1]"])
	}
	if _, ok := fields["files[2]"]; !ok {
		t.Fatalf("expected empty-file error, got %v", fields)
	}
}

func TestValidatePDFCheck(t *testing.T) {
	in := validInput()
	in.Files = []model.Upload{{Name: "brief.pdf", Type: "application/pdf", Data: []byte("not really a pdf")}}
	if err := New(testLimits).Validate(in); err != nil {
		t.Fatalf("pdf content should not be inspected without the option: %v", err)
	}
	fields := fieldsOf(t, New(testLimits, WithPDFCheck()).Validate(in))
	if fields["files[0]"] != "File is not a readable PDF document." {
		t.Fatalf("unexpected message %q", fields["files[0]"])
	}
}

func TestValidateEmptyFileStillChecksType(t *testing.T) {
	in := validInput()
	in.Files = []model.Upload{{Name: "x.exe", Type: "application/x-msdownload"}}
	var errs Errors
	if !errors.As(New(testLimits).Validate(in), &errs) {
		t.Fatalf("expected validation Errors")
	}
	var msgs []string
	for _, fe := range errs {
		if fe.Field == "files[0]" {
			msgs = append(msgs, fe.Message)
		}
	}
	if len(msgs) != 2 || msgs[0] != "Please upload a non-empty file." || !strings.HasPrefix(msgs[1], "Only .jpg") {
		t.Fatalf("expected empty and type errors, got %q", msgs)
	}

	in.Files = []model.Upload{{Name: "blank.pdf", Type: "application/pdf"}}
	errs = nil
	if !errors.As(New(testLimits, WithPDFCheck()).Validate(in), &errs) {
		t.Fatalf("expected validation Errors")
	}
	if len(errs) != 1 || errs[0].Message != "Please upload a non-empty file." {
		t.Fatalf("empty pdf should only report emptiness, got %v", errs)
	}
}
