// Package validation holds the submission schema. Scalar fields are described
// with validator struct tags; attachment rules depend on deployment limits
// and are checked procedurally.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xn-coder/Project-Gateway/internal/model"
	pdfutil "github.com/xn-coder/Project-Gateway/internal/pdf"
)

var phonePattern = regexp.MustCompile(`^[+]?[0-9\s\-()]{7,20}$`)

// Input is a candidate submission as received from a client.
type Input struct {
	Name               string         `json:"name" validate:"min=2"`
	Email              string         `json:"email" validate:"required,email"`
	Phone              string         `json:"phone" validate:"omitempty,phone"`
	ProjectTitle       string         `json:"projectTitle" validate:"min=5"`
	ProjectDescription string         `json:"projectDescription" validate:"min=20,max=5000"`
	Files              []model.Upload `json:"-" validate:"-"`
}

// FieldError is a single violation scoped to a field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects every violation found in one Validate call.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, ", ")
}

// Limits bound the attachments accepted per submission.
type Limits struct {
	MaxFiles     int
	MaxFileSize  int64
	AllowedTypes []string
}

// Option customizes a Validator.
type Option func(*Validator)

// WithPDFCheck requires files declared as application/pdf to parse as PDF.
func WithPDFCheck() Option {
	return func(v *Validator) { v.checkPDF = true }
}

// Validator checks Input values against the schema.
type Validator struct {
	validate *validator.Validate
	limits   Limits
	allowed  map[string]struct{}
	checkPDF bool
}

// New builds a Validator for the given limits.
func New(limits Limits, opts ...Option) *Validator {
	v := validator.New()
	// Report json names so errors line up with the API payload.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	allowed := make(map[string]struct{}, len(limits.AllowedTypes))
	for _, t := range limits.AllowedTypes {
		allowed[strings.ToLower(t)] = struct{}{}
	}
	out := &Validator{validate: v, limits: limits, allowed: allowed}
	for _, opt := range opts {
		opt(out)
	}
	return out
}

// Limits returns the attachment limits in force.
func (v *Validator) Limits() Limits {
	return v.limits
}

// Validate returns nil or Errors listing all violations.
func (v *Validator) Validate(in Input) error {
	var errs Errors
	if err := v.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, FieldError{Field: fe.Field(), Message: message(fe)})
		}
	}
	errs = append(errs, v.validateFiles(in.Files)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *Validator) validateFiles(files []model.Upload) Errors {
	var errs Errors
	if v.limits.MaxFiles > 0 && len(files) > v.limits.MaxFiles {
		errs = append(errs, FieldError{
			Field:   "files",
			Message: fmt.Sprintf("You can upload at most %d file(s).", v.limits.MaxFiles),
		})
	}
	for i, f := range files {
		field := fmt.Sprintf("files[%d]", i)
		if f.Size() == 0 {
			errs = append(errs, FieldError{Field: field, Message: "Please upload a non-empty file."})
		}
		if v.limits.MaxFileSize > 0 && f.Size() > v.limits.MaxFileSize {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("File size should be less than %s.", humanSize(v.limits.MaxFileSize)),
			})
		}
		if _, ok := v.allowed[strings.ToLower(f.Type)]; !ok {
			errs = append(errs, FieldError{
				Field:   field,
				Message: "Only .jpg, .jpeg, .png, .webp, .pdf, .doc, .docx, .txt files are allowed.",
			})
			continue
		}
		if v.checkPDF && f.Size() > 0 && strings.EqualFold(f.Type, "application/pdf") {
			if _, err := pdfutil.PageCount(f.Data); err != nil {
				errs = append(errs, FieldError{Field: field, Message: "File is not a readable PDF document."})
			}
		}
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		return "Name must be at least 2 characters long."
	case "email":
		return "Please enter a valid email address."
	case "phone":
		return "Please enter a valid phone number."
	case "projectTitle":
		return "Project title must be at least 5 characters long."
	case "projectDescription":
		if fe.Tag() == "max" {
			return "Project description must be at most 5000 characters long."
		}
		return "Project description must be at least 20 characters long."
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dMB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dKB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}
