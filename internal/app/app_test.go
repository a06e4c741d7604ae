package app

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xn-coder/Project-Gateway/internal/config"
	"github.com/xn-coder/Project-Gateway/internal/model"
	"github.com/xn-coder/Project-Gateway/internal/submission"
	"github.com/xn-coder/Project-Gateway/internal/validation"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		Address:       ":0",
		PublicBaseURL: "http://localhost:8080",
		StoreDriver:   driver,
		FileStorage:   config.FilesInline,
		MaxFiles:      5,
		MaxFileSize:   200 << 10,
		AllowedTypes:  []string{"application/pdf", "text/plain"},
		VerifyPDF:     true,
		SessionSecret: []byte("session"),
		SessionTTL:    time.Hour,
		SigningSecret: []byte("signing"),
		SignedURLTTL:  time.Minute,
	}
}

func TestNewWiresStores(t *testing.T) {
	for _, driver := range []string{config.StoreMemory, config.StoreSQLite} {
		cfg := testConfig(driver)
		cfg.SQLitePath = filepath.Join(t.TempDir(), "gateway.db")
		a, err := New(t.Context(), cfg)
		if err != nil {
			t.Fatalf("%s: new: %v", driver, err)
		}
		subs, err := a.Service.List(t.Context(), submission.Query{})
		if err != nil || len(subs) != 0 {
			t.Fatalf("%s: list: %v %v", driver, subs, err)
		}
		rec := httptest.NewRecorder()
		a.Server().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: healthz %d", driver, rec.Code)
		}
		a.Close()
	}
}

func TestNewWarnsOnceWithoutSMTP(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	a, err := New(t.Context(), testConfig(config.StoreMemory))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()
	if n := strings.Count(buf.String(), "SMTP"); n != 1 {
		t.Fatalf("expected one SMTP warning, got %d:\n%s", n, buf.String())
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(t.Context(), testConfig("mongo")); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestValidatorChecksPDFsWhenEnabled(t *testing.T) {
	cfg := testConfig(config.StoreMemory)
	in := validation.Input{
		Name:               "Alice",
		Email:              "a@x.com",
		ProjectTitle:       "Website Revamp",
		ProjectDescription: "We need a new marketing site with a blog.",
	}
	in.Files = append(in.Files, fakePDF())
	if err := NewValidator(cfg).Validate(in); err == nil {
		t.Fatalf("expected unreadable PDF to be rejected")
	}
	cfg.VerifyPDF = false
	if err := NewValidator(cfg).Validate(in); err != nil {
		t.Fatalf("PDF check should be off: %v", err)
	}
}

func fakePDF() model.Upload {
	return model.Upload{Name: "brief.pdf", Type: "application/pdf", Data: []byte("%PDF-1.4 not really")}
}
