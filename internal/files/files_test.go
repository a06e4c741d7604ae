package files

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

func TestInlineRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewInline()
	up := model.Upload{Name: "brief.pdf", Type: "application/pdf", Data: []byte("%PDF-1.4 body")}
	att, err := backend.Put(ctx, "sub-1", up)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if att.Name != "brief.pdf" || att.Size != int64(len(up.Data)) || att.Type != "application/pdf" {
		t.Fatalf("metadata not preserved: %+v", att)
	}
	if att.URL != "" || att.Content == "" {
		t.Fatalf("inline attachment must carry content only: %+v", att)
	}
	if want := "data:application/pdf;base64,"; att.Content[:len(want)] != want {
		t.Fatalf("unexpected data uri prefix: %s", att.Content)
	}
	rc, err := backend.Open(ctx, att)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != string(up.Data) {
		t.Fatalf("expected %q, got %q", up.Data, got)
	}
}

func TestInlineOpenRejectsExternal(t *testing.T) {
	_, err := NewInline().Open(context.Background(), model.Attachment{URL: "http://x/y", Key: "y"})
	if err != ErrWrongBackend {
		t.Fatalf("expected ErrWrongBackend, got %v", err)
	}
}

func TestDecodeDataURIErrors(t *testing.T) {
	for _, uri := range []string{"hello", "data:text/plain,abc", "data:text/plain;base64", "data:text/plain;base64,@@@"} {
		if _, _, err := DecodeDataURI(uri); err == nil {
			t.Fatalf("expected error for %q", uri)
		}
	}
}

func TestObjectKey(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	got := ObjectKey("abc", "../../etc/brief?.pdf", at)
	if !strings.HasPrefix(got, "submissions/abc/1700000000123_") || !strings.HasSuffix(got, "_brief_.pdf") {
		t.Fatalf("unexpected key layout %s", got)
	}
	if strings.Contains(strings.TrimPrefix(got, "submissions/abc/"), "/") {
		t.Fatalf("file name escaped the submission prefix: %s", got)
	}
}

func TestObjectKeyUniqueForSameNameAndInstant(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	seen := map[string]bool{}
	// "q?1.png" and "q#1.png" sanitize to the same name.
	for _, name := range []string{"image.png", "image.png", "q?1.png", "q#1.png"} {
		key := ObjectKey("sub-1", name, at)
		if seen[key] {
			t.Fatalf("duplicate key %s", key)
		}
		seen[key] = true
	}
}
