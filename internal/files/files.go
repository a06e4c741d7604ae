// Package files defines how submission attachments are persisted. A
// deployment picks exactly one Backend; calling code never needs to know
// which.
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

// ErrWrongBackend is returned when an attachment was not written by the
// backend asked to read or remove it.
var ErrWrongBackend = errors.New("attachment not stored by this backend")

// Backend stores, reads and removes attachment bytes.
type Backend interface {
	Name() string
	Put(ctx context.Context, submissionID string, up model.Upload) (model.Attachment, error)
	Open(ctx context.Context, att model.Attachment) (io.ReadCloser, error)
	Remove(ctx context.Context, att model.Attachment) error
}

// ObjectKey builds the storage path for an uploaded file:
// submissions/{id}/{millis}_{uuid}_{name}. The uuid segment makes every call
// unique, so same-named uploads within one millisecond never share a key.
func ObjectKey(submissionID, filename string, at time.Time) string {
	return fmt.Sprintf("submissions/%s/%d_%s_%s", submissionID, at.UnixMilli(), uuid.NewString(), SafeName(filename))
}

// SafeName strips directories and characters that are awkward in object keys.
func SafeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return -1
		case strings.ContainsRune(`?#%"<>`, r):
			return '_'
		}
		return r
	}, name)
}
