package files

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

// Inline keeps attachment bytes inside the submission document as a
// base64 data URI.
type Inline struct{}

// NewInline constructs the inline backend.
func NewInline() *Inline {
	return &Inline{}
}

// Name identifies the backend in logs and configuration.
func (*Inline) Name() string { return "inline" }

// Put encodes the upload as a data URI.
func (*Inline) Put(_ context.Context, _ string, up model.Upload) (model.Attachment, error) {
	return model.Attachment{
		Name:    up.Name,
		Size:    up.Size(),
		Type:    up.Type,
		Content: EncodeDataURI(up.Type, up.Data),
	}, nil
}

// Open decodes the data URI back into bytes.
func (*Inline) Open(_ context.Context, att model.Attachment) (io.ReadCloser, error) {
	if !att.Inline() {
		return nil, ErrWrongBackend
	}
	_, data, err := DecodeDataURI(att.Content)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Remove is a no-op: the bytes disappear with the document.
func (*Inline) Remove(context.Context, model.Attachment) error {
	return nil
}

// EncodeDataURI renders data as data:<mime>;base64,<payload>.
func EncodeDataURI(mime string, data []byte) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI parses a base64 data URI produced by EncodeDataURI.
func DecodeDataURI(uri string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data uri")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data uri")
	}
	mime, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data uri is not base64 encoded")
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data uri: %w", err)
	}
	return mime, data, nil
}
