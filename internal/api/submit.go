package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/xn-coder/Project-Gateway/internal/files"
	"github.com/xn-coder/Project-Gateway/internal/model"
	"github.com/xn-coder/Project-Gateway/internal/submission"
	"github.com/xn-coder/Project-Gateway/internal/validation"
)

// maxFieldBytes bounds each non-file form value.
const maxFieldBytes = 64 << 10

var errTooLarge = errors.New("request body too large")

type jsonFile struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

type jsonSubmission struct {
	validation.Input
	Files []jsonFile `json:"files"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes())

	var (
		in  validation.Input
		err error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		in, err = s.readMultipart(r)
	case "application/json":
		in, err = readJSON(r)
	default:
		badRequest(w, "expecting a multipart form or a JSON body")
		return
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || errors.Is(err, errTooLarge) {
			respondJSON(w, http.StatusRequestEntityTooLarge, submission.Result{Message: "The upload is too large."})
			return
		}
		badRequest(w, err.Error())
		return
	}

	sub, err := s.svc.Submit(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, submission.Submitted(sub))
}

// maxBodyBytes leaves room for one file more than allowed so an extra file
// is reported as a validation error rather than a truncated body.
func (s *Server) maxBodyBytes() int64 {
	perFile := s.cfg.MaxFileSize
	if perFile <= 0 {
		perFile = 5 << 20
	}
	n := int64(s.cfg.MaxFiles + 1)
	// JSON bodies carry base64, which is a third larger.
	return n*(perFile+perFile/3+1024) + 1<<20
}

// readMultipart streams the form. Files arrive under "files" (several) or
// "file" (single); oversized files are cut at MaxFileSize+1 bytes so the
// validator can report them.
func (s *Server) readMultipart(r *http.Request) (validation.Input, error) {
	var in validation.Input
	mr, err := r.MultipartReader()
	if err != nil {
		return in, fmt.Errorf("read multipart form: %w", err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return in, nil
		}
		if err != nil {
			return in, err
		}
		switch name := part.FormName(); {
		case (name == "files" || name == "file") && part.FileName() != "":
			up, err := s.readFilePart(part)
			part.Close()
			if err != nil {
				return in, err
			}
			in.Files = append(in.Files, up)
		case !formFields[name]:
			_, err := io.Copy(io.Discard, part)
			part.Close()
			if err != nil {
				return in, err
			}
		default:
			value, err := readField(part)
			part.Close()
			if err != nil {
				return in, err
			}
			setField(&in, name, value)
		}
	}
}

func (s *Server) readFilePart(part *multipart.Part) (model.Upload, error) {
	data, err := io.ReadAll(io.LimitReader(part, s.cfg.MaxFileSize+1))
	if err != nil {
		return model.Upload{}, fmt.Errorf("read file %s: %w", part.FileName(), err)
	}
	// Drain the rest so the next part can be read.
	if _, err := io.Copy(io.Discard, part); err != nil {
		return model.Upload{}, err
	}
	return model.Upload{
		Name: part.FileName(),
		Type: contentType(part.Header.Get("Content-Type"), data),
		Data: data,
	}, nil
}

func readField(part *multipart.Part) (string, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(part, maxFieldBytes+1))
	if err != nil {
		return "", err
	}
	if n > maxFieldBytes {
		return "", errTooLarge
	}
	return buf.String(), nil
}

var formFields = map[string]bool{
	"name":               true,
	"email":              true,
	"phone":              true,
	"projectTitle":       true,
	"projectDescription": true,
}

func setField(in *validation.Input, name, value string) {
	switch name {
	case "name":
		in.Name = value
	case "email":
		in.Email = value
	case "phone":
		in.Phone = value
	case "projectTitle":
		in.ProjectTitle = value
	case "projectDescription":
		in.ProjectDescription = value
	}
}

// readJSON accepts files as data URIs or bare base64 strings.
func readJSON(r *http.Request) (validation.Input, error) {
	var body jsonSubmission
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return validation.Input{}, err
		}
		return validation.Input{}, errors.New("malformed JSON body")
	}
	in := body.Input
	for _, f := range body.Files {
		var (
			data []byte
			err  error
		)
		typ := f.Type
		if strings.HasPrefix(f.Content, "data:") {
			var declared string
			declared, data, err = files.DecodeDataURI(f.Content)
			if typ == "" {
				typ = declared
			}
		} else {
			data, err = base64.StdEncoding.DecodeString(f.Content)
		}
		if err != nil {
			return validation.Input{}, fmt.Errorf("file %s is not valid base64", f.Name)
		}
		in.Files = append(in.Files, model.Upload{Name: f.Name, Type: contentType(typ, data), Data: data})
	}
	return in, nil
}

// contentType trusts a declared type unless it is missing or generic.
func contentType(declared string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
		return mt
	}
	sniffed, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return sniffed
}
