package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xn-coder/Project-Gateway/internal/files"
	"github.com/xn-coder/Project-Gateway/internal/model"
	"github.com/xn-coder/Project-Gateway/internal/report"
	"github.com/xn-coder/Project-Gateway/internal/signing"
	"github.com/xn-coder/Project-Gateway/internal/submission"
)

type linkResponse struct {
	Success   bool      `json:"success"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// attachment resolves {id} and {index} to a stored file.
func (s *Server) attachment(w http.ResponseWriter, r *http.Request) (string, int, model.Attachment, bool) {
	id := chi.URLParam(r, "id")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		badRequest(w, "invalid file index")
		return "", 0, model.Attachment{}, false
	}
	sub, err := s.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return "", 0, model.Attachment{}, false
	}
	if index >= len(sub.Files) {
		respondJSON(w, http.StatusNotFound, submission.Result{Message: "File not found."})
		return "", 0, model.Attachment{}, false
	}
	return id, index, sub.Files[index], true
}

func (s *Server) handleFileLink(w http.ResponseWriter, r *http.Request) {
	id, index, _, ok := s.attachment(w, r)
	if !ok {
		return
	}
	q, expires := s.signer.Query(id, index)
	url := fmt.Sprintf("%s/files/%s/%d?%s", s.cfg.PublicBaseURL, id, index, q.Encode())
	respondJSON(w, http.StatusOK, linkResponse{Success: true, URL: url, ExpiresAt: expires})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		badRequest(w, "invalid file index")
		return
	}
	q := r.URL.Query()
	switch err := s.signer.Validate(chi.URLParam(r, "id"), index, q.Get("expires"), q.Get("signature")); {
	case errors.Is(err, signing.ErrExpired):
		respondJSON(w, http.StatusForbidden, submission.Result{Message: "This link has expired."})
		return
	case err != nil:
		respondJSON(w, http.StatusForbidden, submission.Result{Message: "Invalid link."})
		return
	}
	_, _, att, ok := s.attachment(w, r)
	if !ok {
		return
	}
	rc, err := s.svc.Files().Open(r.Context(), att)
	if err != nil {
		if errors.Is(err, files.ErrWrongBackend) {
			respondJSON(w, http.StatusNotFound, submission.Result{Message: "File is not available from the active storage."})
			return
		}
		log.Printf("open attachment %q: %v", att.Name, err)
		respondJSON(w, http.StatusInternalServerError, submission.Result{Message: "Failed to read file."})
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", att.Type)
	w.Header().Set("Content-Length", strconv.FormatInt(att.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", files.SafeName(att.Name)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("stream attachment %q: %v", att.Name, err)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sub, err := s.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	// Render fully first so a failure can still produce an error response.
	var buf bytes.Buffer
	if err := report.Render(&buf, sub); err != nil {
		log.Printf("render report %s: %v", sub.ID, err)
		respondJSON(w, http.StatusInternalServerError, submission.Result{Message: "Failed to render report."})
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"submission-%s.pdf\"", sub.ID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
