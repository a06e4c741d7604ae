package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xn-coder/Project-Gateway/internal/auth"
	"github.com/xn-coder/Project-Gateway/internal/model"
	"github.com/xn-coder/Project-Gateway/internal/submission"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		badRequest(w, "malformed JSON body")
		return
	}
	token, expires, err := s.authn.Login(req.Password)
	switch {
	case errors.Is(err, auth.ErrLoginDisabled):
		respondJSON(w, http.StatusUnauthorized, loginResponse{Message: "Admin login is not configured."})
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		log.Printf("admin login failed from %s", r.RemoteAddr)
		respondJSON(w, http.StatusUnauthorized, loginResponse{Message: "Invalid password."})
		return
	case err != nil:
		log.Printf("admin login: %v", err)
		respondJSON(w, http.StatusInternalServerError, loginResponse{Message: "Could not start a session."})
		return
	}
	http.SetCookie(w, auth.SessionCookie(token, expires, s.secureCookies()))
	respondJSON(w, http.StatusOK, loginResponse{Success: true, Message: "Signed in.", Token: token, ExpiresAt: &expires})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.SessionCookie("", time.Time{}, s.secureCookies()))
	respondJSON(w, http.StatusOK, submission.Result{Success: true, Message: "Signed out."})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	resp := loginResponse{Success: true, Message: "Session active."}
	if claims := auth.GetClaims(r.Context()); claims != nil && claims.ExpiresAt != nil {
		resp.ExpiresAt = &claims.ExpiresAt.Time
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	subs, err := s.svc.List(r.Context(), submission.Query{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	if subs == nil {
		subs = []model.Submission{}
	}
	respondJSON(w, http.StatusOK, subs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sub, err := s.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, submission.Outcome("Submission loaded.", sub, nil))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, submission.Result{Success: true, Message: submission.MsgDeleted})
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	sub, err := s.svc.Accept(r.Context(), chi.URLParam(r, "id"))
	s.respondOutcome(w, submission.MsgAccepted, sub, err)
}

func (s *Server) handleAcceptWithConditions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Conditions string `json:"conditions"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFieldBytes)).Decode(&body); err != nil {
		badRequest(w, "malformed JSON body")
		return
	}
	sub, err := s.svc.AcceptWithConditions(r.Context(), chi.URLParam(r, "id"), body.Conditions)
	s.respondOutcome(w, submission.MsgAcceptedWithConditions, sub, err)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFieldBytes)).Decode(&body); err != nil {
		badRequest(w, "malformed JSON body")
		return
	}
	sub, err := s.svc.Reject(r.Context(), chi.URLParam(r, "id"), body.Reason)
	s.respondOutcome(w, submission.MsgRejected, sub, err)
}

// respondOutcome reports a status change. A failed email still answers 200
// with a warning because the change itself was committed.
func (s *Server) respondOutcome(w http.ResponseWriter, message string, sub *model.Submission, err error) {
	result := submission.Outcome(message, sub, err)
	if !result.Success {
		respondJSON(w, statusFor(err), result)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
