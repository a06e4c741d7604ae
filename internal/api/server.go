// Package api exposes the intake form endpoint, signed attachment downloads
// and the admin triage API over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/xn-coder/Project-Gateway/internal/auth"
	"github.com/xn-coder/Project-Gateway/internal/config"
	"github.com/xn-coder/Project-Gateway/internal/signing"
	"github.com/xn-coder/Project-Gateway/internal/submission"
)

// Server hosts the HTTP handlers.
type Server struct {
	cfg    *config.Config
	svc    *submission.Service
	authn  *auth.Authenticator
	signer *signing.Signer
	server *http.Server
	once   sync.Once
}

// New constructs a Server.
func New(cfg *config.Config, svc *submission.Service, authn *auth.Authenticator, signer *signing.Signer) *Server {
	return &Server{
		cfg:    cfg,
		svc:    svc,
		authn:  authn,
		signer: signer,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/submissions", s.handleSubmit)
	r.Get("/files/{id}/{index}", s.handleDownload)

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.authn.Middleware)
			r.Get("/session", s.handleSession)
			r.Get("/submissions", s.handleList)
			r.Route("/submissions/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Delete("/", s.handleDelete)
				r.Post("/accept", s.handleAccept)
				r.Post("/accept-with-conditions", s.handleAcceptWithConditions)
				r.Post("/reject", s.handleReject)
				r.Get("/files/{index}/link", s.handleFileLink)
				r.Get("/report.pdf", s.handleReport)
			})
		})
	})
	return r
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.once.Do(func() {
		s.server = &http.Server{
			Addr:              s.cfg.Address,
			Handler:           s.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
	})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()
	log.Printf("api listening on %s", s.cfg.Address)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// secureCookies is true when the public URL is served over TLS.
func (s *Server) secureCookies() bool {
	return strings.HasPrefix(s.cfg.PublicBaseURL, "https://")
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// respondError writes the failure envelope for err with a matching status.
func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusFor(err), submission.Failure(err))
}

func statusFor(err error) int {
	var verr *submission.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case submission.IsNotFound(err):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func badRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, submission.Result{Message: message})
}
