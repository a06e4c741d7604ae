// Package app builds the object graph shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/xn-coder/Project-Gateway/internal/api"
	"github.com/xn-coder/Project-Gateway/internal/auth"
	"github.com/xn-coder/Project-Gateway/internal/config"
	"github.com/xn-coder/Project-Gateway/internal/database"
	"github.com/xn-coder/Project-Gateway/internal/files"
	"github.com/xn-coder/Project-Gateway/internal/notify"
	"github.com/xn-coder/Project-Gateway/internal/repository"
	"github.com/xn-coder/Project-Gateway/internal/s3storage"
	"github.com/xn-coder/Project-Gateway/internal/signing"
	"github.com/xn-coder/Project-Gateway/internal/sqlitestore"
	"github.com/xn-coder/Project-Gateway/internal/storage"
	"github.com/xn-coder/Project-Gateway/internal/submission"
	"github.com/xn-coder/Project-Gateway/internal/validation"
)

// App holds the wired dependencies. Close releases them.
type App struct {
	Config  *config.Config
	Service *submission.Service
	Auth    *auth.Authenticator
	Signer  *signing.Signer

	closers []func()
}

// New connects the configured store and file backend, creating the schema
// and bucket when missing, and wires the workflow on top.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}
	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	mailer := notify.NewMailer(cfg)
	notifier := notify.NewNotifier(mailer, cfg.AdminEmail, cfg.PublicBaseURL)

	a.Service = submission.NewService(store, backend, NewValidator(cfg), notifier)
	a.Auth = auth.New(cfg)
	a.Signer = signing.NewSigner(cfg.SigningSecret, cfg.SignedURLTTL)
	if !a.Auth.Enabled() {
		log.Printf("no admin credential configured; admin login is disabled")
	}
	log.Printf("using %s store with %s file storage", cfg.StoreDriver, backend.Name())
	return a, nil
}

// Server returns the HTTP server for this App.
func (a *App) Server() *api.Server {
	return api.New(a.Config, a.Service, a.Auth, a.Signer)
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// NewValidator applies the configured attachment limits.
func NewValidator(cfg *config.Config) *validation.Validator {
	limits := validation.Limits{
		MaxFiles:     cfg.MaxFiles,
		MaxFileSize:  cfg.MaxFileSize,
		AllowedTypes: cfg.AllowedTypes,
	}
	var opts []validation.Option
	if cfg.VerifyPDF {
		opts = append(opts, validation.WithPDFCheck())
	}
	return validation.New(limits, opts...)
}

func (a *App) openStore(ctx context.Context) (submission.Store, error) {
	switch a.Config.StoreDriver {
	case config.StorePostgres:
		pool, err := database.Connect(ctx, a.Config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := database.EnsureSchema(ctx, pool); err != nil {
			return nil, err
		}
		return repository.NewSubmissionRepository(pool), nil
	case config.StoreSQLite:
		store, err := sqlitestore.Open(ctx, a.Config.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() {
			if err := store.Close(); err != nil {
				log.Printf("close sqlite: %v", err)
			}
		})
		return store, nil
	case config.StoreMemory:
		return storage.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", a.Config.StoreDriver)
}

func openBackend(ctx context.Context, cfg *config.Config) (files.Backend, error) {
	switch cfg.FileStorage {
	case config.FilesInline:
		return files.NewInline(), nil
	case config.FilesS3:
		store, err := s3storage.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown file storage %q", cfg.FileStorage)
}
