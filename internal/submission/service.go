// Package submission implements the intake workflow: accepting a client's
// project, listing and loading submissions for triage, and moving them
// through their status lifecycle.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xn-coder/Project-Gateway/internal/files"
	"github.com/xn-coder/Project-Gateway/internal/model"
	"github.com/xn-coder/Project-Gateway/internal/validation"
)

// Store persists submission documents. Implementations return
// model.ErrNotFound for unknown ids and order List newest first.
type Store interface {
	Create(ctx context.Context, sub *model.Submission) error
	List(ctx context.Context) ([]model.Submission, error)
	Get(ctx context.Context, id string) (*model.Submission, error)
	UpdateStatus(ctx context.Context, id string, update model.StatusUpdate) (*model.Submission, error)
	Delete(ctx context.Context, id string) error
}

// Notifier is told about workflow events.
type Notifier interface {
	SubmissionReceived(ctx context.Context, sub *model.Submission) error
	StatusChanged(ctx context.Context, sub *model.Submission) error
}

// Service coordinates validation, file storage, persistence and email.
type Service struct {
	store     Store
	files     files.Backend
	validator *validation.Validator
	notifier  Notifier
	now       func() time.Time
	newID     func() string
}

// NewService wires a Service.
func NewService(store Store, backend files.Backend, validator *validation.Validator, notifier Notifier) *Service {
	return &Service{
		store:     store,
		files:     backend,
		validator: validator,
		notifier:  notifier,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Files exposes the active attachment backend.
func (s *Service) Files() files.Backend {
	return s.files
}

// Submit validates the input, stores its files and creates a pending
// submission. Files already stored are removed again if a later step fails.
// Email failures are logged and do not fail the submission.
func (s *Service) Submit(ctx context.Context, in validation.Input) (*model.Submission, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.ProjectTitle = strings.TrimSpace(in.ProjectTitle)
	in.ProjectDescription = strings.TrimSpace(in.ProjectDescription)
	if err := s.validator.Validate(in); err != nil {
		var fields validation.Errors
		if errors.As(err, &fields) {
			return nil, &ValidationError{Fields: fields}
		}
		return nil, err
	}

	sub := &model.Submission{
		ID:                 s.newID(),
		Name:               in.Name,
		Email:              in.Email,
		Phone:              in.Phone,
		ProjectTitle:       in.ProjectTitle,
		ProjectDescription: in.ProjectDescription,
		Status:             model.StatusPending,
		SubmittedAt:        s.now().UTC(),
	}
	for _, up := range in.Files {
		att, err := s.files.Put(ctx, sub.ID, up)
		if err != nil {
			s.discard(ctx, sub)
			return nil, &PersistenceError{Op: "submit project", Err: fmt.Errorf("store file %s: %w", up.Name, err)}
		}
		sub.Files = append(sub.Files, att)
	}
	if err := s.store.Create(ctx, sub); err != nil {
		s.discard(ctx, sub)
		return nil, &PersistenceError{Op: "submit project", Err: err}
	}
	log.Printf("submission %s received from %s (%d file(s), %s backend)", sub.ID, sub.Email, len(sub.Files), s.files.Name())

	if err := s.notifier.SubmissionReceived(ctx, sub); err != nil {
		log.Printf("notify submission %s: %v", sub.ID, err)
	}
	return sub, nil
}

// List returns the submissions matching q.
func (s *Service) List(ctx context.Context, q Query) ([]model.Submission, error) {
	subs, err := s.store.List(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load submissions", Err: err}
	}
	return q.Apply(subs), nil
}

// Get loads one submission.
func (s *Service) Get(ctx context.Context, id string) (*model.Submission, error) {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, persistence("load submission", id, err)
	}
	return sub, nil
}

// Delete removes a submission and its stored files. File removal is best
// effort: each failure is logged and the remaining files and the record are
// still deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return persistence("delete submission", id, err)
	}
	s.discard(ctx, sub)
	if err := s.store.Delete(ctx, id); err != nil {
		return persistence("delete submission", id, err)
	}
	log.Printf("submission %s deleted", id)
	return nil
}

// Accept moves a pending submission to accepted.
func (s *Service) Accept(ctx context.Context, id string) (*model.Submission, error) {
	return s.transition(ctx, id, model.StatusAccepted, "")
}

// AcceptWithConditions moves a pending submission to acceptedWithConditions.
func (s *Service) AcceptWithConditions(ctx context.Context, id, conditions string) (*model.Submission, error) {
	return s.transition(ctx, id, model.StatusAcceptedWithConditions, conditions)
}

// Reject rejects a submission, including one that was already decided.
func (s *Service) Reject(ctx context.Context, id, reason string) (*model.Submission, error) {
	return s.transition(ctx, id, model.StatusRejected, reason)
}

// transition applies a status change. When only the email fails, the
// updated submission is returned together with a *NotificationError.
func (s *Service) transition(ctx context.Context, id string, status model.Status, detail string) (*model.Submission, error) {
	update, err := NewStatusUpdate(status, detail, s.now())
	if err != nil {
		return nil, err
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, persistence("update project status", id, err)
	}
	if !CanTransition(current.Status, status) {
		return nil, invalid("status", fmt.Sprintf("Cannot change status from %s to %s.", current.Status, status))
	}
	updated, err := s.store.UpdateStatus(ctx, id, update)
	if err != nil {
		return nil, persistence("update project status", id, err)
	}
	log.Printf("submission %s: %s -> %s", id, current.Status, updated.Status)

	if err := s.notifier.StatusChanged(ctx, updated); err != nil {
		log.Printf("notify status change %s: %v", id, err)
		return updated, &NotificationError{Err: err}
	}
	return updated, nil
}

func (s *Service) discard(ctx context.Context, sub *model.Submission) {
	for _, att := range sub.Files {
		if err := s.files.Remove(ctx, att); err != nil {
			log.Printf("remove file %q of submission %s: %v", att.Name, sub.ID, err)
		}
	}
}
