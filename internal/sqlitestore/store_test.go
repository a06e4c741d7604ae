package sqlitestore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	submitted := time.Date(2026, 3, 1, 9, 30, 0, 123456789, time.UTC)
	sub := &model.Submission{
		ID:                 "a",
		Name:               "Alice",
		Email:              "a@x.com",
		ProjectTitle:       "Website Revamp",
		ProjectDescription: "Rebuild the marketing site please.",
		Files:              []model.Attachment{{Name: "brief.pdf", Size: 2048, Type: "application/pdf", URL: "http://s3/b/k", Key: "k"}},
		Status:             model.StatusPending,
		SubmittedAt:        submitted,
	}
	if err := store.Create(ctx, sub); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.SubmittedAt.Equal(submitted) || got.UpdatedAt != nil || got.Phone != "" {
		t.Fatalf("unexpected row %+v", got)
	}
	if len(got.Files) != 1 || got.Files[0].Name != "brief.pdf" || got.Files[0].Size != 2048 || got.Files[0].Type != "application/pdf" {
		t.Fatalf("files not preserved: %+v", got.Files)
	}

	at := submitted.Add(time.Hour)
	updated, err := store.UpdateStatus(ctx, "a", model.StatusUpdate{
		Status:               model.StatusAcceptedWithConditions,
		AcceptanceConditions: "Fixed scope",
		UpdatedAt:            at,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.StatusAcceptedWithConditions || updated.AcceptanceConditions != "Fixed scope" || updated.RejectionReason != "" {
		t.Fatalf("unexpected update %+v", updated)
	}
	if updated.UpdatedAt == nil || !updated.UpdatedAt.Equal(at) {
		t.Fatalf("updated_at not stamped")
	}
	if updated.Name != "Alice" || len(updated.Files) != 1 {
		t.Fatalf("status update touched unrelated columns: %+v", updated)
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "a"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.UpdateStatus(ctx, "a", model.StatusUpdate{Status: model.StatusAccepted, UpdatedAt: at}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 9, 30, 5, 100000000, time.UTC)
	// .1s and .12s differ in length when formatted loosely; ordering must still hold.
	for id, at := range map[string]time.Time{"first": base, "second": base.Add(20 * time.Millisecond), "third": base.Add(time.Minute)} {
		if err := store.Create(ctx, &model.Submission{ID: id, Status: model.StatusPending, SubmittedAt: at}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ID != "third" || list[1].ID != "second" || list[2].ID != "first" {
		t.Fatalf("unexpected order: %v %v %v", list[0].ID, list[1].ID, list[2].ID)
	}
}
