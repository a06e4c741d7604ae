package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	seed := []struct {
		id     string
		offset time.Duration
	}{
		{"old", 0},
		{"new", 2 * time.Hour},
		{"mid", time.Hour},
	}
	for _, s := range seed {
		sub := &model.Submission{ID: s.id, Name: "n", Status: model.StatusPending, SubmittedAt: base.Add(s.offset)}
		if err := store.Create(ctx, sub); err != nil {
			t.Fatalf("create %s: %v", s.id, err)
		}
	}
	if err := store.Create(ctx, &model.Submission{ID: "old"}); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ID != "new" || list[1].ID != "mid" || list[2].ID != "old" {
		t.Fatalf("expected newest first, got %v", ids(list))
	}

	at := base.Add(3 * time.Hour)
	updated, err := store.UpdateStatus(ctx, "mid", model.StatusUpdate{
		Status:          model.StatusRejected,
		RejectionReason: "Budget mismatch",
		UpdatedAt:       at,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.StatusRejected || updated.RejectionReason != "Budget mismatch" || !updated.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if updated.Name != "n" {
		t.Fatalf("status update must not touch other fields")
	}

	if err := store.Delete(ctx, "mid"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "mid"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "mid"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := store.UpdateStatus(ctx, "missing", model.StatusUpdate{}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sub := &model.Submission{ID: "a", Files: []model.Attachment{{Name: "brief.pdf"}}}
	if err := store.Create(ctx, sub); err != nil {
		t.Fatalf("create: %v", err)
	}
	sub.Files[0].Name = "mutated"
	got, _ := store.Get(ctx, "a")
	if got.Files[0].Name != "brief.pdf" {
		t.Fatalf("store shares memory with caller")
	}
	got.Files[0].Name = "mutated"
	again, _ := store.Get(ctx, "a")
	if again.Files[0].Name != "brief.pdf" {
		t.Fatalf("store leaked internal slice")
	}
}

func ids(list []model.Submission) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].ID
	}
	return out
}
