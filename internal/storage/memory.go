// Package storage contains the in-memory submission store. It backs tests and
// GATEWAY_STORE=memory deployments; nothing survives a restart.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xn-coder/Project-Gateway/internal/model"
)

// MemoryStore keeps submissions in a map guarded by an RWMutex so listings
// can proceed in parallel while writes stay exclusive.
type MemoryStore struct {
	mu          sync.RWMutex
	submissions map[string]*model.Submission
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		submissions: make(map[string]*model.Submission),
	}
}

// Create inserts a new submission. Ids are unique; reusing one is an error.
func (m *MemoryStore) Create(_ context.Context, sub *model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.submissions[sub.ID]; exists {
		return fmt.Errorf("submission %s already exists", sub.ID)
	}
	m.submissions[sub.ID] = sub.Clone()
	return nil
}

// List returns copies of every submission, newest first.
func (m *MemoryStore) List(_ context.Context) ([]model.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Submission, 0, len(m.submissions))
	for _, sub := range m.submissions {
		out = append(out, *sub.Clone())
	}
	// Map iteration order is random, so the order is imposed here.
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

// Get returns a copy of one submission.
func (m *MemoryStore) Get(_ context.Context, id string) (*model.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sub, ok := m.submissions[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return sub.Clone(), nil
}

// UpdateStatus writes the status columns and returns the updated copy.
func (m *MemoryStore) UpdateStatus(_ context.Context, id string, update model.StatusUpdate) (*model.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.submissions[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	update.Apply(sub)
	return sub.Clone(), nil
}

// Delete removes a submission.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.submissions[id]; !ok {
		return model.ErrNotFound
	}
	delete(m.submissions, id)
	return nil
}
