package notification

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Notification
}

// NewMemoryRepository builds an in-memory notification store for tests and
// database-less development runs.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Notification)}
}

func (r *memoryRepository) Create(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[n.ID] = n
	return nil
}

func (r *memoryRepository) ListForAccount(_ context.Context, accountID string) ([]Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Notification
	for _, n := range r.storage {
		if n.AccountID == accountID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memoryRepository) MarkRead(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.storage[id]
	if !ok {
		return ErrNotFound
	}
	n.Read = true
	r.storage[id] = n
	return nil
}

func (r *memoryRepository) MarkAllRead(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, n := range r.storage {
		if n.AccountID == accountID {
			n.Read = true
			r.storage[id] = n
		}
	}
	return nil
}
