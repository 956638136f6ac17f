// Package repositories holds the History Log backends.
// Neither backend survives a restart.
package repositories

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"sync"
)

var _ contract.IHistory = (*MemoryHistory)(nil)

// MemoryHistory is an append-only, unbounded slice of entries.
type MemoryHistory struct {
	mu      sync.RWMutex
	entries []domain.Entry
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (h *MemoryHistory) Append(entry domain.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry)
	return nil
}

// Snapshot returns a copy, so later appends never show through.
func (h *MemoryHistory) Snapshot() ([]domain.Entry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snapshot := make([]domain.Entry, len(h.entries))
	copy(snapshot, h.entries)
	return snapshot, nil
}

func (h *MemoryHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
