package store

import (
	"context"
	"sync"
)

// MemorySlot is an in-process Slot. It backs tests and makes the
// round-trip property (Save then Load reproduces an equal State) cheap to
// verify without touching disk.
type MemorySlot struct {
	mu   sync.Mutex
	blob []byte
}

// NewMemorySlot returns an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

func (m *MemorySlot) Read(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blob == nil {
		return nil, nil
	}
	// Copy so the caller can't mutate the stored blob.
	out := make([]byte, len(m.blob))
	copy(out, m.blob)
	return out, nil
}

func (m *MemorySlot) Write(_ context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(blob))
	copy(stored, blob)
	m.blob = stored
	return nil
}
