// Package store owns the application state: users, the active session
// pointer, and each user's goals and meal ledger.
//
// PERSISTENCE MODEL — ONE BLOB, WHOLE-STATE WRITES:
// The entire state serialises to a single JSON document kept in one
// key-value slot (SQLite in production, memory in tests). Every mutating
// operation rewrites the whole blob. There are no partial writes, no
// transaction log, no schema version — forward compatibility is just
// defaulting missing top-level fields on load. That sounds crude, but for
// a single-session tracker whose state is a few kilobytes it is the
// simplest thing that is actually correct.
//
// EXPLICIT HANDLE, NOT GLOBAL STATE:
// Store is a value you construct and pass to the services that need it.
// Two independent Stores can coexist in one process (which is exactly what
// the tests do) — there is no package-level singleton to reset between
// test cases.
//
// CONCURRENCY: the app is single-session by design; all mutations happen
// as one synchronous read-modify-write-persist step. A mutex still guards
// the state because HTTP handlers run on separate goroutines.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nhasan/nutriai/internal/model"
)

// SlotKey is the single key under which the state blob lives.
const SlotKey = "nutri_ai_app_state"

// Slot is a single key-value storage cell. Read returns (nil, nil) when no
// blob has ever been written — the caller starts from an empty state.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, blob []byte) error
}

// State is the top-level aggregate that gets serialized.
//
// INVARIANTS (maintained by the auth service, relied on everywhere):
//   - every ID in CurrentSession or keyed in UserData belongs to a User in Users
//   - UserData has exactly one entry per User, created atomically at registration
type State struct {
	Users          []model.User         `json:"users"`
	CurrentSession string               `json:"currentSession"` // user ID, or "" when logged out
	UserData       map[string]*UserData `json:"userData"`
}

// UserData is one user's partition: their goal profile and meal ledger.
type UserData struct {
	Goals model.GoalProfile `json:"goals"`
	Meals []model.MealEntry `json:"meals"`
}

// Store is the owning handle for the in-memory State and its backing slot.
type Store struct {
	mu    sync.Mutex
	slot  Slot
	state State
}

// New creates a Store over the given slot with an empty in-memory state.
// Call Load before first use to pick up any previously persisted blob.
func New(slot Slot) *Store {
	return &Store{
		slot:  slot,
		state: emptyState(),
	}
}

func emptyState() State {
	return State{
		Users:          []model.User{},
		CurrentSession: "",
		UserData:       map[string]*UserData{},
	}
}

// Load reads the persisted blob and replaces the in-memory state.
//
// An absent slot yields the empty default state. A malformed blob does
// too — a best-effort local cache is not worth refusing to start over.
// Missing top-level fields in an otherwise valid blob are defaulted, so
// blobs saved by older shapes of the app still load.
func (s *Store) Load(ctx context.Context) error {
	blob, err := s.slot.Read(ctx)
	if err != nil {
		return fmt.Errorf("store: reading state blob: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if blob == nil {
		s.state = emptyState()
		return nil
	}

	var loaded State
	if err := json.Unmarshal(blob, &loaded); err != nil {
		s.state = emptyState()
		return nil
	}

	// Defensive defaults for missing top-level fields
	if loaded.Users == nil {
		loaded.Users = []model.User{}
	}
	if loaded.UserData == nil {
		loaded.UserData = map[string]*UserData{}
	}

	s.state = loaded
	return nil
}

// Save serializes the entire in-memory state and replaces the slot value.
// Write failures propagate to the caller; there is no retry path.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	blob, err := json.Marshal(s.state)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("store: serializing state: %w", err)
	}

	if err := s.slot.Write(ctx, blob); err != nil {
		return fmt.Errorf("store: writing state blob: %w", err)
	}
	return nil
}

// Update runs fn against the state under the lock. Mutations made by fn
// are in-memory only — the caller must Save afterwards to persist them.
func (s *Store) Update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// View runs fn against the state under the lock, for read-only access.
// fn must not retain pointers into the state after it returns.
func (s *Store) View(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}
