package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/D00256764/u-vote-sub002/internal/chain"
	"github.com/D00256764/u-vote-sub002/internal/ledger"
)

// MemoryStore mirrors the Postgres chain semantics in process: appends are
// serialized per election and rows are never mutated after insert.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	events map[uuid.UUID][]ledger.Event
}

func NewMemory() *MemoryStore {
	return &MemoryStore{events: make(map[uuid.UUID][]ledger.Event)}
}

func (s *MemoryStore) Append(_ context.Context, event ledger.NewEvent) (ledger.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previousHash := chain.GenesisHash
	if existing := s.events[event.ElectionID]; len(existing) > 0 {
		previousHash = existing[len(existing)-1].EventHash
	}

	createdAt := chain.CanonicalTime(time.Now())
	s.nextID++
	appended := ledger.Event{
		ID:           s.nextID,
		ElectionID:   event.ElectionID,
		Type:         event.Type,
		Actor:        event.Actor,
		Detail:       append([]byte(nil), event.Detail...),
		CreatedAt:    createdAt,
		PreviousHash: previousHash,
		EventHash:    chain.EventHash(string(event.Type), event.ElectionID, event.Actor, event.Detail, createdAt, previousHash),
	}
	s.events[event.ElectionID] = append(s.events[event.ElectionID], appended)
	return appended, nil
}

func (s *MemoryStore) ListByElection(_ context.Context, electionID uuid.UUID) ([]ledger.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ledger.Event, len(s.events[electionID]))
	copy(out, s.events[electionID])
	return out, nil
}

// Tamper flips one byte of a stored field. Test-only hook for chain
// verification scenarios; the Postgres store has no equivalent because the
// triggers forbid it.
func (s *MemoryStore) Tamper(electionID uuid.UUID, index int, mutate func(*ledger.Event)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := s.events[electionID]
	if index < 0 || index >= len(events) {
		return false
	}
	mutate(&events[index])
	return true
}
