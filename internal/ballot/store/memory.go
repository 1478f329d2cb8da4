package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/D00256764/u-vote-sub002/internal/ballot"
	"github.com/D00256764/u-vote-sub002/internal/chain"
	"github.com/D00256764/u-vote-sub002/pkg/platform/sentinel"
)

// MemoryStore mirrors the Postgres semantics for unit tests and dev mode:
// conditional consume, per-election chain, receipt lookup.
type MemoryStore struct {
	mu             sync.Mutex
	authorizations map[string]*ballot.AuthorizationToken
	chains         map[uuid.UUID][]ballot.EncryptedBallot
	receipts       map[string]int // receipt token -> index into its chain
	receiptChain   map[string]uuid.UUID
	nextID         int64
	now            func() time.Time
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		authorizations: make(map[string]*ballot.AuthorizationToken),
		chains:         make(map[uuid.UUID][]ballot.EncryptedBallot),
		receipts:       make(map[string]int),
		receiptChain:   make(map[string]uuid.UUID),
		now:            time.Now,
	}
}

func (s *MemoryStore) InsertAuthorization(_ context.Context, auth ballot.AuthorizationToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := auth
	s.authorizations[auth.Token] = &copied
	return nil
}

func (s *MemoryStore) ConsumeAuthorization(_ context.Context, token string, electionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	auth, ok := s.authorizations[token]
	if !ok || auth.ElectionID != electionID {
		return sentinel.ErrNotFound
	}
	if auth.Used {
		return sentinel.ErrAlreadyUsed
	}
	if !s.now().Before(auth.ExpiresAt) {
		return sentinel.ErrExpired
	}
	auth.Used = true
	return nil
}

func (s *MemoryStore) AppendBallot(_ context.Context, electionID uuid.UUID, payload []byte, receiptToken string) (ballot.EncryptedBallot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previousHash := chain.GenesisHash
	entries := s.chains[electionID]
	if len(entries) > 0 {
		previousHash = entries[len(entries)-1].BallotHash
	}

	castAt := chain.CanonicalTime(s.now())
	s.nextID++
	entry := ballot.EncryptedBallot{
		ID:           s.nextID,
		ElectionID:   electionID,
		Payload:      append([]byte(nil), payload...),
		CastAt:       castAt,
		PreviousHash: previousHash,
		BallotHash:   chain.BallotHash(electionID, payload, castAt, previousHash),
		ReceiptToken: receiptToken,
	}
	s.chains[electionID] = append(entries, entry)
	s.receipts[receiptToken] = len(s.chains[electionID]) - 1
	s.receiptChain[receiptToken] = electionID
	return entry, nil
}

func (s *MemoryStore) FindReceipt(_ context.Context, receiptToken string) (ballot.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.receipts[receiptToken]
	if !ok {
		return ballot.Receipt{}, sentinel.ErrNotFound
	}
	entry := s.chains[s.receiptChain[receiptToken]][idx]
	return ballot.Receipt{
		ReceiptToken: entry.ReceiptToken,
		BallotHash:   entry.BallotHash,
		ElectionID:   entry.ElectionID,
		CastAt:       entry.CastAt,
	}, nil
}

func (s *MemoryStore) ListByElection(_ context.Context, electionID uuid.UUID) ([]ballot.EncryptedBallot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ballot.EncryptedBallot(nil), s.chains[electionID]...), nil
}

// Tamper mutates a stored entry in place. Test hook for verification
// scenarios; the real ledger rejects this at the database layer.
func (s *MemoryStore) Tamper(electionID uuid.UUID, index int, mutate func(*ballot.EncryptedBallot)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.chains[electionID]
	if index < 0 || index >= len(entries) {
		return false
	}
	mutate(&entries[index])
	return true
}
