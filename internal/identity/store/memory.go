package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/D00256764/u-vote-sub002/internal/identity"
	"github.com/D00256764/u-vote-sub002/pkg/platform/sentinel"
)

// MemoryStore keeps the unit-test and development implementation lightweight.
// Conditional transitions take the same single-writer path as Postgres.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]identity.IdentityToken
	voters map[uuid.UUID]identity.Voter
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		tokens: make(map[string]identity.IdentityToken),
		voters: make(map[uuid.UUID]identity.Voter),
	}
}

// AddVoter and AddToken stand in for the external provisioning workflow.
func (s *MemoryStore) AddVoter(voter identity.Voter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voters[voter.ID] = voter
}

func (s *MemoryStore) AddToken(token identity.IdentityToken) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Token] = token
}

func (s *MemoryStore) FindToken(_ context.Context, token string) (identity.IdentityToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return identity.IdentityToken{}, sentinel.ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) FindVoter(_ context.Context, voterID uuid.UUID) (identity.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.voters[voterID]
	if !ok {
		return identity.Voter{}, sentinel.ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) ConsumeToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return sentinel.ErrNotFound
	}
	if t.Used {
		return sentinel.ErrAlreadyUsed
	}
	t.Used = true
	s.tokens[token] = t
	return nil
}

func (s *MemoryStore) MarkVoted(_ context.Context, voterID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.voters[voterID]
	if !ok {
		return sentinel.ErrNotFound
	}
	v.HasVoted = true
	s.voters[voterID] = v
	return nil
}
