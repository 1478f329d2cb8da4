// Package bridge implements the anonymity pivot: it atomically consumes an
// identity token and mints an identity-free ballot authorization token.
//
// Core design contract, auditable by review of this file: no code path here
// writes, logs, or caches the voter reference and the minted authorization
// token together, not even transiently. The mapping between the two sides
// exists only inside the transaction's control flow and is never recorded.
package bridge

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/D00256764/u-vote-sub002/internal/ballot"
	"github.com/D00256764/u-vote-sub002/internal/election"
	"github.com/D00256764/u-vote-sub002/internal/identity"
	"github.com/D00256764/u-vote-sub002/internal/ledger"
	"github.com/D00256764/u-vote-sub002/internal/platform/metrics"
	dErrors "github.com/D00256764/u-vote-sub002/pkg/domain-errors"
	"github.com/D00256764/u-vote-sub002/pkg/platform/sentinel"
)

// IdentityConsumer is the bridge's capability over the identity side:
// lookup plus the two conditional transitions.
type IdentityConsumer interface {
	FindToken(ctx context.Context, token string) (identity.IdentityToken, error)
	ConsumeToken(ctx context.Context, token string) error
	MarkVoted(ctx context.Context, voterID uuid.UUID) error
}

// AuthorizationMinter is the bridge's only capability over the ballot side:
// inserting a fresh authorization row that carries the election reference and
// nothing else.
type AuthorizationMinter interface {
	InsertAuthorization(ctx context.Context, auth ballot.AuthorizationToken) error
}

// Tx provides the transactional boundary. Implementations wrap a database
// transaction (carried through ctx for the stores' execer) or, in-memory, a
// sharded lock.
type Tx interface {
	RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Auditor is the fire-and-forget audit sink.
type Auditor interface {
	Emit(ctx context.Context, event ledger.NewEvent)
}

type Service struct {
	identities IdentityConsumer
	minter     AuthorizationMinter
	tx         Tx
	gate       election.Gate
	audit      Auditor
	logger     *slog.Logger
	metrics    *metrics.Metrics
	authTTL    time.Duration
}

func NewService(
	identities IdentityConsumer,
	minter AuthorizationMinter,
	tx Tx,
	gate election.Gate,
	audit Auditor,
	logger *slog.Logger,
	m *metrics.Metrics,
	authTTL time.Duration,
) *Service {
	if authTTL <= 0 {
		authTTL = 10 * time.Minute
	}
	return &Service{
		identities: identities,
		minter:     minter,
		tx:         tx,
		gate:       gate,
		audit:      audit,
		logger:     logger,
		metrics:    m,
		authTTL:    authTTL,
	}
}

// IssueBallotAuthorization consumes the identity token and mints a ballot
// authorization in one atomic transaction. On any failure the whole
// transaction rolls back: a voter is never marked voted without an
// authorization existing, and vice versa.
func (s *Service) IssueBallotAuthorization(ctx context.Context, identityToken string) (ballot.AuthorizationToken, error) {
	if identityToken == "" {
		return ballot.AuthorizationToken{}, dErrors.New(dErrors.CodeBadRequest, "token is required")
	}

	var auth ballot.AuthorizationToken
	var electionID uuid.UUID

	err := s.tx.RunInTx(ctx, identityToken, func(txCtx context.Context) error {
		t, err := s.identities.FindToken(txCtx, identityToken)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "identity token not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "identity token lookup failed")
		}
		if t.Expired(time.Now()) {
			return dErrors.New(dErrors.CodeTokenExpired, "identity token expired")
		}

		open, err := s.gate.IsOpen(txCtx, t.ElectionID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "election lookup failed")
		}
		if !open {
			return dErrors.New(dErrors.CodeElectionNotOpen, "election is not open")
		}

		// The single conditional write that makes double issuance impossible:
		// whoever flips used wins, everyone else sees AlreadyUsed.
		if err := s.identities.ConsumeToken(txCtx, identityToken); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeTokenAlreadyUsed, "identity token already used")
			}
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "identity token not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "identity token consume failed")
		}

		if err := s.identities.MarkVoted(txCtx, t.VoterID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "voter state update failed")
		}

		minted, err := newAuthorizationToken()
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "authorization token generation failed")
		}
		now := time.Now()
		auth = ballot.AuthorizationToken{
			Token:      minted,
			ElectionID: t.ElectionID,
			IssuedAt:   now,
			ExpiresAt:  now.Add(s.authTTL),
		}
		if err := s.minter.InsertAuthorization(txCtx, auth); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "authorization insert failed")
		}

		electionID = t.ElectionID
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConcurrency) {
			return ballot.AuthorizationToken{}, dErrors.Wrap(err, dErrors.CodeConcurrencyConflict, "authorization issuance conflicted")
		}
		return ballot.AuthorizationToken{}, err
	}

	if s.metrics != nil {
		s.metrics.AuthorizationsIssued.Inc()
	}
	// Actor is derived from the consumed identity token; the minted token
	// never reaches the audit trail or the logs.
	s.audit.Emit(ctx, ledger.NewEvent{
		ElectionID: electionID,
		Type:       ledger.EventAuthorizationIssued,
		Actor:      ledger.ActorDigest(identityToken),
	})

	return auth, nil
}

// newAuthorizationToken returns 256 bits of entropy, URL-safe.
func newAuthorizationToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
