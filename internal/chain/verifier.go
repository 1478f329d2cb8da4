package chain

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/D00256764/u-vote-sub002/internal/ballot"
	"github.com/D00256764/u-vote-sub002/internal/ledger"
	"github.com/D00256764/u-vote-sub002/internal/platform/metrics"
)

// Ledger names accepted by the verifier.
const (
	LedgerBallots = "ballots"
	LedgerAudit   = "audit"
)

// BallotReader is the only capability the verifier holds over the ballot
// ledger: chain-ordered reads, no writes.
type BallotReader interface {
	ListByElection(ctx context.Context, electionID uuid.UUID) ([]ballot.EncryptedBallot, error)
}

// EventReader is the read-only counterpart for the audit ledger.
type EventReader interface {
	ListByElection(ctx context.Context, electionID uuid.UUID) ([]ledger.Event, error)
}

// Result reports the outcome of a verification walk. AtIndex is the 0-based
// chain position of the first mismatching entry when Valid is false.
type Result struct {
	Valid   bool
	AtIndex int
}

// Verifier recomputes a ledger's hash chain from stored fields. It runs
// safely alongside writers: appends only extend past the tail it reads.
type Verifier struct {
	ballots BallotReader
	events  EventReader
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewVerifier(ballots BallotReader, events EventReader, logger *slog.Logger, m *metrics.Metrics) *Verifier {
	return &Verifier{ballots: ballots, events: events, logger: logger, metrics: m}
}

// VerifyBallots walks the ballot chain for one election.
func (v *Verifier) VerifyBallots(ctx context.Context, electionID uuid.UUID) (Result, error) {
	start := time.Now()
	defer v.observe(LedgerBallots, start)

	entries, err := v.ballots.ListByElection(ctx, electionID)
	if err != nil {
		return Result{}, err
	}

	prev := GenesisHash
	for i, entry := range entries {
		if entry.PreviousHash != prev {
			return v.tampered(ctx, LedgerBallots, electionID, i), nil
		}
		computed := BallotHash(entry.ElectionID, entry.Payload, CanonicalTime(entry.CastAt), entry.PreviousHash)
		if computed != entry.BallotHash {
			return v.tampered(ctx, LedgerBallots, electionID, i), nil
		}
		prev = entry.BallotHash
	}
	return Result{Valid: true}, nil
}

// VerifyAudit walks the audit chain for one election.
func (v *Verifier) VerifyAudit(ctx context.Context, electionID uuid.UUID) (Result, error) {
	start := time.Now()
	defer v.observe(LedgerAudit, start)

	entries, err := v.events.ListByElection(ctx, electionID)
	if err != nil {
		return Result{}, err
	}

	prev := GenesisHash
	for i, entry := range entries {
		if entry.PreviousHash != prev {
			return v.tampered(ctx, LedgerAudit, electionID, i), nil
		}
		computed := EventHash(string(entry.Type), entry.ElectionID, entry.Actor, entry.Detail, CanonicalTime(entry.CreatedAt), entry.PreviousHash)
		if computed != entry.EventHash {
			return v.tampered(ctx, LedgerAudit, electionID, i), nil
		}
		prev = entry.EventHash
	}
	return Result{Valid: true}, nil
}

// VerifyAll checks both ledgers concurrently and returns the first failure.
func (v *Verifier) VerifyAll(ctx context.Context, electionID uuid.UUID) (ballots Result, audit Result, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var gerr error
		ballots, gerr = v.VerifyBallots(gctx, electionID)
		return gerr
	})
	g.Go(func() error {
		var gerr error
		audit, gerr = v.VerifyAudit(gctx, electionID)
		return gerr
	})
	err = g.Wait()
	return ballots, audit, err
}

// tampered logs the finding and returns it. The verifier never repairs a
// chain; the ledger is frozen and investigated by operators.
func (v *Verifier) tampered(ctx context.Context, ledgerName string, electionID uuid.UUID, index int) Result {
	v.logger.ErrorContext(ctx, "chain verification failed",
		"ledger", ledgerName,
		"election_id", electionID,
		"at_index", index,
	)
	return Result{Valid: false, AtIndex: index}
}

func (v *Verifier) observe(ledgerName string, start time.Time) {
	if v.metrics != nil {
		v.metrics.ChainVerifySeconds.WithLabelValues(ledgerName).Observe(time.Since(start).Seconds())
	}
}
