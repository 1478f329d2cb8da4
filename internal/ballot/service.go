package ballot

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/D00256764/u-vote-sub002/internal/ballot/envelope"
	"github.com/D00256764/u-vote-sub002/internal/election"
	"github.com/D00256764/u-vote-sub002/internal/keystore"
	"github.com/D00256764/u-vote-sub002/internal/ledger"
	"github.com/D00256764/u-vote-sub002/internal/platform/metrics"
	dErrors "github.com/D00256764/u-vote-sub002/pkg/domain-errors"
	"github.com/D00256764/u-vote-sub002/pkg/platform/sentinel"
)

// Auditor is the fire-and-forget audit sink.
type Auditor interface {
	Emit(ctx context.Context, event ledger.NewEvent)
}

// Service is the ballot casting engine. It consumes an authorization token
// and appends a sealed, hash-chained ballot in one atomic transaction; the
// audit event follows after commit, outside the transaction.
type Service struct {
	consumer AuthorizationConsumer
	appender Appender
	receipts ReceiptReader
	tx       Tx
	gate     election.Gate
	keys     keystore.Provider
	audit    Auditor
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewService(
	consumer AuthorizationConsumer,
	appender Appender,
	receipts ReceiptReader,
	tx Tx,
	gate election.Gate,
	keys keystore.Provider,
	audit Auditor,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		consumer: consumer,
		appender: appender,
		receipts: receipts,
		tx:       tx,
		gate:     gate,
		keys:     keys,
		audit:    audit,
		logger:   logger,
		metrics:  m,
	}
}

// Cast seals the submitted payload under the election key and appends it to
// the chain. The payload is treated as opaque; whatever the caller sent is
// never persisted as received, so no plaintext choice can land in storage.
func (s *Service) Cast(ctx context.Context, authToken string, votePayload []byte, electionID uuid.UUID) (CastResult, error) {
	if authToken == "" {
		return CastResult{}, dErrors.New(dErrors.CodeTokenInvalid, "authorization token is required")
	}
	if len(votePayload) == 0 {
		return CastResult{}, dErrors.New(dErrors.CodeBadRequest, "encrypted_vote is required")
	}
	if electionID == uuid.Nil {
		return CastResult{}, dErrors.New(dErrors.CodeBadRequest, "election_id is required")
	}

	open, err := s.gate.IsOpen(ctx, electionID)
	if err != nil {
		return CastResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "election lookup failed")
	}
	if !open {
		return CastResult{}, dErrors.New(dErrors.CodeElectionNotOpen, "election is not open")
	}

	key, err := s.keys.Key(ctx, electionID)
	if err != nil {
		return CastResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "election key unavailable")
	}
	sealed, err := envelope.Seal(key, votePayload)
	if err != nil {
		return CastResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "ballot sealing failed")
	}

	receiptToken, err := newReceiptToken()
	if err != nil {
		return CastResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "receipt generation failed")
	}

	var appended EncryptedBallot
	err = s.tx.RunInTx(ctx, authToken, func(txCtx context.Context) error {
		if err := s.consumer.ConsumeAuthorization(txCtx, authToken, electionID); err != nil {
			switch {
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				if s.metrics != nil {
					s.metrics.CastConflicts.Inc()
				}
				return dErrors.New(dErrors.CodeTokenAlreadyUsed, "authorization token already used")
			case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, sentinel.ErrExpired):
				// Unknown and expired collapse into one answer: nothing about
				// why a token is unusable leaks to the caller.
				return dErrors.New(dErrors.CodeTokenInvalid, "authorization token invalid")
			default:
				return dErrors.Wrap(err, dErrors.CodeInternal, "authorization consume failed")
			}
		}

		var appendErr error
		appended, appendErr = s.appender.AppendBallot(txCtx, electionID, sealed, receiptToken)
		if appendErr != nil {
			if errors.Is(appendErr, sentinel.ErrImmutableRecord) {
				return dErrors.Wrap(appendErr, dErrors.CodeImmutableRecord, "ballot ledger rejected mutation")
			}
			return dErrors.Wrap(appendErr, dErrors.CodeInternal, "ballot append failed")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConcurrency) {
			return CastResult{}, dErrors.Wrap(err, dErrors.CodeConcurrencyConflict, "ballot cast conflicted")
		}
		return CastResult{}, err
	}

	if s.metrics != nil {
		s.metrics.BallotsCast.Inc()
	}
	// Outside the transaction, fire-and-forget: the event says a ballot was
	// cast in this election. No candidate, no voter, no token value.
	s.audit.Emit(ctx, ledger.NewEvent{
		ElectionID: electionID,
		Type:       ledger.EventBallotCast,
		Actor:      "casting-engine",
	})

	return CastResult{ReceiptToken: appended.ReceiptToken, BallotHash: appended.BallotHash}, nil
}

// VerifyReceipt confirms inclusion of a ballot hash without revealing
// anything about the vote's content.
func (s *Service) VerifyReceipt(ctx context.Context, receiptToken string) (Receipt, error) {
	if receiptToken == "" {
		return Receipt{}, dErrors.New(dErrors.CodeBadRequest, "receipt_token is required")
	}
	receipt, err := s.receipts.FindReceipt(ctx, receiptToken)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Receipt{}, dErrors.New(dErrors.CodeNotFound, "receipt not found")
		}
		return Receipt{}, dErrors.Wrap(err, dErrors.CodeInternal, "receipt lookup failed")
	}
	return receipt, nil
}

func newReceiptToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
