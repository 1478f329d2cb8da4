package identity

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/D00256764/u-vote-sub002/internal/election"
	"github.com/D00256764/u-vote-sub002/internal/identity/device"
	"github.com/D00256764/u-vote-sub002/internal/identity/lockout"
	"github.com/D00256764/u-vote-sub002/internal/ledger"
	"github.com/D00256764/u-vote-sub002/internal/platform/metrics"
	dErrors "github.com/D00256764/u-vote-sub002/pkg/domain-errors"
	"github.com/D00256764/u-vote-sub002/pkg/platform/sentinel"
)

const dobLayout = "2006-01-02"

// Auditor is the fire-and-forget audit sink. The validator and MFA verifier
// only ever emit non-identifying events through it.
type Auditor interface {
	Emit(ctx context.Context, event ledger.NewEvent)
}

// Service implements the identity token validator and the MFA verifier.
// Both are read-only over voter state: the first mutation in the flow belongs
// to the anonymity bridge.
type Service struct {
	tokens      TokenReader
	voters      VoterReader
	gate        election.Gate
	attempts    lockout.Store
	audit       Auditor
	logger      *slog.Logger
	metrics     *metrics.Metrics
	maxAttempts int
}

func NewService(
	tokens TokenReader,
	voters VoterReader,
	gate election.Gate,
	attempts lockout.Store,
	audit Auditor,
	logger *slog.Logger,
	m *metrics.Metrics,
	maxAttempts int,
) *Service {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Service{
		tokens:      tokens,
		voters:      voters,
		gate:        gate,
		attempts:    attempts,
		audit:       audit,
		logger:      logger,
		metrics:     m,
		maxAttempts: maxAttempts,
	}
}

// Validate checks an identity token: existence, unused, unexpired, election
// open. Performs no state mutation.
func (s *Service) Validate(ctx context.Context, token string) (Validation, error) {
	if token == "" {
		return Validation{}, dErrors.New(dErrors.CodeBadRequest, "token is required")
	}

	t, err := s.tokens.FindToken(ctx, token)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Validation{}, dErrors.New(dErrors.CodeNotFound, "identity token not found")
		}
		return Validation{}, dErrors.Wrap(err, dErrors.CodeInternal, "identity token lookup failed")
	}
	if t.Used {
		return Validation{}, dErrors.New(dErrors.CodeTokenAlreadyUsed, "identity token already used")
	}
	if t.Expired(time.Now()) {
		return Validation{}, dErrors.New(dErrors.CodeTokenExpired, "identity token expired")
	}

	open, err := s.gate.IsOpen(ctx, t.ElectionID)
	if err != nil {
		return Validation{}, dErrors.Wrap(err, dErrors.CodeInternal, "election lookup failed")
	}
	if !open {
		return Validation{}, dErrors.New(dErrors.CodeElectionNotOpen, "election is not open")
	}

	s.audit.Emit(ctx, ledger.NewEvent{
		ElectionID: t.ElectionID,
		Type:       ledger.EventIdentityValidated,
		Actor:      ledger.ActorDigest(token),
	})

	return Validation{ElectionID: t.ElectionID, VoterID: t.VoterID}, nil
}

// VerifyMFA compares the supplied date of birth against the voter's stored
// one. Every failure path returns the same generic error so callers cannot
// distinguish an unknown token from a wrong date of birth.
func (s *Service) VerifyMFA(ctx context.Context, token, dateOfBirth, userAgent string) error {
	if token == "" || dateOfBirth == "" {
		return dErrors.New(dErrors.CodeBadRequest, "token and date_of_birth are required")
	}

	count, err := s.attempts.Attempts(ctx, token)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "mfa attempt lookup failed")
	}
	if count >= s.maxAttempts {
		s.logger.WarnContext(ctx, "mfa attempt while locked out", "attempts", count)
		if s.metrics != nil {
			s.metrics.MFAFailures.Inc()
		}
		return dErrors.New(dErrors.CodeMfaMismatch, "mfa verification failed")
	}

	t, err := s.tokens.FindToken(ctx, token)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// No election to attribute the failure to; the structured log is
			// the only trail for probes with invented tokens.
			s.logger.WarnContext(ctx, "mfa attempt for unknown token")
			return dErrors.New(dErrors.CodeMfaMismatch, "mfa verification failed")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "identity token lookup failed")
	}

	voter, err := s.voters.FindVoter(ctx, t.VoterID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "voter lookup failed")
	}

	supplied, err := time.Parse(dobLayout, dateOfBirth)
	if err != nil {
		s.recordFailure(ctx, t, token, userAgent)
		return dErrors.New(dErrors.CodeMfaMismatch, "mfa verification failed")
	}

	stored := voter.DateOfBirth.Format(dobLayout)
	if subtle.ConstantTimeCompare([]byte(stored), []byte(supplied.Format(dobLayout))) != 1 {
		s.recordFailure(ctx, t, token, userAgent)
		return dErrors.New(dErrors.CodeMfaMismatch, "mfa verification failed")
	}

	if err := s.attempts.Reset(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "mfa attempt reset failed", "error", err)
	}
	return nil
}

// recordFailure bumps the lockout counter and appends a non-identifying
// mfa_failed event: truncated token digest as actor, device family as detail,
// no voter reference.
func (s *Service) recordFailure(ctx context.Context, t IdentityToken, token, userAgent string) {
	if _, err := s.attempts.RecordFailure(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "mfa failure count not recorded", "error", err)
	}
	if s.metrics != nil {
		s.metrics.MFAFailures.Inc()
	}

	detail, err := json.Marshal(map[string]string{
		"device": device.ParseUserAgent(userAgent),
	})
	if err != nil {
		detail = json.RawMessage("{}")
	}
	s.audit.Emit(ctx, ledger.NewEvent{
		ElectionID: t.ElectionID,
		Type:       ledger.EventMFAFailed,
		Actor:      ledger.ActorDigest(token),
		Detail:     detail,
	})
}
