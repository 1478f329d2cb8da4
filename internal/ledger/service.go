package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	dErrors "github.com/D00256764/u-vote-sub002/pkg/domain-errors"
	"github.com/D00256764/u-vote-sub002/pkg/platform/sentinel"

	"github.com/D00256764/u-vote-sub002/internal/platform/metrics"
)

// Mirror fans appended events out to an external sink (Kafka). Mirroring is
// best-effort; the Postgres chain is the source of truth.
type Mirror interface {
	Publish(ctx context.Context, event Event)
}

// Service is the audit ledger's public surface. It validates input, appends
// through the store, and mirrors the result. A store failure is surfaced:
// the ledger must not silently drop security events.
type Service struct {
	store   Store
	mirror  Mirror
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewService(store Store, mirror Mirror, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, mirror: mirror, logger: logger, metrics: m}
}

// Append adds one event to the election's audit chain.
func (s *Service) Append(ctx context.Context, event NewEvent) (AppendResult, error) {
	if event.ElectionID == uuid.Nil {
		return AppendResult{}, dErrors.New(dErrors.CodeBadRequest, "election_id is required")
	}
	if event.Type == "" {
		return AppendResult{}, dErrors.New(dErrors.CodeBadRequest, "event_type is required")
	}
	if len(event.Detail) == 0 {
		event.Detail = json.RawMessage("{}")
	}

	appended, err := s.store.Append(ctx, event)
	if err != nil {
		if errors.Is(err, sentinel.ErrImmutableRecord) {
			return AppendResult{}, dErrors.Wrap(err, dErrors.CodeImmutableRecord, "ledger rejected mutation")
		}
		if errors.Is(err, sentinel.ErrConcurrency) {
			return AppendResult{}, dErrors.Wrap(err, dErrors.CodeConcurrencyConflict, "audit append conflicted")
		}
		return AppendResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "audit append failed")
	}

	if s.metrics != nil {
		s.metrics.AuditEventsAppended.Inc()
	}
	if s.mirror != nil {
		s.mirror.Publish(ctx, appended)
	}
	return AppendResult{LogID: appended.ID, EventHash: appended.EventHash}, nil
}

// ListByElection exposes chain-ordered reads for the verifier.
func (s *Service) ListByElection(ctx context.Context, electionID uuid.UUID) ([]Event, error) {
	return s.store.ListByElection(ctx, electionID)
}
