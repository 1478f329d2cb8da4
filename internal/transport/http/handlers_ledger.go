package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/D00256764/u-vote-sub002/internal/chain"
	"github.com/D00256764/u-vote-sub002/internal/ledger"
	"github.com/D00256764/u-vote-sub002/internal/platform/middleware"
	"github.com/D00256764/u-vote-sub002/internal/transport/http/shared"
	dErrors "github.com/D00256764/u-vote-sub002/pkg/domain-errors"
)

// LedgerService appends audit events on behalf of external collaborators.
type LedgerService interface {
	Append(ctx context.Context, event ledger.NewEvent) (ledger.AppendResult, error)
}

// ChainVerifier recomputes a ledger's hash chain.
type ChainVerifier interface {
	VerifyBallots(ctx context.Context, electionID uuid.UUID) (chain.Result, error)
	VerifyAudit(ctx context.Context, electionID uuid.UUID) (chain.Result, error)
}

// LedgerHandler handles the operator endpoints. Both routes sit behind the
// service-token middleware; the authenticated actor overrides any actor the
// request body claims.
type LedgerHandler struct {
	ledger   LedgerService
	verifier ChainVerifier
	logger   *slog.Logger
}

func NewLedgerHandler(ledgerSvc LedgerService, verifier ChainVerifier, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledger:   ledgerSvc,
		verifier: verifier,
		logger:   logger,
	}
}

// Register registers the ledger routes with the chi router.
func (h *LedgerHandler) Register(r chi.Router) {
	r.Post("/append-audit-event", h.handleAppendAuditEvent)
	r.Get("/verify-chain", h.handleVerifyChain)
}

type appendAuditEventRequest struct {
	EventType  string          `json:"event_type"`
	ElectionID uuid.UUID       `json:"election_id"`
	ActorRef   string          `json:"actor_ref"`
	Detail     json.RawMessage `json:"detail"`
}

type appendAuditEventResponse struct {
	LogID     int64  `json:"log_id"`
	EventHash string `json:"event_hash"`
}

func (h *LedgerHandler) handleAppendAuditEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req appendAuditEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	actor := req.ActorRef
	if serviceActor := middleware.GetActorID(ctx); serviceActor != "" {
		actor = serviceActor
	}

	result, err := h.ledger.Append(ctx, ledger.NewEvent{
		ElectionID: req.ElectionID,
		Type:       ledger.EventType(req.EventType),
		Actor:      actor,
		Detail:     req.Detail,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "audit event append failed",
			"request_id", middleware.GetRequestID(ctx),
			"code", dErrors.CodeOf(err),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, appendAuditEventResponse{
		LogID:     result.LogID,
		EventHash: result.EventHash,
	})
}

type verifyChainResponse struct {
	Valid   bool `json:"valid"`
	AtIndex *int `json:"at_index,omitempty"`
}

func (h *LedgerHandler) handleVerifyChain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	electionID, err := uuid.Parse(r.URL.Query().Get("election_id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "election_id must be a uuid"))
		return
	}

	var result chain.Result
	switch ledgerName := r.URL.Query().Get("ledger"); ledgerName {
	case chain.LedgerBallots:
		result, err = h.verifier.VerifyBallots(ctx, electionID)
	case chain.LedgerAudit:
		result, err = h.verifier.VerifyAudit(ctx, electionID)
	default:
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "ledger must be ballots or audit"))
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "chain verification failed",
			"request_id", middleware.GetRequestID(ctx),
			"election_id", electionID,
			"error", err,
		)
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "chain verification failed"))
		return
	}

	resp := verifyChainResponse{Valid: result.Valid}
	if !result.Valid {
		idx := result.AtIndex
		resp.AtIndex = &idx
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}
