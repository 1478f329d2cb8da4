// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// domain services, and translate coded errors; no business logic lives here.
package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/D00256764/u-vote-sub002/internal/ballot"
	"github.com/D00256764/u-vote-sub002/internal/identity"
	"github.com/D00256764/u-vote-sub002/internal/platform/middleware"
	"github.com/D00256764/u-vote-sub002/internal/transport/http/shared"
	dErrors "github.com/D00256764/u-vote-sub002/pkg/domain-errors"
)

// IdentityService validates identity tokens and their second factor.
type IdentityService interface {
	Validate(ctx context.Context, token string) (identity.Validation, error)
	VerifyMFA(ctx context.Context, token, dateOfBirth, userAgent string) error
}

// BridgeService performs the atomic identity-to-anonymous exchange.
type BridgeService interface {
	IssueBallotAuthorization(ctx context.Context, identityToken string) (ballot.AuthorizationToken, error)
}

// BallotService casts sealed ballots and resolves receipts.
type BallotService interface {
	Cast(ctx context.Context, authToken string, votePayload []byte, electionID uuid.UUID) (ballot.CastResult, error)
	VerifyReceipt(ctx context.Context, receiptToken string) (ballot.Receipt, error)
}

// VotingHandler handles the voter-facing endpoints. They carry no bearer
// auth; the single-use tokens in the request bodies are the credentials.
type VotingHandler struct {
	identity IdentityService
	bridge   BridgeService
	ballots  BallotService
	logger   *slog.Logger
}

func NewVotingHandler(
	identitySvc IdentityService,
	bridgeSvc BridgeService,
	ballotSvc BallotService,
	logger *slog.Logger,
) *VotingHandler {
	return &VotingHandler{
		identity: identitySvc,
		bridge:   bridgeSvc,
		ballots:  ballotSvc,
		logger:   logger,
	}
}

// Register registers the voting routes with the chi router.
func (h *VotingHandler) Register(r chi.Router) {
	r.Post("/validate-identity-token", h.handleValidateIdentityToken)
	r.Post("/verify-mfa", h.handleVerifyMFA)
	r.Post("/issue-ballot-authorization", h.handleIssueBallotAuthorization)
	r.Post("/cast-ballot", h.handleCastBallot)
	r.Get("/verify-receipt", h.handleVerifyReceipt)
}

type validateIdentityTokenRequest struct {
	Token string `json:"token"`
}

type validateIdentityTokenResponse struct {
	ElectionID uuid.UUID `json:"election_id"`
}

func (h *VotingHandler) handleValidateIdentityToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req validateIdentityTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	validation, err := h.identity.Validate(ctx, req.Token)
	if err != nil {
		h.logger.WarnContext(ctx, "identity token validation rejected",
			"request_id", middleware.GetRequestID(ctx),
			"code", dErrors.CodeOf(err),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, validateIdentityTokenResponse{
		ElectionID: validation.ElectionID,
	})
}

type verifyMFARequest struct {
	Token       string `json:"token"`
	DateOfBirth string `json:"date_of_birth"`
}

func (h *VotingHandler) handleVerifyMFA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyMFARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.identity.VerifyMFA(ctx, req.Token, req.DateOfBirth, r.UserAgent()); err != nil {
		h.logger.WarnContext(ctx, "mfa verification rejected",
			"request_id", middleware.GetRequestID(ctx),
			"code", dErrors.CodeOf(err),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type issueAuthorizationRequest struct {
	Token string `json:"token"`
}

type issueAuthorizationResponse struct {
	BallotAuthorizationToken string    `json:"ballot_authorization_token"`
	ExpiresAt                time.Time `json:"expires_at"`
}

func (h *VotingHandler) handleIssueBallotAuthorization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req issueAuthorizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	auth, err := h.bridge.IssueBallotAuthorization(ctx, req.Token)
	if err != nil {
		h.logger.WarnContext(ctx, "ballot authorization rejected",
			"request_id", middleware.GetRequestID(ctx),
			"code", dErrors.CodeOf(err),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, issueAuthorizationResponse{
		BallotAuthorizationToken: auth.Token,
		ExpiresAt:                auth.ExpiresAt,
	})
}

type castBallotRequest struct {
	BallotAuthorizationToken string    `json:"ballot_authorization_token"`
	EncryptedVote            []byte    `json:"encrypted_vote"`
	ElectionID               uuid.UUID `json:"election_id"`
}

type castBallotResponse struct {
	ReceiptToken string `json:"receipt_token"`
	BallotHash   string `json:"ballot_hash"`
}

func (h *VotingHandler) handleCastBallot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req castBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.ballots.Cast(ctx, req.BallotAuthorizationToken, req.EncryptedVote, req.ElectionID)
	if err != nil {
		h.logger.WarnContext(ctx, "ballot cast rejected",
			"request_id", middleware.GetRequestID(ctx),
			"code", dErrors.CodeOf(err),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, castBallotResponse{
		ReceiptToken: result.ReceiptToken,
		BallotHash:   result.BallotHash,
	})
}

type verifyReceiptResponse struct {
	ElectionID uuid.UUID `json:"election_id"`
	BallotHash string    `json:"ballot_hash"`
	CastAt     time.Time `json:"cast_at"`
}

func (h *VotingHandler) handleVerifyReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	receipt, err := h.ballots.VerifyReceipt(ctx, r.URL.Query().Get("receipt_token"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, verifyReceiptResponse{
		ElectionID: receipt.ElectionID,
		BallotHash: receipt.BallotHash,
		CastAt:     receipt.CastAt,
	})
}
