package httptransport

//go:generate mockgen -source=handlers_ledger.go -destination=mocks/ledger-mocks.go -package=mocks LedgerService,ChainVerifier

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/D00256764/u-vote-sub002/internal/chain"
	"github.com/D00256764/u-vote-sub002/internal/ledger"
	"github.com/D00256764/u-vote-sub002/internal/transport/http/mocks"
	dErrors "github.com/D00256764/u-vote-sub002/pkg/domain-errors"
	"github.com/D00256764/u-vote-sub002/pkg/testutil"
)

type LedgerHandlerSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	ledger   *mocks.MockLedgerService
	verifier *mocks.MockChainVerifier
	router   chi.Router
}

func TestLedgerHandlerSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerSuite))
}

func (s *LedgerHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ledger = mocks.NewMockLedgerService(s.ctrl)
	s.verifier = mocks.NewMockChainVerifier(s.ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewLedgerHandler(s.ledger, s.verifier, logger)

	s.router = chi.NewRouter()
	handler.Register(s.router)
}

func (s *LedgerHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *LedgerHandlerSuite) TestAppendAuditEvent() {
	electionID := uuid.New()
	s.ledger.EXPECT().
		Append(gomock.Any(), ledger.NewEvent{
			ElectionID: electionID,
			Type:       ledger.EventChainVerified,
			Actor:      "tally-service",
			Detail:     json.RawMessage(`{"run":"nightly"}`),
		}).
		Return(ledger.AppendResult{LogID: 42, EventHash: "hash-42"}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/append-audit-event", map[string]any{
		"event_type":  "chain_verified",
		"election_id": electionID,
		"actor_ref":   "tally-service",
		"detail":      map[string]string{"run": "nightly"},
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[appendAuditEventResponse](s.T(), rr)
	s.Equal(int64(42), resp.LogID)
	s.Equal("hash-42", resp.EventHash)
}

func (s *LedgerHandlerSuite) TestAppendAuditEventAuthenticatedActorWins() {
	electionID := uuid.New()
	s.ledger.EXPECT().
		Append(gomock.Any(), gomock.Cond(func(event ledger.NewEvent) bool {
			return event.Actor == "authenticated-service"
		})).
		Return(ledger.AppendResult{LogID: 1, EventHash: "hash-1"}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/append-audit-event", map[string]any{
		"event_type":  "chain_verified",
		"election_id": electionID,
		"actor_ref":   "claimed-by-body",
	})
	req = testutil.WithActorID(req, "authenticated-service")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *LedgerHandlerSuite) TestAppendAuditEventImmutableViolation() {
	s.ledger.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		Return(ledger.AppendResult{}, dErrors.New(dErrors.CodeImmutableRecord, "ledger rejected mutation"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/append-audit-event", map[string]any{
		"event_type":  "chain_verified",
		"election_id": uuid.New(),
		"actor_ref":   "tally-service",
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "immutable_record")
}

func (s *LedgerHandlerSuite) TestVerifyChainBallotsValid() {
	electionID := uuid.New()
	s.verifier.EXPECT().
		VerifyBallots(gomock.Any(), electionID).
		Return(chain.Result{Valid: true}, nil)

	req := testutil.NewRequest(s.T(), http.MethodGet,
		"/verify-chain?election_id="+electionID.String()+"&ledger=ballots")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[verifyChainResponse](s.T(), rr)
	s.True(resp.Valid)
	s.Nil(resp.AtIndex)
}

func (s *LedgerHandlerSuite) TestVerifyChainAuditTampered() {
	electionID := uuid.New()
	s.verifier.EXPECT().
		VerifyAudit(gomock.Any(), electionID).
		Return(chain.Result{Valid: false, AtIndex: 7}, nil)

	req := testutil.NewRequest(s.T(), http.MethodGet,
		"/verify-chain?election_id="+electionID.String()+"&ledger=audit")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[verifyChainResponse](s.T(), rr)
	s.False(resp.Valid)
	s.Require().NotNil(resp.AtIndex)
	s.Equal(7, *resp.AtIndex)
}

func (s *LedgerHandlerSuite) TestVerifyChainTamperedAtIndexZero() {
	// Index 0 must still serialize; omitempty would swallow it without the
	// pointer field.
	electionID := uuid.New()
	s.verifier.EXPECT().
		VerifyAudit(gomock.Any(), electionID).
		Return(chain.Result{Valid: false, AtIndex: 0}, nil)

	req := testutil.NewRequest(s.T(), http.MethodGet,
		"/verify-chain?election_id="+electionID.String()+"&ledger=audit")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[verifyChainResponse](s.T(), rr)
	s.Require().NotNil(resp.AtIndex)
	s.Equal(0, *resp.AtIndex)
}

func (s *LedgerHandlerSuite) TestVerifyChainRejectsUnknownLedger() {
	req := testutil.NewRequest(s.T(), http.MethodGet,
		"/verify-chain?election_id="+uuid.NewString()+"&ledger=tallies")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *LedgerHandlerSuite) TestVerifyChainRejectsBadElectionID() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/verify-chain?election_id=not-a-uuid&ledger=ballots")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}
