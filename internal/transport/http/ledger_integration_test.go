//go:build integration

package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	ballotstore "github.com/D00256764/u-vote-sub002/internal/ballot/store"
	"github.com/D00256764/u-vote-sub002/internal/chain"
	idstore "github.com/D00256764/u-vote-sub002/internal/identity/store"
	"github.com/D00256764/u-vote-sub002/internal/ledger"
	ledgerstore "github.com/D00256764/u-vote-sub002/internal/ledger/store"
	"github.com/D00256764/u-vote-sub002/pkg/testutil"
	"github.com/D00256764/u-vote-sub002/pkg/testutil/containers"
)

// LedgerFlowSuite drives the operator endpoints against real Postgres:
// whatever detail a collaborator submits must verify clean afterwards.
type LedgerFlowSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *ledgerstore.PostgresStore
	router   chi.Router
}

func TestLedgerFlowSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(LedgerFlowSuite))
}

func (s *LedgerFlowSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = ledgerstore.NewPostgres(s.postgres.DB)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := ledger.NewService(s.store, nil, logger, nil)
	verifier := chain.NewVerifier(ballotstore.NewPostgres(s.postgres.DB), s.store, logger, nil)
	handler := NewLedgerHandler(service, verifier, logger)

	s.router = chi.NewRouter()
	handler.Register(s.router)
}

func (s *LedgerFlowSuite) SetupTest() {
	ctx := context.Background()
	// Truncate in dependency order
	err := s.postgres.TruncateTables(ctx, "audit_events", "elections")
	s.Require().NoError(err)
}

func (s *LedgerFlowSuite) seedElection() uuid.UUID {
	electionID := uuid.New()
	err := idstore.SeedElection(context.Background(), s.postgres.DB, electionID, "General Election", "open")
	s.Require().NoError(err)
	return electionID
}

// TestAppendedEventsVerifyClean posts events whose detail carries multiple
// keys and interior whitespace, exactly as a collaborator would send them,
// then checks verify-chain reports valid and the stored bytes are untouched.
func (s *LedgerFlowSuite) TestAppendedEventsVerifyClean() {
	electionID := s.seedElection()

	bodies := []string{
		`{"event_type":"chain_verified","election_id":"` + electionID.String() +
			`","actor_ref":"tally-service","detail":{"run": "nightly", "operator": "ops-7"}}`,
		`{"event_type":"mfa_failed","election_id":"` + electionID.String() +
			`","actor_ref":"tok:deadbeefdeadbeef","detail":{"device":"Chrome on Mac OS X"}}`,
	}
	for _, body := range bodies {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/append-audit-event", body)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[appendAuditEventResponse](s.T(), rr)
		s.Positive(resp.LogID)
		s.Len(resp.EventHash, 64)
	}

	stored, err := s.store.ListByElection(context.Background(), electionID)
	s.Require().NoError(err)
	s.Require().Len(stored, 2)
	s.Equal(`{"run": "nightly", "operator": "ops-7"}`, string(stored[0].Detail),
		"detail must land byte-identical, spacing and key order included")
	s.Equal(`{"device":"Chrome on Mac OS X"}`, string(stored[1].Detail))

	req := testutil.NewRequest(s.T(), http.MethodGet,
		"/verify-chain?election_id="+electionID.String()+"&ledger=audit")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[verifyChainResponse](s.T(), rr)
	s.True(resp.Valid, "a freshly populated ledger must verify clean")
	s.Nil(resp.AtIndex)
}
