//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/D00256764/u-vote-sub002/internal/identity"
	"github.com/D00256764/u-vote-sub002/internal/identity/store"
	"github.com/D00256764/u-vote-sub002/pkg/platform/sentinel"
	txcontext "github.com/D00256764/u-vote-sub002/pkg/platform/tx"
	"github.com/D00256764/u-vote-sub002/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	// Truncate in dependency order
	err := s.postgres.TruncateTables(ctx, "identity_tokens", "voters", "elections")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) seedVoterWithToken(token string) (identity.Voter, identity.IdentityToken) {
	ctx := context.Background()
	electionID := uuid.New()
	err := store.SeedElection(ctx, s.postgres.DB, electionID, "General Election", "open")
	s.Require().NoError(err)

	voter := identity.Voter{
		ID:          uuid.New(),
		ElectionID:  electionID,
		Email:       "voter@example.com",
		DateOfBirth: time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(store.SeedVoter(ctx, s.postgres.DB, voter))

	identityToken := identity.IdentityToken{
		Token:      token,
		VoterID:    voter.ID,
		ElectionID: electionID,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	}
	s.Require().NoError(store.SeedIdentityToken(ctx, s.postgres.DB, identityToken))
	return voter, identityToken
}

func (s *PostgresStoreSuite) TestFindTokenAndVoter() {
	ctx := context.Background()
	voter, seeded := s.seedVoterWithToken("tok-" + uuid.NewString())

	found, err := s.store.FindToken(ctx, seeded.Token)
	s.Require().NoError(err)
	s.Equal(seeded.Token, found.Token)
	s.Equal(voter.ID, found.VoterID)
	s.Equal(voter.ElectionID, found.ElectionID)
	s.False(found.Used)

	foundVoter, err := s.store.FindVoter(ctx, voter.ID)
	s.Require().NoError(err)
	s.Equal(voter.Email, foundVoter.Email)
	s.False(foundVoter.HasVoted)
	s.True(voter.DateOfBirth.Equal(foundVoter.DateOfBirth.UTC()))
}

func (s *PostgresStoreSuite) TestFindTokenNotFound() {
	_, err := s.store.FindToken(context.Background(), "tok-"+uuid.NewString())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentConsumeExactlyOnce verifies that racing consumers of the same
// identity token resolve to exactly one success.
func (s *PostgresStoreSuite) TestConcurrentConsumeExactlyOnce() {
	ctx := context.Background()
	_, seeded := s.seedVoterWithToken("tok-" + uuid.NewString())

	const goroutines = 50
	var wg sync.WaitGroup
	var successCount atomic.Int32
	var usedCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := s.store.ConsumeToken(ctx, seeded.Token)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyUsed) {
				usedCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one consume should succeed")
	s.Equal(int32(goroutines-1), usedCount.Load(), "all others should see already used")

	found, err := s.store.FindToken(ctx, seeded.Token)
	s.Require().NoError(err)
	s.True(found.Used)
}

func (s *PostgresStoreSuite) TestConsumeUnknownToken() {
	err := s.store.ConsumeToken(context.Background(), "tok-"+uuid.NewString())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestConsumeAlreadyUsedToken() {
	ctx := context.Background()
	_, seeded := s.seedVoterWithToken("tok-" + uuid.NewString())

	s.Require().NoError(s.store.ConsumeToken(ctx, seeded.Token))
	err := s.store.ConsumeToken(ctx, seeded.Token)
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestMarkVotedIdempotent() {
	ctx := context.Background()
	voter, _ := s.seedVoterWithToken("tok-" + uuid.NewString())

	s.Require().NoError(s.store.MarkVoted(ctx, voter.ID))
	s.Require().NoError(s.store.MarkVoted(ctx, voter.ID))

	found, err := s.store.FindVoter(ctx, voter.ID)
	s.Require().NoError(err)
	s.True(found.HasVoted)
}

// TestConsumeRollsBackWithTransaction verifies the store picks up the
// transaction from context, so an aborted bridge issuance leaves the token
// unconsumed.
func (s *PostgresStoreSuite) TestConsumeRollsBackWithTransaction() {
	ctx := context.Background()
	_, seeded := s.seedVoterWithToken("tok-" + uuid.NewString())

	tx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)

	txCtx := txcontext.WithTx(ctx, tx)
	s.Require().NoError(s.store.ConsumeToken(txCtx, seeded.Token))
	s.Require().NoError(tx.Rollback())

	found, err := s.store.FindToken(ctx, seeded.Token)
	s.Require().NoError(err)
	s.False(found.Used, "rollback should leave the token unconsumed")
}
