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

	"github.com/D00256764/u-vote-sub002/internal/ballot"
	"github.com/D00256764/u-vote-sub002/internal/ballot/store"
	"github.com/D00256764/u-vote-sub002/internal/chain"
	idstore "github.com/D00256764/u-vote-sub002/internal/identity/store"
	pgplatform "github.com/D00256764/u-vote-sub002/internal/platform/postgres"
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
	err := s.postgres.TruncateTables(ctx, "encrypted_ballots", "ballot_authorization_tokens", "elections")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) seedElection() uuid.UUID {
	electionID := uuid.New()
	err := idstore.SeedElection(context.Background(), s.postgres.DB, electionID, "General Election", "open")
	s.Require().NoError(err)
	return electionID
}

func (s *PostgresStoreSuite) seedAuthorization(electionID uuid.UUID, expiresIn time.Duration) ballot.AuthorizationToken {
	auth := ballot.AuthorizationToken{
		Token:      "auth-" + uuid.NewString(),
		ElectionID: electionID,
		IssuedAt:   time.Now().UTC(),
		ExpiresAt:  time.Now().Add(expiresIn).UTC(),
	}
	s.Require().NoError(s.store.InsertAuthorization(context.Background(), auth))
	return auth
}

// inTx mirrors how the service layer runs AppendBallot: inside a transaction,
// so the advisory lock spans the tail read and the insert.
func (s *PostgresStoreSuite) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := s.postgres.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PostgresStoreSuite) TestConsumeAuthorizationOnce() {
	ctx := context.Background()
	electionID := s.seedElection()
	auth := s.seedAuthorization(electionID, time.Hour)

	s.Require().NoError(s.store.ConsumeAuthorization(ctx, auth.Token, electionID))

	err := s.store.ConsumeAuthorization(ctx, auth.Token, electionID)
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestConsumeAuthorizationDiagnosis() {
	ctx := context.Background()
	electionID := s.seedElection()

	// Unknown token
	err := s.store.ConsumeAuthorization(ctx, "auth-"+uuid.NewString(), electionID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	// Right token, wrong election
	auth := s.seedAuthorization(electionID, time.Hour)
	err = s.store.ConsumeAuthorization(ctx, auth.Token, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)

	// Expired and never used
	expired := s.seedAuthorization(electionID, -time.Minute)
	err = s.store.ConsumeAuthorization(ctx, expired.Token, electionID)
	s.ErrorIs(err, sentinel.ErrExpired)
}

// TestConcurrentConsumeAuthorization verifies the double-cast guard: racing
// consumers of the same authorization resolve to exactly one success.
func (s *PostgresStoreSuite) TestConcurrentConsumeAuthorization() {
	ctx := context.Background()
	electionID := s.seedElection()
	auth := s.seedAuthorization(electionID, time.Hour)

	const goroutines = 50
	var wg sync.WaitGroup
	var successCount atomic.Int32
	var usedCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := s.store.ConsumeAuthorization(ctx, auth.Token, electionID)
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
}

func (s *PostgresStoreSuite) TestAppendBallotChains() {
	ctx := context.Background()
	electionID := s.seedElection()

	var appended []ballot.EncryptedBallot
	for i := 0; i < 3; i++ {
		var b ballot.EncryptedBallot
		err := s.inTx(ctx, func(txCtx context.Context) error {
			var appendErr error
			b, appendErr = s.store.AppendBallot(txCtx, electionID, []byte("sealed-"+uuid.NewString()), "receipt-"+uuid.NewString())
			return appendErr
		})
		s.Require().NoError(err)
		appended = append(appended, b)
	}

	s.Equal(chain.GenesisHash, appended[0].PreviousHash)
	s.Equal(appended[0].BallotHash, appended[1].PreviousHash)
	s.Equal(appended[1].BallotHash, appended[2].PreviousHash)

	stored, err := s.store.ListByElection(ctx, electionID)
	s.Require().NoError(err)
	s.Require().Len(stored, 3)
	for i, entry := range stored {
		s.Equal(appended[i].BallotHash, entry.BallotHash)
		recomputed := chain.BallotHash(entry.ElectionID, entry.Payload, chain.CanonicalTime(entry.CastAt), entry.PreviousHash)
		s.Equal(entry.BallotHash, recomputed, "stored hash should survive the timestamp round trip")
	}
}

// TestConcurrentAppendsStayLinked drives parallel appends through the advisory
// lock and checks the resulting chain has no forks.
func (s *PostgresStoreSuite) TestConcurrentAppendsStayLinked() {
	ctx := context.Background()
	electionID := s.seedElection()

	const goroutines = 20
	var wg sync.WaitGroup
	var failures atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := s.inTx(ctx, func(txCtx context.Context) error {
				_, appendErr := s.store.AppendBallot(txCtx, electionID, []byte("sealed-"+uuid.NewString()), "receipt-"+uuid.NewString())
				return appendErr
			})
			if err != nil {
				failures.Add(1)
			}
		}()
	}

	wg.Wait()
	s.Equal(int32(0), failures.Load(), "all appends should succeed")

	stored, err := s.store.ListByElection(ctx, electionID)
	s.Require().NoError(err)
	s.Require().Len(stored, goroutines)

	prev := chain.GenesisHash
	for i, entry := range stored {
		s.Equal(prev, entry.PreviousHash, "entry %d should link to its predecessor", i)
		prev = entry.BallotHash
	}
}

// TestBallotRowsAreImmutable verifies the database trigger rejects any
// mutation of a stored ballot, independent of application code.
func (s *PostgresStoreSuite) TestBallotRowsAreImmutable() {
	ctx := context.Background()
	electionID := s.seedElection()

	var appended ballot.EncryptedBallot
	err := s.inTx(ctx, func(txCtx context.Context) error {
		var appendErr error
		appended, appendErr = s.store.AppendBallot(txCtx, electionID, []byte("sealed-original"), "receipt-"+uuid.NewString())
		return appendErr
	})
	s.Require().NoError(err)

	_, err = s.postgres.DB.ExecContext(ctx,
		`UPDATE encrypted_ballots SET payload = $1 WHERE id = $2`, []byte("sealed-tampered"), appended.ID)
	s.Require().Error(err)
	s.True(pgplatform.IsImmutableViolation(err), "update should hit the immutability trigger")

	_, err = s.postgres.DB.ExecContext(ctx,
		`DELETE FROM encrypted_ballots WHERE id = $1`, appended.ID)
	s.Require().Error(err)
	s.True(pgplatform.IsImmutableViolation(err), "delete should hit the immutability trigger")

	stored, err := s.store.ListByElection(ctx, electionID)
	s.Require().NoError(err)
	s.Require().Len(stored, 1)
	s.Equal([]byte("sealed-original"), stored[0].Payload)
}

// TestBallotTablesCarryNoVoterReference scans the live schema: the
// identity-free half of the flow must have no column that could link a ballot
// back to a voter.
func (s *PostgresStoreSuite) TestBallotTablesCarryNoVoterReference() {
	ctx := context.Background()

	for _, table := range []string{"encrypted_ballots", "ballot_authorization_tokens"} {
		rows, err := s.postgres.DB.QueryContext(ctx, `
			SELECT column_name FROM information_schema.columns
			WHERE table_name = $1
		`, table)
		s.Require().NoError(err)

		var columns []string
		for rows.Next() {
			var name string
			s.Require().NoError(rows.Scan(&name))
			columns = append(columns, name)
		}
		s.Require().NoError(rows.Err())
		rows.Close()

		s.NotEmpty(columns, "table %s should exist", table)
		for _, column := range columns {
			s.NotContains(column, "voter", "table %s must not reference voters", table)
			s.NotContains(column, "email", "table %s must not carry voter contact data", table)
			s.NotContains(column, "identity", "table %s must not reference identity tokens", table)
		}
	}
}

func (s *PostgresStoreSuite) TestFindReceipt() {
	ctx := context.Background()
	electionID := s.seedElection()
	receiptToken := "receipt-" + uuid.NewString()

	var appended ballot.EncryptedBallot
	err := s.inTx(ctx, func(txCtx context.Context) error {
		var appendErr error
		appended, appendErr = s.store.AppendBallot(txCtx, electionID, []byte("sealed-vote"), receiptToken)
		return appendErr
	})
	s.Require().NoError(err)

	receipt, err := s.store.FindReceipt(ctx, receiptToken)
	s.Require().NoError(err)
	s.Equal(appended.BallotHash, receipt.BallotHash)
	s.Equal(electionID, receipt.ElectionID)
	s.True(appended.CastAt.Equal(receipt.CastAt.UTC()))

	_, err = s.store.FindReceipt(ctx, "receipt-"+uuid.NewString())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
