// Package store provides Postgres and in-memory persistence for
// authorization tokens, the ballot chain, and receipts.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/D00256764/u-vote-sub002/internal/ballot"
	"github.com/D00256764/u-vote-sub002/internal/chain"
	pgx "github.com/D00256764/u-vote-sub002/internal/platform/postgres"
	"github.com/D00256764/u-vote-sub002/pkg/platform/sentinel"
	txcontext "github.com/D00256764/u-vote-sub002/pkg/platform/tx"
)

// PostgresStore persists the identity-free half of the voting flow. None of
// its statements touch voters or identity_tokens.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// InsertAuthorization records a freshly minted token: election reference,
// validity window, nothing else.
func (s *PostgresStore) InsertAuthorization(ctx context.Context, auth ballot.AuthorizationToken) error {
	if _, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO ballot_authorization_tokens (token, election_id, issued_at, expires_at, used)
		VALUES ($1, $2, $3, $4, FALSE)
	`, auth.Token, auth.ElectionID, auth.IssuedAt, auth.ExpiresAt); err != nil {
		return fmt.Errorf("insert authorization token: %w", err)
	}
	return nil
}

// ConsumeAuthorization is the single conditional write that prevents double
// casting. Zero rows affected is diagnosed with a follow-up read so the
// service can distinguish used from expired from unknown.
func (s *PostgresStore) ConsumeAuthorization(ctx context.Context, token string, electionID uuid.UUID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE ballot_authorization_tokens SET used = TRUE
		WHERE token = $1 AND election_id = $2 AND used = FALSE AND expires_at > NOW()
	`, token, electionID)
	if err != nil {
		return fmt.Errorf("consume authorization token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume authorization token: %w", err)
	}
	if affected == 1 {
		return nil
	}

	var used bool
	var expiresAt time.Time
	err = s.execer(ctx).QueryRowContext(ctx, `
		SELECT used, expires_at FROM ballot_authorization_tokens
		WHERE token = $1 AND election_id = $2
	`, token, electionID).Scan(&used, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("diagnose authorization token: %w", err)
	}
	if used {
		return sentinel.ErrAlreadyUsed
	}
	return sentinel.ErrExpired
}

// AppendBallot extends the election's chain by one entry. The advisory lock
// serializes tail read against insert for this election only; it is released
// with the surrounding transaction.
func (s *PostgresStore) AppendBallot(ctx context.Context, electionID uuid.UUID, payload []byte, receiptToken string) (ballot.EncryptedBallot, error) {
	ex := s.execer(ctx)

	if _, err := ex.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		"ballots:"+electionID.String(),
	); err != nil {
		return ballot.EncryptedBallot{}, fmt.Errorf("acquire ballot chain lock: %w", err)
	}

	previousHash := chain.GenesisHash
	err := ex.QueryRowContext(ctx,
		`SELECT ballot_hash FROM encrypted_ballots WHERE election_id = $1 ORDER BY id DESC LIMIT 1`,
		electionID,
	).Scan(&previousHash)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ballot.EncryptedBallot{}, fmt.Errorf("read ballot chain tail: %w", err)
	}

	castAt := chain.CanonicalTime(time.Now())
	ballotHash := chain.BallotHash(electionID, payload, castAt, previousHash)

	var id int64
	err = ex.QueryRowContext(ctx, `
		INSERT INTO encrypted_ballots (election_id, payload, cast_at, previous_hash, ballot_hash, receipt_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, electionID, payload, castAt, previousHash, ballotHash, receiptToken).Scan(&id)
	if err != nil {
		if pgx.IsImmutableViolation(err) {
			return ballot.EncryptedBallot{}, fmt.Errorf("insert ballot: %w", sentinel.ErrImmutableRecord)
		}
		return ballot.EncryptedBallot{}, fmt.Errorf("insert ballot: %w", err)
	}

	return ballot.EncryptedBallot{
		ID:           id,
		ElectionID:   electionID,
		Payload:      payload,
		CastAt:       castAt,
		PreviousHash: previousHash,
		BallotHash:   ballotHash,
		ReceiptToken: receiptToken,
	}, nil
}

func (s *PostgresStore) FindReceipt(ctx context.Context, receiptToken string) (ballot.Receipt, error) {
	var r ballot.Receipt
	err := s.db.QueryRowContext(ctx, `
		SELECT receipt_token, ballot_hash, election_id, cast_at
		FROM encrypted_ballots
		WHERE receipt_token = $1
	`, receiptToken).Scan(&r.ReceiptToken, &r.BallotHash, &r.ElectionID, &r.CastAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ballot.Receipt{}, sentinel.ErrNotFound
	}
	if err != nil {
		return ballot.Receipt{}, fmt.Errorf("find receipt: %w", err)
	}
	return r, nil
}

// ListByElection returns the chain in append order for verification.
func (s *PostgresStore) ListByElection(ctx context.Context, electionID uuid.UUID) ([]ballot.EncryptedBallot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, election_id, payload, cast_at, previous_hash, ballot_hash, receipt_token
		FROM encrypted_ballots
		WHERE election_id = $1
		ORDER BY id ASC
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("query ballots: %w", err)
	}
	defer rows.Close()

	var ballots []ballot.EncryptedBallot
	for rows.Next() {
		var b ballot.EncryptedBallot
		if err := rows.Scan(&b.ID, &b.ElectionID, &b.Payload, &b.CastAt, &b.PreviousHash, &b.BallotHash, &b.ReceiptToken); err != nil {
			return nil, fmt.Errorf("scan ballot: %w", err)
		}
		ballots = append(ballots, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ballots: %w", err)
	}
	return ballots, nil
}
