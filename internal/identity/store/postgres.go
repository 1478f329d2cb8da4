// Package store provides identity token and voter persistence. The exported
// surface is deliberately narrow: validators read, and only the anonymity
// bridge transitions state, through single conditional writes.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/D00256764/u-vote-sub002/internal/identity"
	"github.com/D00256764/u-vote-sub002/pkg/platform/sentinel"
	txcontext "github.com/D00256764/u-vote-sub002/pkg/platform/tx"
)

// PostgresStore persists voters and identity tokens.
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

// execer picks the transaction from context when the bridge runs this store
// inside its atomic issuance, and the pool otherwise.
func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) FindToken(ctx context.Context, token string) (identity.IdentityToken, error) {
	var t identity.IdentityToken
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT token, voter_id, election_id, expires_at, used
		FROM identity_tokens
		WHERE token = $1
	`, token).Scan(&t.Token, &t.VoterID, &t.ElectionID, &t.ExpiresAt, &t.Used)
	if errors.Is(err, sql.ErrNoRows) {
		return identity.IdentityToken{}, sentinel.ErrNotFound
	}
	if err != nil {
		return identity.IdentityToken{}, fmt.Errorf("find identity token: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) FindVoter(ctx context.Context, voterID uuid.UUID) (identity.Voter, error) {
	var v identity.Voter
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT id, election_id, email, date_of_birth, has_voted
		FROM voters
		WHERE id = $1
	`, voterID).Scan(&v.ID, &v.ElectionID, &v.Email, &v.DateOfBirth, &v.HasVoted)
	if errors.Is(err, sql.ErrNoRows) {
		return identity.Voter{}, sentinel.ErrNotFound
	}
	if err != nil {
		return identity.Voter{}, fmt.Errorf("find voter: %w", err)
	}
	return v, nil
}

// ConsumeToken flips used=false→true as a single conditional write, not a
// read-then-write. Zero rows affected means another request already consumed
// the token (or it never existed).
func (s *PostgresStore) ConsumeToken(ctx context.Context, token string) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE identity_tokens SET used = TRUE
		WHERE token = $1 AND used = FALSE
	`, token)
	if err != nil {
		return fmt.Errorf("consume identity token: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume identity token: %w", err)
	}
	if affected == 0 {
		var exists bool
		err := s.execer(ctx).QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM identity_tokens WHERE token = $1)`, token,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("consume identity token: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

// MarkVoted is idempotent given ConsumeToken succeeded in the same
// transaction.
func (s *PostgresStore) MarkVoted(ctx context.Context, voterID uuid.UUID) error {
	if _, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE voters SET has_voted = TRUE WHERE id = $1
	`, voterID); err != nil {
		return fmt.Errorf("mark voter voted: %w", err)
	}
	return nil
}
