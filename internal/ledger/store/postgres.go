// Package store provides the Postgres and in-memory audit ledger stores.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/D00256764/u-vote-sub002/internal/chain"
	"github.com/D00256764/u-vote-sub002/internal/ledger"
	pgx "github.com/D00256764/u-vote-sub002/internal/platform/postgres"
	"github.com/D00256764/u-vote-sub002/pkg/platform/sentinel"
)

const maxAppendRetries = 3

// PostgresStore appends to and reads the audit_events chain. The per-election
// advisory lock serializes tail read against insert so two concurrent appends
// cannot both chain to the same predecessor.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event ledger.NewEvent) (ledger.Event, error) {
	var appended ledger.Event
	var err error
	for attempt := 0; attempt < maxAppendRetries; attempt++ {
		appended, err = s.appendOnce(ctx, event)
		if err == nil {
			return appended, nil
		}
		if !pgx.IsSerializationFailure(err) {
			return ledger.Event{}, err
		}
	}
	return ledger.Event{}, fmt.Errorf("append audit event: %w: %w", sentinel.ErrConcurrency, err)
}

func (s *PostgresStore) appendOnce(ctx context.Context, event ledger.NewEvent) (ledger.Event, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.Event{}, fmt.Errorf("begin audit append tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Held only for this transaction; released at commit/rollback.
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		"audit:"+event.ElectionID.String(),
	); err != nil {
		return ledger.Event{}, fmt.Errorf("acquire audit chain lock: %w", err)
	}

	previousHash := chain.GenesisHash
	err = tx.QueryRowContext(ctx,
		`SELECT event_hash FROM audit_events WHERE election_id = $1 ORDER BY id DESC LIMIT 1`,
		event.ElectionID,
	).Scan(&previousHash)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ledger.Event{}, fmt.Errorf("read audit chain tail: %w", err)
	}

	createdAt := chain.CanonicalTime(time.Now())
	eventHash := chain.EventHash(string(event.Type), event.ElectionID, event.Actor, event.Detail, createdAt, previousHash)

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO audit_events (election_id, event_type, actor, detail, created_at, previous_hash, event_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, event.ElectionID, string(event.Type), event.Actor, []byte(event.Detail), createdAt, previousHash, eventHash).Scan(&id)
	if err != nil {
		if pgx.IsImmutableViolation(err) {
			return ledger.Event{}, fmt.Errorf("insert audit event: %w", sentinel.ErrImmutableRecord)
		}
		return ledger.Event{}, fmt.Errorf("insert audit event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ledger.Event{}, fmt.Errorf("commit audit append: %w", err)
	}

	return ledger.Event{
		ID:           id,
		ElectionID:   event.ElectionID,
		Type:         event.Type,
		Actor:        event.Actor,
		Detail:       event.Detail,
		CreatedAt:    createdAt,
		PreviousHash: previousHash,
		EventHash:    eventHash,
	}, nil
}

func (s *PostgresStore) ListByElection(ctx context.Context, electionID uuid.UUID) ([]ledger.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, election_id, event_type, actor, detail, created_at, previous_hash, event_hash
		FROM audit_events
		WHERE election_id = $1
		ORDER BY id ASC
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []ledger.Event
	for rows.Next() {
		var e ledger.Event
		var eventType string
		if err := rows.Scan(&e.ID, &e.ElectionID, &eventType, &e.Actor, (*[]byte)(&e.Detail), &e.CreatedAt, &e.PreviousHash, &e.EventHash); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Type = ledger.EventType(eventType)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
