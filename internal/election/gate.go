// Package election is the interface boundary to the external election
// lifecycle collaborator. This subsystem only ever asks one question: is the
// election open right now.
package election

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Gate answers whether an election currently accepts ballots.
type Gate interface {
	IsOpen(ctx context.Context, electionID uuid.UUID) (bool, error)
}

// PostgresGate resolves the question from the elections table the lifecycle
// service maintains. An unknown election is simply not open.
type PostgresGate struct {
	db *sql.DB
}

func NewPostgresGate(db *sql.DB) *PostgresGate {
	return &PostgresGate{db: db}
}

func (g *PostgresGate) IsOpen(ctx context.Context, electionID uuid.UUID) (bool, error) {
	const query = `
		SELECT status, opens_at, closes_at
		FROM elections
		WHERE id = $1
	`
	var status string
	var opensAt, closesAt sql.NullTime
	err := g.db.QueryRowContext(ctx, query, electionID).Scan(&status, &opensAt, &closesAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if status != "open" {
		return false, nil
	}
	now := time.Now()
	if opensAt.Valid && now.Before(opensAt.Time) {
		return false, nil
	}
	if closesAt.Valid && now.After(closesAt.Time) {
		return false, nil
	}
	return true, nil
}

// StaticGate is the in-memory variant for tests and development.
type StaticGate struct {
	mu   sync.RWMutex
	open map[uuid.UUID]bool
}

func NewStaticGate() *StaticGate {
	return &StaticGate{open: make(map[uuid.UUID]bool)}
}

func (g *StaticGate) SetOpen(electionID uuid.UUID, open bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open[electionID] = open
}

func (g *StaticGate) IsOpen(_ context.Context, electionID uuid.UUID) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.open[electionID], nil
}
