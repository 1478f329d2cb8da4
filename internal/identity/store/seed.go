package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/D00256764/u-vote-sub002/internal/identity"
)

// Seeding stands in for the external provisioning workflow (election
// lifecycle service, CSV voter import). Production components never call
// these; integration tests and local tooling do.

func SeedElection(ctx context.Context, db *sql.DB, electionID uuid.UUID, name, status string) error {
	if _, err := db.ExecContext(ctx, `
		INSERT INTO elections (id, name, status, opens_at, closes_at)
		VALUES ($1, $2, $3, NOW() - INTERVAL '1 hour', NOW() + INTERVAL '1 day')
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status
	`, electionID, name, status); err != nil {
		return fmt.Errorf("seed election: %w", err)
	}
	return nil
}

func SeedVoter(ctx context.Context, db *sql.DB, voter identity.Voter) error {
	if _, err := db.ExecContext(ctx, `
		INSERT INTO voters (id, election_id, email, date_of_birth, has_voted)
		VALUES ($1, $2, $3, $4, $5)
	`, voter.ID, voter.ElectionID, voter.Email, voter.DateOfBirth, voter.HasVoted); err != nil {
		return fmt.Errorf("seed voter: %w", err)
	}
	return nil
}

func SeedIdentityToken(ctx context.Context, db *sql.DB, token identity.IdentityToken) error {
	expiresAt := token.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(24 * time.Hour)
	}
	if _, err := db.ExecContext(ctx, `
		INSERT INTO identity_tokens (token, voter_id, election_id, expires_at, used)
		VALUES ($1, $2, $3, $4, $5)
	`, token.Token, token.VoterID, token.ElectionID, expiresAt, token.Used); err != nil {
		return fmt.Errorf("seed identity token: %w", err)
	}
	return nil
}
