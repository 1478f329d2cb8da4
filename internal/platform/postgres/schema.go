package postgres

import (
	"database/sql"
	"fmt"
)

// EnsureSchema creates all tables, indexes, and immutability triggers.
// Safe to call multiple times.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// The ledger tables carry no voter reference of any kind: neither
// ballot_authorization_tokens nor encrypted_ballots has a column capable of
// expressing a link back to voters or identity_tokens. That absence is the
// schema-level anonymity invariant; tests assert it against
// information_schema.
const schema = `
CREATE TABLE IF NOT EXISTS elections (
    id         UUID PRIMARY KEY,
    name       TEXT NOT NULL,
    status     TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'open', 'closed')),
    opens_at   TIMESTAMPTZ,
    closes_at  TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS voters (
    id            UUID PRIMARY KEY,
    election_id   UUID NOT NULL REFERENCES elections(id),
    email         TEXT NOT NULL,
    date_of_birth DATE NOT NULL,
    has_voted     BOOLEAN NOT NULL DEFAULT FALSE,
    UNIQUE (election_id, email)
);

CREATE TABLE IF NOT EXISTS identity_tokens (
    token       TEXT PRIMARY KEY,
    voter_id    UUID NOT NULL REFERENCES voters(id),
    election_id UUID NOT NULL REFERENCES elections(id),
    expires_at  TIMESTAMPTZ NOT NULL,
    used        BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_identity_tokens_voter ON identity_tokens(voter_id);

CREATE TABLE IF NOT EXISTS ballot_authorization_tokens (
    token       TEXT PRIMARY KEY,
    election_id UUID NOT NULL REFERENCES elections(id),
    issued_at   TIMESTAMPTZ NOT NULL,
    expires_at  TIMESTAMPTZ NOT NULL,
    used        BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS encrypted_ballots (
    id            BIGSERIAL PRIMARY KEY,
    election_id   UUID NOT NULL REFERENCES elections(id),
    payload       BYTEA NOT NULL,
    cast_at       TIMESTAMPTZ NOT NULL,
    previous_hash TEXT NOT NULL,
    ballot_hash   TEXT NOT NULL UNIQUE,
    receipt_token TEXT NOT NULL UNIQUE
);

CREATE INDEX IF NOT EXISTS idx_encrypted_ballots_election ON encrypted_ballots(election_id, id);

CREATE TABLE IF NOT EXISTS audit_events (
    id            BIGSERIAL PRIMARY KEY,
    election_id   UUID NOT NULL REFERENCES elections(id),
    event_type    TEXT NOT NULL,
    actor         TEXT NOT NULL DEFAULT '',
    -- detail participates in event_hash; BYTEA keeps the stored bytes
    -- identical to the hashed bytes (JSONB would re-serialize them).
    detail        BYTEA NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    previous_hash TEXT NOT NULL,
    event_hash    TEXT NOT NULL UNIQUE
);

CREATE INDEX IF NOT EXISTS idx_audit_events_election ON audit_events(election_id, id);

-- Second layer of the immutability guarantee: even a caller holding raw SQL
-- access cannot rewrite ledger history. The store API is the first layer (it
-- exposes append and read only).
CREATE OR REPLACE FUNCTION reject_ledger_mutation() RETURNS trigger AS $$
BEGIN
    RAISE EXCEPTION 'immutable record: % rows cannot be modified or deleted', TG_TABLE_NAME;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS encrypted_ballots_immutable ON encrypted_ballots;
CREATE TRIGGER encrypted_ballots_immutable
    BEFORE UPDATE OR DELETE ON encrypted_ballots
    FOR EACH ROW EXECUTE FUNCTION reject_ledger_mutation();

DROP TRIGGER IF EXISTS audit_events_immutable ON audit_events;
CREATE TRIGGER audit_events_immutable
    BEFORE UPDATE OR DELETE ON audit_events
    FOR EACH ROW EXECUTE FUNCTION reject_ledger_mutation();
`
