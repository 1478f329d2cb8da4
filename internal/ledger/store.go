package ledger

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// NewEvent is what callers may supply: content only. Hash, position, and
// timestamp are assigned by the store at append time.
type NewEvent struct {
	ElectionID uuid.UUID
	Type       EventType
	Actor      string
	Detail     json.RawMessage
}

// Store is the full capability surface over the audit ledger: append and
// chain-ordered read. There is no update and no delete; the storage layer
// additionally rejects both at the engine level.
type Store interface {
	Append(ctx context.Context, event NewEvent) (Event, error)
	ListByElection(ctx context.Context, electionID uuid.UUID) ([]Event, error)
}
