package ledger

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType classifies audit events. Vote-cast events record that a ballot
// was cast, never the choice or the casting voter's identity.
type EventType string

const (
	EventBallotCast          EventType = "ballot_cast"
	EventMFAFailed           EventType = "mfa_failed"
	EventAuthorizationIssued EventType = "authorization_issued"
	EventIdentityValidated   EventType = "identity_validated"
	EventChainVerified       EventType = "chain_verified"
	EventChainTampered       EventType = "chain_tampered"
)

// Event is one entry in the per-election audit hash chain. Immutable after
// insert. Actor is a non-identifying reference (a service name or a truncated
// token digest), never a voter id or email.
type Event struct {
	ID           int64
	ElectionID   uuid.UUID
	Type         EventType
	Actor        string
	Detail       json.RawMessage
	CreatedAt    time.Time
	PreviousHash string
	EventHash    string
}

// AppendResult identifies the appended entry for callers.
type AppendResult struct {
	LogID     int64
	EventHash string
}
