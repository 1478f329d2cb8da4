package ballot

import (
	"time"

	"github.com/google/uuid"
)

// AuthorizationToken ("blind token") proves only that someone authorized may
// vote in the election. It carries no voter reference and no link back to the
// identity token it was minted for; the struct has no field capable of
// expressing one.
type AuthorizationToken struct {
	Token      string
	ElectionID uuid.UUID
	IssuedAt   time.Time
	ExpiresAt  time.Time
	Used       bool
}

// EncryptedBallot is one entry in the per-election hash chain. Immutable after
// insert; carries no voter, identity, or token reference of any kind.
type EncryptedBallot struct {
	ID           int64
	ElectionID   uuid.UUID
	Payload      []byte
	CastAt       time.Time
	PreviousHash string
	BallotHash   string
	ReceiptToken string
}

// Receipt lets a voter confirm inclusion of a specific ballot hash without
// revealing the vote's content.
type Receipt struct {
	ReceiptToken string
	BallotHash   string
	ElectionID   uuid.UUID
	CastAt       time.Time
}

// CastResult is returned to the caller after a successful append.
type CastResult struct {
	ReceiptToken string
	BallotHash   string
}
