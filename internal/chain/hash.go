// Package chain owns the hash-chain arithmetic shared by the ballot and audit
// ledgers, and the verifier that walks either chain recomputing every entry.
package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// GenesisHash is the previous_hash of the first entry in every chain.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// CanonicalTime normalizes a timestamp to what the database stores, so a hash
// computed before insert equals one recomputed from the read-back row.
// timestamptz keeps microseconds; anything finer would break verification.
func CanonicalTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// BallotHash computes H(election ‖ payload ‖ timestamp ‖ previous_hash).
// The timestamp must already be canonical (see CanonicalTime).
func BallotHash(electionID uuid.UUID, payload []byte, castAt time.Time, previousHash string) string {
	h := sha256.New()
	h.Write([]byte(electionID.String()))
	h.Write([]byte{'\n'})
	h.Write(payload)
	h.Write([]byte{'\n'})
	h.Write([]byte(castAt.Format(time.RFC3339Nano)))
	h.Write([]byte{'\n'})
	h.Write([]byte(previousHash))
	return hex.EncodeToString(h.Sum(nil))
}

// EventHash computes H(event_type ‖ election ‖ actor ‖ detail ‖ timestamp ‖
// previous_hash). Deterministic over stored fields: no per-entry randomness,
// so the verifier re-derives every hash instead of trusting a stored value.
func EventHash(eventType string, electionID uuid.UUID, actor string, detail []byte, createdAt time.Time, previousHash string) string {
	h := sha256.New()
	h.Write([]byte(eventType))
	h.Write([]byte{'\n'})
	h.Write([]byte(electionID.String()))
	h.Write([]byte{'\n'})
	h.Write([]byte(actor))
	h.Write([]byte{'\n'})
	h.Write(detail)
	h.Write([]byte{'\n'})
	h.Write([]byte(createdAt.Format(time.RFC3339Nano)))
	h.Write([]byte{'\n'})
	h.Write([]byte(previousHash))
	return hex.EncodeToString(h.Sum(nil))
}
