package ballot

import (
	"context"

	"github.com/google/uuid"
)

// AuthorizationConsumer flips an authorization token to used as a single
// conditional write scoped to the election it was minted for.
type AuthorizationConsumer interface {
	// ConsumeAuthorization returns sentinel.ErrNotFound, ErrAlreadyUsed, or
	// ErrExpired when the token cannot be consumed.
	ConsumeAuthorization(ctx context.Context, token string, electionID uuid.UUID) error
}

// Appender extends the election's ballot chain by one entry. Implementations
// serialize tail read against insert per election, compute the chain hash
// from canonical stored fields, and assign the receipt token binding.
type Appender interface {
	AppendBallot(ctx context.Context, electionID uuid.UUID, payload []byte, receiptToken string) (EncryptedBallot, error)
}

// ReceiptReader resolves a receipt token to its recorded ballot hash.
type ReceiptReader interface {
	FindReceipt(ctx context.Context, receiptToken string) (Receipt, error)
}

// Tx provides the transactional boundary for the consume-then-append pair.
type Tx interface {
	RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
