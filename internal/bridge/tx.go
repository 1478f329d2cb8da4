package bridge

import (
	"context"
	"sync"
	"time"

	dErrors "github.com/D00256764/u-vote-sub002/pkg/domain-errors"
)

// shardedMemoryTx provides the in-memory transactional boundary. Operations
// are distributed across shards by a hash of the identity token, so unrelated
// issuances never contend while two racing requests for the same token
// serialize.
const numTxShards = 32

const defaultTxTimeout = 5 * time.Second

type shardedMemoryTx struct {
	shards  [numTxShards]sync.Mutex
	timeout time.Duration
}

// NewMemoryTx builds the in-memory Tx used by unit tests and dev mode.
func NewMemoryTx() Tx {
	return &shardedMemoryTx{timeout: defaultTxTimeout}
}

func (t *shardedMemoryTx) RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	shard := hashKey(key) % numTxShards
	t.shards[shard].Lock()
	defer t.shards[shard].Unlock()

	// Check again after acquiring the lock.
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx)
}

// hashKey uses FNV-1a for distribution across shards.
func hashKey(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
