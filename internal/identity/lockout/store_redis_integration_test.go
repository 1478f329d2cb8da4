//go:build integration

package lockout_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/D00256764/u-vote-sub002/internal/identity/lockout"
	"github.com/D00256764/u-vote-sub002/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *lockout.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = lockout.NewRedisStore(s.redis.Client, 15*time.Minute)
}

func (s *RedisStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.redis.FlushAll(ctx)
	s.Require().NoError(err)
}

func (s *RedisStoreSuite) TestRecordFailureCounts() {
	ctx := context.Background()
	token := "tok-" + uuid.NewString()

	for want := 1; want <= 5; want++ {
		count, err := s.store.RecordFailure(ctx, token)
		s.Require().NoError(err)
		s.Equal(want, count)
	}

	attempts, err := s.store.Attempts(ctx, token)
	s.Require().NoError(err)
	s.Equal(5, attempts)
}

func (s *RedisStoreSuite) TestAttemptsDefaultsToZero() {
	attempts, err := s.store.Attempts(context.Background(), "tok-"+uuid.NewString())
	s.Require().NoError(err)
	s.Equal(0, attempts)
}

func (s *RedisStoreSuite) TestTokensAreIndependent() {
	ctx := context.Background()
	first := "tok-" + uuid.NewString()
	second := "tok-" + uuid.NewString()

	_, err := s.store.RecordFailure(ctx, first)
	s.Require().NoError(err)

	attempts, err := s.store.Attempts(ctx, second)
	s.Require().NoError(err)
	s.Equal(0, attempts)
}

func (s *RedisStoreSuite) TestResetClearsAttempts() {
	ctx := context.Background()
	token := "tok-" + uuid.NewString()

	_, err := s.store.RecordFailure(ctx, token)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Reset(ctx, token))

	attempts, err := s.store.Attempts(ctx, token)
	s.Require().NoError(err)
	s.Equal(0, attempts)
}

// TestConcurrentFailuresCountExactly leans on INCR atomicity: parallel
// failures must not lose counts.
func (s *RedisStoreSuite) TestConcurrentFailuresCountExactly() {
	ctx := context.Background()
	token := "tok-" + uuid.NewString()

	const goroutines = 50
	var wg sync.WaitGroup
	var errCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if _, err := s.store.RecordFailure(ctx, token); err != nil {
				errCount.Add(1)
			}
		}()
	}

	wg.Wait()
	s.Equal(int32(0), errCount.Load())

	attempts, err := s.store.Attempts(ctx, token)
	s.Require().NoError(err)
	s.Equal(goroutines, attempts)
}

// TestWindowExpiresKey uses a short-window store so the test can watch the
// counter disappear without waiting out the production window.
func (s *RedisStoreSuite) TestWindowExpiresKey() {
	ctx := context.Background()
	shortStore := lockout.NewRedisStore(s.redis.Client, time.Second)
	token := "tok-" + uuid.NewString()

	_, err := shortStore.RecordFailure(ctx, token)
	s.Require().NoError(err)

	s.Eventually(func() bool {
		attempts, err := shortStore.Attempts(ctx, token)
		return err == nil && attempts == 0
	}, 5*time.Second, 100*time.Millisecond, "counter should expire with the window")
}

// TestRawTokenNeverStored scans the keyspace: only hashed attempt keys may
// exist, never the credential itself.
func (s *RedisStoreSuite) TestRawTokenNeverStored() {
	ctx := context.Background()
	token := "tok-" + uuid.NewString()

	_, err := s.store.RecordFailure(ctx, token)
	s.Require().NoError(err)

	keys, err := s.redis.Client.Keys(ctx, "*").Result()
	s.Require().NoError(err)
	s.Require().Len(keys, 1)
	s.NotContains(keys[0], token, "raw token must not appear in any key")
}
