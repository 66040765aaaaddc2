package locker

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"rental-service/internal/pkg/errors"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Locker serialises work on one key across service instances. The lock is an
// optimisation: balance changes are still guarded by the ledger's conditional
// updates, so a Redis outage degrades to running without it.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type redisLocker struct {
	rs         *redsync.Redsync
	log        *otelzap.Logger
	ttl        time.Duration
	tries      int
	retryDelay time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, log *otelzap.Logger) Locker {
	pool := goredis.NewPool(client)
	return &redisLocker{
		rs:         redsync.New(pool),
		log:        log,
		ttl:        ttl,
		tries:      32,
		retryDelay: 100 * time.Millisecond,
	}
}

// New returns a Redis backed locker, or a no-op one when Redis does not answer.
func New(ctx context.Context, client *redis.Client, ttl time.Duration, log *otelzap.Logger) Locker {
	if client == nil {
		return NewNoop()
	}
	if err := client.Ping(ctx).Err(); err != nil {
		log.Ctx(ctx).Warn("redis unavailable, withdrawal locks disabled", zap.Error(err))
		return NewNoop()
	}
	return NewRedisLocker(client, ttl, log)
}

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	mutex := l.rs.NewMutex(fmt.Sprintf("lock:%s", key),
		redsync.WithExpiry(l.ttl),
		redsync.WithTries(l.tries),
		redsync.WithRetryDelay(l.retryDelay),
	)

	err := mutex.LockContext(ctx)
	switch {
	case err == nil:
		return func() {
			// an expired lock is fine; the ledger update is the real guard
			_, _ = mutex.UnlockContext(context.Background())
		}, nil
	case isTaken(err):
		return nil, errors.Conflict("another request for this account is in progress")
	case ctx.Err() != nil:
		return nil, ctx.Err()
	}

	l.log.Ctx(ctx).Warn("error acquire lock, continuing without it", zap.String("key", key), zap.Error(err))
	return func() {}, nil
}

func isTaken(err error) bool {
	var taken *redsync.ErrTaken
	if stderrors.As(err, &taken) {
		return true
	}
	var nodeTaken *redsync.ErrNodeTaken
	return stderrors.As(err, &nodeTaken)
}

type noopLocker struct{}

// NewNoop is used when Redis is unavailable and in tests.
func NewNoop() Locker {
	return noopLocker{}
}

func (noopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
