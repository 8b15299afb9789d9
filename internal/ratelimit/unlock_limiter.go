package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/househelp/househelp/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const (
	keyUnlockUser = "unlock:user:%s"
	keyUnlockPair = "unlock:pair:%s:%s"
)

// UnlockLimiter throttles unlock attempts per requester and serializes
// concurrent attempts on the same (requester, worker) pair. It is nil
// when redis is not configured; every method degrades to a no-op then,
// leaving the database unique constraint as the dedup backstop.
type UnlockLimiter struct {
	bucket *TokenBucket
	locker *Locker

	userRate  float64
	userBurst int
	lockTTL   time.Duration
}

func NewUnlockLimiter(cfg config.Config) *UnlockLimiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
	})

	return &UnlockLimiter{
		bucket:    NewTokenBucket(client),
		locker:    NewLocker(client),
		userRate:  1,
		userBurst: 5,
		lockTTL:   5 * time.Second,
	}
}

func (l *UnlockLimiter) Enabled() bool {
	return l != nil
}

// AllowUser consumes one unlock attempt for the requester.
func (l *UnlockLimiter) AllowUser(ctx context.Context, requesterID string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyUnlockUser, strings.TrimSpace(requesterID)), l.userRate, l.userBurst)
}

// LockPair serializes concurrent unlocks of one pair. The returned
// release func is safe to call when acquisition failed.
func (l *UnlockLimiter) LockPair(ctx context.Context, requesterID, workerID string) (func(), bool) {
	if !l.Enabled() {
		return func() {}, true
	}

	key := fmt.Sprintf(keyUnlockPair, strings.TrimSpace(requesterID), strings.TrimSpace(workerID))
	token, ok, err := l.locker.TryLock(ctx, key, l.lockTTL)
	if err != nil || !ok {
		// Lock contention or redis failure falls through to the
		// duplicate-key handling on insert.
		return func() {}, false
	}
	return func() {
		_ = l.locker.Release(context.WithoutCancel(ctx), key, token)
	}, true
}
