package adapter

import (
	"context"
	"time"
)

// Locker is a best-effort distributed lock used to de-duplicate racing
// verification attempts (gateway webhook retry vs. admin action) before they
// contend on the database row. The row-level transaction remains the
// authoritative guard.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}
