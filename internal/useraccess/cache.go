package useraccess

import (
	"context"
	"log/slog"
	"sync"
)

// SessionCache memoizes resolved records for the lifetime of a session.
// Entries are created on the first authenticated request after sign-in and
// dropped on sign-out, so the record's immutability holds per session and
// re-resolution only happens on session change.
type SessionCache struct {
	resolver *Resolver
	logger   *slog.Logger

	mu      sync.RWMutex
	records map[string]*Record
}

func NewSessionCache(resolver *Resolver, logger *slog.Logger) *SessionCache {
	return &SessionCache{
		resolver: resolver,
		logger:   logger,
		records:  make(map[string]*Record),
	}
}

// Get returns the cached record for the email, resolving it on first use.
func (c *SessionCache) Get(ctx context.Context, email string) (*Record, error) {
	key := NormalizeEmail(email)

	c.mu.RLock()
	rec, ok := c.records[key]
	c.mu.RUnlock()
	if ok {
		return rec, nil
	}

	rec, _, err := c.resolver.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.records[key] = rec
	c.mu.Unlock()

	return rec, nil
}

// Invalidate drops the session's record. Called on sign-out.
func (c *SessionCache) Invalidate(email string) {
	key := NormalizeEmail(email)

	c.mu.Lock()
	delete(c.records, key)
	c.mu.Unlock()

	c.logger.Debug("session access record invalidated", "email", key)
}
