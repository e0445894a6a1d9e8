package bankcache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/question-bank/internal/domain/questionbank"
)

// MemoryCache holds the bank in process memory.
type MemoryCache struct {
	mu        sync.RWMutex
	bank      questionbank.Bank
	loaded    bool
	expiresAt time.Time
	now       func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{now: time.Now}
}

// Get implements questionbank.BankCache.
func (c *MemoryCache) Get(_ context.Context) (questionbank.Bank, bool, error) {
	c.mu.RLock()
	bank, loaded, exp := c.bank, c.loaded, c.expiresAt
	c.mu.RUnlock()
	if !loaded {
		return nil, false, nil
	}
	if !exp.IsZero() && exp.Before(c.now()) {
		c.mu.Lock()
		if c.expiresAt.Equal(exp) {
			c.bank, c.loaded, c.expiresAt = nil, false, time.Time{}
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return bank, true, nil
}

// Put stores bank; ttl <= 0 keeps it for the life of the process.
func (c *MemoryCache) Put(_ context.Context, bank questionbank.Bank, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.bank, c.loaded, c.expiresAt = bank, true, exp
	return nil
}

var _ questionbank.BankCache = (*MemoryCache)(nil)
