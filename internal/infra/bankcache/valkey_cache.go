package bankcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/question-bank/internal/domain/questionbank"
)

// ValkeyCache shares the decoded bank between replicas through a
// Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
	logger *slog.Logger
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string, logger *slog.Logger) *ValkeyCache {
	if prefix == "" {
		prefix = "questionbank"
	}
	return &ValkeyCache{client: client, prefix: prefix, logger: logger.With("component", "bankcache.valkey")}
}

// Get implements questionbank.BankCache. An undecodable entry is reported as
// a miss so the loader repopulates it.
func (c *ValkeyCache) Get(ctx context.Context) (questionbank.Bank, bool, error) {
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.bankKey()).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var bank questionbank.Bank
	if err := json.Unmarshal([]byte(payload), &bank); err != nil {
		c.logger.Warn("discarding undecodable cached bank", "key", c.bankKey(), "error", err)
		return nil, false, nil
	}
	return bank, true, nil
}

// Put implements questionbank.BankCache.
func (c *ValkeyCache) Put(ctx context.Context, bank questionbank.Bank, ttl time.Duration) error {
	payload, err := json.Marshal(bank)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.bankKey()).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) bankKey() string {
	return fmt.Sprintf("%s:bank", c.prefix)
}

var _ questionbank.BankCache = (*ValkeyCache)(nil)
