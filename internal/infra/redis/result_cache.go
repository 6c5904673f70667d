package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"quizmaster/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const resultsKey = "quiz:results"

// ResultLog is the backing log the cache falls back to on a miss.
type ResultLog interface {
	Append(ctx context.Context, row domain.ResultRow) error
	ReadAll(ctx context.Context) ([]domain.ResultRow, error)
}

// ResultCache caches the result-log rows as a JSON value in Redis and falls
// back to the backing log on cache miss. Appends go straight through to the
// log and drop the cached value so the next read re-primes it.
type ResultCache struct {
	client *redis.Client
	log    ResultLog
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewResultCache(client *redis.Client, log ResultLog, ttl time.Duration) *ResultCache {
	return &ResultCache{
		client: client,
		log:    log,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ResultCache) Append(ctx context.Context, row domain.ResultRow) error {
	if err := c.log.Append(ctx, row); err != nil {
		return err
	}
	// best-effort invalidation
	_ = c.client.Del(ctx, resultsKey).Err()
	return nil
}

func (c *ResultCache) ReadAll(ctx context.Context) ([]domain.ResultRow, error) {
	raw, err := c.client.Get(ctx, resultsKey).Bytes()
	if err == nil {
		return decodeRows(raw)
	}

	result, err, _ := c.sf.Do(resultsKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := c.client.Get(ctx, resultsKey).Bytes()
		if err == nil {
			return decodeRows(raw)
		}

		rows, err := c.log.ReadAll(ctx)
		if err != nil {
			return nil, err
		}

		if encoded, err := json.Marshal(rows); err == nil {
			_ = c.client.Set(ctx, resultsKey, encoded, c.ttlWithJitter()).Err()
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.ResultRow), nil
}

func decodeRows(raw []byte) ([]domain.ResultRow, error) {
	var rows []domain.ResultRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode cached results: %w", err)
	}
	return rows, nil
}

func (c *ResultCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
