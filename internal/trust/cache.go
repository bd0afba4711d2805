package trust

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caseflow-systems/caseflow-intake/internal/models"
)

// Cache stores recent authority verdicts per (source, kind) in Redis
// so repeated submissions from the same source skip the round trip.
// Unevaluated assessments are never cached.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a verdict cache from a Redis URL.
func NewCache(redisURL string, ttl time.Duration) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// NewCacheWithClient wraps an existing Redis client; used by tests.
func NewCacheWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(source string, kind models.InputKind) string {
	return fmt.Sprintf("intake:trust:%s:%s", kind, source)
}

// Get returns a cached assessment for the source, if any.
func (c *Cache) Get(ctx context.Context, source string, kind models.InputKind) (models.TrustAssessment, bool) {
	if c == nil || source == "" {
		return models.TrustAssessment{}, false
	}

	data, err := c.client.Get(ctx, cacheKey(source, kind)).Bytes()
	if err != nil {
		return models.TrustAssessment{}, false
	}

	var assessment models.TrustAssessment
	if err := json.Unmarshal(data, &assessment); err != nil {
		return models.TrustAssessment{}, false
	}
	return assessment, true
}

// Put stores an assessment under the source key. Unevaluated states
// are skipped: an outage must not mask a later real verdict.
func (c *Cache) Put(ctx context.Context, source string, kind models.InputKind, assessment models.TrustAssessment) {
	if c == nil || source == "" || assessment.State == models.TrustUnevaluated {
		return
	}

	data, err := json.Marshal(assessment)
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKey(source, kind), data, c.ttl)
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
