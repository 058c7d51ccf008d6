package statistics

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/saulo-duarte/assessment-lambda/internal/config"
	"github.com/saulo-duarte/assessment-lambda/internal/quiz"
)

// Cache stores rendered statistics. A miss is reported as found == false.
type Cache interface {
	Get(ctx context.Context, key string, dst interface{}) (found bool, err error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

func quizKey(id uuid.UUID) string {
	return "stats:quiz:" + id.String()
}

func courseKey(id uuid.UUID) string {
	return "stats:course:" + id.String()
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache returns a redis backed cache, or a no-op cache when client is nil.
func NewCache(client *redis.Client, ttl time.Duration) Cache {
	if client == nil {
		return NoopCache{}
	}
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

type NoopCache struct{}

func (NoopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (NoopCache) Set(context.Context, string, interface{}) error { return nil }

func (NoopCache) Delete(context.Context, ...string) error { return nil }

// Invalidator drops cached statistics for a quiz, and its course, when an
// attempt on it completes or the quiz itself is edited.
type Invalidator struct {
	cache Cache
}

func NewInvalidator(cache Cache) *Invalidator {
	return &Invalidator{cache: cache}
}

func (i *Invalidator) AttemptCompleted(ctx context.Context, q *quiz.Quiz, a *quiz.QuizAttempt) {
	i.invalidate(ctx, q)
}

func (i *Invalidator) QuizChanged(ctx context.Context, q *quiz.Quiz) {
	i.invalidate(ctx, q)
}

func (i *Invalidator) invalidate(ctx context.Context, q *quiz.Quiz) {
	keys := []string{quizKey(q.ID)}
	if q.CourseID != nil {
		keys = append(keys, courseKey(*q.CourseID))
	}
	if err := i.cache.Delete(ctx, keys...); err != nil {
		config.WithContext(ctx).WithError(err).WithField("quiz_id", q.ID).Warn("Failed to invalidate statistics cache")
	}
}
