package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nhanzalone1/netgains/internal/brief"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const redisKeyPrefix = "brief:"

// RedisStore keeps one hash per user with a field per calendar day, so
// invalidating a user is a single DEL. The hash TTL is refreshed on every Set.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(userID uuid.UUID) string {
	return redisKeyPrefix + userID.String()
}

func (r *RedisStore) Get(ctx context.Context, key Key) (*brief.Response, error) {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.HGet",
		trace.WithAttributes(
			attribute.String("cache.key", redisKey(key.UserID)),
			attribute.String("cache.field", key.Day.String()),
		),
	)
	defer span.End()

	data, err := r.client.HGet(ctx, redisKey(key.UserID), key.Day.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.String("cache.result", "miss"))
			return nil, ErrMiss
		}
		span.RecordError(err)
		return nil, fmt.Errorf("redis hget %s: %w", key, err)
	}
	span.SetAttributes(attribute.String("cache.result", "hit"))

	var resp brief.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("unmarshaling cached brief %s: %w", key, err)
	}
	return &resp, nil
}

func (r *RedisStore) Set(ctx context.Context, key Key, resp *brief.Response, ttl time.Duration) error {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.HSet",
		trace.WithAttributes(
			attribute.String("cache.key", redisKey(key.UserID)),
			attribute.String("cache.field", key.Day.String()),
			attribute.Int64("cache.ttl_seconds", int64(ttl.Seconds())),
		),
	)
	defer span.End()

	data, err := json.Marshal(resp)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshaling brief %s: %w", key, err)
	}

	k := redisKey(key.UserID)
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, k, key.Day.String(), data)
		if ttl > 0 {
			p.Expire(ctx, k, ttl)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Invalidate(ctx context.Context, userID uuid.UUID) error {
	ctx, span := otel.Tracer("redis").Start(ctx, "redis.Delete",
		trace.WithAttributes(attribute.String("cache.key", redisKey(userID))),
	)
	defer span.End()

	if err := r.client.Del(ctx, redisKey(userID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("redis del %s: %w", userID, err)
	}
	return nil
}
