package previews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// studio:preview:{user_id} -> JSON Preview
const keyPreview = "studio:preview:%d"

type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{rdb: rdb, ttl: ttl}
}

func (s *Redis) Put(ctx context.Context, userID uint, p Preview) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, fmt.Sprintf(keyPreview, userID), b, s.ttl).Err()
}

func (s *Redis) Get(ctx context.Context, userID uint) (Preview, error) {
	b, err := s.rdb.Get(ctx, fmt.Sprintf(keyPreview, userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Preview{}, ErrNoPreview
	}
	if err != nil {
		return Preview{}, err
	}
	var p Preview
	if err := json.Unmarshal(b, &p); err != nil {
		return Preview{}, fmt.Errorf("decode preview: %w", err)
	}
	return p, nil
}

func (s *Redis) Delete(ctx context.Context, userID uint) error {
	return s.rdb.Del(ctx, fmt.Sprintf(keyPreview, userID)).Err()
}
