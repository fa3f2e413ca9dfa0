package repository

import (
	"aglc_chat/internal/model"
	"aglc_chat/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "aglc:session:"

type RedisSessionRepository struct {
	Redis *redis.Client
	ttl   time.Duration
}

func NewRedisSessionRepository(rdb *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{Redis: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *RedisSessionRepository) Load(ctx context.Context, id string) (*model.SessionSnapshot, error) {
	data, err := r.Redis.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var snap model.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &snap, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, snap *model.SessionSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, sessionKey(snap.ID), data, r.ttl).Err()
}

func (r *RedisSessionRepository) Ping(ctx context.Context) error {
	return r.Redis.Ping(ctx).Err()
}
