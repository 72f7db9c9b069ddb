/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

// OpenRedis connects to the server named by a redis:// or rediss:// url and
// pings it before returning.
func OpenRedis(ctx context.Context, rawURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("store.redis: failed to parse url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("store.redis: failed to connect: %w", err)
	}

	return &RedisStore{client: client, ctx: ctx}, nil
}

func (s *RedisStore) Get(key string) ([]byte, bool) {
	data, err := s.client.Get(s.ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("store.redis.get: %v: %v", key, err)
		}
		return nil, false
	}
	return data, true
}

func (s *RedisStore) Set(key string, data []byte) {
	if err := s.client.Set(s.ctx, key, data, 0).Err(); err != nil {
		log.Printf("store.redis.set: %v: %v", key, err)
	}
}

func (s *RedisStore) Delete(key string) {
	if err := s.client.Del(s.ctx, key).Err(); err != nil {
		log.Printf("store.redis.delete: %v: %v", key, err)
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
