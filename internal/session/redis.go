package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "stoq:session:"

// Redis guarda as sessões num Redis compartilhado, para rodar mais de uma
// réplica do serviço sem prender a sessão numa instância.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis conecta no Redis da URL e valida a conexão na subida.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{client: client, ttl: ttl}, nil
}

func (store *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := store.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (store *Redis) Put(ctx context.Context, key string, value []byte) error {
	return store.client.Set(ctx, redisKeyPrefix+key, value, store.ttl).Err()
}

func (store *Redis) Delete(ctx context.Context, key string) error {
	return store.client.Del(ctx, redisKeyPrefix+key).Err()
}

// Close libera a conexão (usado no shutdown).
func (store *Redis) Close() error {
	return store.client.Close()
}
