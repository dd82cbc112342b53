package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
)

const redisKeyPrefix = "passgen:session:"

// redisSession is the JSON document stored under each session key.
type redisSession struct {
	Length    int       `json:"length"`
	Classes   uint8     `json:"classes"`
	Password  string    `json:"password"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RedisSessionStore keeps sessions in Redis and lets key TTLs expire them.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// NewRedisSessionStore creates a new RedisSessionStore.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

// Save writes the session with a TTL matching its remaining lifetime.
func (s *RedisSessionStore) Save(ctx context.Context, state *model.SessionState) error {
	ttl := time.Until(state.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionNotFound
	}

	data, err := encodeRedisSession(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKey(state.ID), data, ttl).Err()
}

// Get loads a session by ID.
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*model.SessionState, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return decodeRedisSession(id, data)
}

// Delete removes a session.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, redisKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func encodeRedisSession(state *model.SessionState) ([]byte, error) {
	return json.Marshal(redisSession{
		Length:    state.Config.Length,
		Classes:   uint8(state.Config.Classes),
		Password:  state.Password,
		ExpiresAt: state.ExpiresAt.UTC(),
	})
}

func decodeRedisSession(id string, data []byte) (*model.SessionState, error) {
	var rs redisSession
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return &model.SessionState{
		ID:        id,
		Config:    crypto.Config{Classes: crypto.ClassSet(rs.Classes), Length: rs.Length},
		Password:  rs.Password,
		ExpiresAt: rs.ExpiresAt,
	}, nil
}
