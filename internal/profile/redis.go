package profile

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thywilljoshua/pdf-reader/internal/logger"
)

const (
	defaultKeyPrefix = "pdfreader:profile:"

	fieldName   = "user_name"
	fieldAPIKey = "groq_api_key"
	fieldAvatar = "user_avatar"
)

// RedisStore keeps the profile as a hash under one key. A zero TTL means the
// key never expires; otherwise it is refreshed on every read and write.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	log    *logger.Logger
}

type RedisOption func(*RedisStore)

func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.key = prefix + "default"
		}
	}
}

func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

func WithLogger(log *logger.Logger) RedisOption {
	return func(s *RedisStore) { s.log = log }
}

func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, key: defaultKeyPrefix + "default", log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logger.OrNop(s.log)
	return s
}

func (s *RedisStore) Key() string { return s.key }

func (s *RedisStore) Load(ctx context.Context) (Profile, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return Profile{}, err
	}
	if len(fields) == 0 {
		return Profile{}, ErrNotFound
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.key, s.ttl).Err(); err != nil {
			s.log.Warn("refreshing profile ttl failed", "key", s.key, "error", err)
		}
	}
	return fromHash(fields), nil
}

func (s *RedisStore) Save(ctx context.Context, p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		pipe.HSet(ctx, s.key, toHash(p))
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	return err
}

func (s *RedisStore) Close() error { return s.client.Close() }

func toHash(p Profile) map[string]interface{} {
	h := map[string]interface{}{
		fieldName:   p.Name,
		fieldAPIKey: p.APIKey,
	}
	if p.Avatar != "" {
		h[fieldAvatar] = p.Avatar
	}
	return h
}

func fromHash(h map[string]string) Profile {
	return Profile{
		Name:   h[fieldName],
		APIKey: h[fieldAPIKey],
		Avatar: h[fieldAvatar],
	}
}
