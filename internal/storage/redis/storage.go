package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/refranero/hangedgame/internal/model"
	"github.com/refranero/hangedgame/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(user.Username), data, 0) // No TTL: accounts are permanent
	pipe.SAdd(ctx, usersIndexKey(), user.Username)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*model.User, error) {
	usernames, err := s.client.SMembers(ctx, usersIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(usernames) == 0 {
		return []*model.User{}, nil
	}

	keys := make([]string, len(usernames))
	for i, username := range usernames {
		keys[i] = userKey(username)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Index entry without a record
		}
		var user model.User
		if err := json.Unmarshal([]byte(val.(string)), &user); err != nil {
			continue // Skip invalid data
		}
		users = append(users, &user)
	}

	return users, nil
}

// Phrase corpus operations

func (s *Storage) SavePhrases(ctx context.Context, phrases []string) error {
	key := phrasesKey()

	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)
	if len(phrases) > 0 {
		values := make([]interface{}, len(phrases))
		for i, p := range phrases {
			values[i] = p
		}
		pipe.RPush(ctx, key, values...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPhrases(ctx context.Context) ([]string, error) {
	phrases, err := s.client.LRange(ctx, phrasesKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(phrases) == 0 {
		return nil, model.ErrCorpusEmpty
	}
	return phrases, nil
}
