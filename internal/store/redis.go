package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "career-navigator:doc:"

// Redis stores each document as a JSON string under prefix+userID.
type Redis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// OpenRedis connects using cfg.URL and pings the server.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, errors.New("redis store: url is required")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis store: parse url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis store: ping: %w", err)
	}

	return NewRedis(client, cfg.KeyPrefix), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultKeyPrefix
	}
	return &Redis{client: client, prefix: prefix, now: time.Now}
}

// Client exposes the connection so the notification publisher can share it.
func (r *Redis) Client() *redis.Client {
	return r.client
}

func (r *Redis) key(userID string) string {
	return r.prefix + userID
}

func (r *Redis) Load(ctx context.Context, userID string) (*Document, error) {
	if err := validUserID(userID); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis store: get %s: %w", userID, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("redis store: decode %s: %w", userID, err)
	}
	return &doc, nil
}

// Merge is a plain read-modify-write. Concurrent writers for the same user are
// not coordinated.
func (r *Redis) Merge(ctx context.Context, userID string, patch Patch) (*Document, error) {
	doc, err := r.Load(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		doc = &Document{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	patch.Apply(doc, r.now())

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("redis store: encode document: %w", err)
	}

	if err := r.client.Set(ctx, r.key(userID), data, 0).Err(); err != nil {
		return nil, fmt.Errorf("redis store: set %s: %w", userID, err)
	}

	return doc, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
