package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TapeReader/internal/domain/models"
	drepo "TapeReader/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

// RedisMirror pushes the latest snapshot and the rolling decision history to
// Redis so display collaborators can read them without touching this process.
// The mirrored history list is trimmed to the same cap as the in-memory log.
type RedisMirror struct {
	client     *redis.Client
	prefix     string
	ttl        time.Duration
	historyCap int64
}

func NewRedisMirror(addr, password string, db int, prefix string, ttl time.Duration, historyCap int) (*RedisMirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisMirror{
		client:     client,
		prefix:     prefix,
		ttl:        ttl,
		historyCap: int64(historyCap),
	}, nil
}

func (m *RedisMirror) Store(ctx context.Context, s models.Snapshot) error {
	snap, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	pipe := m.client.TxPipeline()
	pipe.Set(ctx, m.key("snapshot"), snap, m.ttl)
	if len(s.History) > 0 {
		entry, err := json.Marshal(s.History[0])
		if err != nil {
			return fmt.Errorf("marshal history entry: %w", err)
		}
		pipe.LPush(ctx, m.key("history"), entry)
		pipe.LTrim(ctx, m.key("history"), 0, m.historyCap-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mirror snapshot: %w", err)
	}
	return nil
}

func (m *RedisMirror) Close() error {
	return m.client.Close()
}

func (m *RedisMirror) key(suffix string) string {
	return fmt.Sprintf("%s:%s", m.prefix, suffix)
}

var _ drepo.SnapshotMirror = (*RedisMirror)(nil)
