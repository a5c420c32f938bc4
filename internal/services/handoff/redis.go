package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/internal/metrics"
	"github.com/killallgit/recipe-api/internal/models"
)

// DefaultRedisKey holds the pending payload
const DefaultRedisKey = "recipe:pending_extraction"

// RedisConfig configures a RedisMailbox
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	Key         string
	DialTimeout time.Duration
}

// RedisMailbox stores the pending payload under a single Redis key.
// Audio files still live in the shared directory.
type RedisMailbox struct {
	sharedFiles
	client  redis.UniversalClient
	key     string
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewRedisMailbox connects to Redis and returns a mailbox
func NewRedisMailbox(cfg RedisConfig, sharedDir string, logger *zap.Logger, m *metrics.Collector) *RedisMailbox {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       []string{cfg.Addr},
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})
	return NewRedisMailboxWithClient(client, cfg.Key, sharedDir, logger, m)
}

// NewRedisMailboxWithClient wraps an existing client
func NewRedisMailboxWithClient(client redis.UniversalClient, key, sharedDir string, logger *zap.Logger, m *metrics.Collector) *RedisMailbox {
	if key == "" {
		key = DefaultRedisKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisMailbox{
		sharedFiles: sharedFiles{dir: sharedDir},
		client:      client,
		key:         key,
		logger:      logger.Named("handoff"),
		metrics:     m,
	}
}

// Ping checks the Redis connection
func (m *RedisMailbox) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (m *RedisMailbox) Close() error {
	return m.client.Close()
}

func (m *RedisMailbox) Save(ctx context.Context, payload *models.ExtractionPayload) error {
	if payload == nil || payload.ID == "" {
		return ErrInvalidPayload
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := m.client.Set(ctx, m.key, data, 0).Err(); err != nil {
		return fmt.Errorf("store payload: %w", err)
	}

	m.logger.Info("pending extraction saved", zap.String("payload_id", payload.ID), zap.String("key", m.key))
	m.metrics.HandoffEvent("save")
	return nil
}

func (m *RedisMailbox) LoadPending(ctx context.Context) (*models.ExtractionPayload, error) {
	data, err := m.client.Get(ctx, m.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load payload: %w", err)
	}

	payload := decodePayload(data)
	if payload == nil {
		m.logger.Warn("ignoring undecodable payload", zap.String("key", m.key))
		return nil, nil
	}
	m.metrics.HandoffEvent("load")
	return payload, nil
}

// Cleanup deletes the key inside a WATCH transaction so a newer payload saved
// concurrently is never removed
func (m *RedisMailbox) Cleanup(ctx context.Context, payload *models.ExtractionPayload) error {
	var current *models.ExtractionPayload
	removed := false

	err := m.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, m.key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		current = decodePayload(data)
		if payload != nil && current != nil && current.ID != payload.ID {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, m.key)
			return nil
		})
		if err == nil {
			removed = true
		}
		return err
	}, m.key)
	if err != nil {
		return fmt.Errorf("remove payload: %w", err)
	}

	target := payload
	if target == nil {
		target = current
	}
	if target != nil {
		if err := m.removeAudio(target.AudioFileName); err != nil {
			return fmt.Errorf("remove audio: %w", err)
		}
	}

	if removed {
		m.metrics.HandoffEvent("cleanup")
	}
	return nil
}

func decodePayload(data []byte) *models.ExtractionPayload {
	var payload models.ExtractionPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ID == "" {
		return nil
	}
	return &payload
}
