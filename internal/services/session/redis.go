package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/config"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RedisStore keeps session histories in redis, for deployments that
// need histories to outlive the process. Same contract as the memory
// store.
type RedisStore struct {
	client      *redis.Client
	maxMessages int
	mu          sync.Mutex
	logger      *logrus.Logger
}

// NewRedisStore creates a redis-backed session store
func NewRedisStore(cfg *config.Config, logger *logrus.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Session.Redis.Addr,
		Password: cfg.Session.Redis.Password,
		DB:       cfg.Session.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.WithField("addr", cfg.Session.Redis.Addr).Info("Redis session store connected")

	return &RedisStore{
		client:      client,
		maxMessages: cfg.Session.MaxMessages,
		logger:      logger,
	}, nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("chat_session:%s", sessionID)
}

// AppendExchange reads, appends both turns, trims, and writes back
// under the store lock. The lock covers the read-modify-write so
// concurrent exchanges for the same session cannot interleave.
func (s *RedisStore) AppendExchange(ctx context.Context, sessionID, userMessage, assistantMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}

	turns = append(turns,
		models.ChatTurn{Role: models.RoleUser, Content: userMessage},
		models.ChatTurn{Role: models.RoleAssistant, Content: assistantMessage},
	)

	if len(turns) > s.maxMessages {
		turns = turns[len(turns)-s.maxMessages:]
	}

	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.client.Set(ctx, sessionKey(sessionID), data, 0).Err()
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) ([]models.ChatTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx, sessionID)
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}

// Count scans for session keys rather than reading DBSIZE, so other
// keys sharing the database are not counted.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	var cursor uint64
	var total int
	for {
		keys, next, err := s.client.Scan(ctx, cursor, sessionKey("*"), 100).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to scan sessions: %w", err)
		}
		total += len(keys)
		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}

func (s *RedisStore) load(ctx context.Context, sessionID string) ([]models.ChatTurn, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var turns []models.ChatTurn
	if err := json.Unmarshal([]byte(data), &turns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return turns, nil
}
