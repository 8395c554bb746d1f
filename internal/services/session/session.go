package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/config"
	"github.com/Sayeem-Velocity/Smart-Home-Appliance-Webapp/internal/models"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Store defines session history operations. Histories are bounded,
// append-only logs keyed by an opaque session id; appending one
// exchange is atomic, so a reader sees both turns of an exchange or
// neither.
type Store interface {
	AppendExchange(ctx context.Context, sessionID, userMessage, assistantMessage string) error
	Get(ctx context.Context, sessionID string) ([]models.ChatTurn, error)
	Clear(ctx context.Context, sessionID string) error
	Count(ctx context.Context) (int, error)
}

// Manager selects the configured session backend
type Manager struct {
	store  Store
	logger *logrus.Logger
}

// NewManager creates a new session manager
func NewManager(cfg *config.Config, logger *logrus.Logger) (*Manager, error) {
	var store Store

	switch cfg.Session.Backend {
	case "redis":
		redisStore, err := NewRedisStore(cfg, logger)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case "memory":
		store = NewMemoryStore(cfg.Session.MaxMessages, logger)
	default:
		return nil, fmt.Errorf("unsupported session backend: %s", cfg.Session.Backend)
	}

	return &Manager{store: store, logger: logger}, nil
}

func (m *Manager) AppendExchange(ctx context.Context, sessionID, userMessage, assistantMessage string) error {
	return m.store.AppendExchange(ctx, sessionID, userMessage, assistantMessage)
}

func (m *Manager) Get(ctx context.Context, sessionID string) ([]models.ChatTurn, error) {
	return m.store.Get(ctx, sessionID)
}

func (m *Manager) Clear(ctx context.Context, sessionID string) error {
	return m.store.Clear(ctx, sessionID)
}

func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.store.Count(ctx)
}

// MemoryStore keeps session histories in process memory. Histories
// survive only as long as the process; a restart clears all sessions.
type MemoryStore struct {
	sessions    *cache.Cache
	maxMessages int
	mu          sync.Mutex
	logger      *logrus.Logger
}

// NewMemoryStore creates an in-memory session store
func NewMemoryStore(maxMessages int, logger *logrus.Logger) *MemoryStore {
	return &MemoryStore{
		sessions:    cache.New(cache.NoExpiration, cache.NoExpiration),
		maxMessages: maxMessages,
		logger:      logger,
	}
}

// AppendExchange appends the user and assistant turns of one exchange
// under a single lock, then trims the history to the cap from the
// front
func (s *MemoryStore) AppendExchange(ctx context.Context, sessionID, userMessage, assistantMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var turns []models.ChatTurn
	if val, found := s.sessions.Get(sessionID); found {
		turns = val.([]models.ChatTurn)
	}

	turns = append(turns,
		models.ChatTurn{Role: models.RoleUser, Content: userMessage},
		models.ChatTurn{Role: models.RoleAssistant, Content: assistantMessage},
	)

	if len(turns) > s.maxMessages {
		turns = turns[len(turns)-s.maxMessages:]
	}

	s.sessions.Set(sessionID, turns, cache.NoExpiration)
	return nil
}

// Get returns the ordered history for a session. A missing session is
// an empty history, not an error.
func (s *MemoryStore) Get(ctx context.Context, sessionID string) ([]models.ChatTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, found := s.sessions.Get(sessionID)
	if !found {
		return nil, nil
	}

	turns := val.([]models.ChatTurn)
	out := make([]models.ChatTurn, len(turns))
	copy(out, turns)
	return out, nil
}

// Clear removes a session's history. Clearing a nonexistent session
// is a no-op.
func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions.Delete(sessionID)
	return nil
}

// Count reports the number of sessions with a stored history
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	return s.sessions.ItemCount(), nil
}
