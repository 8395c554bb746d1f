package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Event is one recorded pipeline decision
type Event struct {
	EventType  string
	SubjectID  string
	Query      string
	Intent     string
	Input      string
	Output     string
	Decision   string
	Confidence float64
	AIEnabled  bool
	OccurredAt time.Time
}

// Sink persists pipeline events for offline inspection. Recording is
// best effort; implementations log failures and never propagate them.
type Sink interface {
	Record(ctx context.Context, ev Event)
	Close() error
}

// SQLiteSink writes events to a local sqlite database
type SQLiteSink struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewSQLiteSink(dbPath string, logger *logrus.Logger) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open event store: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS agent_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		subject_id TEXT NOT NULL,
		query TEXT,
		intent TEXT,
		input TEXT,
		output TEXT,
		decision TEXT,
		confidence REAL NOT NULL DEFAULT 0,
		ai_enabled INTEGER NOT NULL DEFAULT 0,
		occurred_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_agent_events_subject ON agent_events(subject_id);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize event store: %w", err)
	}

	return &SQLiteSink{db: db, logger: logger}, nil
}

func (s *SQLiteSink) Record(ctx context.Context, ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO agent_events (event_type, subject_id, query, intent, input, output, decision, confidence, ai_enabled, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.EventType, ev.SubjectID, ev.Query, ev.Intent, ev.Input, ev.Output,
		ev.Decision, ev.Confidence, boolToInt(ev.AIEnabled), ev.OccurredAt.Format(time.RFC3339))
	if err != nil {
		s.logger.WithError(err).Warn("Failed to record event")
	}
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NopSink discards all events
type NopSink struct{}

func (NopSink) Record(context.Context, Event) {}
func (NopSink) Close() error                  { return nil }
