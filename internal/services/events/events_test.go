package events

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSink(t *testing.T) *SQLiteSink {
	t.Helper()
	sink, err := NewSQLiteSink(filepath.Join(t.TempDir(), "events.db"), logrus.New())
	require.NoError(t, err)
	t.Cleanup(func() { sink.Close() })
	return sink
}

func TestSQLiteSinkRecordsEvents(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	sink.Record(ctx, Event{
		EventType: "chat",
		SubjectID: "user1",
		Query:     "is the fan ok?",
		Intent:    "status",
		AIEnabled: true,
	})
	sink.Record(ctx, Event{
		EventType: "anomaly_analysis",
		SubjectID: "user2",
		Decision:  "none",
	})

	var count int
	require.NoError(t, sink.db.QueryRow("SELECT COUNT(*) FROM agent_events").Scan(&count))
	assert.Equal(t, 2, count)

	var intent string
	var aiEnabled int
	require.NoError(t, sink.db.QueryRow(
		"SELECT intent, ai_enabled FROM agent_events WHERE subject_id = ?", "user1").
		Scan(&intent, &aiEnabled))
	assert.Equal(t, "status", intent)
	assert.Equal(t, 1, aiEnabled)
}

func TestSQLiteSinkSetsTimestamp(t *testing.T) {
	sink := newTestSink(t)

	sink.Record(context.Background(), Event{EventType: "chat", SubjectID: "user1"})

	var occurredAt string
	require.NoError(t, sink.db.QueryRow("SELECT occurred_at FROM agent_events").Scan(&occurredAt))
	assert.NotEmpty(t, occurredAt)
}

func TestNopSink(t *testing.T) {
	var sink Sink = NopSink{}
	sink.Record(context.Background(), Event{EventType: "chat"})
	assert.NoError(t, sink.Close())
}
