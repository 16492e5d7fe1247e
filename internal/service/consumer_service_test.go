package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"career-mentor-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu      sync.Mutex
	entries []map[string]interface{}
}

func (l *recordingLogger) record(details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, details)
}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *recordingLogger) Debug(string, string, map[string]interface{}) {}
func (l *recordingLogger) Info(_, _ string, d map[string]interface{})  { l.record(d) }
func (l *recordingLogger) Warn(string, string, map[string]interface{})  {}
func (l *recordingLogger) Error(string, string, map[string]interface{}) {}
func (l *recordingLogger) Sync() error                                  { return nil }

func TestConsumerService_LogsTurnCompleted(t *testing.T) {
	bus := events.NewGoChannelBus("mentor.events", nil)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventLog := &recordingLogger{}
	require.NoError(t, NewConsumerService(bus, eventLog).Consume(ctx))

	require.NoError(t, bus.Publish(ctx, events.TurnCompleted("u1", "job_search", "job_search", 4, 3, time.Now())))

	require.Eventually(t, func() bool { return eventLog.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "u1", eventLog.entries[0]["user_id"])
	assert.Contains(t, eventLog.entries[0], "occurred_at")
}
