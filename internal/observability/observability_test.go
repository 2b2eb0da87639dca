package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContextLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	rc := NewRequestContext(logger, "sess-1", "")
	require.NotEmpty(t, rc.RequestID)

	tc := rc.ForTool("cancel_booking")
	tc.Error("tool failed", errors.New("boom"), slog.String(LogFieldErrorCode, "NO_MATCH"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, rc.RequestID, line[LogFieldRequestID])
	assert.Equal(t, "sess-1", line[LogFieldSessionID])
	assert.Equal(t, "cancel_booking", line[LogFieldTool])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "NO_MATCH", line[LogFieldErrorCode])
	assert.Empty(t, rc.Tool, "ForTool must not modify the parent")
}

func TestRequestContextFromContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	assert.NotNil(t, FromContextOrNew(context.Background()))

	rc := NewRequestContextWithID(nil, "req-7", "", "")
	ctx := WithRequestContext(context.Background(), rc)
	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "req-7", got.RequestID)
	assert.Same(t, rc, FromContextOrNew(ctx))
}

func TestMetrics(t *testing.T) {
	m := NewMetrics(3)
	m.RecordToolCall("get_booking", "OK", true, 10*time.Millisecond)
	m.RecordToolCall("get_booking", "NOT_FOUND", false, 20*time.Millisecond)
	m.RecordToolCall("get_booking", "OK", true, 30*time.Millisecond)
	m.RecordToolCall("get_booking", "OK", true, 40*time.Millisecond)
	m.RecordToolCall("cancel_booking", "OK", true, 5*time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, int64(5), snap.Calls)
	assert.Equal(t, int64(1), snap.Failures)
	assert.InDelta(t, 80.0, snap.SuccessRate(), 0.001)

	gb := snap.Tools["get_booking"]
	require.NotNil(t, gb)
	assert.Equal(t, int64(4), gb.Calls)
	assert.Equal(t, int64(3), gb.ByCode["OK"])
	// only the last three durations are kept
	assert.Equal(t, int64(30), gb.AvgMs)
	assert.Equal(t, int64(30), gb.P50Ms)

	m.Reset()
	assert.Equal(t, 100.0, m.Snapshot().SuccessRate())
}
