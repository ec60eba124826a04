package zapsink

import (
	"testing"

	"github.com/Sokol111/ecommerce-diagnostics/pkg/diagnostics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedSink(t *testing.T, conf Config) (diagnostics.Sink, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	s, err := New(zap.New(core), conf)
	require.NoError(t, err)
	return s, logs
}

func TestSink_EnabledMask(t *testing.T) {
	s, _ := newObservedSink(t, Config{Categories: []string{"requests"}})

	assert.True(t, s.Enabled(diagnostics.CategoryRequests))
	assert.False(t, s.Enabled(diagnostics.CategoryEventHub))
	assert.False(t, s.Enabled(diagnostics.CategoryServiceInitialization))
	// Uncategorized events are severity-gated only.
	assert.True(t, s.Enabled(0))
}

func TestSink_EnabledDefaultsToAllCategories(t *testing.T) {
	s, _ := newObservedSink(t, Config{})

	assert.True(t, s.Enabled(diagnostics.CategoryRequests))
	assert.True(t, s.Enabled(diagnostics.CategoryEventHub))
	assert.True(t, s.Enabled(diagnostics.CategoryServiceInitialization))
}

func TestSink_EmitRendersTemplateAndFields(t *testing.T) {
	s, logs := newObservedSink(t, Config{})

	s.Emit(diagnostics.EventServiceTypeRegistered, []any{4242, "Processor"})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Service host process 4242 registered service type Processor", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)

	fields := entries[0].ContextMap()
	assert.EqualValues(t, 4242, fields["hostProcessId"])
	assert.Equal(t, "Processor", fields["serviceTypeName"])
	assert.EqualValues(t, 3, fields["event_id"])
	assert.Equal(t, "ServiceTypeRegistered", fields["event_name"])
}

func TestSink_SeverityMapsToLevel(t *testing.T) {
	s, logs := newObservedSink(t, Config{MinSeverity: "verbose"})

	s.Emit(diagnostics.EventServiceRequestFailed, []any{"Ping", "timed out"})
	s.Emit(diagnostics.EventServiceRequestStart, []any{"Ping"})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "Service request Ping failed: timed out", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
}

func TestSink_MinSeverityFilters(t *testing.T) {
	s, logs := newObservedSink(t, Config{MinSeverity: "error"})

	s.Emit(diagnostics.EventServiceRequestStart, []any{"Ping"})
	s.Emit(diagnostics.EventServiceRequestFailed, []any{"Ping", "timed out"})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestSink_UnknownEventDropped(t *testing.T) {
	s, logs := newObservedSink(t, Config{})

	s.Emit(diagnostics.EventID(999), []any{"whatever"})

	assert.Zero(t, logs.Len())
}

func TestSink_PartitionEventRendering(t *testing.T) {
	s, logs := newObservedSink(t, Config{})

	s.Emit(diagnostics.EventProcessEvents, []any{"hubA", "cgA", "p1", 17, "reader", "run"})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Processing 17 events from partition p1 of hubA for consumer group cgA", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "cgA", fields["consumerGroup"])
	assert.EqualValues(t, 17, fields["count"])
	assert.Equal(t, "reader", fields["component"])
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(zap.NewNop(), Config{Categories: []string{"bogus"}})

	assert.Error(t, err)
}
