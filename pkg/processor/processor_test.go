package processor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Sokol111/ecommerce-diagnostics/pkg/diagnostics"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockMessageReader is a test implementation of messageReader.
type mockMessageReader struct {
	readMessageFunc func(timeout time.Duration) (*kafka.Message, error)
}

func (m *mockMessageReader) ReadMessage(timeout time.Duration) (*kafka.Message, error) {
	if m.readMessageFunc != nil {
		return m.readMessageFunc(timeout)
	}
	return nil, kafka.NewError(kafka.ErrTimedOut, "timeout", false)
}

type capturedRecord struct {
	id     diagnostics.EventID
	values []any
}

type captureSink struct {
	mu      sync.Mutex
	records []capturedRecord
}

func (s *captureSink) Enabled(diagnostics.Category) bool { return true }

func (s *captureSink) Emit(id diagnostics.EventID, values []any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, capturedRecord{id: id, values: values})
}

func (s *captureSink) ids() []diagnostics.EventID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]diagnostics.EventID, 0, len(s.records))
	for _, r := range s.records {
		ids = append(ids, r.id)
	}
	return ids
}

type stubHandler struct {
	err     error
	batches [][]*kafka.Message
}

func (h *stubHandler) HandleBatch(_ context.Context, msgs []*kafka.Message) error {
	h.batches = append(h.batches, msgs)
	return h.err
}

func testConfig() Config {
	return Config{
		Brokers:       "localhost:9092",
		Topic:         "orders",
		ConsumerGroup: "cgA",
		Identity: IdentityConfig{
			ServiceName:     "fabric:/Shop/Processor",
			ServiceTypeName: "ProcessorType",
		},
	}
}

func newTestPump(handler Handler, sink diagnostics.Sink, reader messageReader) *pump {
	conf := testConfig()
	return &pump{
		reader:      reader,
		conf:        conf,
		identity:    newIdentity(conf),
		handler:     handler,
		requestType: requestTypeName(handler),
		events:      diagnostics.New(sink),
		log:         zap.NewNop(),
	}
}

func message(partition int32, value string) *kafka.Message {
	topic := "orders"
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: partition},
		Value:          []byte(value),
	}
}

func TestDispatch_EmitsBatchAndRequestPairPerPartition(t *testing.T) {
	sink := &captureSink{}
	handler := &stubHandler{}
	p := newTestPump(handler, sink, &mockMessageReader{})

	p.dispatch(context.Background(), []*kafka.Message{
		message(0, "a"),
		message(0, "b"),
		message(1, "c"),
	})

	// Two partitions, so two batches each bracketed by a request pair.
	require.Len(t, handler.batches, 2)

	ids := sink.ids()
	require.Len(t, ids, 6)
	assert.Equal(t, 2, countID(ids, diagnostics.EventProcessEvents))
	assert.Equal(t, 2, countID(ids, diagnostics.EventServiceRequestStart))
	assert.Equal(t, 2, countID(ids, diagnostics.EventServiceRequestStop))

	// Per partition: ProcessEvents precedes Start, Start precedes Stop.
	assert.Equal(t, diagnostics.EventProcessEvents, ids[0])
	assert.Equal(t, diagnostics.EventServiceRequestStart, ids[1])
	assert.Equal(t, diagnostics.EventServiceRequestStop, ids[2])
}

func TestDispatch_ProcessEventsCarriesPartitionAndCount(t *testing.T) {
	sink := &captureSink{}
	p := newTestPump(&stubHandler{}, sink, &mockMessageReader{})

	p.dispatch(context.Background(), []*kafka.Message{
		message(3, "a"),
		message(3, "b"),
	})

	require.NotEmpty(t, sink.records)
	first := sink.records[0]
	require.Equal(t, diagnostics.EventProcessEvents, first.id)
	assert.Equal(t, []any{"orders", "cgA", "3", 2}, first.values[:4])
}

func TestDispatch_FailedHandlerEmitsFailedNotStop(t *testing.T) {
	sink := &captureSink{}
	handler := &stubHandler{err: errors.New("deserialization failed")}
	p := newTestPump(handler, sink, &mockMessageReader{})

	p.dispatch(context.Background(), []*kafka.Message{message(0, "a")})

	ids := sink.ids()
	assert.Equal(t, 1, countID(ids, diagnostics.EventServiceRequestStart))
	assert.Equal(t, 1, countID(ids, diagnostics.EventServiceRequestFailed))
	assert.Equal(t, 0, countID(ids, diagnostics.EventServiceRequestStop))

	failed := sink.records[len(sink.records)-1]
	assert.Equal(t, []any{"stubHandler", "deserialization failed"}, failed.values[:2])
}

func TestReadBatch_DrainsBufferedMessagesUpToBatchSize(t *testing.T) {
	var calls int
	reader := &mockMessageReader{
		readMessageFunc: func(timeout time.Duration) (*kafka.Message, error) {
			calls++
			if calls <= 3 {
				return message(0, "m"), nil
			}
			return nil, kafka.NewError(kafka.ErrTimedOut, "timeout", false)
		},
	}
	p := newTestPump(&stubHandler{}, &captureSink{}, reader)

	batch := p.readBatch()

	assert.Len(t, batch, 3)
}

func TestReadBatch_TimeoutYieldsEmptyBatch(t *testing.T) {
	p := newTestPump(&stubHandler{}, &captureSink{}, &mockMessageReader{})

	assert.Empty(t, p.readBatch())
}

func TestRebalance_EmitsOpenAndClosePartition(t *testing.T) {
	sink := &captureSink{}
	p := newTestPump(&stubHandler{}, sink, &mockMessageReader{})
	topic := "orders"
	partitions := []kafka.TopicPartition{
		{Topic: &topic, Partition: 0},
		{Topic: &topic, Partition: 1},
	}

	require.NoError(t, p.rebalance(nil, kafka.AssignedPartitions{Partitions: partitions}))
	require.NoError(t, p.rebalance(nil, kafka.RevokedPartitions{Partitions: partitions[:1]}))

	ids := sink.ids()
	assert.Equal(t, 2, countID(ids, diagnostics.EventOpenPartition))
	assert.Equal(t, 1, countID(ids, diagnostics.EventClosePartition))

	open := sink.records[0]
	assert.Equal(t, []any{"orders", "cgA", "0"}, open.values[:3])

	closed := sink.records[2]
	require.Equal(t, diagnostics.EventClosePartition, closed.id)
	assert.Equal(t, "partitions revoked", closed.values[3])
}

func TestRequestTypeName(t *testing.T) {
	assert.Equal(t, "stubHandler", requestTypeName(&stubHandler{}))
	assert.Equal(t, "LoggingHandler", requestTypeName(&LoggingHandler{Log: zap.NewNop()}))
}

func TestSplitByPartition(t *testing.T) {
	split := splitByPartition([]*kafka.Message{
		message(0, "a"),
		message(1, "b"),
		message(0, "c"),
	})

	require.Len(t, split, 2)
	assert.Len(t, split["0"], 2)
	assert.Len(t, split["1"], 1)
}

func countID(ids []diagnostics.EventID, id diagnostics.EventID) int {
	var n int
	for _, candidate := range ids {
		if candidate == id {
			n++
		}
	}
	return n
}
