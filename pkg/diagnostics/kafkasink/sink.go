// Package kafkasink forwards catalog events to a Kafka topic as JSON
// records, one message per emission. Delivery is best-effort: produce and
// delivery failures are logged and dropped, never surfaced to the emitting
// caller.
package kafkasink

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Sokol111/ecommerce-diagnostics/pkg/diagnostics"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

// Sink is a diagnostics sink with an explicit shutdown, so in-flight records
// can be flushed before the process exits.
type Sink interface {
	diagnostics.Sink
	Close()
}

type record struct {
	EventID   uint16    `json:"event_id"`
	Name      string    `json:"name"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
	Values    []any     `json:"values"`
}

type sink struct {
	producer     *kafka.Producer
	topic        string
	mask         diagnostics.Category
	flushTimeout int
	log          *zap.Logger
}

// New creates the Kafka-backed sink and starts draining delivery reports.
func New(conf Config, log *zap.Logger) (Sink, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("kafka sink configuration validation failed: %w", err)
	}

	p, err := kafka.NewProducer(&kafka.ConfigMap{"bootstrap.servers": conf.Brokers})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	s := &sink{
		producer:     p,
		topic:        conf.Topic,
		mask:         conf.mask(),
		flushTimeout: conf.flushTimeoutMs(),
		log:          log,
	}
	go s.drainDeliveryReports()

	return s, nil
}

func (s *sink) Enabled(category diagnostics.Category) bool {
	if category == 0 {
		return true
	}
	return s.mask&category != 0
}

func (s *sink) Emit(id diagnostics.EventID, values []any) {
	def, ok := diagnostics.Definition(id)
	if !ok {
		return
	}

	data, err := json.Marshal(record{
		EventID:   uint16(def.ID),
		Name:      def.Name,
		Severity:  def.Severity.String(),
		Timestamp: time.Now().UTC(),
		Values:    values,
	})
	if err != nil {
		s.log.Error("failed to marshal diagnostic record", zap.Error(err))
		return
	}

	err = s.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &s.topic, Partition: kafka.PartitionAny},
		Key:            []byte(def.Name),
		Value:          data,
	}, nil)
	if err != nil {
		s.log.Error("failed to produce diagnostic record",
			zap.String("topic", s.topic),
			zap.Error(err))
	}
}

func (s *sink) drainDeliveryReports() {
	for e := range s.producer.Events() {
		if msg, ok := e.(*kafka.Message); ok && msg.TopicPartition.Error != nil {
			s.log.Warn("diagnostic record delivery failed",
				zap.String("topic", s.topic),
				zap.Error(msg.TopicPartition.Error))
		}
	}
}

func (s *sink) Close() {
	if remaining := s.producer.Flush(s.flushTimeout); remaining > 0 {
		s.log.Warn("closing with undelivered diagnostic records",
			zap.Int("remaining", remaining))
	}
	s.producer.Close()
}
