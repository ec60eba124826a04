// Package processor pumps messages from a Kafka topic through a batch
// handler, instrumented with the diagnostics catalog: partitions are opened
// and closed on rebalance, every handled batch is recorded per partition and
// each handler invocation is bracketed by paired request events.
package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Sokol111/ecommerce-diagnostics/pkg/diagnostics"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const pollTimeout = time.Second

// Handler consumes one batch of messages from a single partition.
type Handler interface {
	HandleBatch(ctx context.Context, msgs []*kafka.Message) error
}

// messageReader is the slice of *kafka.Consumer the pump reads through,
// swappable in tests.
type messageReader interface {
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
}

type Processor interface {
	Start() error
	Stop()
}

type pump struct {
	consumer    *kafka.Consumer
	reader      messageReader
	conf        Config
	identity    diagnostics.InstanceIdentity
	handler     Handler
	requestType string
	events      *diagnostics.EventSource
	log         *zap.Logger

	cancel context.CancelFunc
	group  *errgroup.Group
}

// New creates the pump and registers the hosting process with the
// diagnostics stream. Initialization failures are reported through the
// catalog before being returned.
func New(conf Config, handler Handler, events *diagnostics.EventSource, log *zap.Logger) (Processor, error) {
	if err := conf.Validate(); err != nil {
		events.ServiceHostInitializationFailed(err)
		return nil, fmt.Errorf("processor configuration validation failed: %w", err)
	}

	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": conf.Brokers,
		"group.id":          conf.ConsumerGroup,
		"auto.offset.reset": "earliest",
	})
	if err != nil {
		events.ServiceHostInitializationFailed(err)
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	events.ServiceTypeRegistered(os.Getpid(), conf.Identity.ServiceTypeName)

	return &pump{
		consumer:    consumer,
		reader:      consumer,
		conf:        conf,
		identity:    newIdentity(conf),
		handler:     handler,
		requestType: requestTypeName(handler),
		events:      events,
		log:         log,
	}, nil
}

func (p *pump) Start() error {
	if err := p.consumer.SubscribeTopics([]string{p.conf.Topic}, p.rebalance); err != nil {
		p.events.ServiceHostInitializationFailed(err)
		return fmt.Errorf("failed to subscribe to topic %s: %w", p.conf.Topic, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.group, ctx = errgroup.WithContext(ctx)
	p.group.Go(func() error {
		p.run(ctx)
		return nil
	})

	p.events.ServiceMessage(p.identity, "partition pump started for topic %s", p.conf.Topic)
	return nil
}

func (p *pump) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	if p.group != nil {
		_ = p.group.Wait()
	}
	if err := p.consumer.Close(); err != nil {
		p.log.Error("failed to close kafka consumer", zap.Error(err))
	}
	p.events.ServiceMessage(p.identity, "partition pump stopped for topic %s", p.conf.Topic)
}

// rebalance observes assignment changes; the client library performs the
// actual assignment.
func (p *pump) rebalance(_ *kafka.Consumer, ev kafka.Event) error {
	switch e := ev.(type) {
	case kafka.AssignedPartitions:
		for _, tp := range e.Partitions {
			p.events.OpenPartition(p.conf.Topic, p.conf.ConsumerGroup, partitionName(tp))
		}
	case kafka.RevokedPartitions:
		for _, tp := range e.Partitions {
			p.events.ClosePartition(p.conf.Topic, p.conf.ConsumerGroup, partitionName(tp), "partitions revoked")
		}
	}
	return nil
}

func (p *pump) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		batch := p.readBatch()
		if len(batch) == 0 {
			continue
		}
		p.dispatch(ctx, batch)
	}
}

// readBatch blocks for one message, then drains whatever else is already
// buffered up to the batch size.
func (p *pump) readBatch() []*kafka.Message {
	msg, err := p.reader.ReadMessage(pollTimeout)
	if err != nil {
		var kafkaErr kafka.Error
		if errors.As(err, &kafkaErr) && kafkaErr.IsTimeout() {
			return nil
		}
		p.log.Error("failed to read message", zap.Error(err))
		return nil
	}

	batch := []*kafka.Message{msg}
	for len(batch) < p.conf.batchSize() {
		next, err := p.reader.ReadMessage(0)
		if err != nil {
			break
		}
		batch = append(batch, next)
	}
	return batch
}

func (p *pump) dispatch(ctx context.Context, batch []*kafka.Message) {
	for partition, msgs := range splitByPartition(batch) {
		p.events.ProcessEvents(p.conf.Topic, p.conf.ConsumerGroup, partition, len(msgs))

		p.events.ServiceRequestStart(p.requestType)
		if err := p.handler.HandleBatch(ctx, msgs); err != nil {
			p.events.ServiceRequestFailed(p.requestType, err)
			p.log.Error("batch handler failed",
				zap.String("partition", partition),
				zap.Int("count", len(msgs)),
				zap.Error(err))
			continue
		}
		p.events.ServiceRequestStop(p.requestType)
	}
}

func splitByPartition(batch []*kafka.Message) map[string][]*kafka.Message {
	byPartition := make(map[string][]*kafka.Message)
	for _, msg := range batch {
		name := partitionName(msg.TopicPartition)
		byPartition[name] = append(byPartition[name], msg)
	}
	return byPartition
}

func partitionName(tp kafka.TopicPartition) string {
	return strconv.Itoa(int(tp.Partition))
}

// requestTypeName derives the paired-event operation-type name from the
// handler's concrete type.
func requestTypeName(handler Handler) string {
	name := fmt.Sprintf("%T", handler)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "Handler"
	}
	return name
}
