package processor

import (
	"context"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

// LoggingHandler logs each batch it receives. It stands in until an
// application wires a real handler.
type LoggingHandler struct {
	Log *zap.Logger
}

func (h *LoggingHandler) HandleBatch(_ context.Context, msgs []*kafka.Message) error {
	h.Log.Info("handled batch", zap.Int("count", len(msgs)))
	return nil
}
