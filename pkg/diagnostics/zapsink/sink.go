// Package zapsink renders catalog events through a zap logger. It is the
// reference sink: the rendered message comes from the event's positional
// template and every schema parameter becomes a typed structured field.
package zapsink

import (
	"fmt"
	"time"

	"github.com/Sokol111/ecommerce-diagnostics/pkg/diagnostics"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type sink struct {
	log  *zap.Logger
	mask diagnostics.Category
	min  diagnostics.Severity
}

// New returns a Sink writing to log, gated by the configured category mask
// and minimum severity.
func New(log *zap.Logger, conf Config) (diagnostics.Sink, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("zap sink configuration validation failed: %w", err)
	}
	return &sink{
		log:  log,
		mask: conf.mask(),
		min:  conf.minSeverity(),
	}, nil
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
	if def.Severity > s.min {
		return
	}

	ce := s.log.Check(level(def.Severity), fmt.Sprintf(def.Template, values...))
	if ce == nil {
		return
	}

	fields := lo.Map(def.Params, func(p diagnostics.Param, i int) zap.Field {
		if i >= len(values) {
			return zap.Skip()
		}
		return field(p, values[i])
	})
	fields = append(fields,
		zap.Uint16("event_id", uint16(id)),
		zap.String("event_name", def.Name),
	)
	ce.Write(fields...)
}

func level(severity diagnostics.Severity) zapcore.Level {
	switch severity {
	case diagnostics.SeverityCritical, diagnostics.SeverityError:
		return zapcore.ErrorLevel
	case diagnostics.SeverityWarning:
		return zapcore.WarnLevel
	case diagnostics.SeverityVerbose:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

func field(p diagnostics.Param, value any) zap.Field {
	switch v := value.(type) {
	case string:
		return zap.String(p.Name, v)
	case int:
		return zap.Int(p.Name, v)
	case int64:
		return zap.Int64(p.Name, v)
	case uuid.UUID:
		return zap.String(p.Name, v.String())
	case time.Time:
		return zap.Time(p.Name, v)
	default:
		return zap.Any(p.Name, v)
	}
}
