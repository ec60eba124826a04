// Package otelsink reconstructs OpenTelemetry spans from paired request
// events. A ServiceRequestStart opens a span for its request type name; the
// matching ServiceRequestStop or ServiceRequestFailed closes it, so a trace
// backend sees one span per bounded request with duration and outcome.
package otelsink

import (
	"context"
	"sync"

	"github.com/Sokol111/ecommerce-diagnostics/pkg/diagnostics"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const scopeName = "github.com/Sokol111/ecommerce-diagnostics/pkg/diagnostics/otelsink"

type sink struct {
	tracer trace.Tracer

	mu   sync.Mutex
	open map[string][]trace.Span
}

// New returns a Sink subscribing only to request events. Other categories
// report disabled, so the facade spends nothing on them.
func New(tp trace.TracerProvider) diagnostics.Sink {
	return &sink{
		tracer: tp.Tracer(scopeName),
		open:   make(map[string][]trace.Span),
	}
}

func (s *sink) Enabled(category diagnostics.Category) bool {
	return category&diagnostics.CategoryRequests != 0
}

func (s *sink) Emit(id diagnostics.EventID, values []any) {
	name, ok := stringValue(values, 0)
	if !ok {
		return
	}

	switch id {
	case diagnostics.EventServiceRequestStart:
		_, span := s.tracer.Start(context.Background(), name)
		s.push(name, span)
	case diagnostics.EventServiceRequestStop:
		if span, ok := s.pop(name); ok {
			span.SetStatus(codes.Ok, "")
			span.End()
		}
	case diagnostics.EventServiceRequestFailed:
		if span, ok := s.pop(name); ok {
			failure, _ := stringValue(values, 1)
			span.SetStatus(codes.Error, failure)
			span.End()
		}
	}
}

// push and pop keep a stack per request type name so nested requests of the
// same type pair innermost-first, matching the temporal-proximity rule a
// collector applies.
func (s *sink) push(name string, span trace.Span) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open[name] = append(s.open[name], span)
}

func (s *sink) pop(name string) (trace.Span, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stack := s.open[name]
	if len(stack) == 0 {
		return nil, false
	}
	span := stack[len(stack)-1]
	if len(stack) == 1 {
		delete(s.open, name)
	} else {
		s.open[name] = stack[:len(stack)-1]
	}
	return span, true
}

func stringValue(values []any, i int) (string, bool) {
	if i >= len(values) {
		return "", false
	}
	v, ok := values[i].(string)
	return v, ok
}
