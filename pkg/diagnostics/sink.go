package diagnostics

// Sink is the boundary to the external collector. Implementations must be
// safe for concurrent use; Enabled must be O(1) and side-effect-free because
// it runs on every emission, including disabled ones.
type Sink interface {
	// Enabled reports whether any consumer currently subscribes to the given
	// category mask. A zero mask asks about events with no category.
	Enabled(category Category) bool
	// Emit accepts one well-formed record. Values match the event's parameter
	// schema positionally and in count; the sink performs no validation.
	Emit(id EventID, values []any)
}

// RawSink is an optional low-overhead variant of Sink. When a sink implements
// it, the facade hands over the canonical binary encoding of the record
// instead of the boxed value slice. Both paths carry identical content; the
// raw path is a performance variant, never a semantic one.
type RawSink interface {
	Sink
	EmitRaw(id EventID, record []byte)
}

// Discard drops every record. It reports every category as disabled, so
// emission through it costs only the gate check.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Enabled(Category) bool   { return false }
func (discardSink) Emit(EventID, []any)     {}
func (discardSink) EmitRaw(EventID, []byte) {}
