package diagnostics

import (
	"fmt"
	"strings"
	"sync"
)

// EventSource is the emission facade. It holds no mutable state between
// calls, so concurrent use from any number of goroutines needs no external
// synchronization. Prefer constructing one with New and injecting it; Default
// exists for code paths with no access to the application container.
type EventSource struct {
	sink Sink
}

// New constructs an EventSource emitting into sink. Construction completes
// one trivial scheduled unit of work before returning: emitting before the
// runtime has scheduled anything can silently drop early activity
// correlation, so the source is never published with a cold scheduler.
func New(sink Sink) *EventSource {
	if sink == nil {
		sink = Discard
	}
	warmUpScheduler()
	return &EventSource{sink: sink}
}

func warmUpScheduler() {
	done := make(chan struct{})
	go func() { close(done) }()
	<-done
}

var (
	defaultMu   sync.Mutex
	defaultSink Sink
	defaultOnce sync.Once
	shared      *EventSource
)

// SetDefaultSink installs the sink used by the shared source. It only has an
// effect before the first call to Default; afterwards the shared source is
// immutable for the rest of the process lifetime.
func SetDefaultSink(sink Sink) {
	if sink == nil {
		return
	}
	defaultMu.Lock()
	defaultSink = sink
	defaultMu.Unlock()
}

// Default returns the shared process-wide source, constructing it on the
// first call. Without a prior SetDefaultSink the shared source discards
// everything.
func Default() *EventSource {
	defaultOnce.Do(func() {
		defaultMu.Lock()
		sink := defaultSink
		defaultMu.Unlock()
		shared = New(sink)
	})
	return shared
}

// Message records a free-form diagnostic message. The call site's component
// and operation names are derived from the calling frame; blank messages are
// dropped because they carry no diagnostic value.
func (e *EventSource) Message(format string, args ...any) {
	if !e.sink.Enabled(0) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if blank(msg) {
		return
	}
	component, operation := callerIdentity(2)
	e.emit(EventMessage, msg, component, operation)
}

// ServiceMessage records a message attributed to a stateless service
// instance.
func (e *EventSource) ServiceMessage(sd StatelessDescriptor, format string, args ...any) {
	if !e.sink.Enabled(0) {
		return
	}
	e.serviceMessage(sd, sd.InstanceID(), format, args...)
}

// ReplicaMessage records a message attributed to a stateful service replica.
// It differs from ServiceMessage only in which identifier fills the
// replica-or-instance field; both converge on the same eight-field record.
func (e *EventSource) ReplicaMessage(sd StatefulDescriptor, format string, args ...any) {
	if !e.sink.Enabled(0) {
		return
	}
	e.serviceMessage(sd, sd.ReplicaID(), format, args...)
}

func (e *EventSource) serviceMessage(sd ServiceDescriptor, replicaOrInstance int64, format string, args ...any) {
	e.emit(EventServiceMessage,
		sd.ServiceName(),
		sd.ServiceTypeName(),
		replicaOrInstance,
		sd.PartitionID(),
		sd.ApplicationName(),
		sd.ApplicationTypeName(),
		sd.NodeName(),
		fmt.Sprintf(format, args...),
	)
}

// ServiceTypeRegistered records that a host process registered a service
// type.
func (e *EventSource) ServiceTypeRegistered(hostProcessID int, serviceTypeName string) {
	if !e.sink.Enabled(CategoryServiceInitialization) {
		return
	}
	e.emit(EventServiceTypeRegistered, hostProcessID, serviceTypeName)
}

// ServiceHostInitializationFailed reports a failure during service host
// initialization as data; the emission itself never fails.
func (e *EventSource) ServiceHostInitializationFailed(err error) {
	if !e.sink.Enabled(CategoryServiceInitialization) {
		return
	}
	e.emit(EventServiceHostInitializationFailed, errorText(err))
}

// ServiceRequestStart marks the beginning of a bounded request. The caller
// must emit exactly one of ServiceRequestStop or ServiceRequestFailed with
// the same request type name afterwards so a collector can pair them into a
// span.
func (e *EventSource) ServiceRequestStart(requestTypeName string) {
	if !e.sink.Enabled(CategoryRequests) {
		return
	}
	e.emit(EventServiceRequestStart, requestTypeName)
}

// ServiceRequestStop marks the successful end of a bounded request.
func (e *EventSource) ServiceRequestStop(requestTypeName string) {
	if !e.sink.Enabled(CategoryRequests) {
		return
	}
	e.emit(EventServiceRequestStop, requestTypeName)
}

// ServiceRequestFailed marks the failed end of a bounded request.
func (e *EventSource) ServiceRequestFailed(requestTypeName string, err error) {
	if !e.sink.Enabled(CategoryRequests) {
		return
	}
	e.emit(EventServiceRequestFailed, requestTypeName, errorText(err))
}

// OpenPartition records that processing of an event hub partition is
// starting. Emission is skipped when any identifying parameter is blank: a
// record with an empty partition id or consumer group would only pollute the
// stream.
func (e *EventSource) OpenPartition(eventHub, consumerGroup, partitionID string) {
	if !e.sink.Enabled(CategoryEventHub) {
		return
	}
	if blank(eventHub) || blank(consumerGroup) || blank(partitionID) {
		return
	}
	component, operation := callerIdentity(2)
	e.emit(EventOpenPartition, eventHub, consumerGroup, partitionID, component, operation)
}

// ProcessEvents records that a batch of events from one partition is being
// processed. Skipped when any identifying parameter is blank.
func (e *EventSource) ProcessEvents(eventHub, consumerGroup, partitionID string, count int) {
	if !e.sink.Enabled(CategoryEventHub) {
		return
	}
	if blank(eventHub) || blank(consumerGroup) || blank(partitionID) {
		return
	}
	component, operation := callerIdentity(2)
	e.emit(EventProcessEvents, eventHub, consumerGroup, partitionID, count, component, operation)
}

// ClosePartition records that processing of an event hub partition is
// stopping, with a free-form reason. Skipped when any identifying parameter
// is blank; the reason may be empty.
func (e *EventSource) ClosePartition(eventHub, consumerGroup, partitionID, reason string) {
	if !e.sink.Enabled(CategoryEventHub) {
		return
	}
	if blank(eventHub) || blank(consumerGroup) || blank(partitionID) {
		return
	}
	component, operation := callerIdentity(2)
	e.emit(EventClosePartition, eventHub, consumerGroup, partitionID, reason, component, operation)
}

// emit hands a completed record to the sink, preferring the raw buffer path
// when available. A panicking sink or encoder drops the record; emission can
// never propagate a failure into the instrumented caller.
func (e *EventSource) emit(id EventID, values ...any) {
	defer func() {
		_ = recover()
	}()
	if raw, ok := e.sink.(RawSink); ok {
		raw.EmitRaw(id, EncodeRecord(values))
		return
	}
	e.sink.Emit(id, values)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
