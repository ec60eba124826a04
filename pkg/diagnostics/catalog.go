// Package diagnostics provides a structured event-emission facade for hosted
// service processes. Events are defined once in a fixed catalog and exposed as
// strongly-typed emission operations, so call sites cannot produce malformed
// records. Emission is fire-and-forget: a failing sink or formatting step can
// never disrupt the business operation being instrumented.
package diagnostics

import "fmt"

// Severity orders event classes from most to least severe.
type Severity int

const (
	SeverityCritical Severity = iota + 1
	SeverityError
	SeverityWarning
	SeverityInformational
	SeverityVerbose
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformational:
		return "informational"
	case SeverityVerbose:
		return "verbose"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Category is a bitmask sinks use for selective subscription. An event class
// may belong to several categories; the facade never routes on them.
type Category uint32

const (
	CategoryRequests Category = 1 << iota
	CategoryServiceInitialization
	CategoryEventHub
)

// EventID identifies one event class. IDs are stable across versions because
// downstream consumers key historical queries on them.
type EventID uint16

const (
	EventMessage EventID = iota + 1
	EventServiceMessage
	EventServiceTypeRegistered
	EventServiceHostInitializationFailed
	EventServiceRequestStart
	EventServiceRequestStop
	EventServiceRequestFailed
	EventOpenPartition
	EventProcessEvents
	EventClosePartition
)

// ParamType bounds the primitive types a record may carry. The bound is a
// hard constraint of the collector, not a facade choice.
type ParamType int

const (
	ParamString ParamType = iota + 1
	ParamInt64
	ParamUUID
	ParamTime
)

// Param is one named, typed slot in an event's parameter schema.
type Param struct {
	Name string
	Type ParamType
}

// EventDefinition describes one event class: identity, severity, category
// membership, a positional message template and the ordered parameter schema
// the template's placeholders bind to.
type EventDefinition struct {
	ID       EventID
	Name     string
	Severity Severity
	Category Category
	Template string
	Params   []Param
}

var catalog = []EventDefinition{
	{
		ID:       EventMessage,
		Name:     "Message",
		Severity: SeverityInformational,
		Template: "%[1]s",
		Params: []Param{
			{Name: "message", Type: ParamString},
			{Name: "component", Type: ParamString},
			{Name: "operation", Type: ParamString},
		},
	},
	{
		ID:       EventServiceMessage,
		Name:     "ServiceMessage",
		Severity: SeverityInformational,
		Template: "%s %s %d %s %s %s %s %s",
		Params: []Param{
			{Name: "serviceName", Type: ParamString},
			{Name: "serviceTypeName", Type: ParamString},
			{Name: "replicaOrInstanceId", Type: ParamInt64},
			{Name: "partitionId", Type: ParamUUID},
			{Name: "applicationName", Type: ParamString},
			{Name: "applicationTypeName", Type: ParamString},
			{Name: "nodeName", Type: ParamString},
			{Name: "message", Type: ParamString},
		},
	},
	{
		ID:       EventServiceTypeRegistered,
		Name:     "ServiceTypeRegistered",
		Severity: SeverityInformational,
		Category: CategoryServiceInitialization,
		Template: "Service host process %d registered service type %s",
		Params: []Param{
			{Name: "hostProcessId", Type: ParamInt64},
			{Name: "serviceTypeName", Type: ParamString},
		},
	},
	{
		ID:       EventServiceHostInitializationFailed,
		Name:     "ServiceHostInitializationFailed",
		Severity: SeverityError,
		Category: CategoryServiceInitialization,
		Template: "Service host initialization failed: %s",
		Params: []Param{
			{Name: "failure", Type: ParamString},
		},
	},
	{
		ID:       EventServiceRequestStart,
		Name:     "ServiceRequestStart",
		Severity: SeverityInformational,
		Category: CategoryRequests,
		Template: "Service request %s started",
		Params: []Param{
			{Name: "requestTypeName", Type: ParamString},
		},
	},
	{
		ID:       EventServiceRequestStop,
		Name:     "ServiceRequestStop",
		Severity: SeverityInformational,
		Category: CategoryRequests,
		Template: "Service request %s finished",
		Params: []Param{
			{Name: "requestTypeName", Type: ParamString},
		},
	},
	{
		ID:       EventServiceRequestFailed,
		Name:     "ServiceRequestFailed",
		Severity: SeverityError,
		Category: CategoryRequests,
		Template: "Service request %s failed: %s",
		Params: []Param{
			{Name: "requestTypeName", Type: ParamString},
			{Name: "failure", Type: ParamString},
		},
	},
	{
		ID:       EventOpenPartition,
		Name:     "OpenPartition",
		Severity: SeverityInformational,
		Category: CategoryEventHub,
		Template: "Opening partition %[3]s of %[1]s for consumer group %[2]s",
		Params: []Param{
			{Name: "eventHub", Type: ParamString},
			{Name: "consumerGroup", Type: ParamString},
			{Name: "partitionId", Type: ParamString},
			{Name: "component", Type: ParamString},
			{Name: "operation", Type: ParamString},
		},
	},
	{
		ID:       EventProcessEvents,
		Name:     "ProcessEvents",
		Severity: SeverityInformational,
		Category: CategoryEventHub,
		Template: "Processing %[4]d events from partition %[3]s of %[1]s for consumer group %[2]s",
		Params: []Param{
			{Name: "eventHub", Type: ParamString},
			{Name: "consumerGroup", Type: ParamString},
			{Name: "partitionId", Type: ParamString},
			{Name: "count", Type: ParamInt64},
			{Name: "component", Type: ParamString},
			{Name: "operation", Type: ParamString},
		},
	},
	{
		ID:       EventClosePartition,
		Name:     "ClosePartition",
		Severity: SeverityInformational,
		Category: CategoryEventHub,
		Template: "Closing partition %[3]s of %[1]s for consumer group %[2]s: %[4]s",
		Params: []Param{
			{Name: "eventHub", Type: ParamString},
			{Name: "consumerGroup", Type: ParamString},
			{Name: "partitionId", Type: ParamString},
			{Name: "reason", Type: ParamString},
			{Name: "component", Type: ParamString},
			{Name: "operation", Type: ParamString},
		},
	},
}

var catalogByID = buildCatalogIndex()

func buildCatalogIndex() map[EventID]EventDefinition {
	index := make(map[EventID]EventDefinition, len(catalog))
	for _, def := range catalog {
		if _, exists := index[def.ID]; exists {
			panic(fmt.Sprintf("diagnostics: duplicate event id %d (%s)", def.ID, def.Name))
		}
		index[def.ID] = def
	}
	return index
}

// Definition returns the catalog entry for id.
func Definition(id EventID) (EventDefinition, bool) {
	def, ok := catalogByID[id]
	return def, ok
}

// Definitions returns the full catalog in id order. The returned slice is a
// copy; the catalog itself is immutable after process start.
func Definitions() []EventDefinition {
	out := make([]EventDefinition, len(catalog))
	copy(out, catalog)
	return out
}
