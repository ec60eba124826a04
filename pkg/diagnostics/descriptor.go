package diagnostics

import "github.com/google/uuid"

// ServiceDescriptor exposes the identity of the hosted service producing an
// event. The facade owns none of these fields; they are re-read on every
// emission because replica and partition identifiers can change when the
// hosting environment hands out a new descriptor.
type ServiceDescriptor interface {
	ServiceName() string
	ServiceTypeName() string
	PartitionID() uuid.UUID
	ApplicationName() string
	ApplicationTypeName() string
	NodeName() string
}

// StatelessDescriptor identifies a continuously-running service instance.
type StatelessDescriptor interface {
	ServiceDescriptor
	InstanceID() int64
}

// StatefulDescriptor identifies a replica of a partitioned, replicated
// service.
type StatefulDescriptor interface {
	ServiceDescriptor
	ReplicaID() int64
}

// Identity is a plain-field ServiceDescriptor, typically filled from
// configuration or the hosting environment.
type Identity struct {
	Service         string
	ServiceType     string
	Partition       uuid.UUID
	Application     string
	ApplicationType string
	Node            string
}

func (i Identity) ServiceName() string         { return i.Service }
func (i Identity) ServiceTypeName() string     { return i.ServiceType }
func (i Identity) PartitionID() uuid.UUID      { return i.Partition }
func (i Identity) ApplicationName() string     { return i.Application }
func (i Identity) ApplicationTypeName() string { return i.ApplicationType }
func (i Identity) NodeName() string            { return i.Node }

// InstanceIdentity is an Identity for a stateless service instance.
type InstanceIdentity struct {
	Identity
	Instance int64
}

func (i InstanceIdentity) InstanceID() int64 { return i.Instance }

// ReplicaIdentity is an Identity for a stateful service replica.
type ReplicaIdentity struct {
	Identity
	Replica int64
}

func (i ReplicaIdentity) ReplicaID() int64 { return i.Replica }
