package processor

import (
	"fmt"
	"os"

	"github.com/Sokol111/ecommerce-diagnostics/pkg/diagnostics"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

type Config struct {
	// Brokers is the bootstrap server list.
	Brokers string `mapstructure:"brokers"`

	// Topic is the event hub the pump consumes from.
	Topic string `mapstructure:"topic"`

	// ConsumerGroup names the consumer group the pump joins.
	ConsumerGroup string `mapstructure:"consumerGroup"`

	// BatchSize bounds how many messages are handed to the handler at once.
	// Defaults to 64.
	BatchSize int `mapstructure:"batchSize"`

	// Identity describes the hosted service for event attribution.
	Identity IdentityConfig `mapstructure:"identity"`
}

type IdentityConfig struct {
	ServiceName         string `mapstructure:"serviceName"`
	ServiceTypeName     string `mapstructure:"serviceTypeName"`
	PartitionID         string `mapstructure:"partitionId"`
	ApplicationName     string `mapstructure:"applicationName"`
	ApplicationTypeName string `mapstructure:"applicationTypeName"`
	// NodeName defaults to the hostname.
	NodeName string `mapstructure:"nodeName"`
	// InstanceID defaults to the process id.
	InstanceID int64 `mapstructure:"instanceId"`
}

func (c Config) Validate() error {
	if c.Brokers == "" {
		return fmt.Errorf("brokers must not be empty")
	}
	if c.Topic == "" {
		return fmt.Errorf("topic must not be empty")
	}
	if c.ConsumerGroup == "" {
		return fmt.Errorf("consumerGroup must not be empty")
	}
	if c.Identity.ServiceTypeName == "" {
		return fmt.Errorf("identity.serviceTypeName must not be empty")
	}
	if c.Identity.PartitionID != "" {
		if _, err := uuid.Parse(c.Identity.PartitionID); err != nil {
			return fmt.Errorf("identity.partitionId is not a valid uuid: %w", err)
		}
	}
	return nil
}

func (c Config) batchSize() int {
	if c.BatchSize <= 0 {
		return 64
	}
	return c.BatchSize
}

func newConfig(v *viper.Viper) (Config, error) {
	sub := v.Sub("processor")
	if sub == nil {
		return Config{}, fmt.Errorf("processor configuration is missing")
	}

	var cfg Config
	if err := sub.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load processor config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// newIdentity builds the service descriptor from configuration, falling back
// to the hosting environment for the node name and instance id.
func newIdentity(conf Config) diagnostics.InstanceIdentity {
	id := conf.Identity

	node := id.NodeName
	if node == "" {
		node, _ = os.Hostname()
	}
	instance := id.InstanceID
	if instance == 0 {
		instance = int64(os.Getpid())
	}
	partition := uuid.Nil
	if id.PartitionID != "" {
		partition, _ = uuid.Parse(id.PartitionID)
	}

	return diagnostics.InstanceIdentity{
		Identity: diagnostics.Identity{
			Service:         id.ServiceName,
			ServiceType:     id.ServiceTypeName,
			Partition:       partition,
			Application:     id.ApplicationName,
			ApplicationType: id.ApplicationTypeName,
			Node:            node,
		},
		Instance: instance,
	}
}
