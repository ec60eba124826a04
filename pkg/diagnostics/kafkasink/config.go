package kafkasink

import (
	"fmt"

	"github.com/Sokol111/ecommerce-diagnostics/pkg/diagnostics"
	"github.com/spf13/viper"
)

type Config struct {
	// Brokers is the bootstrap server list.
	Brokers string `mapstructure:"brokers"`

	// Topic receives one JSON record per emitted event.
	Topic string `mapstructure:"topic"`

	// Categories lists the subscribed event categories. Empty subscribes to
	// all.
	Categories []string `mapstructure:"categories"`

	// FlushTimeoutMs bounds how long Close waits for in-flight records.
	FlushTimeoutMs int `mapstructure:"flushTimeoutMs"`
}

func (c Config) Validate() error {
	if c.Brokers == "" {
		return fmt.Errorf("brokers must not be empty")
	}
	if c.Topic == "" {
		return fmt.Errorf("topic must not be empty")
	}
	for _, name := range c.Categories {
		if _, err := diagnostics.ParseCategory(name); err != nil {
			return fmt.Errorf("invalid category: %w", err)
		}
	}
	return nil
}

func (c Config) mask() diagnostics.Category {
	if len(c.Categories) == 0 {
		return diagnostics.CategoryRequests |
			diagnostics.CategoryServiceInitialization |
			diagnostics.CategoryEventHub
	}
	var mask diagnostics.Category
	for _, name := range c.Categories {
		category, err := diagnostics.ParseCategory(name)
		if err != nil {
			continue
		}
		mask |= category
	}
	return mask
}

func (c Config) flushTimeoutMs() int {
	if c.FlushTimeoutMs <= 0 {
		return 5000
	}
	return c.FlushTimeoutMs
}

func newConfig(v *viper.Viper) (Config, error) {
	sub := v.Sub("kafkaSink")
	if sub == nil {
		return Config{}, fmt.Errorf("kafkaSink configuration is missing")
	}

	var cfg Config
	if err := sub.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load kafka sink config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
