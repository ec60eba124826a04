package zapsink

import (
	"fmt"

	"github.com/Sokol111/ecommerce-diagnostics/pkg/diagnostics"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type Config struct {
	// Categories lists the subscribed event categories
	// (requests, serviceInitialization, eventHub). Empty subscribes to all.
	Categories []string `mapstructure:"categories"`

	// MinSeverity is the least severe event class still rendered.
	// Defaults to informational.
	MinSeverity string `mapstructure:"minSeverity"`
}

func (c Config) Validate() error {
	for _, name := range c.Categories {
		if _, err := diagnostics.ParseCategory(name); err != nil {
			return fmt.Errorf("invalid category: %w", err)
		}
	}
	if c.MinSeverity != "" {
		if _, err := diagnostics.ParseSeverity(c.MinSeverity); err != nil {
			return fmt.Errorf("invalid minSeverity: %w", err)
		}
	}
	return nil
}

// mask folds the configured category names into one bitmask. An empty list
// subscribes to every category.
func (c Config) mask() diagnostics.Category {
	if len(c.Categories) == 0 {
		return diagnostics.CategoryRequests |
			diagnostics.CategoryServiceInitialization |
			diagnostics.CategoryEventHub
	}
	return lo.Reduce(c.Categories, func(acc diagnostics.Category, name string, _ int) diagnostics.Category {
		category, err := diagnostics.ParseCategory(name)
		if err != nil {
			return acc
		}
		return acc | category
	}, 0)
}

func (c Config) minSeverity() diagnostics.Severity {
	if c.MinSeverity == "" {
		return diagnostics.SeverityInformational
	}
	severity, err := diagnostics.ParseSeverity(c.MinSeverity)
	if err != nil {
		return diagnostics.SeverityInformational
	}
	return severity
}

func newConfig(v *viper.Viper) (Config, error) {
	sub := v.Sub("diagnostics")
	if sub == nil {
		return Config{}, nil
	}

	var cfg Config
	if err := sub.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load diagnostics config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
