// Package main provides the pump CLI: a Kafka partition pump instrumented
// with the diagnostics event catalog, emitting through the zap sink.
//
// Usage:
//
//	pump run --env-file .env
//
// Configuration is read from CONFIG_PATH (default ./configs/config.yml); see
// the processor, diagnostics and logger config sections.
package main

import (
	"fmt"
	"os"

	"github.com/Sokol111/ecommerce-diagnostics/pkg/config"
	"github.com/Sokol111/ecommerce-diagnostics/pkg/diagnostics"
	"github.com/Sokol111/ecommerce-diagnostics/pkg/diagnostics/zapsink"
	"github.com/Sokol111/ecommerce-diagnostics/pkg/logger"
	"github.com/Sokol111/ecommerce-diagnostics/pkg/processor"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "pump",
		Short:   "Run an instrumented Kafka partition pump",
		Version: version,
	}

	rootCmd.AddCommand(newRunCmd())

	return rootCmd
}

func newRunCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Consume a topic and emit diagnostic events for every partition and batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Optional .env file loaded before reading configuration")

	return cmd
}

func run(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file [%s]: %w", envFile, err)
		}
	}

	app := fx.New(
		config.Module(),
		logger.Module(),
		zapsink.Module(),
		diagnostics.Module(),
		processor.Module(),
		fx.Provide(newHandler),
	)

	app.Run()
	return nil
}

func newHandler(log *zap.Logger) processor.Handler {
	return &processor.LoggingHandler{Log: log}
}
