// Package config bootstraps the viper instance shared by every configurable
// package. The config file path comes from CONFIG_PATH, defaulting to
// ./configs/config.yml, and every key can be overridden from the
// environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

func NewViper() (*viper.Viper, error) {
	v := viper.New()
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yml"
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file [%s] does not exist: %w", configPath, err)
	}
	v.SetConfigFile(configPath)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file [%s]: %w", configPath, err)
	}
	return v, nil
}

// Module provides the shared viper instance to an fx application.
func Module() fx.Option {
	return fx.Provide(NewViper)
}
