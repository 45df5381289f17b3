// Package config provides configuration management for the formharvest application.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jonesrussell/formharvest/internal/config/app"
	"github.com/jonesrussell/formharvest/internal/config/harvester"
)

// Interface defines the interface for configuration management.
type Interface interface {
	// GetAppConfig returns the application configuration.
	GetAppConfig() *app.Config
	// GetHarvesterConfig returns the harvester configuration.
	GetHarvesterConfig() *harvester.Config
	// Validate checks if the configuration is valid.
	Validate() error
}

// Config represents the application configuration.
type Config struct {
	// App contains application-wide settings
	App *app.Config `yaml:"app"`
	// Harvester contains harvester-specific settings
	Harvester *harvester.Config `yaml:"harvester"`
}

// Ensure Config implements Interface
var _ Interface = (*Config)(nil)

// GetAppConfig returns the application configuration.
func (c *Config) GetAppConfig() *app.Config {
	return c.App
}

// GetHarvesterConfig returns the harvester configuration.
func (c *Config) GetHarvesterConfig() *harvester.Config {
	return c.Harvester
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.App == nil {
		return ErrAppConfigRequired
	}
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}
	if c.Harvester == nil {
		return ErrHarvesterConfigRequired
	}
	return nil
}

// LoadConfig builds the configuration from the values Viper currently
// holds. InitializeViper must have run first so defaults, the optional
// config file, and environment bindings are all in place.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		App: app.New(
			app.WithName(viper.GetString("app.name")),
			app.WithVersion(viper.GetString("app.version")),
			app.WithEnvironment(viper.GetString("app.environment")),
			app.WithDebug(viper.GetBool("app.debug")),
		),
		Harvester: harvester.New(
			harvester.WithSourcesFile(viper.GetString("harvester.sources_file")),
			harvester.WithSource(viper.GetString("harvester.source")),
		),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigLoadFailed, err)
	}

	return cfg, nil
}
