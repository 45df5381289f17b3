package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// InitializeViper initializes Viper configuration from environment variables
// and config files. This must be called before LoadConfig() to ensure Viper
// is properly configured. When cfgFile is non-empty it names the config file
// to read instead of the default search paths.
func InitializeViper(cfgFile string) error {
	loadEnvFile()
	setupViper(cfgFile)
	setDefaults()
	readConfigFile()

	if err := bindEnvironmentVariables(); err != nil {
		return fmt.Errorf("failed to bind environment variables: %w", err)
	}

	setupDevelopmentLogging()
	return nil
}

// loadEnvFile loads .env file (ignores error if file doesn't exist).
func loadEnvFile() {
	_ = godotenv.Load()
}

// setupViper configures Viper for environment variable and config file reading.
func setupViper(cfgFile string) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		return
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
}

// readConfigFile reads config file (ignores error if file doesn't exist).
func readConfigFile() {
	_ = viper.ReadInConfig()
}

// bindEnvironmentVariables binds all environment variables to config keys.
func bindEnvironmentVariables() error {
	if err := bindAppEnvVars(); err != nil {
		return fmt.Errorf("failed to bind app env vars: %w", err)
	}
	if err := bindHarvesterEnvVars(); err != nil {
		return fmt.Errorf("failed to bind harvester env vars: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults - production safe
	viper.SetDefault("app", map[string]any{
		"name":        "formharvest",
		"version":     "0.1.0",
		"environment": "production",
		"debug":       false,
	})

	// Logger defaults - console output plus a run log on disk
	viper.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"encoding":     "console",
		"output_paths": []string{"stdout", "formharvest.log"},
		"enable_color": false,
	})

	// Harvester defaults - the built-in source when nothing is configured
	viper.SetDefault("harvester", map[string]any{
		"sources_file": "",
		"source":       "",
	})
}

// bindAppEnvVars binds application and logger environment variables to config keys.
func bindAppEnvVars() error {
	if err := viper.BindEnv("app.environment", "APP_ENV"); err != nil {
		return fmt.Errorf("failed to bind APP_ENV: %w", err)
	}
	if err := viper.BindEnv("app.debug", "APP_DEBUG"); err != nil {
		return fmt.Errorf("failed to bind APP_DEBUG: %w", err)
	}
	if err := viper.BindEnv("logger.level", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	if err := viper.BindEnv("logger.encoding", "LOG_FORMAT"); err != nil {
		return fmt.Errorf("failed to bind LOG_FORMAT: %w", err)
	}
	return nil
}

// bindHarvesterEnvVars binds harvester environment variables to config keys.
func bindHarvesterEnvVars() error {
	if err := viper.BindEnv("harvester.sources_file", "HARVESTER_SOURCES_FILE"); err != nil {
		return fmt.Errorf("failed to bind HARVESTER_SOURCES_FILE: %w", err)
	}
	if err := viper.BindEnv("harvester.source", "HARVESTER_SOURCE"); err != nil {
		return fmt.Errorf("failed to bind HARVESTER_SOURCE: %w", err)
	}
	return nil
}

// setupDevelopmentLogging configures logging settings based on environment variables.
// It separates concerns: debug level (controlled by APP_DEBUG) vs development formatting (controlled by APP_ENV).
func setupDevelopmentLogging() {
	debugFlag := viper.GetBool("app.debug")
	isDev := viper.GetString("app.environment") == "development"

	// Always set debug level when APP_DEBUG=true, regardless of environment
	// This allows enabling debug logs in production for troubleshooting
	if debugFlag {
		viper.Set("logger.level", "debug")
	}

	// Development mode features are separate from log level - you can have
	// debug logs with production formatting
	if isDev {
		viper.Set("logger.development", true)
		viper.Set("logger.enable_color", true)
		viper.Set("logger.encoding", "console")
	}
}
