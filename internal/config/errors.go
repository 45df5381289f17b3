package config

import "errors"

// Common configuration errors
var (
	// ErrConfigInvalid is returned when the configuration is invalid
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrConfigLoadFailed is returned when loading the configuration fails
	ErrConfigLoadFailed = errors.New("failed to load configuration")

	// ErrAppConfigRequired is returned when the app section is missing
	ErrAppConfigRequired = errors.New("app configuration is required")

	// ErrHarvesterConfigRequired is returned when the harvester section is missing
	ErrHarvesterConfigRequired = errors.New("harvester configuration is required")
)
