package config

import "errors"

var (
	// ErrConfigMissing is returned when no configuration file can be found
	ErrConfigMissing = errors.New("configuration file not found")

	// ErrConfigMalformed is returned when a configuration file cannot be parsed
	// or fails validation
	ErrConfigMalformed = errors.New("configuration file is malformed")
)
