package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Description is a registered description name or a path to a
	// .launch.hcl file.
	Description string

	// Overrides are the name:=value launch arguments from the command line.
	Overrides map[string]string

	// PrefixPaths are extra install prefix roots searched before the
	// environment's roots.
	PrefixPaths []string

	LogFormat string
	LogLevel  string
	DryRun    bool
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Description == "" {
		return nil, errors.New("Description is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
