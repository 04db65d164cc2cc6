package config

import (
	"fmt"
	"strings"
)

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if _, err := c.Format(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn or error)", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (must be text or json)", c.LogFormat)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.FirstYear > c.LastYear {
		return fmt.Errorf("first year %d is after last year %d", c.FirstYear, c.LastYear)
	}
	if c.Specio.Timeout < 0 {
		return fmt.Errorf("specio timeout must not be negative")
	}
	for i := range c.Indicators {
		if err := c.Indicators[i].Validate(); err != nil {
			return fmt.Errorf("indicators[%d]: %w", i, err)
		}
	}
	return nil
}
