package config

import (
	"fmt"
	"strings"
)

// Validate performs validation of the configuration
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return fmt.Errorf("server config error: %w", err)
	}
	if err := c.validateMongo(); err != nil {
		return fmt.Errorf("mongo config error: %w", err)
	}
	if err := c.validateEvents(); err != nil {
		return fmt.Errorf("events config error: %w", err)
	}
	if err := c.validateSearch(); err != nil {
		return fmt.Errorf("search config error: %w", err)
	}
	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("logging config error: %w", err)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	return nil
}

func (c *Config) validateMongo() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("uri is required")
	}
	if !strings.HasPrefix(c.Mongo.URI, "mongodb://") && !strings.HasPrefix(c.Mongo.URI, "mongodb+srv://") {
		return fmt.Errorf("invalid uri scheme: %s", c.Mongo.URI)
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("database is required")
	}
	return nil
}

func (c *Config) validateEvents() error {
	for _, broker := range c.Events.Brokers {
		if !strings.Contains(broker, ":") {
			return fmt.Errorf("invalid broker format: %s (expected host:port)", broker)
		}
	}
	if len(c.Events.Brokers) > 0 && c.Events.Topic == "" {
		return fmt.Errorf("topic is required when brokers are configured")
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be positive")
	}
	if c.Search.CandidateMultiplier <= 0 {
		return fmt.Errorf("candidate_multiplier must be positive")
	}
	if c.Search.MinCandidates <= 0 {
		return fmt.Errorf("min_candidates must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid format: %s", c.Logging.Format)
	}
	return nil
}
