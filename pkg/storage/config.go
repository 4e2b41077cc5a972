package storage

import (
	"fmt"
	"os"
	"time"
)

// Config holds Azure Blob Storage connection parameters.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	PresignTTL       string `toml:"presign_ttl"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	ConnectionString string
	PresignTTL       string
}

// PresignTTLDuration returns PresignTTL as a time.Duration.
func (c *Config) PresignTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.PresignTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.PresignTTL != "" {
		c.PresignTTL = overlay.PresignTTL
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "verifications"
	}
	if c.PresignTTL == "" {
		c.PresignTTL = "1h"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ContainerName != "" {
		if v := os.Getenv(env.ContainerName); v != "" {
			c.ContainerName = v
		}
	}
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
	if env.PresignTTL != "" {
		if v := os.Getenv(env.PresignTTL); v != "" {
			c.PresignTTL = v
		}
	}
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	if c.ConnectionString == "" {
		return fmt.Errorf("connection_string required")
	}
	if _, err := time.ParseDuration(c.PresignTTL); err != nil {
		return fmt.Errorf("invalid presign_ttl: %w", err)
	}
	return nil
}
