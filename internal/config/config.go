//-------------------------------------------------------------------------
//
// starschema - Star Schema Receipt Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for starschema.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/KonradKlein91/Project-Business-Intelligence/internal/star"
)

// DefaultConnection is the well-known store used when nothing else is configured.
const DefaultConnection = "postgres://postgres@localhost:5432/star_schema"

// Pricing modes accepted by the generator.
const (
	PricingCatalog = string(star.PricingCatalog)
	PricingLine    = string(star.PricingLine)
)

// Config holds all configuration for starschema.
type Config struct {
	// Connection is the PostgreSQL connection string of the star schema store.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Generate holds configuration for the init subcommand.
	Generate GenerateConfig `mapstructure:"generate"`
}

// GenerateConfig holds configuration for data generation.
type GenerateConfig struct {
	// Receipts is the number of receipts to generate.
	Receipts int `mapstructure:"receipts"`

	// MaxItems is the upper bound of line items per receipt (lower bound is 1).
	MaxItems int `mapstructure:"max_items"`

	// Pricing selects where unit prices come from: catalog or line.
	Pricing string `mapstructure:"pricing"`

	// Seed makes a run reproducible. Zero picks a time-based seed.
	Seed uint64 `mapstructure:"seed"`

	// Days is the number of days of hourly time buckets.
	Days int `mapstructure:"days"`

	// Stores is the number of locations.
	Stores int `mapstructure:"stores"`

	// Cashiers is the number of distinct cashier labels.
	Cashiers int `mapstructure:"cashiers"`

	// DropExisting drops an existing schema before generation.
	DropExisting bool `mapstructure:"drop_existing"`
}

// DefaultConfig returns a Config with default values. Generation defaults
// come from star.DefaultOptions.
func DefaultConfig() *Config {
	opts := star.DefaultOptions()
	return &Config{
		Connection: DefaultConnection,
		LogLevel:   "info",
		Generate: GenerateConfig{
			Receipts: opts.Receipts,
			MaxItems: opts.MaxItems,
			Pricing:  string(opts.Pricing),
			Days:     opts.Days,
			Stores:   opts.Stores,
			Cashiers: opts.Cashiers,
		},
	}
}

// Options converts the generate section into generator options.
func (g GenerateConfig) Options() star.Options {
	return star.Options{
		Receipts: g.Receipts,
		MaxItems: g.MaxItems,
		Pricing:  star.PricingMode(g.Pricing),
		Days:     g.Days,
		Stores:   g.Stores,
		Cashiers: g.Cashiers,
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./starschema.yaml
// 3. ~/.config/starschema/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("starschema")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "starschema"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateGenerate checks configuration required for the init command.
func (c *Config) ValidateGenerate() error {
	if err := c.Validate(); err != nil {
		return err
	}
	g := c.Generate
	if g.Receipts < 1 {
		return fmt.Errorf("receipts must be at least 1")
	}
	if g.MaxItems < 1 {
		return fmt.Errorf("max_items must be at least 1")
	}
	if g.Pricing != PricingCatalog && g.Pricing != PricingLine {
		return fmt.Errorf("pricing must be '%s' or '%s'", PricingCatalog, PricingLine)
	}
	if g.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	if g.Stores < 1 {
		return fmt.Errorf("stores must be at least 1")
	}
	if g.Cashiers < 1 {
		return fmt.Errorf("cashiers must be at least 1")
	}
	return nil
}
