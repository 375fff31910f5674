// Package config provides Viper-based configuration loading for the
// dungeon simulator.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/neondnd/isekai/internal/game/dungeon"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// DungeonConfig holds dungeon generation settings.
type DungeonConfig struct {
	// Rows and Cols are the grid dimensions. Both must be at least 2 so the
	// entrance and exit land in distinct rooms.
	Rows int `mapstructure:"rows"`
	Cols int `mapstructure:"cols"`
	// Algorithm selects the link-carving style: "bsp", "maze", or "cellular".
	Algorithm string `mapstructure:"algorithm"`
	// Difficulty scales monster levels and trap saves.
	Difficulty int `mapstructure:"difficulty"`
	// Theme flavors room descriptions and puzzle rewards.
	Theme string `mapstructure:"theme"`
}

// CombatConfig holds combat simulation settings.
type CombatConfig struct {
	// MaxRounds aborts a simulated fight that fails to resolve.
	MaxRounds int `mapstructure:"max_rounds"`
}

// SimulationConfig holds top-level run settings.
type SimulationConfig struct {
	// Seed fixes the dice source for reproducible runs. Zero selects a
	// cryptographically random source.
	Seed int64 `mapstructure:"seed"`
	// CharacterName and CharacterClass describe the simulated adventurer.
	CharacterName  string `mapstructure:"character_name"`
	CharacterClass string `mapstructure:"character_class"`
}

// Config is the top-level application configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Dungeon    DungeonConfig    `mapstructure:"dungeon"`
	Combat     CombatConfig     `mapstructure:"combat"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDungeon(c.Dungeon); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.CharacterName == "" {
		errs = append(errs, "simulation.character_name must not be empty")
	}
	if s.CharacterClass == "" {
		errs = append(errs, "simulation.character_class must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDungeon(d DungeonConfig) error {
	var errs []string
	if d.Rows < 2 {
		errs = append(errs, fmt.Sprintf("dungeon.rows must be >= 2, got %d", d.Rows))
	}
	if d.Cols < 2 {
		errs = append(errs, fmt.Sprintf("dungeon.cols must be >= 2, got %d", d.Cols))
	}
	validAlgorithms := map[string]bool{
		dungeon.AlgorithmBSP:      true,
		dungeon.AlgorithmMaze:     true,
		dungeon.AlgorithmCellular: true,
	}
	if !validAlgorithms[d.Algorithm] {
		errs = append(errs, fmt.Sprintf("dungeon.algorithm must be one of [bsp, maze, cellular], got %q", d.Algorithm))
	}
	if d.Difficulty < 1 {
		errs = append(errs, fmt.Sprintf("dungeon.difficulty must be >= 1, got %d", d.Difficulty))
	}
	if d.Theme == "" {
		errs = append(errs, "dungeon.theme must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	if c.MaxRounds < 1 {
		return fmt.Errorf("combat.max_rounds must be >= 1, got %d", c.MaxRounds)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ISEKAI_ prefix
	v.SetEnvPrefix("ISEKAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.character_name", "Adventurer")
	v.SetDefault("simulation.character_class", "Warrior")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "isekai")
	v.SetDefault("database.password", "isekai")
	v.SetDefault("database.name", "isekai")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("dungeon.rows", 5)
	v.SetDefault("dungeon.cols", 5)
	v.SetDefault("dungeon.algorithm", dungeon.AlgorithmBSP)
	v.SetDefault("dungeon.difficulty", 1)
	v.SetDefault("dungeon.theme", "neon")

	v.SetDefault("combat.max_rounds", 100)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
