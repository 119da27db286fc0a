// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// GameConfig holds the wagering rules.
type GameConfig struct {
	MinBet          int64            `mapstructure:"min_bet"`
	StartingBalance int64            `mapstructure:"starting_balance"`
	LeaderboardSize int              `mapstructure:"leaderboard_size"`
	Categories      []CategoryConfig `mapstructure:"categories"`
}

// CategoryConfig describes one guessing category: an inclusive numeric
// range and the multiple of the bet paid on a correct guess.
type CategoryConfig struct {
	ID         string `mapstructure:"id"`
	Label      string `mapstructure:"label"`
	Min        int    `mapstructure:"min"`
	Max        int    `mapstructure:"max"`
	Multiplier int64  `mapstructure:"multiplier"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Enable environment variable override
	// Environment variables use underscore separator and uppercase
	// e.g., DATABASE_HOST, GAME_MIN_BET
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional - env vars can provide all config)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we can use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Viper cannot default a list of structs; fall back to the built-in table
	// when the file defines no categories.
	if len(cfg.Game.Categories) == 0 {
		cfg.Game.Categories = DefaultCategories()
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "guessbot")
	v.SetDefault("database.name", "guessbot")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Game defaults
	v.SetDefault("game.min_bet", 1)
	v.SetDefault("game.starting_balance", 10000)
	v.SetDefault("game.leaderboard_size", 10)
}

// DefaultCategories returns the built-in category table.
func DefaultCategories() []CategoryConfig {
	return []CategoryConfig{
		{ID: "easy", Label: "1-10 Range", Min: 1, Max: 10, Multiplier: 2},
		{ID: "medium", Label: "1-100 Range", Min: 1, Max: 100, Multiplier: 4},
		{ID: "hard", Label: "1-1000 Range", Min: 1, Max: 1000, Multiplier: 8},
	}
}
