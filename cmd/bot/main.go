// Package main is the entry point for the number guessing game service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/0xIvaR/TG-number-guessing-bot/internal/catalog"
	"github.com/0xIvaR/TG-number-guessing-bot/internal/config"
	"github.com/0xIvaR/TG-number-guessing-bot/internal/game"
	"github.com/0xIvaR/TG-number-guessing-bot/internal/pkg/db"
	"github.com/0xIvaR/TG-number-guessing-bot/internal/pkg/lock"
	"github.com/0xIvaR/TG-number-guessing-bot/internal/repository"
	"github.com/0xIvaR/TG-number-guessing-bot/internal/service"
	"github.com/0xIvaR/TG-number-guessing-bot/internal/session"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Build the category catalog from configuration
	cats := make([]catalog.Category, 0, len(cfg.Game.Categories))
	for _, c := range cfg.Game.Categories {
		cats = append(cats, catalog.Category{
			ID:         c.ID,
			Label:      c.Label,
			Min:        c.Min,
			Max:        c.Max,
			Multiplier: c.Multiplier,
		})
	}
	gameCatalog, err := catalog.New(cats)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid category configuration")
	}

	// Initialize the ledger repository
	ledger := repository.NewLedgerRepository(dbPool.Pool, cfg.Game.StartingBalance)

	// Initialize the game engine
	engine := service.NewGameEngine(
		gameCatalog,
		session.NewStore(),
		game.NewResolver(),
		ledger,
		lock.NewUserLock(),
		cfg.Game.MinBet,
		cfg.Game.StartingBalance,
	)

	for _, cat := range engine.Categories() {
		log.Info().
			Str("id", cat.ID).
			Int("min", cat.Min).
			Int("max", cat.Max).
			Int64("multiplier", cat.Multiplier).
			Msg("Category registered")
	}

	log.Info().
		Int("categories", gameCatalog.Size()).
		Int64("min_bet", cfg.Game.MinBet).
		Int64("starting_balance", cfg.Game.StartingBalance).
		Msg("Game engine ready")

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	log.Info().Msg("Service stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			user_id BIGINT PRIMARY KEY,
			username VARCHAR(255) NOT NULL DEFAULT '',
			balance BIGINT NOT NULL,
			games_played BIGINT NOT NULL DEFAULT 0,
			games_won BIGINT NOT NULL DEFAULT 0,
			total_wagered BIGINT NOT NULL DEFAULT 0,
			total_winnings BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_balance ON users(balance DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: Create game_history table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS game_history (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			category VARCHAR(50) NOT NULL,
			bet_amount BIGINT NOT NULL,
			guessed_number INT NOT NULL,
			winning_number INT NOT NULL,
			won BOOLEAN NOT NULL,
			payout BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_game_history_user_time ON game_history(user_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: game_history table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
