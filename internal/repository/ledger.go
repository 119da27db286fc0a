// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/0xIvaR/TG-number-guessing-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
)

// LedgerRepository owns account balances, aggregate statistics, and the
// append-only wager history. Every mutating operation on one user is a
// single SQL statement or transaction, so concurrent settlements for the
// same account cannot lose updates.
type LedgerRepository struct {
	pool            *pgxpool.Pool
	startingBalance int64
}

// NewLedgerRepository creates a new LedgerRepository instance.
// New accounts are created with the given starting balance.
func NewLedgerRepository(pool *pgxpool.Pool, startingBalance int64) *LedgerRepository {
	return &LedgerRepository{pool: pool, startingBalance: startingBalance}
}

// Create creates a new user with the starting balance and zeroed stats.
func (r *LedgerRepository) Create(ctx context.Context, userID int64, username string) (*model.User, error) {
	const query = `
		INSERT INTO users (user_id, username, balance, games_played, games_won, total_wagered, total_winnings, created_at, updated_at)
		VALUES ($1, $2, $3, 0, 0, 0, 0, NOW(), NOW())
		RETURNING user_id, username, balance, games_played, games_won, total_wagered, total_winnings, created_at, updated_at
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, userID, username, r.startingBalance).Scan(
		&user.UserID,
		&user.Username,
		&user.Balance,
		&user.GamesPlayed,
		&user.GamesWon,
		&user.TotalWagered,
		&user.TotalWinnings,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetByID retrieves a user by id.
// Returns ErrUserNotFound if the user does not exist.
func (r *LedgerRepository) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	const query = `
		SELECT user_id, username, balance, games_played, games_won, total_wagered, total_winnings, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&user.UserID,
		&user.Username,
		&user.Balance,
		&user.GamesPlayed,
		&user.GamesWon,
		&user.TotalWagered,
		&user.TotalWinnings,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetOrCreate retrieves a user by id, creating one with the starting
// balance if absent. The stored username of an existing account is
// never overwritten. Returns whether the account was newly created.
func (r *LedgerRepository) GetOrCreate(ctx context.Context, userID int64, username string) (*model.User, bool, error) {
	user, err := r.GetByID(ctx, userID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	user, err = r.Create(ctx, userID, username)
	if err != nil {
		// Handle race condition: another request might have created the user
		user, err = r.GetByID(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		return user, false, nil
	}

	return user, true, nil
}

// SettleWager applies one resolved wager in a single transaction: the
// history row is appended and the balance plus aggregate counters are
// adjusted with one relative UPDATE. The new balance is returned.
// Fails with ErrUserNotFound if the account does not exist; callers must
// GetOrCreate first.
func (r *LedgerRepository) SettleWager(ctx context.Context, rec *model.GameRecord) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin settlement: %w", err)
	}
	defer tx.Rollback(ctx)

	wonInc := int64(0)
	if rec.Won {
		wonInc = 1
	}

	const updateQuery = `
		UPDATE users
		SET balance = balance + $2,
		    games_played = games_played + 1,
		    games_won = games_won + $3,
		    total_wagered = total_wagered + $4,
		    total_winnings = total_winnings + $5,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING balance
	`

	var newBalance int64
	err = tx.QueryRow(ctx, updateQuery,
		rec.UserID,
		rec.Payout-rec.BetAmount,
		wonInc,
		rec.BetAmount,
		rec.Payout,
	).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to apply settlement: %w", err)
	}

	const insertQuery = `
		INSERT INTO game_history (user_id, category, bet_amount, guessed_number, winning_number, won, payout, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	_, err = tx.Exec(ctx, insertQuery,
		rec.UserID,
		rec.Category,
		rec.BetAmount,
		rec.GuessedNumber,
		rec.WinningNumber,
		rec.Won,
		rec.Payout,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append game record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return newBalance, nil
}

// SetBalance sets a user's balance to an exact value, independent of
// settlement history. Used by the reset operation.
func (r *LedgerRepository) SetBalance(ctx context.Context, userID int64, balance int64) (*model.User, error) {
	const query = `
		UPDATE users
		SET balance = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, username, balance, games_played, games_won, total_wagered, total_winnings, created_at, updated_at
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, userID, balance).Scan(
		&user.UserID,
		&user.Username,
		&user.Balance,
		&user.GamesPlayed,
		&user.GamesWon,
		&user.TotalWagered,
		&user.TotalWinnings,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to set balance: %w", err)
	}

	return &user, nil
}

// GetStats retrieves a user's balance and aggregate play statistics.
func (r *LedgerRepository) GetStats(ctx context.Context, userID int64) (*model.PlayerStats, error) {
	const query = `
		SELECT balance, games_played, games_won, total_wagered, total_winnings
		FROM users
		WHERE user_id = $1
	`

	var stats model.PlayerStats
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&stats.Balance,
		&stats.GamesPlayed,
		&stats.GamesWon,
		&stats.TotalWagered,
		&stats.TotalWinnings,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return &stats, nil
}

// TopByBalance retrieves the top users by balance, ties broken by
// account creation order.
func (r *LedgerRepository) TopByBalance(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	const query = `
		SELECT username, balance, games_played, games_won
		FROM users
		ORDER BY balance DESC, created_at ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*model.LeaderboardEntry
	for rows.Next() {
		var entry model.LeaderboardEntry
		err := rows.Scan(
			&entry.Username,
			&entry.Balance,
			&entry.GamesPlayed,
			&entry.GamesWon,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}

	return entries, nil
}

// GetHistory retrieves a user's resolved wagers, newest first.
func (r *LedgerRepository) GetHistory(ctx context.Context, userID int64, limit int) ([]*model.GameRecord, error) {
	const query = `
		SELECT id, user_id, category, bet_amount, guessed_number, winning_number, won, payout, created_at
		FROM game_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var records []*model.GameRecord
	for rows.Next() {
		var rec model.GameRecord
		err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Category,
			&rec.BetAmount,
			&rec.GuessedNumber,
			&rec.WinningNumber,
			&rec.Won,
			&rec.Payout,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game record: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}

	return records, nil
}
