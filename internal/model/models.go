// Package model defines the data models for the number guessing bot.
package model

import "time"

// User represents a player account in the game system.
// Balance and the cumulative counters are mutated only through the ledger's
// settlement operation or an explicit balance reset.
type User struct {
	UserID        int64     `db:"user_id"`
	Username      string    `db:"username"`
	Balance       int64     `db:"balance"`
	GamesPlayed   int64     `db:"games_played"`
	GamesWon      int64     `db:"games_won"`
	TotalWagered  int64     `db:"total_wagered"`
	TotalWinnings int64     `db:"total_winnings"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// GameRecord is the append-only record of one resolved wager.
// Exactly one record is written per resolved guess; records are never
// mutated or deleted.
type GameRecord struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	Category      string    `db:"category"`
	BetAmount     int64     `db:"bet_amount"`
	GuessedNumber int       `db:"guessed_number"`
	WinningNumber int       `db:"winning_number"`
	Won           bool      `db:"won"`
	Payout        int64     `db:"payout"`
	CreatedAt     time.Time `db:"created_at"`
}

// PlayerStats is the aggregate view of a user's play history.
type PlayerStats struct {
	Balance       int64 `db:"balance"`
	GamesPlayed   int64 `db:"games_played"`
	GamesWon      int64 `db:"games_won"`
	TotalWagered  int64 `db:"total_wagered"`
	TotalWinnings int64 `db:"total_winnings"`
}

// LeaderboardEntry is one row of the top-players ranking.
type LeaderboardEntry struct {
	Username    string `db:"username"`
	Balance     int64  `db:"balance"`
	GamesPlayed int64  `db:"games_played"`
	GamesWon    int64  `db:"games_won"`
}
