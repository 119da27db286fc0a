// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/0xIvaR/TG-number-guessing-bot/internal/catalog"
	"github.com/0xIvaR/TG-number-guessing-bot/internal/game"
	"github.com/0xIvaR/TG-number-guessing-bot/internal/model"
	"github.com/0xIvaR/TG-number-guessing-bot/internal/pkg/lock"
	"github.com/0xIvaR/TG-number-guessing-bot/internal/session"
)

// Common errors for engine operations.
var (
	// ErrNoActiveSession is returned when an action arrives with no
	// matching session for the user, e.g. a stray guess.
	ErrNoActiveSession = errors.New("no active game session")
)

// Ledger is the persistence contract the engine settles against.
// Every mutating operation must be atomic with respect to one user id.
type Ledger interface {
	GetOrCreate(ctx context.Context, userID int64, username string) (*model.User, bool, error)
	SettleWager(ctx context.Context, rec *model.GameRecord) (int64, error)
	SetBalance(ctx context.Context, userID int64, balance int64) (*model.User, error)
	GetStats(ctx context.Context, userID int64) (*model.PlayerStats, error)
	TopByBalance(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error)
}

// WagerResult is the full outcome of a resolved wager, returned to the
// transport adapter for rendering.
type WagerResult struct {
	Category      catalog.Category
	BetAmount     int64
	Guess         int
	WinningNumber int
	Won           bool
	Payout        int64
	NewBalance    int64
}

// GameEngine orchestrates the category - bet - guess flow: it validates
// each step, resolves the outcome, commits the settlement, and closes
// the session. It is the single entry point the transport adapter calls.
type GameEngine struct {
	catalog         *catalog.Catalog
	sessions        *session.Store
	resolver        *game.Resolver
	ledger          Ledger
	userLock        *lock.UserLock
	minBet          int64
	startingBalance int64
}

// NewGameEngine creates a new GameEngine instance.
func NewGameEngine(
	cat *catalog.Catalog,
	sessions *session.Store,
	resolver *game.Resolver,
	ledger Ledger,
	userLock *lock.UserLock,
	minBet int64,
	startingBalance int64,
) *GameEngine {
	return &GameEngine{
		catalog:         cat,
		sessions:        sessions,
		resolver:        resolver,
		ledger:          ledger,
		userLock:        userLock,
		minBet:          minBet,
		startingBalance: startingBalance,
	}
}

// Categories returns all categories in declaration order for menu
// construction.
func (e *GameEngine) Categories() []catalog.Category {
	return e.catalog.All()
}

// StartSelection opens a session for the user in the awaiting-bet stage,
// discarding any prior session. The account is created lazily on first
// interaction.
func (e *GameEngine) StartSelection(ctx context.Context, userID int64, username, categoryID string) (session.Session, error) {
	return e.startSelection(ctx, userID, username, categoryID, false)
}

// StartCustomSelection opens a session in the awaiting-custom-bet stage
// for users who will type a bet amount.
func (e *GameEngine) StartCustomSelection(ctx context.Context, userID int64, username, categoryID string) (session.Session, error) {
	return e.startSelection(ctx, userID, username, categoryID, true)
}

func (e *GameEngine) startSelection(ctx context.Context, userID int64, username, categoryID string, custom bool) (session.Session, error) {
	cat, err := e.catalog.Lookup(categoryID)
	if err != nil {
		return session.Session{}, game.ErrUnknownCategory
	}

	// Serialized with the user's other mutating operations: a selection
	// arriving during settlement must open only after the settlement's
	// clear, or the new session would be destroyed with the old one.
	e.userLock.Lock(userID)
	defer e.userLock.Unlock(userID)

	if _, _, err := e.ledger.GetOrCreate(ctx, userID, username); err != nil {
		return session.Session{}, fmt.Errorf("failed to ensure account: %w", err)
	}

	var sess session.Session
	if custom {
		sess = e.sessions.OpenCustom(userID, cat.ID)
	} else {
		sess = e.sessions.Open(userID, cat.ID)
	}

	log.Debug().
		Int64("user_id", userID).
		Str("category", cat.ID).
		Str("stage", sess.Stage.String()).
		Msg("Session opened")

	return sess, nil
}

// ChooseBet validates the bet against the account's current balance and
// fixes it on the session. On a validation failure the session is left
// untouched so the user may retry the same step.
func (e *GameEngine) ChooseBet(ctx context.Context, userID int64, betAmount int64) (session.Session, error) {
	e.userLock.Lock(userID)
	defer e.userLock.Unlock(userID)

	sess, ok := e.sessions.Peek(userID)
	if !ok {
		return session.Session{}, ErrNoActiveSession
	}
	if sess.Stage != session.StageAwaitingBet && sess.Stage != session.StageAwaitingCustomBet {
		return session.Session{}, ErrNoActiveSession
	}

	cat, err := e.catalog.Lookup(sess.CategoryID)
	if err != nil {
		return session.Session{}, game.ErrUnknownCategory
	}

	user, _, err := e.ledger.GetOrCreate(ctx, userID, "")
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to read balance: %w", err)
	}

	if err := game.ValidateBet(user.Balance, betAmount, e.minBet, cat); err != nil {
		return session.Session{}, err
	}

	sess, err = e.sessions.CommitBet(userID, betAmount)
	if err != nil {
		return session.Session{}, ErrNoActiveSession
	}

	return sess, nil
}

// SubmitGuess resolves the wager: the guess is validated, the winning
// number drawn, the settlement committed, and the session closed, all
// serialized per user. On a validation failure the session stage is
// unchanged so the user may re-enter a guess.
func (e *GameEngine) SubmitGuess(ctx context.Context, userID int64, guess int) (*WagerResult, error) {
	e.userLock.Lock(userID)
	defer e.userLock.Unlock(userID)

	sess, ok := e.sessions.Peek(userID)
	if !ok || sess.Stage != session.StageAwaitingGuess {
		return nil, ErrNoActiveSession
	}

	cat, err := e.catalog.Lookup(sess.CategoryID)
	if err != nil {
		return nil, game.ErrUnknownCategory
	}

	if err := game.ValidateGuess(guess, cat); err != nil {
		return nil, err
	}

	outcome := e.resolver.Resolve(cat, sess.BetAmount, guess)

	rec := &model.GameRecord{
		UserID:        userID,
		Category:      cat.ID,
		BetAmount:     sess.BetAmount,
		GuessedNumber: guess,
		WinningNumber: outcome.WinningNumber,
		Won:           outcome.Won,
		Payout:        outcome.Payout,
	}

	newBalance, err := e.ledger.SettleWager(ctx, rec)
	if err != nil {
		// Nothing was applied; the session survives so the guess can
		// be retried once storage recovers.
		return nil, fmt.Errorf("failed to settle wager: %w", err)
	}

	e.sessions.Clear(userID)

	log.Info().
		Int64("user_id", userID).
		Str("category", cat.ID).
		Int64("bet", sess.BetAmount).
		Int("guess", guess).
		Int("winning_number", outcome.WinningNumber).
		Bool("won", outcome.Won).
		Int64("payout", outcome.Payout).
		Int64("new_balance", newBalance).
		Msg("Wager settled")

	return &WagerResult{
		Category:      cat,
		BetAmount:     sess.BetAmount,
		Guess:         guess,
		WinningNumber: outcome.WinningNumber,
		Won:           outcome.Won,
		Payout:        outcome.Payout,
		NewBalance:    newBalance,
	}, nil
}

// Reset sets the user's balance back to the starting balance. Play
// statistics and any pending session are unaffected.
func (e *GameEngine) Reset(ctx context.Context, userID int64) (int64, error) {
	e.userLock.Lock(userID)
	defer e.userLock.Unlock(userID)

	if _, _, err := e.ledger.GetOrCreate(ctx, userID, ""); err != nil {
		return 0, fmt.Errorf("failed to ensure account: %w", err)
	}

	user, err := e.ledger.SetBalance(ctx, userID, e.startingBalance)
	if err != nil {
		return 0, fmt.Errorf("failed to reset balance: %w", err)
	}

	return user.Balance, nil
}

// Stats retrieves the user's balance and aggregate play statistics.
func (e *GameEngine) Stats(ctx context.Context, userID int64) (*model.PlayerStats, error) {
	return e.ledger.GetStats(ctx, userID)
}

// Leaderboard retrieves the top players by balance.
func (e *GameEngine) Leaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	return e.ledger.TopByBalance(ctx, limit)
}
