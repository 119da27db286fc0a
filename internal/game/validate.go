// Package game implements the wagering rules of the number guessing
// game: bet and guess validation plus the outcome oracle. Everything in
// this package is pure; balances and storage are the ledger's business.
package game

import (
	"errors"
	"fmt"

	"github.com/0xIvaR/TG-number-guessing-bot/internal/catalog"
)

// Validation errors.
var (
	ErrUnknownCategory   = errors.New("unknown category")
	ErrBetBelowMinimum   = errors.New("bet is below the minimum")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrGuessOutOfRange   = errors.New("guess is outside the category range")
)

// ValidateBet checks a bet amount against the minimum bet, the bettor's
// balance at validation time, and the category.
func ValidateBet(balance, betAmount, minBet int64, cat catalog.Category) error {
	if !cat.Valid() {
		return ErrUnknownCategory
	}
	if betAmount < minBet {
		return fmt.Errorf("%w: minimum bet is %d", ErrBetBelowMinimum, minBet)
	}
	if betAmount > balance {
		return fmt.Errorf("%w: balance is %d, bet is %d", ErrInsufficientFunds, balance, betAmount)
	}
	return nil
}

// ValidateGuess checks that a guess lies within the category's
// inclusive range.
func ValidateGuess(guess int, cat catalog.Category) error {
	if !cat.Valid() {
		return ErrUnknownCategory
	}
	if guess < cat.Min || guess > cat.Max {
		return fmt.Errorf("%w: number must be between %d and %d", ErrGuessOutOfRange, cat.Min, cat.Max)
	}
	return nil
}
