package game

import (
	"math/rand"

	"github.com/0xIvaR/TG-number-guessing-bot/internal/catalog"
)

// Outcome is the result of resolving one wager.
type Outcome struct {
	WinningNumber int
	Won           bool
	Payout        int64
}

// DrawFunc returns a uniformly distributed integer in [min, max].
// The default draw needs statistical uniformity, not secrecy.
type DrawFunc func(min, max int) int

// Resolver draws the winning number and computes the payout for a
// resolved guess. It never touches balances or storage, so outcomes are
// fully deterministic under an injected draw.
type Resolver struct {
	draw DrawFunc
}

// NewResolver creates a resolver drawing from math/rand.
func NewResolver() *Resolver {
	return NewResolverWithDraw(func(min, max int) int {
		return rand.Intn(max-min+1) + min
	})
}

// NewResolverWithDraw creates a resolver with an injected draw,
// used by tests to force outcomes.
func NewResolverWithDraw(draw DrawFunc) *Resolver {
	return &Resolver{draw: draw}
}

// Resolve draws a winning number from the category's range and computes
// the payout: bet times the category multiplier on a match, zero otherwise.
func (r *Resolver) Resolve(cat catalog.Category, betAmount int64, guess int) Outcome {
	winning := r.draw(cat.Min, cat.Max)
	return ResolveWithWinner(cat, betAmount, guess, winning)
}

// ResolveWithWinner computes the outcome for an already-drawn winning
// number. Exposed so the payout rule is testable without randomness.
func ResolveWithWinner(cat catalog.Category, betAmount int64, guess, winningNumber int) Outcome {
	won := guess == winningNumber

	var payout int64
	if won {
		payout = betAmount * cat.Multiplier
	}

	return Outcome{
		WinningNumber: winningNumber,
		Won:           won,
		Payout:        payout,
	}
}
