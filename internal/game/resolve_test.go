package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/0xIvaR/TG-number-guessing-bot/internal/catalog"
)

// fixedDraw returns a DrawFunc that always draws the given number.
func fixedDraw(n int) DrawFunc {
	return func(min, max int) int { return n }
}

func TestResolver_ResolveWin(t *testing.T) {
	r := NewResolverWithDraw(fixedDraw(7))

	out := r.Resolve(easyCat, 100, 7)
	assert.Equal(t, 7, out.WinningNumber)
	assert.True(t, out.Won)
	assert.Equal(t, int64(200), out.Payout)
}

func TestResolver_ResolveLoss(t *testing.T) {
	r := NewResolverWithDraw(fixedDraw(3))

	out := r.Resolve(easyCat, 100, 7)
	assert.Equal(t, 3, out.WinningNumber)
	assert.False(t, out.Won)
	assert.Equal(t, int64(0), out.Payout)
}

func TestResolver_DefaultDrawStaysInRange(t *testing.T) {
	r := NewResolver()

	for i := 0; i < 1000; i++ {
		out := r.Resolve(easyCat, 10, 5)
		assert.GreaterOrEqual(t, out.WinningNumber, easyCat.Min)
		assert.LessOrEqual(t, out.WinningNumber, easyCat.Max)
	}
}

// TestResolvePayoutRuleProperty verifies the payout rule: the payout is
// bet times multiplier when the guess matches the drawn number, and zero
// otherwise.
func TestResolvePayoutRuleProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		min := rapid.IntRange(1, 100).Draw(t, "min")
		max := rapid.IntRange(min, min+1000).Draw(t, "max")
		multiplier := rapid.Int64Range(1, 100).Draw(t, "multiplier")
		cat := catalog.Category{ID: "gen", Min: min, Max: max, Multiplier: multiplier}

		bet := rapid.Int64Range(1, 100000).Draw(t, "bet")
		guess := rapid.IntRange(min, max).Draw(t, "guess")
		winning := rapid.IntRange(min, max).Draw(t, "winning")

		out := ResolveWithWinner(cat, bet, guess, winning)

		if out.WinningNumber != winning {
			t.Fatalf("winning number mangled: drew %d, got %d", winning, out.WinningNumber)
		}
		if out.Won != (guess == winning) {
			t.Fatalf("won=%v for guess=%d winning=%d", out.Won, guess, winning)
		}
		if out.Won && out.Payout != bet*multiplier {
			t.Fatalf("winning payout: expected %d, got %d", bet*multiplier, out.Payout)
		}
		if !out.Won && out.Payout != 0 {
			t.Fatalf("losing payout should be 0, got %d", out.Payout)
		}
	})
}

// TestResolveDrawWithinRangeProperty verifies the default draw always
// lands inside the category's inclusive range.
func TestResolveDrawWithinRangeProperty(t *testing.T) {
	r := NewResolver()

	rapid.Check(t, func(t *rapid.T) {
		min := rapid.IntRange(1, 1000).Draw(t, "min")
		max := rapid.IntRange(min, min+1000).Draw(t, "max")
		cat := catalog.Category{ID: "gen", Min: min, Max: max, Multiplier: 2}

		out := r.Resolve(cat, 1, min)
		if out.WinningNumber < min || out.WinningNumber > max {
			t.Fatalf("drawn number %d outside [%d,%d]", out.WinningNumber, min, max)
		}
	})
}
