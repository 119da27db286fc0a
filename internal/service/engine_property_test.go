// Property-based tests for the game engine settlement arithmetic.
package service

import (
	"context"
	"testing"

	"pgregory.net/rapid"
)

// TestSettlementConservationProperty verifies that after any sequence of
// resolved wagers the balance equals the starting balance plus the sum
// of payouts minus the sum of bets, and exactly one history record
// exists per wager.
func TestSettlementConservationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		winning := rapid.IntRange(1, 10).Draw(t, "winning")
		numWagers := rapid.IntRange(1, 15).Draw(t, "numWagers")
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")

		ledger := newFakeLedger()
		engine := newTestEngine(t, ledger, fixedDraw(winning))
		ctx := context.Background()

		expected := testStartingBalance
		played := 0
		won := 0

		for i := 0; i < numWagers; i++ {
			// Keep bets affordable so validation never rejects.
			maxBet := expected
			if maxBet < testMinBet {
				break
			}
			if maxBet > 500 {
				maxBet = 500
			}
			bet := rapid.Int64Range(testMinBet, maxBet).Draw(t, "bet")
			guess := rapid.IntRange(1, 10).Draw(t, "guess")

			_, err := engine.StartSelection(ctx, userID, "player", "easy")
			if err != nil {
				t.Fatalf("start selection: %v", err)
			}
			if _, err := engine.ChooseBet(ctx, userID, bet); err != nil {
				t.Fatalf("choose bet %d with balance %d: %v", bet, expected, err)
			}
			result, err := engine.SubmitGuess(ctx, userID, guess)
			if err != nil {
				t.Fatalf("submit guess: %v", err)
			}

			expected += result.Payout - bet
			played++
			if result.Won {
				won++
				if result.Payout != bet*2 {
					t.Fatalf("win payout mismatch: bet %d, payout %d", bet, result.Payout)
				}
			} else if result.Payout != 0 {
				t.Fatalf("loss paid out %d", result.Payout)
			}
			if result.NewBalance != expected {
				t.Fatalf("balance mismatch after wager %d: expected %d, got %d",
					i, expected, result.NewBalance)
			}
		}

		stats, err := engine.Stats(ctx, userID)
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		if stats.Balance != expected {
			t.Fatalf("final balance mismatch: expected %d, got %d", expected, stats.Balance)
		}
		if stats.GamesPlayed != int64(played) || stats.GamesWon != int64(won) {
			t.Fatalf("stats mismatch: played %d/%d, won %d/%d",
				stats.GamesPlayed, played, stats.GamesWon, won)
		}
		if got := ledger.historyLen(userID); got != played {
			t.Fatalf("history length mismatch: expected %d records, got %d", played, got)
		}

		// Every flow ended with a closed session.
		if _, ok := engine.sessions.Peek(userID); ok {
			t.Fatal("session left open after resolution")
		}
	})
}
