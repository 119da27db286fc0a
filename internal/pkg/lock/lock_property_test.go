// Property-based tests for per-user lock serialization.
package lock

import (
	"sync"
	"testing"

	"pgregory.net/rapid"
)

// TestConcurrentMutationSafetyProperty verifies that for any set of
// concurrent balance mutations on the same user, the final value is
// consistent with sequential execution of all of them.
func TestConcurrentMutationSafetyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.Int64Range(1000, 100000).Draw(t, "initial")
		numOps := rapid.IntRange(2, 20).Draw(t, "numOps")
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")

		amounts := make([]int64, numOps)
		expected := initial
		for i := range amounts {
			amounts[i] = rapid.Int64Range(-500, 500).Draw(t, "amount")
			expected += amounts[i]
		}

		ul := NewUserLock()
		balance := initial

		var wg sync.WaitGroup
		wg.Add(numOps)
		for _, amount := range amounts {
			go func(delta int64) {
				defer wg.Done()
				ul.Lock(userID)
				defer ul.Unlock(userID)
				balance += delta
			}(amount)
		}
		wg.Wait()

		if balance != expected {
			t.Fatalf("balance mismatch: expected %d, got %d (initial=%d, numOps=%d)",
				expected, balance, initial, numOps)
		}
	})
}

// TestWithLockSerializationProperty verifies WithLock serializes
// read-modify-write sequences the same way explicit Lock/Unlock does.
func TestWithLockSerializationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.Int64Range(1000, 100000).Draw(t, "initial")
		numOps := rapid.IntRange(5, 30).Draw(t, "numOps")
		perOp := rapid.Int64Range(1, 100).Draw(t, "perOp")
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")

		expected := initial + int64(numOps)*perOp

		ul := NewUserLock()
		balance := initial

		var wg sync.WaitGroup
		wg.Add(numOps)
		for i := 0; i < numOps; i++ {
			go func() {
				defer wg.Done()
				_ = ul.WithLock(userID, func() error {
					balance += perOp
					return nil
				})
			}()
		}
		wg.Wait()

		if balance != expected {
			t.Fatalf("balance mismatch with WithLock: expected %d, got %d", expected, balance)
		}
	})
}

// TestIndependentUsersProperty verifies that locks for distinct users do
// not interfere with each other's mutations.
func TestIndependentUsersProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numUsers := rapid.IntRange(2, 10).Draw(t, "numUsers")
		opsPerUser := rapid.IntRange(5, 20).Draw(t, "opsPerUser")

		ul := NewUserLock()
		balances := make([]int64, numUsers)

		var wg sync.WaitGroup
		wg.Add(numUsers * opsPerUser)
		for u := 0; u < numUsers; u++ {
			for j := 0; j < opsPerUser; j++ {
				go func(idx int) {
					defer wg.Done()
					userID := int64(idx + 1)
					ul.Lock(userID)
					defer ul.Unlock(userID)
					balances[idx] += 10
				}(u)
			}
		}
		wg.Wait()

		for u := 0; u < numUsers; u++ {
			expected := int64(opsPerUser) * 10
			if balances[u] != expected {
				t.Fatalf("user %d balance mismatch: expected %d, got %d", u+1, expected, balances[u])
			}
		}
	})
}

// TestLockUnlockSymmetryProperty verifies the lock is free after any
// number of lock/unlock cycles.
func TestLockUnlockSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")
		numCycles := rapid.IntRange(1, 50).Draw(t, "numCycles")

		ul := NewUserLock()
		for i := 0; i < numCycles; i++ {
			ul.Lock(userID)
			ul.Unlock(userID)
		}

		if !ul.TryLock(userID) {
			t.Fatal("lock should be available after symmetric lock/unlock cycles")
		}
		ul.Unlock(userID)
	})
}
