// Package lock provides per-user locking so that mutating game
// operations for the same user are serialized while different users
// proceed independently.
package lock

import "sync"

// UserLock hands out one mutex per user id. Settlement reads a balance,
// applies a delta, and writes history; the lock keeps two in-flight
// actions for the same user from interleaving around that sequence.
type UserLock struct {
	locks sync.Map // map[int64]*sync.Mutex
}

// NewUserLock creates a new UserLock instance.
func NewUserLock() *UserLock {
	return &UserLock{}
}

func (ul *UserLock) getLock(userID int64) *sync.Mutex {
	if v, ok := ul.locks.Load(userID); ok {
		return v.(*sync.Mutex)
	}
	v, _ := ul.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Lock acquires the lock for a user.
func (ul *UserLock) Lock(userID int64) {
	ul.getLock(userID).Lock()
}

// Unlock releases the lock for a user.
func (ul *UserLock) Unlock(userID int64) {
	if v, ok := ul.locks.Load(userID); ok {
		v.(*sync.Mutex).Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
// Returns true if the lock was acquired.
func (ul *UserLock) TryLock(userID int64) bool {
	return ul.getLock(userID).TryLock()
}

// WithLock executes fn while holding the user's lock.
func (ul *UserLock) WithLock(userID int64, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}
