// Package session tracks each user's progress through the
// category - bet - guess flow. A session is pure intent state:
// it carries no credit semantics, all money movement happens in the
// ledger at resolution time.
package session

import (
	"errors"
	"fmt"
	"sync"
)

// Stage is the position of a session in the wagering flow.
type Stage int

// Session stages. A session moves None -> AwaitingBet (or
// AwaitingCustomBet) -> AwaitingGuess -> None; resolution and
// abandonment both return it to None.
const (
	StageNone Stage = iota
	StageAwaitingBet
	StageAwaitingCustomBet
	StageAwaitingGuess
)

// String returns the stage name for logging.
func (s Stage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageAwaitingBet:
		return "awaiting_bet"
	case StageAwaitingCustomBet:
		return "awaiting_custom_bet"
	case StageAwaitingGuess:
		return "awaiting_guess"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Session is the per-user interaction state. At most one session
// exists per user id.
type Session struct {
	UserID     int64
	Stage      Stage
	CategoryID string
	BetAmount  int64
}

// Errors for session transitions.
var (
	// ErrNoSession is returned when a transition requires an open
	// session and the user has none.
	ErrNoSession = errors.New("no open session")

	// ErrWrongStage is returned when a transition arrives at a stage
	// that does not accept it.
	ErrWrongStage = errors.New("session is not in the expected stage")
)

// Store holds at most one active session per user id.
// All operations are safe for concurrent use; operations for different
// users never block each other beyond the shared map access.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]Session),
	}
}

// Open starts a session for the user in StageAwaitingBet, silently
// replacing any prior session. Latest selection wins.
func (s *Store) Open(userID int64, categoryID string) Session {
	return s.open(userID, categoryID, StageAwaitingBet)
}

// OpenCustom starts a session in StageAwaitingCustomBet for users who
// opted to type a bet amount instead of picking a suggested one.
func (s *Store) OpenCustom(userID int64, categoryID string) Session {
	return s.open(userID, categoryID, StageAwaitingCustomBet)
}

func (s *Store) open(userID int64, categoryID string, stage Stage) Session {
	sess := Session{
		UserID:     userID,
		Stage:      stage,
		CategoryID: categoryID,
	}

	s.mu.Lock()
	s.sessions[userID] = sess
	s.mu.Unlock()

	return sess
}

// CommitBet fixes the bet amount and advances the session to
// StageAwaitingGuess. Fails with ErrNoSession if the user has no open
// session, or ErrWrongStage if the session is not awaiting a bet.
// On failure the stored session is unchanged.
func (s *Store) CommitBet(userID int64, betAmount int64) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return Session{}, ErrNoSession
	}
	if sess.Stage != StageAwaitingBet && sess.Stage != StageAwaitingCustomBet {
		return Session{}, fmt.Errorf("%w: have %s, want awaiting_bet or awaiting_custom_bet",
			ErrWrongStage, sess.Stage)
	}

	sess.Stage = StageAwaitingGuess
	sess.BetAmount = betAmount
	s.sessions[userID] = sess
	return sess, nil
}

// Peek returns the user's current session, if any.
func (s *Store) Peek(userID int64) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userID]
	return sess, ok
}

// Clear removes the user's session, returning them to StageNone.
// Clearing an absent session is a no-op.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

// Len returns the number of open sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
