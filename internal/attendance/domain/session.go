package domain

import (
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
)

// SessionState is the lifecycle state of a scan session.
type SessionState string

const (
	// SessionIdle is a session that has not started accepting scans yet.
	SessionIdle SessionState = "idle"

	// SessionAwaitingScan is a running session waiting for the next card.
	SessionAwaitingScan SessionState = "awaiting_scan"

	// SessionProcessing is a session with a scan currently being recorded.
	SessionProcessing SessionState = "processing"

	// SessionClosed is a finished session; it accepts no further input.
	SessionClosed SessionState = "closed"
)

// Session is the explicit state machine of one check-in or registration
// sitting: Idle -> AwaitingScan <-> Processing -> Closed. It is
// single-writer: one goroutine drives Start, ScanReceived, ScanProcessed and
// End. The roster remembers the cards already seen so a second scan of the
// same card is classified as a duplicate instead of producing a second
// ledger record.
type Session struct {
	operation keysDomain.Operation
	state     SessionState
	roster    map[string]struct{}
}

// NewSession creates an idle session for the operation.
func NewSession(op keysDomain.Operation) *Session {
	return &Session{
		operation: op,
		state:     SessionIdle,
		roster:    make(map[string]struct{}),
	}
}

// Operation returns the operation this session records under.
func (s *Session) Operation() keysDomain.Operation {
	return s.operation
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	return s.state
}

// Start moves the session from idle to awaiting the first scan.
func (s *Session) Start() error {
	if s.state != SessionIdle {
		return ErrSessionState
	}
	s.state = SessionAwaitingScan
	return nil
}

// ScanReceived accepts a card scan, moving to processing. Input arriving
// after the session ended fails with ErrSessionClosed; any other state
// mismatch with ErrSessionState.
func (s *Session) ScanReceived() error {
	switch s.state {
	case SessionAwaitingScan:
		s.state = SessionProcessing
		return nil
	case SessionClosed:
		return ErrSessionClosed
	default:
		return ErrSessionState
	}
}

// ScanProcessed completes the current scan and awaits the next one.
func (s *Session) ScanProcessed() error {
	if s.state != SessionProcessing {
		return ErrSessionState
	}
	s.state = SessionAwaitingScan
	return nil
}

// End closes the session. Ending is allowed from any running state.
func (s *Session) End() error {
	if s.state != SessionAwaitingScan && s.state != SessionProcessing {
		return ErrSessionState
	}
	s.state = SessionClosed
	return nil
}

// Seen reports whether the card was already recorded in this session.
func (s *Session) Seen(cardID string) bool {
	_, ok := s.roster[cardID]
	return ok
}

// MarkSeen adds the card to the session roster.
func (s *Session) MarkSeen(cardID string) {
	s.roster[cardID] = struct{}{}
}

// RosterSize returns how many distinct cards the session has recorded.
func (s *Session) RosterSize() int {
	return len(s.roster)
}
