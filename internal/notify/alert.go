// Package notify holds the application-wide alert slot and refresh signal.
// Both are created once at the application root and passed by reference to
// every grid.
package notify

import (
	"sync"
	"time"
)

// Kind is the severity of an alert.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

func (k Kind) String() string {
	if k == KindError {
		return "error"
	}
	return "success"
}

// Alert is the single user-visible notification.
type Alert struct {
	Kind    Kind
	Message string
	At      time.Time
}

// Slot holds at most one active alert. Setting a new alert replaces the
// previous one; alerts never expire on their own.
type Slot struct {
	mu      sync.RWMutex
	current *Alert
	onSet   func(Alert)
}

// NewSlot returns an empty alert slot.
func NewSlot() *Slot {
	return &Slot{}
}

// OnSet registers a callback invoked after every Set. Passing nil removes it.
func (s *Slot) OnSet(fn func(Alert)) {
	s.mu.Lock()
	s.onSet = fn
	s.mu.Unlock()
}

// Set replaces the active alert.
func (s *Slot) Set(kind Kind, message string) {
	a := Alert{Kind: kind, Message: message, At: time.Now()}

	s.mu.Lock()
	s.current = &a
	fn := s.onSet
	s.mu.Unlock()

	if fn != nil {
		fn(a)
	}
}

// Success sets a success alert.
func (s *Slot) Success(message string) { s.Set(KindSuccess, message) }

// Error sets an error alert.
func (s *Slot) Error(message string) { s.Set(KindError, message) }

// Current returns the active alert, if any.
func (s *Slot) Current() (Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Alert{}, false
	}
	return *s.current, true
}

// Clear dismisses the active alert.
func (s *Slot) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
