package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Repository is the durable storage contract for the single session record.
// Load returns ErrNoSession when nothing is stored; absence is a valid
// outcome, not a failure.
type Repository interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// timeNow is a test seam.
var timeNow = time.Now

// Manager holds the live session and keeps it in step with durable storage.
// It replaces ambient global session state: components that need the
// credential hold a *Manager and read it at call time.
//
// Replace and Clear mutate both memory and storage; the swap is atomic with
// respect to Current.
type Manager struct {
	repo Repository

	mu      sync.RWMutex
	current Session
	present bool
}

func NewManager(repo Repository) *Manager {
	return &Manager{repo: repo}
}

// Restore loads the persisted session into memory. An absent record returns
// ErrNoSession. An expired record is cleared from storage and also reported
// as ErrNoSession, forcing a fresh login.
func (m *Manager) Restore(ctx context.Context) (Session, error) {
	s, err := m.repo.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("loading session: %w", err)
	}

	if !s.Valid(timeNow()) {
		if err := m.repo.Clear(ctx); err != nil {
			return Session{}, fmt.Errorf("clearing expired session: %w", err)
		}
		return Session{}, ErrNoSession
	}

	m.mu.Lock()
	m.current, m.present = s, true
	m.mu.Unlock()
	return s, nil
}

// Current returns the live session, if any.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.present
}

// Replace swaps in a new session and persists it as a total replace of the
// stored record.
func (m *Manager) Replace(ctx context.Context, s Session) error {
	if err := m.repo.Save(ctx, s); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	m.mu.Lock()
	m.current, m.present = s, true
	m.mu.Unlock()
	return nil
}

// Clear drops the live session and removes the stored record. Used on logout
// and on terminal refresh failure.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.current, m.present = Session{}, false
	m.mu.Unlock()

	if err := m.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
