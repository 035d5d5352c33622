package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu      sync.Mutex
	s       Session
	present bool

	loadErr  error
	saveErr  error
	clearErr error

	saveCalls  int
	clearCalls int
}

func (r *fakeRepo) Load(ctx context.Context) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return Session{}, r.loadErr
	}
	if !r.present {
		return Session{}, ErrNoSession
	}
	return r.s, nil
}

func (r *fakeRepo) Save(ctx context.Context, s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.s, r.present = s, true
	return nil
}

func (r *fakeRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearCalls++
	if r.clearErr != nil {
		return r.clearErr
	}
	r.s, r.present = Session{}, false
	return nil
}

func validSession() Session {
	return Session{
		AccessToken:  "token",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour),
		UserID:       1,
		UserName:     "ann",
	}
}

func TestManager_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("absent", func(t *testing.T) {
		m := NewManager(&fakeRepo{})
		_, err := m.Restore(ctx)
		require.ErrorIs(t, err, ErrNoSession)

		_, ok := m.Current()
		assert.False(t, ok)
	})

	t.Run("valid", func(t *testing.T) {
		s := validSession()
		m := NewManager(&fakeRepo{s: s, present: true})

		restored, err := m.Restore(ctx)
		require.NoError(t, err)
		assert.Equal(t, s, restored)

		cur, ok := m.Current()
		require.True(t, ok)
		assert.Equal(t, s, cur)
	})

	t.Run("expired is cleared", func(t *testing.T) {
		s := validSession()
		s.ExpiresAt = time.Now().Add(-time.Minute)
		repo := &fakeRepo{s: s, present: true}
		m := NewManager(repo)

		_, err := m.Restore(ctx)
		require.ErrorIs(t, err, ErrNoSession)
		assert.Equal(t, 1, repo.clearCalls)
		assert.False(t, repo.present)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := &fakeRepo{loadErr: errors.New("disk gone")}
		m := NewManager(repo)

		_, err := m.Restore(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoSession)
	})
}

func TestManager_ReplacePersistsBeforeSwap(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{saveErr: errors.New("disk full")}
	m := NewManager(repo)

	err := m.Replace(ctx, validSession())
	require.Error(t, err)

	// A failed save must not leave a live session memory-only.
	_, ok := m.Current()
	assert.False(t, ok)
}

func TestManager_Replace(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	m := NewManager(repo)

	s := validSession()
	require.NoError(t, m.Replace(ctx, s))

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, s, cur)
	assert.Equal(t, 1, repo.saveCalls)
	assert.Equal(t, s, repo.s)
}

func TestManager_Clear(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	m := NewManager(repo)
	require.NoError(t, m.Replace(ctx, validSession()))

	require.NoError(t, m.Clear(ctx))

	_, ok := m.Current()
	assert.False(t, ok)
	assert.False(t, repo.present)
}
