package jobs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/ems/api/internal/model"
	"github.com/forgo/ems/api/internal/service"
)

type mockSweeper struct {
	mu    sync.Mutex
	calls []time.Time
	n     int
}

func (m *mockSweeper) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, now)
	return m.n
}

func (m *mockSweeper) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func TestViewSweeper_RunOnce_UsesClock(t *testing.T) {
	t.Parallel()

	at := time.Date(2030, 5, 14, 9, 0, 0, 0, time.UTC)
	views := &mockSweeper{n: 2}
	s := NewViewSweeper(ViewSweeperConfig{Views: views, Now: func() time.Time { return at }})

	assert.Equal(t, 2, s.RunOnce())
	require.Len(t, views.calls, 1)
	assert.Equal(t, at, views.calls[0])
}

func TestViewSweeper_DefaultInterval(t *testing.T) {
	t.Parallel()
	s := NewViewSweeper(ViewSweeperConfig{Views: &mockSweeper{}})
	assert.Equal(t, DefaultSweepInterval, s.interval)
}

func TestViewSweeper_StartStop(t *testing.T) {
	t.Parallel()

	views := &mockSweeper{}
	s := NewViewSweeper(ViewSweeperConfig{Views: views, Interval: 5 * time.Millisecond})

	s.Start()
	s.Start()
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool { return views.count() >= 2 }, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
	assert.False(t, s.IsRunning())

	after := views.count()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, views.count(), "no sweeps after Stop")
}

func TestViewSweeper_ClosesExpiredRegistryViews(t *testing.T) {
	t.Parallel()

	now := time.Date(2030, 5, 14, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	event := &model.Event{ID: "e1", Title: "Conf"}
	registry := service.NewViewRegistry(service.ViewRegistryConfig{
		Repo: &stubRepo{event: event},
		TTL:  10 * time.Minute,
		Now:  clock,
	})

	user := model.NewUser("a@x.com", "ROLE_ATTENDEE")
	view, _, err := registry.Open(t.Context(), user, "e1")
	require.NoError(t, err)

	s := NewViewSweeper(ViewSweeperConfig{Views: registry, Now: func() time.Time { return now.Add(5 * time.Minute) }})
	assert.Equal(t, 0, s.RunOnce())

	s = NewViewSweeper(ViewSweeperConfig{Views: registry, Now: func() time.Time { return now.Add(11 * time.Minute) }})
	assert.Equal(t, 1, s.RunOnce())
	assert.True(t, view.Sync.Detached())
	assert.Equal(t, 0, registry.Len())
}
