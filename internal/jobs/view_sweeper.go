package jobs

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultSweepInterval is used when no interval is configured
const DefaultSweepInterval = time.Minute

// Sweeper closes expired views and reports how many it closed
type Sweeper interface {
	Sweep(now time.Time) int
}

// ViewSweeper periodically closes views that have been idle past their TTL
type ViewSweeper struct {
	views    Sweeper
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// ViewSweeperConfig holds configuration for the sweeper
type ViewSweeperConfig struct {
	Views    Sweeper
	Interval time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
}

// NewViewSweeper creates a new view sweeper job
func NewViewSweeper(cfg ViewSweeperConfig) *ViewSweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSweepInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &ViewSweeper{
		views:    cfg.Views,
		interval: cfg.Interval,
		now:      cfg.Now,
		logger:   cfg.Logger,
		stopCh:   make(chan struct{}),
	}
}

// Start begins sweeping on a ticker. Calling it again while running is a
// no-op.
func (s *ViewSweeper) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
	s.logger.Info("view sweeper started", slog.Duration("interval", s.interval))
}

// Stop halts the ticker and waits for an in-flight sweep to finish
func (s *ViewSweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("view sweeper stopped")
}

// run is the main loop
func (s *ViewSweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce()
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce sweeps immediately and returns how many views were closed
func (s *ViewSweeper) RunOnce() int {
	closed := s.views.Sweep(s.now())
	if closed > 0 {
		s.logger.Info("expired views closed", slog.Int("count", closed))
	}
	return closed
}

// IsRunning returns whether the sweeper is running
func (s *ViewSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
