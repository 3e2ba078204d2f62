package sweeper

import (
	"context"
	"time"

	"github.com/clck-dev/clck/internal/logger"
	"github.com/clck-dev/clck/internal/model"
)

// Evictor is the slice of the registry the sweeper drives: remove
// everything expired as of now and report what went.
type Evictor interface {
	EvictExpired(now time.Time) []*model.Link
}

// Config holds sweeper scheduling settings.
type Config struct {
	Interval     time.Duration // time between sweeps
	InitialDelay time.Duration // pause before the first sweep
}

// Sweeper periodically evicts expired links. It owns no state beyond
// its schedule; evictions and notifications go through the store's
// own primitives, so a sweep racing foreign callers stays safe.
type Sweeper struct {
	store        Evictor
	interval     time.Duration
	initialDelay time.Duration
	log          *logger.Logger
	now          func() time.Time
}

// New creates a sweeper for the given store.
func New(cfg Config, store Evictor, log *logger.Logger) *Sweeper {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{
		store:        store,
		interval:     interval,
		initialDelay: cfg.InitialDelay,
		log:          log,
		now:          time.Now,
	}
}

// Run blocks, sweeping on the configured schedule until ctx is
// cancelled. A failing sweep is logged and the schedule continues.
func (s *Sweeper) Run(ctx context.Context) {
	s.log.Info("sweeper started",
		"interval", s.interval.String(),
		"initial_delay", s.initialDelay.String())

	if s.initialDelay > 0 {
		select {
		case <-time.After(s.initialDelay):
		case <-ctx.Done():
			s.log.Info("sweeper stopped before first run")
			return
		}
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return
		}
	}
}

// sweep runs one eviction pass. Panics are contained here so a bad
// run can never kill the schedule.
func (s *Sweeper) sweep() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("sweep failed", "panic", r)
		}
	}()

	evicted := s.store.EvictExpired(s.now())
	if len(evicted) > 0 {
		s.log.Info("expired links evicted", "count", len(evicted))
	}
}
