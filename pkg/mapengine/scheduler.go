package mapengine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultFastTick = 30 * time.Millisecond
	DefaultSlowTick = 5 * time.Second
)

// World is what the scheduler drives.
type World interface {
	Advance(factor float64) int
	AddRandomAttack(source string)
}

// Scheduler runs the periodic actions: the fast tick advancing progress, the
// slow tick generating a random attack, and the optional demo tick that
// mimics someone pressing the simulate button.
//
// Progress advances by a fixed amount per fast tick rather than by measured
// elapsed time. Ticks come from a wall-clock ticker, so the animation does
// not depend on the render frame rate, but a tick the ticker drops is a
// step lost.
type Scheduler struct {
	World    World
	FastTick time.Duration
	SlowTick time.Duration
	DemoTick time.Duration // 0 disables

	// OnRedraw is called after every state change.
	OnRedraw func()
	Logger   *slog.Logger
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	fast, slow := s.FastTick, s.SlowTick
	if fast <= 0 {
		fast = DefaultFastTick
	}
	if slow <= 0 {
		slow = DefaultSlowTick
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Scheduler started",
		slog.Duration("fast_tick", fast),
		slog.Duration("slow_tick", slow),
		slog.Duration("demo_tick", s.DemoTick))

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return every(ctx, fast, func() {
			s.World.Advance(1)
			s.redraw()
		})
	})
	eg.Go(func() error {
		return every(ctx, slow, func() {
			s.World.AddRandomAttack(SourceTimer)
			s.redraw()
		})
	})
	if s.DemoTick > 0 {
		eg.Go(func() error {
			return every(ctx, s.DemoTick, func() {
				s.World.AddRandomAttack(SourceDemo)
				s.redraw()
			})
		})
	}
	err := eg.Wait()
	logger.Info("Scheduler stopped")
	return err
}

func (s *Scheduler) redraw() {
	if s.OnRedraw != nil {
		s.OnRedraw()
	}
}

func every(ctx context.Context, period time.Duration, fn func()) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fn()
		}
	}
}
