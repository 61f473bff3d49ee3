// Package bumper schedules the delayed reminder that follows a server bump.
package bumper

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// DefaultPeriod is how long Disboard enforces between bumps.
const DefaultPeriod = 2 * time.Hour

// TimestampStore persists the last confirmed bump time.
type TimestampStore interface {
	LastBump(ctx context.Context) (time.Time, bool, error)
	SetLastBump(ctx context.Context, t time.Time) error
}

// NotifyFunc delivers the reminder once the countdown expires.
type NotifyFunc func(ctx context.Context) error

// Scheduler owns a single re-armable countdown. All state lives in the Run
// loop; arm requests serialize through a channel, so a confirmation that
// arrives mid-countdown replaces the pending timer instead of stacking a
// second one.
type Scheduler struct {
	store  TimestampStore
	notify NotifyFunc
	period time.Duration
	logger *slog.Logger

	arm     chan time.Duration
	running atomic.Bool
}

// New creates a scheduler. A non-positive period falls back to DefaultPeriod.
func New(store TimestampStore, period time.Duration, notify NotifyFunc, logger *slog.Logger) *Scheduler {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Scheduler{
		store:  store,
		notify: notify,
		period: period,
		logger: logger,
		arm:    make(chan time.Duration, 1),
	}
}

// Period returns the configured bump period.
func (s *Scheduler) Period() time.Duration {
	return s.period
}

// Running reports whether a reminder countdown is in flight.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// ComputeInitialDelay returns how long to wait before reminding, given the
// last recorded bump. An absent record (zero lastBump) means the reminder is
// already due. The result is always within [0, period].
func ComputeInitialDelay(now, lastBump time.Time, period time.Duration) time.Duration {
	if lastBump.IsZero() {
		return 0
	}
	elapsed := now.Sub(lastBump)
	if elapsed >= period {
		return 0
	}
	if elapsed <= 0 {
		// Clock skew or a record from the future; wait the full period.
		return period
	}
	return period - elapsed
}

// Resume computes the initial delay from the persisted bump record and arms
// the countdown. Called once after the Run loop is started.
func (s *Scheduler) Resume(ctx context.Context) error {
	last, ok, err := s.store.LastBump(ctx)
	if err != nil {
		return err
	}
	if !ok {
		last = time.Time{}
	}
	s.Arm(ComputeInitialDelay(time.Now(), last, s.period))
	return nil
}

// BumpConfirmed records a confirmed bump at now and arms a fresh countdown.
// The countdown is armed even if the write fails; the error is returned so
// the caller can log it.
func (s *Scheduler) BumpConfirmed(ctx context.Context, now time.Time) error {
	err := s.store.SetLastBump(ctx, now)
	s.Arm(s.period)
	return err
}

// Arm requests a countdown of the given delay. When requests pile up faster
// than the loop consumes them, the latest wins.
func (s *Scheduler) Arm(delay time.Duration) {
	for {
		select {
		case s.arm <- delay:
			return
		default:
			select {
			case <-s.arm:
			default:
			}
		}
	}
}

// Run drives the scheduler until ctx is cancelled. It owns the timer and the
// armed/idle state; a notification failure is logged and the scheduler
// returns to idle without re-arming.
func (s *Scheduler) Run(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.running.Store(false)
			return

		case delay := <-s.arm:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(delay)
			s.running.Store(true)
			s.logger.InfoContext(ctx, "bump reminder armed", "delay", delay.String())

		case <-timer.C:
			s.running.Store(false)
			s.logger.InfoContext(ctx, "bump reminder due")
			if err := s.notify(ctx); err != nil {
				s.logger.ErrorContext(ctx, "failed to deliver bump reminder", "error", err)
			}
		}
	}
}
