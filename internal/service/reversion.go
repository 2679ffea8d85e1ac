package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/logger"
	"unilib-backend/internal/repository"
)

// ReversionActions is the subset of the reservation lifecycle the scheduler
// fires into. Split out so the scheduler does not depend on the full
// ReservationService (which itself depends on the scheduler).
type ReversionActions interface {
	ExpireHold(ctx context.Context, reservationID int32) (bool, error)
	ExpireUsage(ctx context.Context, reservationID int32) (bool, error)
}

// Scheduler persists every reversion before arming an in-process timer, so a
// restart loses the timer but never the obligation: Start re-arms pending
// rows and the periodic sweep catches anything whose fire-at passed while the
// process was down.
type Scheduler struct {
	revRepo repository.ReversionRepository
	actions ReversionActions

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

func NewScheduler(revRepo repository.ReversionRepository) *Scheduler {
	return &Scheduler{
		revRepo: revRepo,
		timers:  make(map[string]*time.Timer),
	}
}

// SetActions wires the reservation lifecycle in after construction; the two
// components reference each other.
func (s *Scheduler) SetActions(actions ReversionActions) {
	s.actions = actions
}

// Start re-arms timers for every unapplied reversion on record. Due rows fire
// immediately through the same path the sweep uses.
func (s *Scheduler) Start(ctx context.Context) error {
	pending, err := s.revRepo.ListPending(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, rev := range pending {
		delay := rev.FireAt.Sub(now)
		if delay < 0 {
			delay = 0
		}
		s.arm(rev.Key, delay)
	}
	logger.Info("Reversion scheduler started", "pending", len(pending))
	return nil
}

// Stop drops all in-process timers. Persisted rows stay; the next Start or
// sweep picks them up.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}
}

func (s *Scheduler) ScheduleHoldExpiry(ctx context.Context, reservationID int32, delay time.Duration) (string, error) {
	return s.schedule(ctx, domain.ReversionKindHoldExpiry, holdKey(reservationID), reservationID, delay)
}

func (s *Scheduler) ScheduleUsageExpiry(ctx context.Context, reservationID int32, delay time.Duration) (string, error) {
	return s.schedule(ctx, domain.ReversionKindUsageExpiry, usageKey(reservationID), reservationID, delay)
}

func (s *Scheduler) schedule(ctx context.Context, kind domain.ReversionKind, key string, reservationID int32, delay time.Duration) (string, error) {
	rev := &domain.ScheduledReversion{
		Key:           key,
		Kind:          kind,
		ReservationID: reservationID,
		FireAt:        time.Now().Add(delay),
	}
	if err := s.revRepo.Create(ctx, rev); err != nil {
		return "", err
	}
	s.arm(key, delay)
	logger.Debug("Reversion scheduled", "key", key, "kind", kind, "fire_at", rev.FireAt)
	return key, nil
}

// Cancel stops the timer and removes the record. Cancelling a reversion that
// already fired or never existed is a no-op.
func (s *Scheduler) Cancel(ctx context.Context, key string) error {
	s.mu.Lock()
	if timer, ok := s.timers[key]; ok {
		timer.Stop()
		delete(s.timers, key)
	}
	s.mu.Unlock()

	return s.revRepo.DeleteByKey(ctx, key)
}

// SweepDue fires every persisted reversion whose fire-at has passed. The
// cron job calls this; it is also what recovers obligations that were due
// while the process was down.
func (s *Scheduler) SweepDue(ctx context.Context) (int, error) {
	due, err := s.revRepo.ListDue(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	fired := 0
	for _, rev := range due {
		if s.fire(ctx, rev.Key) {
			fired++
		}
	}
	return fired, nil
}

func (s *Scheduler) arm(key string, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if old, ok := s.timers[key]; ok {
		old.Stop()
	}
	s.timers[key] = time.AfterFunc(delay, func() {
		s.fire(context.Background(), key)
	})
}

// fire runs the action, then settles the persisted row. The action itself is
// the race guard: it re-checks current state behind a conditional write, so a
// timer and a sweep firing the same key apply at most once. The row is marked
// applied only after the action returns cleanly; an action that fails leaves
// the row due, and the next sweep retries it.
func (s *Scheduler) fire(ctx context.Context, key string) bool {
	s.mu.Lock()
	delete(s.timers, key)
	s.mu.Unlock()

	rev, err := s.revRepo.GetByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Error("Failed to load reversion", "key", key, "error", err)
		}
		return false
	}
	if rev.Applied {
		return false
	}

	var applied bool
	switch rev.Kind {
	case domain.ReversionKindHoldExpiry:
		applied, err = s.actions.ExpireHold(ctx, rev.ReservationID)
	case domain.ReversionKindUsageExpiry:
		applied, err = s.actions.ExpireUsage(ctx, rev.ReservationID)
	default:
		logger.Error("Unknown reversion kind", "key", key, "kind", rev.Kind)
		return false
	}
	if err != nil {
		logger.Error("Reversion action failed, row stays due for retry",
			"key", key, "kind", rev.Kind, "error", err)
		return false
	}

	if err := s.revRepo.MarkApplied(ctx, rev.ID); err != nil && !errors.Is(err, domain.ErrConflict) {
		logger.Error("Failed to settle reversion", "key", key, "error", err)
	}

	if !applied {
		logger.Info("Reversion superseded, nothing to apply",
			"key", key, "kind", rev.Kind, "reservation_id", rev.ReservationID)
		return false
	}

	logger.Info("Reversion applied", "key", key, "kind", rev.Kind,
		"reservation_id", rev.ReservationID)
	return true
}
