package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"unilib-backend/internal/domain"
	"unilib-backend/internal/service"
)

// stubActions counts expiry invocations and reports a canned applied result.
// Setting failures makes the next n invocations return an error first.
type stubActions struct {
	mu       sync.Mutex
	applied  bool
	failures int
	holds    []int32
	usages   []int32
	fired    chan struct{}
}

func newStubActions(applied bool) *stubActions {
	return &stubActions{applied: applied, fired: make(chan struct{}, 8)}
}

func (s *stubActions) ExpireHold(ctx context.Context, reservationID int32) (bool, error) {
	s.mu.Lock()
	s.holds = append(s.holds, reservationID)
	fail := s.failures > 0
	if fail {
		s.failures--
	}
	s.mu.Unlock()
	s.fired <- struct{}{}
	if fail {
		return false, assert.AnError
	}
	return s.applied, nil
}

func (s *stubActions) ExpireUsage(ctx context.Context, reservationID int32) (bool, error) {
	s.mu.Lock()
	s.usages = append(s.usages, reservationID)
	fail := s.failures > 0
	if fail {
		s.failures--
	}
	s.mu.Unlock()
	s.fired <- struct{}{}
	if fail {
		return false, assert.AnError
	}
	return s.applied, nil
}

func (s *stubActions) holdCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.holds)
}

func TestScheduler_ScheduleHoldExpiry(t *testing.T) {
	ctx := context.Background()

	t.Run("Persists the reversion and fires the timer", func(t *testing.T) {
		revRepo := new(MockReversionRepo)
		actions := newStubActions(true)
		sched := service.NewScheduler(revRepo)
		sched.SetActions(actions)
		defer sched.Stop()

		rev := &domain.ScheduledReversion{
			ID: 1, Key: "hold:11", Kind: domain.ReversionKindHoldExpiry,
			ReservationID: 11, FireAt: time.Now(),
		}
		revRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ScheduledReversion")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.ScheduledReversion).ID = 1
			}).Return(nil)
		revRepo.On("GetByKey", mock.Anything, "hold:11").Return(rev, nil)
		revRepo.On("MarkApplied", mock.Anything, int32(1)).Return(nil)

		key, err := sched.ScheduleHoldExpiry(ctx, 11, 10*time.Millisecond)
		assert.NoError(t, err)
		assert.Equal(t, "hold:11", key)

		select {
		case <-actions.fired:
		case <-time.After(2 * time.Second):
			t.Fatal("timer never fired")
		}
		assert.Equal(t, []int32{11}, actions.holds)
	})

	t.Run("Persist failure does not arm a timer", func(t *testing.T) {
		revRepo := new(MockReversionRepo)
		actions := newStubActions(true)
		sched := service.NewScheduler(revRepo)
		sched.SetActions(actions)
		defer sched.Stop()

		revRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ScheduledReversion")).
			Return(assert.AnError)

		key, err := sched.ScheduleHoldExpiry(ctx, 11, time.Millisecond)
		assert.Error(t, err)
		assert.Empty(t, key)

		time.Sleep(50 * time.Millisecond)
		assert.Zero(t, actions.holdCount())
	})
}

func TestScheduler_Cancel(t *testing.T) {
	ctx := context.Background()

	revRepo := new(MockReversionRepo)
	actions := newStubActions(true)
	sched := service.NewScheduler(revRepo)
	sched.SetActions(actions)
	defer sched.Stop()

	revRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ScheduledReversion")).Return(nil)
	revRepo.On("DeleteByKey", mock.Anything, "hold:11").Return(nil)

	_, err := sched.ScheduleHoldExpiry(ctx, 11, time.Hour)
	assert.NoError(t, err)

	err = sched.Cancel(ctx, "hold:11")
	assert.NoError(t, err)
	revRepo.AssertCalled(t, "DeleteByKey", mock.Anything, "hold:11")
	assert.Zero(t, actions.holdCount())
}

func TestScheduler_SweepDue(t *testing.T) {
	ctx := context.Background()

	t.Run("Fires each due reversion through its action", func(t *testing.T) {
		revRepo := new(MockReversionRepo)
		actions := newStubActions(true)
		sched := service.NewScheduler(revRepo)
		sched.SetActions(actions)
		defer sched.Stop()

		hold := domain.ScheduledReversion{
			ID: 1, Key: "hold:11", Kind: domain.ReversionKindHoldExpiry,
			ReservationID: 11, FireAt: time.Now().Add(-time.Minute),
		}
		usage := domain.ScheduledReversion{
			ID: 2, Key: "usage:12", Kind: domain.ReversionKindUsageExpiry,
			ReservationID: 12, FireAt: time.Now().Add(-time.Minute),
		}
		revRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).
			Return([]domain.ScheduledReversion{hold, usage}, nil)
		revRepo.On("GetByKey", ctx, "hold:11").Return(&hold, nil)
		revRepo.On("GetByKey", ctx, "usage:12").Return(&usage, nil)
		revRepo.On("MarkApplied", ctx, int32(1)).Return(nil)
		revRepo.On("MarkApplied", ctx, int32(2)).Return(nil)

		fired, err := sched.SweepDue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 2, fired)
		assert.Equal(t, []int32{11}, actions.holds)
		assert.Equal(t, []int32{12}, actions.usages)
	})

	t.Run("Failed action leaves the row due and the next sweep retries it", func(t *testing.T) {
		revRepo := new(MockReversionRepo)
		actions := newStubActions(true)
		actions.failures = 1
		sched := service.NewScheduler(revRepo)
		sched.SetActions(actions)
		defer sched.Stop()

		hold := domain.ScheduledReversion{
			ID: 1, Key: "hold:11", Kind: domain.ReversionKindHoldExpiry,
			ReservationID: 11, FireAt: time.Now().Add(-time.Minute),
		}
		revRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).
			Return([]domain.ScheduledReversion{hold}, nil)
		revRepo.On("GetByKey", ctx, "hold:11").Return(&hold, nil)
		revRepo.On("MarkApplied", ctx, int32(1)).Return(nil)

		fired, err := sched.SweepDue(ctx)
		assert.NoError(t, err)
		assert.Zero(t, fired)
		revRepo.AssertNotCalled(t, "MarkApplied", ctx, int32(1))

		fired, err = sched.SweepDue(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, fired)
		revRepo.AssertCalled(t, "MarkApplied", ctx, int32(1))
		assert.Equal(t, []int32{11, 11}, actions.holds)
	})

	t.Run("Superseded reversions are settled but not counted", func(t *testing.T) {
		revRepo := new(MockReversionRepo)
		actions := newStubActions(false) // state advanced, nothing to apply
		sched := service.NewScheduler(revRepo)
		sched.SetActions(actions)
		defer sched.Stop()

		hold := domain.ScheduledReversion{
			ID: 1, Key: "hold:11", Kind: domain.ReversionKindHoldExpiry,
			ReservationID: 11, FireAt: time.Now().Add(-time.Minute),
		}
		revRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).
			Return([]domain.ScheduledReversion{hold}, nil)
		revRepo.On("GetByKey", ctx, "hold:11").Return(&hold, nil)
		revRepo.On("MarkApplied", ctx, int32(1)).Return(nil)

		fired, err := sched.SweepDue(ctx)
		assert.NoError(t, err)
		assert.Zero(t, fired)
		assert.Equal(t, []int32{11}, actions.holds)
	})

	t.Run("Rows settled by a racing firing are skipped", func(t *testing.T) {
		revRepo := new(MockReversionRepo)
		actions := newStubActions(true)
		sched := service.NewScheduler(revRepo)
		sched.SetActions(actions)
		defer sched.Stop()

		hold := domain.ScheduledReversion{
			ID: 1, Key: "hold:11", Kind: domain.ReversionKindHoldExpiry,
			ReservationID: 11, FireAt: time.Now().Add(-time.Minute),
		}
		// A timer fired between the list and the re-read.
		settled := hold
		settled.Applied = true
		revRepo.On("ListDue", ctx, mock.AnythingOfType("time.Time")).
			Return([]domain.ScheduledReversion{hold}, nil)
		revRepo.On("GetByKey", ctx, "hold:11").Return(&settled, nil)

		fired, err := sched.SweepDue(ctx)
		assert.NoError(t, err)
		assert.Zero(t, fired)
		assert.Zero(t, actions.holdCount())
		revRepo.AssertNotCalled(t, "MarkApplied", ctx, int32(1))
	})
}

func TestScheduler_Start(t *testing.T) {
	revRepo := new(MockReversionRepo)
	actions := newStubActions(true)
	sched := service.NewScheduler(revRepo)
	sched.SetActions(actions)
	defer sched.Stop()

	overdue := domain.ScheduledReversion{
		ID: 1, Key: "hold:11", Kind: domain.ReversionKindHoldExpiry,
		ReservationID: 11, FireAt: time.Now().Add(-time.Minute),
	}
	future := domain.ScheduledReversion{
		ID: 2, Key: "usage:12", Kind: domain.ReversionKindUsageExpiry,
		ReservationID: 12, FireAt: time.Now().Add(time.Hour),
	}
	revRepo.On("ListPending", mock.Anything).
		Return([]domain.ScheduledReversion{overdue, future}, nil)
	revRepo.On("GetByKey", mock.Anything, "hold:11").Return(&overdue, nil)
	revRepo.On("MarkApplied", mock.Anything, int32(1)).Return(nil)

	err := sched.Start(context.Background())
	assert.NoError(t, err)

	// The overdue reversion fires immediately; the future one stays armed.
	select {
	case <-actions.fired:
	case <-time.After(2 * time.Second):
		t.Fatal("overdue reversion never fired")
	}
	assert.Equal(t, []int32{11}, actions.holds)
	assert.Empty(t, actions.usages)
}
