package reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	slotRepo "github.com/autobay/shop-scheduling-service/internal/infra/storage/slot"
	"github.com/autobay/shop-scheduling-service/pkg/types"
)

// fakeSlotStore emulates the slot table plus the storage contract the
// coordinator relies on: Reserve checks and claims all slots under one lock,
// so it is atomic exactly the way the real FOR UPDATE transaction is.
type fakeSlotStore struct {
	mu    sync.Mutex
	slots map[string]*domain.Slot // key: "date|start"
}

func slotKey(date time.Time, start types.TimeString) string {
	return date.Format(domain.DateFormat) + "|" + start.String()
}

func newFakeSlotStore(date time.Time, bayID int64, starts ...string) *fakeSlotStore {
	store := &fakeSlotStore{slots: make(map[string]*domain.Slot)}
	for _, s := range starts {
		start := types.TimeString(s)
		end, _ := start.AddMinutes(30)
		store.slots[slotKey(date, start)] = &domain.Slot{
			BayID:       bayID,
			Date:        date,
			StartTime:   start,
			EndTime:     end,
			IsAvailable: true,
		}
	}
	return store
}

func (f *fakeSlotStore) Reserve(_ context.Context, bayID int64, date time.Time, starts []types.TimeString, appointmentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	claimed := make([]*domain.Slot, 0, len(starts))
	for _, start := range starts {
		s, ok := f.slots[slotKey(date, start)]
		if !ok || s.BayID != bayID {
			return slotRepo.ErrMissingInventory
		}
		if !s.IsAvailable && (s.AppointmentID == nil || *s.AppointmentID != appointmentID) {
			return slotRepo.ErrSlotNotAvailable
		}
		claimed = append(claimed, s)
	}
	for _, s := range claimed {
		id := appointmentID
		s.IsAvailable = false
		s.AppointmentID = &id
	}
	return nil
}

func (f *fakeSlotStore) Release(_ context.Context, appointmentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.slots {
		if s.AppointmentID != nil && *s.AppointmentID == appointmentID {
			s.IsAvailable = true
			s.AppointmentID = nil
		}
	}
	return nil
}

func (f *fakeSlotStore) GetByAppointment(_ context.Context, appointmentID int64) ([]*domain.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	owned := make([]*domain.Slot, 0)
	for _, s := range f.slots {
		if s.AppointmentID != nil && *s.AppointmentID == appointmentID {
			copied := *s
			owned = append(owned, &copied)
		}
	}
	return owned, nil
}

func (f *fakeSlotStore) ownedStarts(appointmentID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	starts := make([]string, 0)
	for _, s := range f.slots {
		if s.AppointmentID != nil && *s.AppointmentID == appointmentID {
			starts = append(starts, s.StartTime.String())
		}
	}
	return starts
}

func (f *fakeSlotStore) snapshot() map[string]domain.Slot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := make(map[string]domain.Slot, len(f.slots))
	for k, s := range f.slots {
		copied := *s
		if s.AppointmentID != nil {
			id := *s.AppointmentID
			copied.AppointmentID = &id
		}
		snap[k] = copied
	}
	return snap
}

func (f *fakeSlotStore) restore(snap map[string]domain.Slot) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for k, s := range snap {
		copied := s
		f.slots[k] = &copied
	}
}

// fakeTxManager honors the transactional contract against the fake store:
// on error the store is rolled back to its pre-transaction state.
type fakeTxManager struct {
	mu    sync.Mutex
	store *fakeSlotStore
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

type fakeApptRepo struct {
	mu        sync.Mutex
	schedules map[int64]Window
	cancelled map[int64]string
	fail      error
}

func (f *fakeApptRepo) UpdateSchedule(_ context.Context, id int64, bayID int64, date time.Time, start types.TimeString) error {
	if f.fail != nil {
		return f.fail
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.schedules == nil {
		f.schedules = make(map[int64]Window)
	}
	f.schedules[id] = Window{BayID: bayID, Date: date, StartTime: start}
	return nil
}

func (f *fakeApptRepo) Cancel(_ context.Context, id int64, reason string) error {
	if f.fail != nil {
		return f.fail
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelled == nil {
		f.cancelled = make(map[int64]string)
	}
	f.cancelled[id] = reason
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(store *fakeSlotStore, apptRepo AppointmentRepository) *Service {
	if apptRepo == nil {
		apptRepo = &fakeApptRepo{}
	}
	return NewService(store, apptRepo, &fakeTxManager{store: store}, 30, nopLogger{})
}

func day(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC) // a Monday
}

func TestReserve_ClaimsContiguousBlock(t *testing.T) {
	date := day(t)
	store := newFakeSlotStore(date, 1, "09:00", "09:30", "10:00", "10:30")
	svc := newTestService(store, nil)

	// 65 minutes on a 30-minute grid claims exactly 3 slots.
	err := svc.Reserve(context.Background(), 42, Window{BayID: 1, Date: date, StartTime: "09:00", DurationMinutes: 65})
	require.NoError(t, err)

	owned := store.ownedStarts(42)
	assert.ElementsMatch(t, []string{"09:00", "09:30", "10:00"}, owned)
}

func TestReserve_ConflictLeavesNoPartialEffect(t *testing.T) {
	date := day(t)
	store := newFakeSlotStore(date, 1, "09:00", "09:30", "10:00")
	svc := newTestService(store, nil)

	// A competitor already holds 10:00.
	require.NoError(t, svc.Reserve(context.Background(), 7, Window{BayID: 1, Date: date, StartTime: "10:00", DurationMinutes: 30}))

	err := svc.Reserve(context.Background(), 42, Window{BayID: 1, Date: date, StartTime: "09:00", DurationMinutes: 90})
	assert.ErrorIs(t, err, ErrWindowUnavailable)

	// The losing appointment must own nothing, including the slots that were
	// individually free.
	assert.Empty(t, store.ownedStarts(42))
	assert.ElementsMatch(t, []string{"10:00"}, store.ownedStarts(7))
}

func TestReserve_MissingInventory(t *testing.T) {
	date := day(t)
	store := newFakeSlotStore(date, 1, "09:00")
	svc := newTestService(store, nil)

	err := svc.Reserve(context.Background(), 42, Window{BayID: 1, Date: date, StartTime: "09:00", DurationMinutes: 60})
	assert.ErrorIs(t, err, ErrNoInventory)
	assert.Empty(t, store.ownedStarts(42))
}

func TestReserve_IdempotentForSameAppointment(t *testing.T) {
	date := day(t)
	store := newFakeSlotStore(date, 1, "09:00", "09:30")
	svc := newTestService(store, nil)

	w := Window{BayID: 1, Date: date, StartTime: "09:00", DurationMinutes: 60}
	require.NoError(t, svc.Reserve(context.Background(), 42, w))

	// A retry after an ambiguous timeout must succeed, not conflict with
	// itself.
	require.NoError(t, svc.Reserve(context.Background(), 42, w))
	assert.ElementsMatch(t, []string{"09:00", "09:30"}, store.ownedStarts(42))
}

func TestReserve_ConcurrentCallersExactlyOneWinner(t *testing.T) {
	date := day(t)
	store := newFakeSlotStore(date, 1, "10:00", "10:30")
	svc := newTestService(store, nil)

	const callers = 16
	results := make(chan error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(appointmentID int64) {
			defer wg.Done()
			results <- svc.Reserve(context.Background(), appointmentID,
				Window{BayID: 1, Date: date, StartTime: "10:00", DurationMinutes: 60})
		}(int64(100 + i))
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, ErrWindowUnavailable):
			conflicts++
		}
	}

	assert.Equal(t, 1, successes, "exactly one concurrent caller may win")
	assert.Equal(t, callers-1, conflicts)

	// The winner owns both slots; the slot table is internally consistent.
	var owner int64
	for _, s := range store.snapshot() {
		require.False(t, s.IsAvailable)
		require.NotNil(t, s.AppointmentID)
		if owner == 0 {
			owner = *s.AppointmentID
		}
		assert.Equal(t, owner, *s.AppointmentID, "both slots owned by the same winner")
	}
}

func TestRelease_FreesSlotsForRebooking(t *testing.T) {
	date := day(t)
	store := newFakeSlotStore(date, 1, "09:00", "09:30")
	svc := newTestService(store, nil)

	require.NoError(t, svc.Reserve(context.Background(), 42, Window{BayID: 1, Date: date, StartTime: "09:00", DurationMinutes: 60}))
	require.NoError(t, svc.Release(context.Background(), 42))

	// The next booker gets the freed window.
	require.NoError(t, svc.Reserve(context.Background(), 43, Window{BayID: 1, Date: date, StartTime: "09:00", DurationMinutes: 60}))
	assert.ElementsMatch(t, []string{"09:00", "09:30"}, store.ownedStarts(43))
}

func TestCancel_ReleasesSlotsAndMarksCancelled(t *testing.T) {
	date := day(t)
	store := newFakeSlotStore(date, 1, "09:00", "09:30")
	apptRepo := &fakeApptRepo{}
	svc := newTestService(store, apptRepo)

	require.NoError(t, svc.Reserve(context.Background(), 42, Window{BayID: 1, Date: date, StartTime: "09:00", DurationMinutes: 60}))
	require.NoError(t, svc.Cancel(context.Background(), 42, "customer request"))

	assert.Empty(t, store.ownedStarts(42))
	assert.Equal(t, "customer request", apptRepo.cancelled[42])
}

func TestCancel_StatusFailureKeepsSlots(t *testing.T) {
	date := day(t)
	store := newFakeSlotStore(date, 1, "09:00")
	apptRepo := &fakeApptRepo{fail: errors.New("pq: connection reset")}
	svc := newTestService(store, apptRepo)

	require.NoError(t, svc.Reserve(context.Background(), 42, Window{BayID: 1, Date: date, StartTime: "09:00", DurationMinutes: 30}))

	err := svc.Cancel(context.Background(), 42, "customer request")
	assert.ErrorIs(t, err, ErrInternal)
	// Rolled back: the appointment still owns its slot.
	assert.ElementsMatch(t, []string{"09:00"}, store.ownedStarts(42))
}

func TestTransfer_MovesOwnershipAtomically(t *testing.T) {
	date := day(t)
	store := newFakeSlotStore(date, 1, "09:00", "09:30", "13:00", "13:30")
	apptRepo := &fakeApptRepo{}
	svc := newTestService(store, apptRepo)

	require.NoError(t, svc.Reserve(context.Background(), 42, Window{BayID: 1, Date: date, StartTime: "09:00", DurationMinutes: 60}))

	err := svc.Transfer(context.Background(), 42, Window{BayID: 1, Date: date, StartTime: "13:00", DurationMinutes: 60})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"13:00", "13:30"}, store.ownedStarts(42))
	assert.Equal(t, types.TimeString("13:00"), apptRepo.schedules[42].StartTime)
}

func TestTransfer_FailureRestoresOriginalOwnership(t *testing.T) {
	date := day(t)
	store := newFakeSlotStore(date, 1, "09:00", "09:30", "13:00", "13:30")
	svc := newTestService(store, nil)

	require.NoError(t, svc.Reserve(context.Background(), 42, Window{BayID: 1, Date: date, StartTime: "09:00", DurationMinutes: 60}))
	// A competitor takes part of the target window.
	require.NoError(t, svc.Reserve(context.Background(), 7, Window{BayID: 1, Date: date, StartTime: "13:30", DurationMinutes: 30}))

	err := svc.Transfer(context.Background(), 42, Window{BayID: 1, Date: date, StartTime: "13:00", DurationMinutes: 60})
	assert.ErrorIs(t, err, ErrWindowUnavailable)

	// No net change observable to anyone else: the appointment still owns
	// its original block.
	assert.ElementsMatch(t, []string{"09:00", "09:30"}, store.ownedStarts(42))
	assert.ElementsMatch(t, []string{"13:30"}, store.ownedStarts(7))
}

func TestExtend(t *testing.T) {
	date := day(t)

	t.Run("claims trailing slots", func(t *testing.T) {
		store := newFakeSlotStore(date, 1, "09:00", "09:30", "10:00")
		svc := newTestService(store, nil)
		w := Window{BayID: 1, Date: date, StartTime: "09:00", DurationMinutes: 60}
		require.NoError(t, svc.Reserve(context.Background(), 42, w))

		require.NoError(t, svc.Extend(context.Background(), 42, w, 90))
		assert.ElementsMatch(t, []string{"09:00", "09:30", "10:00"}, store.ownedStarts(42))
	})

	t.Run("no-op when the block already covers the new duration", func(t *testing.T) {
		store := newFakeSlotStore(date, 1, "09:00", "09:30")
		svc := newTestService(store, nil)
		w := Window{BayID: 1, Date: date, StartTime: "09:00", DurationMinutes: 50}
		require.NoError(t, svc.Reserve(context.Background(), 42, w))

		// 50 -> 55 minutes still fits in two 30-minute slots.
		require.NoError(t, svc.Extend(context.Background(), 42, w, 55))
		assert.ElementsMatch(t, []string{"09:00", "09:30"}, store.ownedStarts(42))
	})

	t.Run("trailing conflict keeps original block", func(t *testing.T) {
		store := newFakeSlotStore(date, 1, "09:00", "09:30", "10:00")
		svc := newTestService(store, nil)
		w := Window{BayID: 1, Date: date, StartTime: "09:00", DurationMinutes: 60}
		require.NoError(t, svc.Reserve(context.Background(), 42, w))
		require.NoError(t, svc.Reserve(context.Background(), 7, Window{BayID: 1, Date: date, StartTime: "10:00", DurationMinutes: 30}))

		err := svc.Extend(context.Background(), 42, w, 90)
		assert.ErrorIs(t, err, ErrWindowUnavailable)
		assert.ElementsMatch(t, []string{"09:00", "09:30"}, store.ownedStarts(42))
	})
}
