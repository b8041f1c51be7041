package search_availability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobay/shop-scheduling-service/internal/config"
	"github.com/autobay/shop-scheduling-service/internal/domain"
	catalogRepo "github.com/autobay/shop-scheduling-service/internal/infra/storage/servicecatalog"
	"github.com/autobay/shop-scheduling-service/pkg/types"
)

type fakeCatalog struct {
	services map[int64]*domain.Service
}

func (f *fakeCatalog) GetByIDs(_ context.Context, ids []int64) ([]*domain.Service, error) {
	out := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		svc, ok := f.services[id]
		if !ok {
			return nil, fmt.Errorf("%w: id=%d", catalogRepo.ErrServiceNotFound, id)
		}
		out = append(out, svc)
	}
	return out, nil
}

type fakeBayRepo struct {
	bays []*domain.Bay
}

func (f *fakeBayRepo) ListActiveByType(_ context.Context, bayType domain.BayType) ([]*domain.Bay, error) {
	out := make([]*domain.Bay, 0)
	for _, b := range f.bays {
		if b.BayType == bayType {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeSlotRepo struct {
	// key: "bayID|date"
	slots map[string][]*domain.Slot
}

func slotsKey(bayID int64, date time.Time) string {
	return fmt.Sprintf("%d|%s", bayID, date.Format(domain.DateFormat))
}

func (f *fakeSlotRepo) GetAvailableByBayAndDate(_ context.Context, bayID int64, date time.Time) ([]*domain.Slot, error) {
	return f.slots[slotsKey(bayID, date)], nil
}

// grid adds a run of free 30-minute slots starting at each given time.
func (f *fakeSlotRepo) grid(bayID int64, date time.Time, starts ...string) {
	if f.slots == nil {
		f.slots = make(map[string][]*domain.Slot)
	}
	for _, s := range starts {
		start := types.TimeString(s)
		end, _ := start.AddMinutes(30)
		f.slots[slotsKey(bayID, date)] = append(f.slots[slotsKey(bayID, date)], &domain.Slot{
			BayID:       bayID,
			Date:        date,
			StartTime:   start,
			EndTime:     end,
			IsAvailable: true,
		})
	}
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testHours() config.Hours {
	return config.Hours{
		OpenDays: map[time.Weekday]bool{
			time.Monday: true, time.Tuesday: true, time.Wednesday: true,
			time.Thursday: true, time.Friday: true,
		},
		OpenTime:         types.TimeString("08:00"),
		CloseTime:        types.TimeString("16:00"),
		SlotGranularity:  30,
		MinLeadTime:      30,
		MaxSearchResults: 10,
	}
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{services: map[int64]*domain.Service{
		1: {ID: 1, Name: "Oil Change", DurationMinutes: 30, RequiredBayType: domain.BayTypeGeneral, RequiredSkillLevel: domain.SkillJunior, Price: 49.99, IsActive: true},
		2: {ID: 2, Name: "Tire Rotation", DurationMinutes: 35, RequiredBayType: domain.BayTypeGeneral, RequiredSkillLevel: domain.SkillJunior, Price: 29.99, IsActive: true},
		3: {ID: 3, Name: "Wheel Alignment", DurationMinutes: 60, RequiredBayType: domain.BayTypeAlignment, RequiredSkillLevel: domain.SkillSenior, Price: 119.99, IsActive: true},
	}}
}

func newUseCase(catalog *fakeCatalog, bays *fakeBayRepo, slots *fakeSlotRepo, now time.Time) *UseCase {
	uc := NewUseCase(catalog, bays, slots, testHours(),
		domain.DefaultBayTypeRanking(), domain.DefaultSkillRanking(), nopLogger{})
	uc.timeProvider = fixedClock{now}
	return uc
}

var (
	monday = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	// Well before the Monday day starts, so lead time never interferes
	// unless a test wants it to.
	friday = time.Date(2026, 3, 13, 12, 0, 0, 0, time.UTC)
)

func generalBays(ids ...int64) *fakeBayRepo {
	repo := &fakeBayRepo{}
	for _, id := range ids {
		repo.bays = append(repo.bays, &domain.Bay{ID: id, BayType: domain.BayTypeGeneral, IsActive: true})
	}
	return repo
}

func TestExecute_FindsConsecutiveWindows(t *testing.T) {
	slots := &fakeSlotRepo{}
	slots.grid(1, monday, "09:00", "09:30", "10:00", "10:30")
	uc := newUseCase(testCatalog(), generalBays(1), slots, friday)

	// 30+35 = 65 minutes needs 3 consecutive slots.
	resp, err := uc.Execute(context.Background(), &Request{
		ServiceIDs: []int64{1, 2},
		StartDate:  monday,
	})
	require.NoError(t, err)

	assert.True(t, resp.Available)
	require.Len(t, resp.Windows, 2)
	assert.Equal(t, types.TimeString("09:00"), resp.Windows[0].StartTime)
	assert.Equal(t, types.TimeString("10:30"), resp.Windows[0].EndTime)
	assert.Equal(t, types.TimeString("09:30"), resp.Windows[1].StartTime)
	assert.Equal(t, 65, resp.Windows[0].DurationMinutes)
}

func TestExecute_GapBreaksTheRun(t *testing.T) {
	slots := &fakeSlotRepo{}
	// 10:00 is booked: 09:00-10:00 and 10:30-11:30 remain.
	slots.grid(1, monday, "09:00", "09:30", "10:30", "11:00")
	uc := newUseCase(testCatalog(), generalBays(1), slots, friday)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceIDs: []int64{1, 2},
		StartDate:  monday,
	})
	require.NoError(t, err)

	assert.False(t, resp.Available)
	assert.Empty(t, resp.Windows)
}

func TestExecute_EmptyScheduleIsSuccess(t *testing.T) {
	uc := newUseCase(testCatalog(), generalBays(1), &fakeSlotRepo{}, friday)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceIDs: []int64{1},
		StartDate:  monday,
	})
	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Empty(t, resp.Windows)
}

func TestExecute_DeduplicatesAcrossBays(t *testing.T) {
	slots := &fakeSlotRepo{}
	slots.grid(1, monday, "09:00")
	slots.grid(2, monday, "09:00", "09:30")
	uc := newUseCase(testCatalog(), generalBays(1, 2), slots, friday)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceIDs: []int64{1},
		StartDate:  monday,
	})
	require.NoError(t, err)

	// One option per start time; 09:00 resolves to the lowest bay id.
	require.Len(t, resp.Windows, 2)
	assert.Equal(t, int64(1), resp.Windows[0].BayID)
	assert.Equal(t, types.TimeString("09:00"), resp.Windows[0].StartTime)
	assert.Equal(t, int64(2), resp.Windows[1].BayID)
}

func TestExecute_ResultCap(t *testing.T) {
	slots := &fakeSlotRepo{}
	slots.grid(1, monday, "08:00", "08:30", "09:00", "09:30", "10:00", "10:30")
	uc := newUseCase(testCatalog(), generalBays(1), slots, friday)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceIDs: []int64{1},
		StartDate:  monday,
		MaxResults: 2,
	})
	require.NoError(t, err)

	require.Len(t, resp.Windows, 2)
	assert.Equal(t, types.TimeString("08:00"), resp.Windows[0].StartTime)
	assert.Equal(t, types.TimeString("08:30"), resp.Windows[1].StartTime)
}

func TestExecute_LeadTimeExcludesImminentStarts(t *testing.T) {
	slots := &fakeSlotRepo{}
	slots.grid(1, monday, "09:00", "09:30", "10:00")
	// Searching on the day itself at 08:45 with a 30-minute lead time.
	now := time.Date(2026, 3, 16, 8, 45, 0, 0, time.UTC)
	uc := newUseCase(testCatalog(), generalBays(1), slots, now)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceIDs: []int64{1},
		StartDate:  monday,
	})
	require.NoError(t, err)

	// 09:00 is 15 minutes away, inside the lead window.
	require.Len(t, resp.Windows, 2)
	assert.Equal(t, types.TimeString("09:30"), resp.Windows[0].StartTime)
}

func TestExecute_TimePreference(t *testing.T) {
	slots := &fakeSlotRepo{}
	slots.grid(1, monday, "09:00", "13:00")
	uc := newUseCase(testCatalog(), generalBays(1), slots, friday)

	morning, err := uc.Execute(context.Background(), &Request{
		ServiceIDs:     []int64{1},
		StartDate:      monday,
		TimePreference: PreferenceMorning,
	})
	require.NoError(t, err)
	require.Len(t, morning.Windows, 1)
	assert.Equal(t, types.TimeString("09:00"), morning.Windows[0].StartTime)

	afternoon, err := uc.Execute(context.Background(), &Request{
		ServiceIDs:     []int64{1},
		StartDate:      monday,
		TimePreference: PreferenceAfternoon,
	})
	require.NoError(t, err)
	require.Len(t, afternoon.Windows, 1)
	assert.Equal(t, types.TimeString("13:00"), afternoon.Windows[0].StartTime)
}

func TestExecute_RangeSkipsClosedDays(t *testing.T) {
	saturday := time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC)
	nextMonday := time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC)

	slots := &fakeSlotRepo{}
	slots.grid(1, saturday, "09:00")
	slots.grid(1, nextMonday, "09:00")
	uc := newUseCase(testCatalog(), generalBays(1), slots, friday)

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceIDs: []int64{1},
		StartDate:  saturday,
		EndDate:    nextMonday,
	})
	require.NoError(t, err)

	require.Len(t, resp.Windows, 1)
	assert.Equal(t, "2026-03-23", resp.Windows[0].Date)
}

func TestExecute_MostSpecializedBayWins(t *testing.T) {
	slots := &fakeSlotRepo{}
	slots.grid(1, monday, "09:00", "09:30", "10:00")  // general bay
	slots.grid(10, monday, "09:00", "09:30", "10:00") // alignment bay

	bays := &fakeBayRepo{bays: []*domain.Bay{
		{ID: 1, BayType: domain.BayTypeGeneral, IsActive: true},
		{ID: 10, BayType: domain.BayTypeAlignment, IsActive: true},
	}}
	uc := newUseCase(testCatalog(), bays, slots, friday)

	// Oil change + alignment: the whole visit runs in the alignment bay.
	resp, err := uc.Execute(context.Background(), &Request{
		ServiceIDs: []int64{1, 3},
		StartDate:  monday,
	})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Windows)
	for _, w := range resp.Windows {
		assert.Equal(t, int64(10), w.BayID)
	}
}

func TestExecute_Errors(t *testing.T) {
	uc := newUseCase(testCatalog(), generalBays(1), &fakeSlotRepo{}, friday)

	t.Run("no services", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{StartDate: monday})
		assert.ErrorIs(t, err, ErrNoServices)
	})

	t.Run("unknown service", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{ServiceIDs: []int64{99}, StartDate: monday})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			ServiceIDs: []int64{1},
			StartDate:  monday,
			EndDate:    monday.AddDate(0, 0, -3),
		})
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("bad preference", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			ServiceIDs:     []int64{1},
			StartDate:      monday,
			TimePreference: TimePreference("evening"),
		})
		assert.ErrorIs(t, err, ErrInvalidPreference)
	})

	t.Run("visit longer than the business day", func(t *testing.T) {
		catalog := testCatalog()
		catalog.services[7] = &domain.Service{
			ID: 7, Name: "Full Restoration", DurationMinutes: 600,
			RequiredBayType: domain.BayTypeGeneral, RequiredSkillLevel: domain.SkillMaster, IsActive: true,
		}
		uc := newUseCase(catalog, generalBays(1), &fakeSlotRepo{}, friday)
		_, err := uc.Execute(context.Background(), &Request{ServiceIDs: []int64{7}, StartDate: monday})
		assert.ErrorIs(t, err, ErrDurationTooLong)
	})
}
