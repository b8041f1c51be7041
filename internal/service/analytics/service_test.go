package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/internal/infra/cache"
)

type fakeSlotRepo struct {
	total  map[int64]int
	booked map[int64]int
	reads  int
}

func (f *fakeSlotRepo) CountTotalByBayAndDate(context.Context, time.Time) (map[int64]int, error) {
	f.reads++
	return f.total, nil
}

func (f *fakeSlotRepo) CountBookedByBayAndDate(context.Context, time.Time) (map[int64]int, error) {
	return f.booked, nil
}

type fakeBayRepo struct {
	bays []*domain.Bay
}

func (f *fakeBayRepo) ListActive(context.Context) ([]*domain.Bay, error) {
	return f.bays, nil
}

type fakeCache struct {
	data map[string][]byte
	err  error
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	if f.err != nil {
		return f.err
	}
	raw, ok := f.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}) error {
	if f.err != nil {
		return f.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if f.data == nil {
		f.data = make(map[string][]byte)
	}
	f.data[key] = raw
	return nil
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{}) {}

func testRepos() (*fakeSlotRepo, *fakeBayRepo) {
	slots := &fakeSlotRepo{
		total:  map[int64]int{1: 16, 2: 16},
		booked: map[int64]int{1: 8},
	}
	bays := &fakeBayRepo{bays: []*domain.Bay{
		{ID: 1, Name: "Bay 1", BayType: domain.BayTypeGeneral, IsActive: true},
		{ID: 2, Name: "Alignment", BayType: domain.BayTypeAlignment, IsActive: true},
	}}
	return slots, bays
}

func TestUtilization(t *testing.T) {
	date := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	t.Run("computes per-bay ratios", func(t *testing.T) {
		slots, bays := testRepos()
		svc := NewService(slots, bays, nil, nopLogger{})

		report, err := svc.Utilization(context.Background(), date)
		require.NoError(t, err)

		assert.Equal(t, "2026-03-16", report.Date)
		require.Len(t, report.Bays, 2)
		assert.Equal(t, 0.5, report.Bays[0].Utilization)
		assert.Equal(t, 8, report.Bays[0].BookedSlots)
		assert.Zero(t, report.Bays[1].Utilization)
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		slots, bays := testRepos()
		svc := NewService(slots, bays, &fakeCache{}, nopLogger{})

		_, err := svc.Utilization(context.Background(), date)
		require.NoError(t, err)
		report, err := svc.Utilization(context.Background(), date)
		require.NoError(t, err)

		assert.Equal(t, 1, slots.reads, "one storage read for two requests")
		assert.Equal(t, 0.5, report.Bays[0].Utilization)
	})

	t.Run("cache outage degrades to direct reads", func(t *testing.T) {
		slots, bays := testRepos()
		svc := NewService(slots, bays, &fakeCache{err: errors.New("redis: connection refused")}, nopLogger{})

		report, err := svc.Utilization(context.Background(), date)
		require.NoError(t, err)
		assert.Equal(t, 0.5, report.Bays[0].Utilization)
	})

	t.Run("bay without inventory reports zero", func(t *testing.T) {
		slots, bays := testRepos()
		slots.total = map[int64]int{}
		slots.booked = map[int64]int{}
		svc := NewService(slots, bays, nil, nopLogger{})

		report, err := svc.Utilization(context.Background(), date)
		require.NoError(t, err)
		for _, b := range report.Bays {
			assert.Zero(t, b.Utilization)
			assert.Zero(t, b.TotalSlots)
		}
	})
}
