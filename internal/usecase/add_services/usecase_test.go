package add_services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobay/shop-scheduling-service/internal/config"
	"github.com/autobay/shop-scheduling-service/internal/domain"
	apptStorage "github.com/autobay/shop-scheduling-service/internal/infra/storage/appointment"
	catalogRepo "github.com/autobay/shop-scheduling-service/internal/infra/storage/servicecatalog"
	"github.com/autobay/shop-scheduling-service/internal/service/reservation"
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

type fakeApptRepo struct {
	appt          *domain.Appointment
	addedServices int
	updatedNames  []string
	updatedPrice  float64
	updatedMins   int
}

func (f *fakeApptRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if f.appt == nil || f.appt.ID != id {
		return nil, apptStorage.ErrAppointmentNotFound
	}
	copied := *f.appt
	return &copied, nil
}

func (f *fakeApptRepo) AddServices(_ context.Context, _ int64, services []*domain.Service) error {
	f.addedServices += len(services)
	return nil
}

func (f *fakeApptRepo) UpdateServices(_ context.Context, _ int64, serviceNames []string, totalPrice float64, durationMinutes int) error {
	f.updatedNames = serviceNames
	f.updatedPrice = totalPrice
	f.updatedMins = durationMinutes
	return nil
}

type fakeCoordinator struct {
	err          error
	extendedTo   int
	extendCalled bool
}

func (f *fakeCoordinator) Extend(_ context.Context, _ int64, _ reservation.Window, newDurationMinutes int) error {
	f.extendCalled = true
	if f.err != nil {
		return f.err
	}
	f.extendedTo = newDurationMinutes
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testAppointment(status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              42,
		Reference:       "ref-42",
		BayID:           1,
		ScheduledDate:   time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		ScheduledTime:   "10:00",
		DurationMinutes: 60,
		Status:          status,
		ServiceNames:    []string{"Oil Change"},
		TotalPrice:      49.99,
	}
}

func newUseCase(repo *fakeApptRepo, coord *fakeCoordinator) *UseCase {
	catalog := &fakeCatalog{services: map[int64]*domain.Service{
		5: {ID: 5, Name: "Air Filter", DurationMinutes: 30, Price: 24.99, IsActive: true},
		6: {ID: 6, Name: "Coolant Flush", DurationMinutes: 45, Price: 89.99, IsActive: true},
	}}
	hours := config.Hours{
		OpenTime:  types.TimeString("08:00"),
		CloseTime: types.TimeString("16:00"),
	}
	return NewUseCase(catalog, repo, coord, hours, nopLogger{})
}

func TestExecute_ExtendsTheVisit(t *testing.T) {
	repo := &fakeApptRepo{appt: testAppointment(domain.StatusInProgress)}
	coord := &fakeCoordinator{}
	uc := newUseCase(repo, coord)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 42, ServiceIDs: []int64{5}})
	require.NoError(t, err)

	assert.True(t, resp.Extended)
	assert.Equal(t, 90, resp.DurationMinutes)
	assert.Equal(t, types.TimeString("11:30"), resp.EndTime)
	assert.Equal(t, []string{"Oil Change", "Air Filter"}, resp.ServiceNames)
	assert.InDelta(t, 74.98, resp.TotalPrice, 0.001)

	assert.Equal(t, 90, coord.extendedTo)
	assert.Equal(t, 90, repo.updatedMins)
	assert.Equal(t, 1, repo.addedServices)
}

func TestExecute_BlockedExtensionStillRecordsServices(t *testing.T) {
	repo := &fakeApptRepo{appt: testAppointment(domain.StatusInProgress)}
	coord := &fakeCoordinator{err: reservation.ErrWindowUnavailable}
	uc := newUseCase(repo, coord)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 42, ServiceIDs: []int64{5}})
	require.NoError(t, err)

	assert.False(t, resp.Extended)
	// Work is on the ticket, price grows, schedule stays.
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, types.TimeString("11:00"), resp.EndTime)
	assert.InDelta(t, 74.98, resp.TotalPrice, 0.001)
	assert.Equal(t, 1, repo.addedServices)
	assert.Equal(t, 60, repo.updatedMins)
	assert.Equal(t, []string{"Oil Change", "Air Filter"}, repo.updatedNames)
}

func TestExecute_ExtensionCrossingClosingIsNotAttempted(t *testing.T) {
	appt := testAppointment(domain.StatusCheckedIn)
	appt.ScheduledTime = "15:00" // 60 min visit ends right at closing
	repo := &fakeApptRepo{appt: appt}
	coord := &fakeCoordinator{}
	uc := newUseCase(repo, coord)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 42, ServiceIDs: []int64{5}})
	require.NoError(t, err)

	assert.False(t, resp.Extended)
	assert.False(t, coord.extendCalled, "no reservation attempt past closing")
	assert.Equal(t, 1, repo.addedServices)
}

func TestExecute_Guards(t *testing.T) {
	t.Run("no services", func(t *testing.T) {
		uc := newUseCase(&fakeApptRepo{}, &fakeCoordinator{})
		_, err := uc.Execute(context.Background(), &Request{AppointmentID: 42})
		assert.ErrorIs(t, err, ErrNoServices)
	})

	t.Run("not found", func(t *testing.T) {
		uc := newUseCase(&fakeApptRepo{}, &fakeCoordinator{})
		_, err := uc.Execute(context.Background(), &Request{AppointmentID: 42, ServiceIDs: []int64{5}})
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("unknown service", func(t *testing.T) {
		uc := newUseCase(&fakeApptRepo{appt: testAppointment(domain.StatusScheduled)}, &fakeCoordinator{})
		_, err := uc.Execute(context.Background(), &Request{AppointmentID: 42, ServiceIDs: []int64{99}})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	for _, status := range []domain.AppointmentStatus{
		domain.StatusCheckingOut, domain.StatusCompleted, domain.StatusCancelled, domain.StatusPaid,
	} {
		t.Run("status "+string(status), func(t *testing.T) {
			repo := &fakeApptRepo{appt: testAppointment(status)}
			uc := newUseCase(repo, &fakeCoordinator{})
			_, err := uc.Execute(context.Background(), &Request{AppointmentID: 42, ServiceIDs: []int64{5}})
			assert.ErrorIs(t, err, ErrNotExtendable)
			assert.Zero(t, repo.addedServices)
		})
	}
}
