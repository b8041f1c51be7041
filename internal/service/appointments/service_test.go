package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	apptStorage "github.com/autobay/shop-scheduling-service/internal/infra/storage/appointment"
)

type fakeApptRepo struct {
	byID     map[int64]*domain.Appointment
	statuses map[int64]domain.AppointmentStatus
}

func (f *fakeApptRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, apptStorage.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeApptRepo) GetByReference(_ context.Context, reference string) (*domain.Appointment, error) {
	for _, a := range f.byID {
		if a.Reference == reference {
			copied := *a
			return &copied, nil
		}
	}
	return nil, apptStorage.ErrAppointmentNotFound
}

func (f *fakeApptRepo) ListWithFilter(context.Context, domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	appts := make([]*domain.Appointment, 0, len(f.byID))
	for _, a := range f.byID {
		copied := *a
		appts = append(appts, &copied)
	}
	return appts, nil
}

func (f *fakeApptRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if f.statuses == nil {
		f.statuses = make(map[int64]domain.AppointmentStatus)
	}
	f.statuses[id] = status
	f.byID[id].Status = status
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{}) {}

func testAppointment(id int64, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		Reference:       "ref-42",
		Status:          status,
		ScheduledDate:   time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		ScheduledTime:   "10:00",
		DurationMinutes: 60,
	}
}

func TestGet_DerivesDisplayStatus(t *testing.T) {
	repo := &fakeApptRepo{byID: map[int64]*domain.Appointment{
		1: testAppointment(1, domain.StatusCheckedIn),
	}}
	// Mid-appointment.
	now := time.Date(2026, 3, 16, 10, 30, 0, 0, time.UTC)
	svc := NewService(repo, 15, fixedClock{now}, nopLogger{})

	v, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusInProgress, v.DisplayStatus)
	// The stored status never changes from a read.
	assert.Equal(t, domain.StatusCheckedIn, v.Appointment.Status)
	assert.Empty(t, repo.statuses)
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(&fakeApptRepo{}, 15, fixedClock{time.Now()}, nopLogger{})
	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetByReference(t *testing.T) {
	repo := &fakeApptRepo{byID: map[int64]*domain.Appointment{
		1: testAppointment(1, domain.StatusScheduled),
	}}
	svc := NewService(repo, 15, fixedClock{time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}, nopLogger{})

	v, err := svc.GetByReference(context.Background(), "ref-42")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Appointment.ID)

	_, err = svc.GetByReference(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestApply(t *testing.T) {
	now := time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		from       domain.AppointmentStatus
		transition Transition
		want       domain.AppointmentStatus
		wantErr    error
	}{
		{"confirm from scheduled", domain.StatusScheduled, TransitionConfirm, domain.StatusConfirmed, nil},
		{"check in without confirmation", domain.StatusScheduled, TransitionCheckIn, domain.StatusCheckedIn, nil},
		{"check in after confirmation", domain.StatusConfirmed, TransitionCheckIn, domain.StatusCheckedIn, nil},
		{"complete from checked in", domain.StatusCheckedIn, TransitionComplete, domain.StatusCompleted, nil},
		{"no show from confirmed", domain.StatusConfirmed, TransitionNoShow, domain.StatusNoShow, nil},
		{"confirm twice", domain.StatusConfirmed, TransitionConfirm, "", ErrInvalidTransition},
		{"no show after check in", domain.StatusCheckedIn, TransitionNoShow, "", ErrInvalidTransition},
		{"complete a cancelled visit", domain.StatusCancelled, TransitionComplete, "", ErrInvalidTransition},
		{"unknown action", domain.StatusScheduled, Transition("archive"), "", ErrUnknownTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeApptRepo{byID: map[int64]*domain.Appointment{
				1: testAppointment(1, tc.from),
			}}
			svc := NewService(repo, 15, fixedClock{now}, nopLogger{})

			v, err := svc.Apply(context.Background(), 1, tc.transition)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, repo.statuses, "failed transition must not persist")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.Appointment.Status)
			assert.Equal(t, tc.want, repo.statuses[1])
		})
	}
}

func TestListSchedule(t *testing.T) {
	repo := &fakeApptRepo{byID: map[int64]*domain.Appointment{
		1: testAppointment(1, domain.StatusScheduled),
		2: testAppointment(2, domain.StatusCompleted),
	}}
	now := time.Date(2026, 3, 16, 10, 15, 0, 0, time.UTC)
	svc := NewService(repo, 15, fixedClock{now}, nopLogger{})

	views, err := svc.ListSchedule(context.Background(), domain.AppointmentsFilter{})
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := make(map[int64]*View, len(views))
	for _, v := range views {
		byID[v.Appointment.ID] = v
	}
	assert.Equal(t, domain.StatusInProgress, byID[1].DisplayStatus)
	// Terminal statuses pass through untouched.
	assert.Equal(t, domain.StatusCompleted, byID[2].DisplayStatus)
}
