package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobay/shop-scheduling-service/internal/config"
	"github.com/autobay/shop-scheduling-service/internal/domain"
	catalogRepo "github.com/autobay/shop-scheduling-service/internal/infra/storage/servicecatalog"
	"github.com/autobay/shop-scheduling-service/internal/integrations/customers"
	"github.com/autobay/shop-scheduling-service/internal/integrations/notify"
	"github.com/autobay/shop-scheduling-service/internal/service/reservation"
	"github.com/autobay/shop-scheduling-service/internal/service/technicians"
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
	nextID        int64
	created       []*domain.Appointment
	servicesFor   map[int64]int
	failedIDs     []int64
	technicianFor map[int64]*int64
}

func (f *fakeApptRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	f.nextID++
	copied := *appt
	copied.ID = f.nextID
	f.created = append(f.created, &copied)
	return &copied, nil
}

func (f *fakeApptRepo) AddServices(_ context.Context, appointmentID int64, services []*domain.Service) error {
	if f.servicesFor == nil {
		f.servicesFor = make(map[int64]int)
	}
	f.servicesFor[appointmentID] = len(services)
	return nil
}

func (f *fakeApptRepo) MarkBookingFailed(_ context.Context, id int64) error {
	f.failedIDs = append(f.failedIDs, id)
	return nil
}

func (f *fakeApptRepo) AssignTechnician(_ context.Context, id int64, technicianID *int64) error {
	if f.technicianFor == nil {
		f.technicianFor = make(map[int64]*int64)
	}
	f.technicianFor[id] = technicianID
	return nil
}

type fakeCoordinator struct {
	err      error
	reserved map[int64]reservation.Window
}

func (f *fakeCoordinator) Reserve(_ context.Context, appointmentID int64, w reservation.Window) error {
	if f.err != nil {
		return f.err
	}
	if f.reserved == nil {
		f.reserved = make(map[int64]reservation.Window)
	}
	f.reserved[appointmentID] = w
	return nil
}

type fakeMatcher struct {
	tech *domain.Technician
	err  error
}

func (f *fakeMatcher) Match(context.Context, technicians.Request) (*domain.Technician, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tech, nil
}

type fakeCustomers struct {
	err error
}

func (f *fakeCustomers) LookupOrCreateByPhone(_ context.Context, req *customers.LookupOrCreateRequest) (*customers.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &customers.Customer{ID: 500, Phone: req.Phone}, nil
}

func (f *fakeCustomers) ResolveVehicle(_ context.Context, customerID int64, _ *customers.VehicleRequest) (*customers.Vehicle, error) {
	return &customers.Vehicle{ID: 900, CustomerID: customerID}, nil
}

type fakeNotify struct {
	sent []*notify.Message
	err  error
}

func (f *fakeNotify) SendConfirmation(_ context.Context, msg *notify.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	catalog     *fakeCatalog
	apptRepo    *fakeApptRepo
	coordinator *fakeCoordinator
	matcher     *fakeMatcher
	customers   *fakeCustomers
	notify      *fakeNotify
	uc          *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		catalog: &fakeCatalog{services: map[int64]*domain.Service{
			1: {ID: 1, Name: "Oil Change", DurationMinutes: 30, RequiredBayType: domain.BayTypeGeneral, RequiredSkillLevel: domain.SkillJunior, Price: 49.99, IsActive: true},
			2: {ID: 2, Name: "Brake Inspection", DurationMinutes: 35, RequiredBayType: domain.BayTypeGeneral, RequiredSkillLevel: domain.SkillIntermediate, Price: 79.99, IsActive: true},
		}},
		apptRepo:    &fakeApptRepo{},
		coordinator: &fakeCoordinator{},
		matcher:     &fakeMatcher{tech: &domain.Technician{ID: 77, SkillLevel: domain.SkillSenior, IsActive: true}},
		customers:   &fakeCustomers{},
		notify:      &fakeNotify{},
	}
	hours := config.Hours{
		OpenDays: map[time.Weekday]bool{
			time.Monday: true, time.Tuesday: true, time.Wednesday: true,
			time.Thursday: true, time.Friday: true,
		},
		OpenTime:        types.TimeString("08:00"),
		CloseTime:       types.TimeString("16:00"),
		SlotGranularity: 30,
	}
	f.uc = NewUseCase(f.catalog, f.apptRepo, f.coordinator, f.matcher, f.customers, f.notify,
		hours, domain.DefaultBayTypeRanking(), domain.DefaultSkillRanking(), nopLogger{})
	f.uc.timeProvider = fixedClock{time.Date(2026, 3, 13, 12, 0, 0, 0, time.UTC)}
	return f
}

func validRequest() *Request {
	return &Request{
		Customer:   CustomerInput{Phone: "+15551234567", FirstName: "Pat", LastName: "Doe"},
		Vehicle:    VehicleInput{Make: "Honda", Model: "Civic", Year: 2021},
		ServiceIDs: []int64{1, 2},
		BayID:      1,
		Date:       time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), // a Monday
		StartTime:  "09:00",
	}
}

func TestExecute_BooksTheWindow(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Reference)
	assert.Equal(t, 65, resp.DurationMinutes)
	assert.Equal(t, types.TimeString("10:05"), resp.EndTime)
	assert.InDelta(t, 129.98, resp.TotalPrice, 0.001)
	assert.Equal(t, []string{"Oil Change", "Brake Inspection"}, resp.ServiceNames)

	require.Len(t, f.apptRepo.created, 1)
	appt := f.apptRepo.created[0]
	assert.Equal(t, domain.StatusScheduled, appt.Status)
	assert.Equal(t, int64(500), appt.CustomerID)
	assert.Equal(t, int64(900), appt.VehicleID)
	assert.Equal(t, 2, f.apptRepo.servicesFor[appt.ID])

	// The reservation covers the whole visit.
	w := f.coordinator.reserved[appt.ID]
	assert.Equal(t, 65, w.DurationMinutes)

	require.NotNil(t, resp.TechnicianID)
	assert.Equal(t, int64(77), *resp.TechnicianID)

	require.Len(t, f.notify.sent, 1)
	assert.Equal(t, resp.Reference, f.notify.sent[0].Reference)
}

func TestExecute_LostRaceMarksBookingFailed(t *testing.T) {
	f := newFixture()
	f.coordinator.err = reservation.ErrWindowUnavailable

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrWindowUnavailable)

	require.Len(t, f.apptRepo.created, 1)
	assert.Equal(t, []int64{f.apptRepo.created[0].ID}, f.apptRepo.failedIDs)
	assert.Empty(t, f.notify.sent, "no confirmation for a failed booking")
}

func TestExecute_NoTechnicianStillBooks(t *testing.T) {
	f := newFixture()
	f.matcher.err = technicians.ErrNoTechnicianAvailable

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Nil(t, resp.TechnicianID)
}

func TestExecute_NotifyFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture()
	f.notify.err = errors.New("notify: connection refused")

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Reference)
}

func TestExecute_NewCustomerWithoutNames(t *testing.T) {
	f := newFixture()
	f.customers.err = customers.ErrMissingCustomerFields

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrMissingCustomerFields)
	assert.Empty(t, f.apptRepo.created, "nothing persisted before the customer resolves")
}

func TestExecute_BusinessWindowRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"weekend", func(r *Request) {
			r.Date = time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC) // a Saturday
		}},
		{"before opening", func(r *Request) { r.StartTime = "07:30" }},
		{"crosses closing", func(r *Request) { r.StartTime = "15:30" }}, // 65 min ends 16:35
		{"in the past", func(r *Request) {
			r.Date = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) // the Monday before
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest()
			tc.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrOutsideBusinessHours)
			assert.Empty(t, f.apptRepo.created)
		})
	}
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture()

	t.Run("no services", func(t *testing.T) {
		req := validRequest()
		req.ServiceIDs = nil
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrNoServices)
	})

	t.Run("missing phone", func(t *testing.T) {
		req := validRequest()
		req.Customer.Phone = ""
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrMissingPhone)
	})

	t.Run("unknown service", func(t *testing.T) {
		req := validRequest()
		req.ServiceIDs = []int64{99}
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})
}
