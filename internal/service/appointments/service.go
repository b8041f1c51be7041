// Package appointments serves the read side of the schedule and the explicit
// staff transitions. Reads never mutate state: the time-derived view of an
// appointment (in progress, checking out) is computed per request, while the
// stored status only changes through staff action or the booking workflows.
package appointments

import (
	"context"
	"errors"
	"fmt"

	apptStorage "github.com/autobay/shop-scheduling-service/internal/infra/storage/appointment"

	"github.com/autobay/shop-scheduling-service/internal/domain"
)

// Transition is a staff-initiated status change.
type Transition string

const (
	TransitionConfirm  Transition = "confirm"
	TransitionCheckIn  Transition = "check_in"
	TransitionComplete Transition = "complete"
	TransitionNoShow   Transition = "no_show"
)

// transitions maps each staff action to its target status and the statuses
// it may be applied from.
var transitions = map[Transition]struct {
	target domain.AppointmentStatus
	from   []domain.AppointmentStatus
}{
	TransitionConfirm: {
		target: domain.StatusConfirmed,
		from:   []domain.AppointmentStatus{domain.StatusScheduled},
	},
	TransitionCheckIn: {
		target: domain.StatusCheckedIn,
		from:   []domain.AppointmentStatus{domain.StatusScheduled, domain.StatusConfirmed},
	},
	TransitionComplete: {
		target: domain.StatusCompleted,
		from: []domain.AppointmentStatus{
			domain.StatusCheckedIn, domain.StatusInProgress, domain.StatusCheckingOut,
		},
	},
	TransitionNoShow: {
		target: domain.StatusNoShow,
		from:   []domain.AppointmentStatus{domain.StatusScheduled, domain.StatusConfirmed},
	},
}

// View is an appointment together with its time-derived display status.
type View struct {
	Appointment   *domain.Appointment
	DisplayStatus domain.AppointmentStatus
}

type Service struct {
	apptRepo       AppointmentRepository
	checkoutBuffer int
	timeNow        TimeProvider
	logger         Logger
}

func NewService(apptRepo AppointmentRepository, checkoutBufferMinutes int, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		apptRepo:       apptRepo,
		checkoutBuffer: checkoutBufferMinutes,
		timeNow:        timeProvider,
		logger:         logger,
	}
}

// Get returns one appointment by id with its display status.
func (s *Service) Get(ctx context.Context, id int64) (*View, error) {
	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStorageError("Get", err)
	}
	return s.view(appt), nil
}

// GetByReference returns one appointment by its confirmation code.
func (s *Service) GetByReference(ctx context.Context, reference string) (*View, error) {
	appt, err := s.apptRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, s.mapStorageError("GetByReference", err)
	}
	return s.view(appt), nil
}

// ListSchedule returns the appointments matching the filter, each with its
// display status.
func (s *Service) ListSchedule(ctx context.Context, filter domain.AppointmentsFilter) ([]*View, error) {
	appts, err := s.apptRepo.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSchedule - list: %v", ErrInternal, err)
	}
	views := make([]*View, 0, len(appts))
	for _, a := range appts {
		views = append(views, s.view(a))
	}
	return views, nil
}

// Apply performs a staff transition on the appointment and returns the
// refreshed view.
func (s *Service) Apply(ctx context.Context, id int64, tr Transition) (*View, error) {
	rule, ok := transitions[tr]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransition, tr)
	}

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStorageError("Apply", err)
	}

	allowed := false
	for _, from := range rule.from {
		if appt.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, tr, appt.Status)
	}

	if err := s.apptRepo.UpdateStatus(ctx, id, rule.target); err != nil {
		return nil, fmt.Errorf("%w: Apply - update status: %v", ErrInternal, err)
	}
	s.logger.Info("Apply: appointment=%d %s -> %s", id, appt.Status, rule.target)

	appt.Status = rule.target
	appt.UpdatedAt = s.timeNow.Now()
	return s.view(appt), nil
}

func (s *Service) view(appt *domain.Appointment) *View {
	return &View{
		Appointment:   appt,
		DisplayStatus: domain.DisplayStatus(appt, s.timeNow.Now(), s.checkoutBuffer),
	}
}

func (s *Service) mapStorageError(method string, err error) error {
	if errors.Is(err, apptStorage.ErrAppointmentNotFound) {
		return ErrAppointmentNotFound
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, method, err)
}
