// Package reschedule_appointment moves a booked visit to a new window. The
// old slots are released and the new ones claimed in one transaction, so a
// failed move leaves the original booking untouched and the customer keeps
// their time.
package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/config"
	"github.com/autobay/shop-scheduling-service/internal/domain"
	apptStorage "github.com/autobay/shop-scheduling-service/internal/infra/storage/appointment"
	"github.com/autobay/shop-scheduling-service/internal/integrations/notify"
	"github.com/autobay/shop-scheduling-service/internal/service/reservation"
	"github.com/autobay/shop-scheduling-service/pkg/types"
)

type UseCase struct {
	apptRepo     AppointmentRepository
	coordinator  ReservationCoordinator
	notifyClient NotifyClient
	hours        config.Hours
	timeProvider TimeProvider
	logger       Logger
}

func NewUseCase(
	apptRepo AppointmentRepository,
	coordinator ReservationCoordinator,
	notifyClient NotifyClient,
	hours config.Hours,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:     apptRepo,
		coordinator:  coordinator,
		notifyClient: notifyClient,
		hours:        hours,
		timeProvider: RealTimeProvider{},
		logger:       logger,
	}
}

// Execute moves the appointment.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.AppointmentID <= 0 {
		return nil, ErrAppointmentNotFound
	}

	appt, err := uc.apptRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptStorage.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: load appointment=%d failed: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: load appointment: %v", ErrInternal, err)
	}
	if !appt.CanBeRescheduled() {
		uc.logger.Warn("RescheduleAppointment: appointment=%d in status %s", appt.ID, appt.Status)
		return nil, fmt.Errorf("%w: status %s", ErrNotReschedulable, appt.Status)
	}

	bayID := req.BayID
	if bayID == 0 {
		bayID = appt.BayID
	}
	if err := uc.validateWindow(req.Date, req.StartTime, appt.DurationMinutes); err != nil {
		uc.logger.Warn("RescheduleAppointment: window rejected for appointment=%d: %v", appt.ID, err)
		return nil, err
	}

	to := reservation.Window{
		BayID:           bayID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: appt.DurationMinutes,
	}
	if err := uc.coordinator.Transfer(ctx, appt.ID, to); err != nil {
		if errors.Is(err, reservation.ErrWindowUnavailable) || errors.Is(err, reservation.ErrNoInventory) {
			uc.logger.Warn("RescheduleAppointment: window taken for appointment=%d: %v", appt.ID, err)
			return nil, ErrWindowUnavailable
		}
		uc.logger.Error("RescheduleAppointment: transfer failed for appointment=%d: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: transfer reservation: %v", ErrInternal, err)
	}

	uc.sendConfirmation(ctx, appt, req)

	end, err := req.StartTime.AddMinutes(appt.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: compute end time: %v", ErrInternal, err)
	}

	uc.logger.Info("RescheduleAppointment: appointment=%d moved to bay=%d %s %s",
		appt.ID, bayID, req.Date.Format(domain.DateFormat), req.StartTime)
	return &Response{
		AppointmentID: appt.ID,
		Reference:     appt.Reference,
		Date:          req.Date.Format(domain.DateFormat),
		StartTime:     req.StartTime,
		EndTime:       end,
		BayID:         bayID,
	}, nil
}

func (uc *UseCase) validateWindow(date time.Time, start types.TimeString, durationMinutes int) error {
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrOutsideBusinessHours)
	}
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrOutsideBusinessHours, err)
	}
	if !uc.hours.IsOpenOn(date) {
		return fmt.Errorf("%w: %s is not a business day", ErrOutsideBusinessHours, date.Weekday())
	}
	if start.IsBefore(uc.hours.OpenTime) {
		return fmt.Errorf("%w: %s is before opening", ErrOutsideBusinessHours, start)
	}
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutsideBusinessHours, err)
	}
	if end.IsAfter(uc.hours.CloseTime) {
		return fmt.Errorf("%w: visit would end %s, after closing", ErrOutsideBusinessHours, end)
	}
	startAt, err := start.At(date)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutsideBusinessHours, err)
	}
	if startAt.Before(uc.timeProvider.Now()) {
		return fmt.Errorf("%w: window is in the past", ErrOutsideBusinessHours)
	}
	return nil
}

func (uc *UseCase) sendConfirmation(ctx context.Context, appt *domain.Appointment, req *Request) {
	err := uc.notifyClient.SendConfirmation(ctx, &notify.Message{
		CustomerID:   appt.CustomerID,
		Reference:    appt.Reference,
		Date:         req.Date.Format(domain.DateFormat),
		Time:         req.StartTime.String(),
		ServiceNames: strings.Join(appt.ServiceNames, ", "),
	})
	if err != nil {
		uc.logger.Warn("RescheduleAppointment: confirmation send failed for ref=%s: %v", appt.Reference, err)
	}
}
