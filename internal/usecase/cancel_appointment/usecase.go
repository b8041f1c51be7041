// Package cancel_appointment cancels a booked visit. The slots return to the
// pool in the same transaction that records the cancellation, so the freed
// window is immediately bookable and never double-counted.
package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	apptStorage "github.com/autobay/shop-scheduling-service/internal/infra/storage/appointment"
	"github.com/autobay/shop-scheduling-service/internal/integrations/notify"
)

type UseCase struct {
	apptRepo     AppointmentRepository
	coordinator  ReservationCoordinator
	notifyClient NotifyClient
	logger       Logger
}

func NewUseCase(
	apptRepo AppointmentRepository,
	coordinator ReservationCoordinator,
	notifyClient NotifyClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		apptRepo:     apptRepo,
		coordinator:  coordinator,
		notifyClient: notifyClient,
		logger:       logger,
	}
}

// Execute cancels the appointment. Cancelling an already-cancelled
// appointment reports not-cancellable rather than silently succeeding.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.AppointmentID <= 0 {
		return nil, ErrAppointmentNotFound
	}

	appt, err := uc.apptRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptStorage.ErrAppointmentNotFound) {
			uc.logger.Warn("CancelAppointment: appointment=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CancelAppointment: load appointment=%d failed: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: load appointment: %v", ErrInternal, err)
	}
	if !appt.CanBeCancelled() {
		uc.logger.Warn("CancelAppointment: appointment=%d in status %s", appt.ID, appt.Status)
		return nil, fmt.Errorf("%w: status %s", ErrNotCancellable, appt.Status)
	}

	if err := uc.coordinator.Cancel(ctx, appt.ID, req.Reason); err != nil {
		uc.logger.Error("CancelAppointment: cancel appointment=%d failed: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: cancel: %v", ErrInternal, err)
	}

	uc.sendCancellation(ctx, appt)

	uc.logger.Info("CancelAppointment: appointment=%d ref=%s cancelled", appt.ID, appt.Reference)
	return &Response{
		AppointmentID: appt.ID,
		Reference:     appt.Reference,
		Status:        string(domain.StatusCancelled),
	}, nil
}

func (uc *UseCase) sendCancellation(ctx context.Context, appt *domain.Appointment) {
	err := uc.notifyClient.SendCancellation(ctx, &notify.Message{
		CustomerID:   appt.CustomerID,
		Reference:    appt.Reference,
		Date:         appt.ScheduledDate.Format(domain.DateFormat),
		Time:         appt.ScheduledTime.String(),
		ServiceNames: strings.Join(appt.ServiceNames, ", "),
	})
	if err != nil {
		uc.logger.Warn("CancelAppointment: cancellation send failed for ref=%s: %v", appt.Reference, err)
	}
}
