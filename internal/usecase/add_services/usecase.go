// Package add_services records extra work discovered mid-visit. The services
// always land on the ticket; the scheduled duration grows only when the
// trailing slots can be claimed atomically. A blocked extension is reported
// to the caller, never resolved by overlapping the next appointment.
package add_services

import (
	"context"
	"errors"
	"fmt"

	"github.com/autobay/shop-scheduling-service/internal/config"
	"github.com/autobay/shop-scheduling-service/internal/domain"
	apptStorage "github.com/autobay/shop-scheduling-service/internal/infra/storage/appointment"
	catalogRepo "github.com/autobay/shop-scheduling-service/internal/infra/storage/servicecatalog"
	"github.com/autobay/shop-scheduling-service/internal/service/reservation"
)

type UseCase struct {
	catalog     ServiceCatalog
	apptRepo    AppointmentRepository
	coordinator ReservationCoordinator
	hours       config.Hours
	logger      Logger
}

func NewUseCase(
	catalog ServiceCatalog,
	apptRepo AppointmentRepository,
	coordinator ReservationCoordinator,
	hours config.Hours,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalog:     catalog,
		apptRepo:    apptRepo,
		coordinator: coordinator,
		hours:       hours,
		logger:      logger,
	}
}

// Execute adds the services and attempts the extension.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if len(req.ServiceIDs) == 0 {
		return nil, ErrNoServices
	}

	appt, err := uc.apptRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptStorage.ErrAppointmentNotFound) {
			uc.logger.Warn("AddServices: appointment=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("AddServices: load appointment=%d failed: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: load appointment: %v", ErrInternal, err)
	}
	if !appt.CanBeExtended() {
		uc.logger.Warn("AddServices: appointment=%d in status %s", appt.ID, appt.Status)
		return nil, fmt.Errorf("%w: status %s", ErrNotExtendable, appt.Status)
	}

	added, err := uc.catalog.GetByIDs(ctx, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("AddServices: unknown service in %v", req.ServiceIDs)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		uc.logger.Error("AddServices: catalog lookup failed: %v", err)
		return nil, fmt.Errorf("%w: resolve services: %v", ErrInternal, err)
	}

	names := append([]string{}, appt.ServiceNames...)
	totalPrice := appt.TotalPrice
	extraMinutes := 0
	for _, svc := range added {
		names = append(names, svc.Name)
		totalPrice += svc.Price
		extraMinutes += svc.DurationMinutes
	}
	newDuration := appt.DurationMinutes + extraMinutes

	// The extra work is on the ticket regardless of what the schedule allows.
	if err := uc.apptRepo.AddServices(ctx, appt.ID, added); err != nil {
		uc.logger.Error("AddServices: record services for appointment=%d failed: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: record services: %v", ErrInternal, err)
	}

	extended := uc.tryExtend(ctx, appt, newDuration)

	duration := appt.DurationMinutes
	if extended {
		duration = newDuration
	}
	if err := uc.apptRepo.UpdateServices(ctx, appt.ID, names, totalPrice, duration); err != nil {
		uc.logger.Error("AddServices: update totals for appointment=%d failed: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: update appointment: %v", ErrInternal, err)
	}

	end, err := appt.ScheduledTime.AddMinutes(duration)
	if err != nil {
		return nil, fmt.Errorf("%w: compute end time: %v", ErrInternal, err)
	}

	uc.logger.Info("AddServices: appointment=%d +%d services, extended=%t duration=%dmin",
		appt.ID, len(added), extended, duration)
	return &Response{
		AppointmentID:   appt.ID,
		Extended:        extended,
		ServiceNames:    names,
		DurationMinutes: duration,
		EndTime:         end,
		TotalPrice:      totalPrice,
	}, nil
}

// tryExtend claims the trailing slots for the grown visit. Any refusal, a
// lost slot or a would-cross-closing window, leaves the schedule as it was.
func (uc *UseCase) tryExtend(ctx context.Context, appt *domain.Appointment, newDuration int) bool {
	newEnd, err := appt.ScheduledTime.AddMinutes(newDuration)
	if err != nil || newEnd.IsAfter(uc.hours.CloseTime) {
		uc.logger.Info("AddServices: appointment=%d extension would cross closing, keeping %dmin",
			appt.ID, appt.DurationMinutes)
		return false
	}

	w := reservation.Window{
		BayID:           appt.BayID,
		Date:            appt.ScheduledDate,
		StartTime:       appt.ScheduledTime,
		DurationMinutes: appt.DurationMinutes,
	}
	if err := uc.coordinator.Extend(ctx, appt.ID, w, newDuration); err != nil {
		if errors.Is(err, reservation.ErrWindowUnavailable) || errors.Is(err, reservation.ErrNoInventory) {
			uc.logger.Info("AddServices: trailing slots taken for appointment=%d, keeping %dmin",
				appt.ID, appt.DurationMinutes)
		} else {
			uc.logger.Error("AddServices: extend failed for appointment=%d: %v", appt.ID, err)
		}
		return false
	}
	return true
}
