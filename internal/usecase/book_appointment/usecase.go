// Package book_appointment commits a visit into a window offered by the
// availability search. The appointment row is created first, then the slots
// are claimed atomically; losing the claim race marks the row booking_failed
// and surfaces a conflict, never a half-booked visit.
package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/autobay/shop-scheduling-service/internal/config"
	"github.com/autobay/shop-scheduling-service/internal/domain"
	catalogRepo "github.com/autobay/shop-scheduling-service/internal/infra/storage/servicecatalog"
	"github.com/autobay/shop-scheduling-service/internal/integrations/customers"
	"github.com/autobay/shop-scheduling-service/internal/integrations/notify"
	"github.com/autobay/shop-scheduling-service/internal/service/reservation"
	"github.com/autobay/shop-scheduling-service/internal/service/technicians"
)

type UseCase struct {
	catalog         ServiceCatalog
	apptRepo        AppointmentRepository
	coordinator     ReservationCoordinator
	matcher         TechnicianMatcher
	customersClient CustomersClient
	notifyClient    NotifyClient
	hours           config.Hours
	bayRanking      domain.BayTypeRanking
	skillRanking    domain.SkillRanking
	timeProvider    TimeProvider
	logger          Logger
}

func NewUseCase(
	catalog ServiceCatalog,
	apptRepo AppointmentRepository,
	coordinator ReservationCoordinator,
	matcher TechnicianMatcher,
	customersClient CustomersClient,
	notifyClient NotifyClient,
	hours config.Hours,
	bayRanking domain.BayTypeRanking,
	skillRanking domain.SkillRanking,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalog:         catalog,
		apptRepo:        apptRepo,
		coordinator:     coordinator,
		matcher:         matcher,
		customersClient: customersClient,
		notifyClient:    notifyClient,
		hours:           hours,
		bayRanking:      bayRanking,
		skillRanking:    skillRanking,
		timeProvider:    RealTimeProvider{},
		logger:          logger,
	}
}

// Execute books the appointment.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	services, err := uc.catalog.GetByIDs(ctx, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("BookAppointment: unknown service in %v", req.ServiceIDs)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		uc.logger.Error("BookAppointment: catalog lookup failed: %v", err)
		return nil, fmt.Errorf("%w: resolve services: %v", ErrInternal, err)
	}

	visit, err := domain.ComputeVisitRequirements(services, uc.bayRanking, uc.skillRanking)
	if err != nil {
		return nil, fmt.Errorf("%w: compute requirements: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	if err := validateBusinessWindow(uc.hours, req.Date, req.StartTime, visit.TotalDurationMinutes, now); err != nil {
		uc.logger.Warn("BookAppointment: window rejected: %v", err)
		return nil, err
	}

	customer, vehicle, err := uc.resolveCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(services))
	var totalPrice float64
	for _, svc := range services {
		names = append(names, svc.Name)
		totalPrice += svc.Price
	}

	appt, err := uc.apptRepo.Create(ctx, &domain.Appointment{
		Reference:       uuid.NewString(),
		CustomerID:      customer.ID,
		VehicleID:       vehicle.ID,
		BayID:           req.BayID,
		ScheduledDate:   req.Date,
		ScheduledTime:   req.StartTime,
		DurationMinutes: visit.TotalDurationMinutes,
		Status:          domain.StatusScheduled,
		Notes:           req.Notes,
		ServiceNames:    names,
		TotalPrice:      totalPrice,
	})
	if err != nil {
		uc.logger.Error("BookAppointment: create appointment failed: %v", err)
		return nil, fmt.Errorf("%w: create appointment: %v", ErrInternal, err)
	}
	if err := uc.apptRepo.AddServices(ctx, appt.ID, services); err != nil {
		uc.logger.Error("BookAppointment: record services for appointment=%d failed: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: record services: %v", ErrInternal, err)
	}

	window := scheduleWindow(req.BayID, req.Date, req.StartTime, visit.TotalDurationMinutes)
	if err := uc.coordinator.Reserve(ctx, appt.ID, window); err != nil {
		if errors.Is(err, reservation.ErrWindowUnavailable) || errors.Is(err, reservation.ErrNoInventory) {
			uc.logger.Warn("BookAppointment: window lost for appointment=%d: %v", appt.ID, err)
			if markErr := uc.apptRepo.MarkBookingFailed(ctx, appt.ID); markErr != nil {
				uc.logger.Error("BookAppointment: mark booking_failed appointment=%d: %v", appt.ID, markErr)
			}
			return nil, ErrWindowUnavailable
		}
		uc.logger.Error("BookAppointment: reserve failed for appointment=%d: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: reserve slots: %v", ErrInternal, err)
	}

	technicianID := uc.assignTechnician(ctx, appt.ID, window, visit.SkillLevel)

	uc.sendConfirmation(ctx, customer.ID, appt.Reference, req, names)

	end, err := req.StartTime.AddMinutes(visit.TotalDurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: compute end time: %v", ErrInternal, err)
	}

	uc.logger.Info("BookAppointment: appointment=%d ref=%s bay=%d %s %s booked",
		appt.ID, appt.Reference, req.BayID, req.Date.Format(domain.DateFormat), req.StartTime)
	return &Response{
		AppointmentID:   appt.ID,
		Reference:       appt.Reference,
		Date:            req.Date.Format(domain.DateFormat),
		StartTime:       req.StartTime,
		EndTime:         end,
		BayID:           req.BayID,
		TechnicianID:    technicianID,
		ServiceNames:    names,
		DurationMinutes: visit.TotalDurationMinutes,
		TotalPrice:      totalPrice,
	}, nil
}

func (uc *UseCase) resolveCustomer(ctx context.Context, req *Request) (*customers.Customer, *customers.Vehicle, error) {
	customer, err := uc.customersClient.LookupOrCreateByPhone(ctx, &customers.LookupOrCreateRequest{
		Phone:     req.Customer.Phone,
		FirstName: req.Customer.FirstName,
		LastName:  req.Customer.LastName,
	})
	if err != nil {
		if errors.Is(err, customers.ErrMissingCustomerFields) {
			uc.logger.Warn("BookAppointment: new customer %s without name fields", req.Customer.Phone)
			return nil, nil, ErrMissingCustomerFields
		}
		uc.logger.Error("BookAppointment: customer lookup failed: %v", err)
		return nil, nil, fmt.Errorf("%w: resolve customer: %v", ErrInternal, err)
	}

	vehicle, err := uc.customersClient.ResolveVehicle(ctx, customer.ID, &customers.VehicleRequest{
		Make:  req.Vehicle.Make,
		Model: req.Vehicle.Model,
		Year:  req.Vehicle.Year,
	})
	if err != nil {
		uc.logger.Error("BookAppointment: vehicle resolve failed for customer=%d: %v", customer.ID, err)
		return nil, nil, fmt.Errorf("%w: resolve vehicle: %v", ErrInternal, err)
	}
	return customer, vehicle, nil
}

// assignTechnician is best effort: a shop with every wrench busy still takes
// the booking.
func (uc *UseCase) assignTechnician(ctx context.Context, appointmentID int64, w reservation.Window, skill domain.SkillLevel) *int64 {
	tech, err := uc.matcher.Match(ctx, technicians.Request{
		BayID:           w.BayID,
		Date:            w.Date,
		StartTime:       w.StartTime,
		DurationMinutes: w.DurationMinutes,
		RequiredSkill:   skill,
	})
	if err != nil {
		if errors.Is(err, technicians.ErrNoTechnicianAvailable) {
			uc.logger.Info("BookAppointment: no technician for appointment=%d, booking unassigned", appointmentID)
		} else {
			uc.logger.Error("BookAppointment: technician match failed for appointment=%d: %v", appointmentID, err)
		}
		return nil
	}
	if err := uc.apptRepo.AssignTechnician(ctx, appointmentID, &tech.ID); err != nil {
		uc.logger.Error("BookAppointment: assign technician=%d to appointment=%d failed: %v", tech.ID, appointmentID, err)
		return nil
	}
	return &tech.ID
}

func (uc *UseCase) sendConfirmation(ctx context.Context, customerID int64, reference string, req *Request, names []string) {
	err := uc.notifyClient.SendConfirmation(ctx, &notify.Message{
		CustomerID:   customerID,
		Reference:    reference,
		Date:         req.Date.Format(domain.DateFormat),
		Time:         req.StartTime.String(),
		ServiceNames: strings.Join(names, ", "),
	})
	if err != nil {
		uc.logger.Warn("BookAppointment: confirmation send failed for ref=%s: %v", reference, err)
	}
}
