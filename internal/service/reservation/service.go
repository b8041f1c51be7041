package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	slotRepo "github.com/autobay/shop-scheduling-service/internal/infra/storage/slot"
	"github.com/autobay/shop-scheduling-service/pkg/types"
)

// Window identifies a reservation target: a bay, a day and a start time for
// a given duration.
type Window struct {
	BayID           int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
}

// Service is the reservation coordinator. Every mutation runs inside a
// single serializable transaction, so a reservation either fully succeeds or
// leaves no trace; competing callers for the same slots see exactly one
// winner. All cross-process coordination happens through the database's row
// locks, never through in-process state.
type Service struct {
	slotRepo    SlotRepository
	apptRepo    AppointmentRepository
	txManager   TransactionManager
	granularity int
	logger      Logger
}

// NewService creates a reservation coordinator.
func NewService(
	slotRepo SlotRepository,
	apptRepo AppointmentRepository,
	txManager TransactionManager,
	granularityMinutes int,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:    slotRepo,
		apptRepo:    apptRepo,
		txManager:   txManager,
		granularity: granularityMinutes,
		logger:      logger,
	}
}

// starts expands a window into the exact slot start times it claims.
func (s *Service) starts(w Window) ([]types.TimeString, error) {
	needed := domain.SlotsNeeded(w.DurationMinutes, s.granularity)
	if needed == 0 {
		return nil, ErrInvalidWindow
	}
	starts, err := domain.ConsecutiveStarts(w.StartTime, needed, s.granularity)
	if err != nil {
		return nil, fmt.Errorf("%w: expand window starts: %v", ErrInternal, err)
	}
	return starts, nil
}

// Reserve atomically claims the window's slots for the appointment.
// Reserving a window the appointment already owns succeeds, so a retry after
// an ambiguous timeout is safe.
func (s *Service) Reserve(ctx context.Context, appointmentID int64, w Window) error {
	starts, err := s.starts(w)
	if err != nil {
		return err
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return s.slotRepo.Reserve(txCtx, w.BayID, w.Date, starts, appointmentID)
	})
	if err != nil {
		return s.mapReserveError(appointmentID, w, err)
	}

	s.logger.Info("Reserve: appointment=%d claimed %d slots bay=%d date=%s start=%s",
		appointmentID, len(starts), w.BayID, w.Date.Format(domain.DateFormat), w.StartTime)
	return nil
}

// Release returns every slot owned by the appointment to the pool.
func (s *Service) Release(ctx context.Context, appointmentID int64) error {
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return s.slotRepo.Release(txCtx, appointmentID)
	})
	if err != nil {
		s.logger.Error("Release: appointment=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: release slots: %v", ErrInternal, err)
	}

	s.logger.Info("Release: appointment=%d slots returned to pool", appointmentID)
	return nil
}

// Transfer moves an appointment's slot ownership to a new window and updates
// its schedule, all in one serializable transaction. On any failure the
// transaction rolls back, restoring the original slot ownership before the
// error reaches the caller, so no other booker can observe a half-moved
// appointment.
func (s *Service) Transfer(ctx context.Context, appointmentID int64, to Window) error {
	starts, err := s.starts(to)
	if err != nil {
		return err
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.slotRepo.Release(txCtx, appointmentID); err != nil {
			return err
		}
		if err := s.slotRepo.Reserve(txCtx, to.BayID, to.Date, starts, appointmentID); err != nil {
			return err
		}
		// The appointment row only ever changes after its new slots are
		// locked in, inside the same transaction.
		return s.apptRepo.UpdateSchedule(txCtx, appointmentID, to.BayID, to.Date, to.StartTime)
	})
	if err != nil {
		return s.mapReserveError(appointmentID, to, err)
	}

	s.logger.Info("Transfer: appointment=%d moved to bay=%d date=%s start=%s",
		appointmentID, to.BayID, to.Date.Format(domain.DateFormat), to.StartTime)
	return nil
}

// Cancel releases every slot the appointment owns and marks it cancelled in
// the same transaction, so the slots return to the pool exactly when the
// cancellation becomes visible.
func (s *Service) Cancel(ctx context.Context, appointmentID int64, reason string) error {
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.slotRepo.Release(txCtx, appointmentID); err != nil {
			return err
		}
		return s.apptRepo.Cancel(txCtx, appointmentID, reason)
	})
	if err != nil {
		s.logger.Error("Cancel: appointment=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: cancel appointment: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: appointment=%d cancelled, slots returned to pool", appointmentID)
	return nil
}

// Extend claims the additional trailing slots needed to grow an appointment
// from oldDuration to newDuration, contiguous with its current block. The
// appointment keeps its original block untouched whether or not the
// extension succeeds.
func (s *Service) Extend(ctx context.Context, appointmentID int64, w Window, newDurationMinutes int) error {
	oldSlots := domain.SlotsNeeded(w.DurationMinutes, s.granularity)
	newSlots := domain.SlotsNeeded(newDurationMinutes, s.granularity)
	if newSlots < oldSlots {
		return ErrInvalidWindow
	}
	if newSlots == oldSlots {
		// The new services fit in the already claimed block.
		return nil
	}

	trailingStart, err := w.StartTime.AddMinutes(oldSlots * s.granularity)
	if err != nil {
		return fmt.Errorf("%w: compute trailing start: %v", ErrInternal, err)
	}
	starts, err := domain.ConsecutiveStarts(trailingStart, newSlots-oldSlots, s.granularity)
	if err != nil {
		return fmt.Errorf("%w: expand trailing starts: %v", ErrInternal, err)
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return s.slotRepo.Reserve(txCtx, w.BayID, w.Date, starts, appointmentID)
	})
	if err != nil {
		return s.mapReserveError(appointmentID, w, err)
	}

	s.logger.Info("Extend: appointment=%d claimed %d trailing slots from %s",
		appointmentID, len(starts), trailingStart)
	return nil
}

// OwnedSlots returns the slots currently claimed by the appointment.
func (s *Service) OwnedSlots(ctx context.Context, appointmentID int64) ([]*domain.Slot, error) {
	slots, err := s.slotRepo.GetByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch owned slots: %v", ErrInternal, err)
	}
	return slots, nil
}

func (s *Service) mapReserveError(appointmentID int64, w Window, err error) error {
	switch {
	case errors.Is(err, slotRepo.ErrSlotNotAvailable):
		s.logger.Warn("reservation lost race: appointment=%d bay=%d date=%s start=%s",
			appointmentID, w.BayID, w.Date.Format(domain.DateFormat), w.StartTime)
		return ErrWindowUnavailable
	case errors.Is(err, slotRepo.ErrMissingInventory):
		s.logger.Warn("reservation without inventory: appointment=%d bay=%d date=%s start=%s",
			appointmentID, w.BayID, w.Date.Format(domain.DateFormat), w.StartTime)
		return ErrNoInventory
	default:
		s.logger.Error("reservation failed: appointment=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
