package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/pkg/dbmetrics"
	"github.com/autobay/shop-scheduling-service/pkg/psqlbuilder"
	"github.com/autobay/shop-scheduling-service/pkg/types"
)

var appointmentColumns = []string{
	"id",
	"reference",
	"customer_id",
	"vehicle_id",
	"bay_id",
	"technician_id",
	"scheduled_date",
	"scheduled_time",
	"duration_minutes",
	"status",
	"notes",
	"service_names",
	"total_price",
	"cancellation_reason",
	"cancelled_at",
	"deleted_at",
	"created_at",
	"updated_at",
}

// Repository is the appointment store.
type Repository struct {
	db DBExecutor
}

// NewRepository creates an appointment repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a new appointment and fills in its generated fields.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"reference",
			"customer_id",
			"vehicle_id",
			"bay_id",
			"technician_id",
			"scheduled_date",
			"scheduled_time",
			"duration_minutes",
			"status",
			"notes",
			"service_names",
			"total_price",
		).
		Values(
			appt.Reference,
			appt.CustomerID,
			appt.VehicleID,
			appt.BayID,
			appt.TechnicianID,
			appt.ScheduledDate,
			appt.ScheduledTime,
			appt.DurationMinutes,
			appt.Status,
			appt.Notes,
			pq.Array(appt.ServiceNames),
			appt.TotalPrice,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time
	return appt, nil
}

// AddServices records the service line items of an appointment.
func (r *Repository) AddServices(ctx context.Context, appointmentID int64, services []*domain.Service) error {
	if len(services) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("appointment_services").
		Columns("appointment_id", "service_id", "service_name", "price", "duration_minutes")
	for _, svc := range services {
		builder = builder.Values(appointmentID, svc.ID, svc.Name, svc.Price, svc.DurationMinutes)
	}

	query, args, err := builder.
		Suffix("ON CONFLICT (appointment_id, service_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddServices - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: AddServices - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// GetByID fetches a non-deleted appointment.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByReference fetches a non-deleted appointment by its confirmation code.
func (r *Repository) GetByReference(ctx context.Context, reference string) (*domain.Appointment, error) {
	return r.getOne(ctx, squirrel.Eq{"reference": reference})
}

func (r *Repository) getOne(ctx context.Context, pred squirrel.Eq) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(pred).
		Where(squirrel.Eq{"deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	appt, err := scanAppointment(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan appointment: %v", ErrScanRow, err)
	}
	return appt, nil
}

// ListWithFilter returns appointments matching the filter. Soft-deleted rows
// are always excluded; inactive statuses only when IncludeInactive is false.
//
// Inside a transaction with a single-day range the rows are locked FOR UPDATE
// so conflict checks hold until commit.
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"deleted_at": nil})

	if filter.BayID != nil {
		builder = builder.Where(squirrel.Eq{"bay_id": *filter.BayID})
	}
	if filter.TechnicianID != nil {
		builder = builder.Where(squirrel.Eq{"technician_id": *filter.TechnicianID})
	}
	if filter.CustomerID != nil {
		builder = builder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"scheduled_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		builder = builder.Where(squirrel.LtOrEq{"scheduled_date": *filter.EndDate})
	}

	if filter.Status != nil {
		builder = builder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		builder = builder.Where(squirrel.NotEq{"status": inactive})
	}

	singleDay := filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate)
	if singleDay {
		builder = builder.OrderBy("scheduled_time ASC")
	} else {
		builder = builder.OrderBy("scheduled_date DESC, scheduled_time DESC")
	}

	if dbmetrics.IsInTransaction(ctx) && singleDay {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus sets the persisted status of an appointment.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	return r.exec(ctx, "UpdateStatus", psqlbuilder.Update("appointments").
		Set("status", status).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}))
}

// Cancel sets the cancelled status with a reason and timestamp.
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	return r.exec(ctx, "Cancel", psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}))
}

// MarkBookingFailed records a lost reservation race: the row is kept for the
// audit trail but soft-deleted so it never counts as active again.
func (r *Repository) MarkBookingFailed(ctx context.Context, id int64) error {
	return r.exec(ctx, "MarkBookingFailed", psqlbuilder.Update("appointments").
		Set("status", domain.StatusBookingFailed).
		Set("deleted_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
}

// UpdateSchedule moves the appointment to a new bay/date/time. Callers must
// only invoke this after the new slots are successfully reserved.
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, bayID int64, date time.Time, start types.TimeString) error {
	return r.exec(ctx, "UpdateSchedule", psqlbuilder.Update("appointments").
		Set("bay_id", bayID).
		Set("scheduled_date", date).
		Set("scheduled_time", start).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}))
}

// UpdateServices rewrites the denormalized service list, price and duration.
func (r *Repository) UpdateServices(ctx context.Context, id int64, serviceNames []string, totalPrice float64, durationMinutes int) error {
	return r.exec(ctx, "UpdateServices", psqlbuilder.Update("appointments").
		Set("service_names", pq.Array(serviceNames)).
		Set("total_price", totalPrice).
		Set("duration_minutes", durationMinutes).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}))
}

// AssignTechnician records a technician assignment. A nil technicianID clears
// the assignment.
func (r *Repository) AssignTechnician(ctx context.Context, id int64, technicianID *int64) error {
	return r.exec(ctx, "AssignTechnician", psqlbuilder.Update("appointments").
		Set("technician_id", technicianID).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}))
}

func (r *Repository) exec(ctx context.Context, method string, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, method, err)
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func scanAppointment(scan func(dest ...interface{}) error) (*domain.Appointment, error) {
	var a domain.Appointment
	var technicianID sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&a.ID,
		&a.Reference,
		&a.CustomerID,
		&a.VehicleID,
		&a.BayID,
		&technicianID,
		&a.ScheduledDate,
		&a.ScheduledTime,
		&a.DurationMinutes,
		&a.Status,
		&a.Notes,
		pq.Array(&a.ServiceNames),
		&a.TotalPrice,
		&a.CancellationReason,
		&a.CancelledAt,
		&a.DeletedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if technicianID.Valid {
		a.TechnicianID = &technicianID.Int64
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}
	return appointments, nil
}
