package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/pkg/dbmetrics"
	"github.com/autobay/shop-scheduling-service/pkg/psqlbuilder"
	"github.com/autobay/shop-scheduling-service/pkg/types"
)

const slotColumns = "id, bay_id, date, start_time, end_time, is_available, appointment_id"

// Repository is the slot inventory store. Reserve and Release implement the
// atomic claim protocol; everything else is plain inventory access.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a slot repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// InsertMany inserts slot rows, silently skipping any (bay, date, start_time)
// that already exists. Generation is therefore idempotent and safe to re-run
// over an already-populated window. Returns the number of rows inserted.
func (r *Repository) InsertMany(ctx context.Context, slots []domain.Slot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("slots").
		Columns("bay_id", "date", "start_time", "end_time", "is_available")
	for _, s := range slots {
		builder = builder.Values(s.BayID, s.Date, s.StartTime, s.EndTime, true)
	}

	query, args, err := builder.
		Suffix("ON CONFLICT (bay_id, date, start_time) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertMany - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: InsertMany - execute insert: %v", ErrExecQuery, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: InsertMany - rows affected: %v", ErrExecQuery, err)
	}
	return inserted, nil
}

// Prune deletes stale inventory strictly before the given date. Only still
// available rows are removed: booked history stays for the audit trail.
func (r *Repository) Prune(ctx context.Context, before time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Lt{"date": before}).
		Where(squirrel.Eq{"is_available": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Prune - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: Prune - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: Prune - rows affected: %v", ErrExecQuery, err)
	}
	return deleted, nil
}

// GetAvailableByBayAndDate returns the still-available slots of one bay on one
// day, ordered by start time. The result is advisory: availability must be
// re-verified inside Reserve.
func (r *Repository) GetAvailableByBayAndDate(ctx context.Context, bayID int64, date time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns).
		From("slots").
		Where(squirrel.Eq{"bay_id": bayID, "date": date, "is_available": true}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAvailableByBayAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAvailableByBayAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetByAppointment returns the slots currently owned by an appointment,
// ordered by date and start time.
func (r *Repository) GetByAppointment(ctx context.Context, appointmentID int64) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns).
		From("slots").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("date ASC, start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// Reserve atomically claims the slots at the given start times for an
// appointment. It must run inside an open transaction: the required rows are
// locked with FOR UPDATE, every one is verified available, and only then are
// they all marked claimed. Any unavailable slot aborts the whole reservation
// with ErrSlotNotAvailable and no partial effect.
//
// Slots already owned by the same appointment count as available, so a retry
// after an ambiguous timeout is safe.
func (r *Repository) Reserve(ctx context.Context, bayID int64, date time.Time, starts []types.TimeString, appointmentID int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "start_time", "is_available", "appointment_id").
		From("slots").
		Where(squirrel.Eq{"bay_id": bayID, "date": date, "start_time": starts}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reserve - build lock query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reserve - lock slots: %v", ErrExecQuery, err)
	}

	locked := 0
	for rows.Next() {
		var (
			id        int64
			start     types.TimeString
			available bool
			owner     sql.NullInt64
		)
		if err := rows.Scan(&id, &start, &available, &owner); err != nil {
			rows.Close()
			return fmt.Errorf("%w: Reserve - scan locked slot: %v", ErrScanRow, err)
		}
		locked++

		if !available && (!owner.Valid || owner.Int64 != appointmentID) {
			rows.Close()
			return ErrSlotNotAvailable
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("%w: Reserve - rows error: %v", ErrScanRow, err)
	}
	rows.Close()

	if locked != len(starts) {
		return fmt.Errorf("%w: have %d of %d slots", ErrMissingInventory, locked, len(starts))
	}

	updateQuery, updateArgs, err := psqlbuilder.Update("slots").
		Set("is_available", false).
		Set("appointment_id", appointmentID).
		Where(squirrel.Eq{"bay_id": bayID, "date": date, "start_time": starts}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, updateQuery, updateArgs...)
	if err != nil {
		return fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reserve - rows affected: %v", ErrExecQuery, err)
	}
	if updated != int64(len(starts)) {
		// The rows were locked above, so this indicates concurrent DDL or a
		// broken invariant rather than an ordinary race.
		return fmt.Errorf("%w: updated %d of %d locked slots", ErrExecQuery, updated, len(starts))
	}

	return nil
}

// Release returns every slot owned by the appointment to the open pool.
// Releasing an appointment that owns nothing is a no-op, which makes cancel
// and compensation paths idempotent.
func (r *Repository) Release(ctx context.Context, appointmentID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_available", true).
		Set("appointment_id", nil).
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}
	return nil
}

// CountBookedByBayAndDate returns booked slot counts per bay for one day.
// Used by the analytics read side only.
func (r *Repository) CountBookedByBayAndDate(ctx context.Context, date time.Time) (map[int64]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("bay_id", "COUNT(*)").
		From("slots").
		Where(squirrel.Eq{"date": date, "is_available": false}).
		GroupBy("bay_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountBookedByBayAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountBookedByBayAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var bayID int64
		var count int
		if err := rows.Scan(&bayID, &count); err != nil {
			return nil, fmt.Errorf("%w: CountBookedByBayAndDate - scan row: %v", ErrScanRow, err)
		}
		counts[bayID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountBookedByBayAndDate - rows error: %v", ErrScanRow, err)
	}
	return counts, nil
}

// CountTotalByBayAndDate returns total slot counts per bay for one day.
func (r *Repository) CountTotalByBayAndDate(ctx context.Context, date time.Time) (map[int64]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("bay_id", "COUNT(*)").
		From("slots").
		Where(squirrel.Eq{"date": date}).
		GroupBy("bay_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CountTotalByBayAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountTotalByBayAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var bayID int64
		var count int
		if err := rows.Scan(&bayID, &count); err != nil {
			return nil, fmt.Errorf("%w: CountTotalByBayAndDate - scan row: %v", ErrScanRow, err)
		}
		counts[bayID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountTotalByBayAndDate - rows error: %v", ErrScanRow, err)
	}
	return counts, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		var s domain.Slot
		var appointmentID sql.NullInt64

		if err := rows.Scan(
			&s.ID,
			&s.BayID,
			&s.Date,
			&s.StartTime,
			&s.EndTime,
			&s.IsAvailable,
			&appointmentID,
		); err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}

		if appointmentID.Valid {
			s.AppointmentID = &appointmentID.Int64
		}
		slots = append(slots, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}
	return slots, nil
}
