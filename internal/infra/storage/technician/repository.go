package technician

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/pkg/dbmetrics"
	"github.com/autobay/shop-scheduling-service/pkg/psqlbuilder"
)

// Repository is the read-mostly technician/assignment/schedule store.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository creates a technician repository.
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID fetches one technician.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Technician, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "skill_level", "is_active").
		From("technicians").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.Technician
	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &t.Name, &t.SkillLevel, &t.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrTechnicianNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan technician: %v", ErrScanRow, err)
	}
	return &t, nil
}

// ListCandidatesByBay returns the active technicians assigned to a bay,
// with their primary flag for tie-breaking.
func (r *Repository) ListCandidatesByBay(ctx context.Context, bayID int64) ([]*domain.TechnicianCandidate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"t.id",
		"t.name",
		"t.skill_level",
		"t.is_active",
		"ba.is_primary",
	).
		From("technicians t").
		Join("bay_assignments ba ON ba.technician_id = t.id").
		Where(squirrel.Eq{"ba.bay_id": bayID, "t.is_active": true}).
		OrderBy("t.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListCandidatesByBay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListCandidatesByBay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	candidates := make([]*domain.TechnicianCandidate, 0)
	for rows.Next() {
		var c domain.TechnicianCandidate
		if err := rows.Scan(
			&c.Technician.ID,
			&c.Technician.Name,
			&c.Technician.SkillLevel,
			&c.Technician.IsActive,
			&c.IsPrimary,
		); err != nil {
			return nil, fmt.Errorf("%w: ListCandidatesByBay - scan candidate: %v", ErrScanRow, err)
		}
		candidates = append(candidates, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListCandidatesByBay - rows error: %v", ErrScanRow, err)
	}
	return candidates, nil
}

// ListShifts returns the active shifts of the given technicians on one
// weekday.
func (r *Repository) ListShifts(ctx context.Context, technicianIDs []int64, day time.Weekday) ([]*domain.Shift, error) {
	if len(technicianIDs) == 0 {
		return []*domain.Shift{}, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"technician_id",
		"day_of_week",
		"start_time",
		"end_time",
		"is_active",
	).
		From("schedules").
		Where(squirrel.Eq{
			"technician_id": technicianIDs,
			"day_of_week":   int(day),
			"is_active":     true,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListShifts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListShifts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		var s domain.Shift
		var dayOfWeek int
		if err := rows.Scan(&s.TechnicianID, &dayOfWeek, &s.StartTime, &s.EndTime, &s.IsActive); err != nil {
			return nil, fmt.Errorf("%w: ListShifts - scan shift: %v", ErrScanRow, err)
		}
		s.DayOfWeek = time.Weekday(dayOfWeek)
		shifts = append(shifts, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListShifts - rows error: %v", ErrScanRow, err)
	}
	return shifts, nil
}
