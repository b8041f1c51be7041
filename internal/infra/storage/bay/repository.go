package bay

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/autobay/shop-scheduling-service/internal/domain"
	"github.com/autobay/shop-scheduling-service/pkg/dbmetrics"
	"github.com/autobay/shop-scheduling-service/pkg/psqlbuilder"
)

// Repository is the read-mostly bay store.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository creates a bay repository.
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID fetches one bay.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Bay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "bay_type", "is_active").
		From("bays").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var b domain.Bay
	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.Name, &b.BayType, &b.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrBayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan bay: %v", ErrScanRow, err)
	}
	return &b, nil
}

// ListActiveByType returns the active bays of one specialization class,
// ordered by id for stable search results.
func (r *Repository) ListActiveByType(ctx context.Context, bayType domain.BayType) ([]*domain.Bay, error) {
	return r.list(ctx, squirrel.Eq{"bay_type": bayType, "is_active": true})
}

// ListActive returns every active bay.
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Bay, error) {
	return r.list(ctx, squirrel.Eq{"is_active": true})
}

func (r *Repository) list(ctx context.Context, pred squirrel.Eq) ([]*domain.Bay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "bay_type", "is_active").
		From("bays").
		Where(pred).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: list - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bays := make([]*domain.Bay, 0)
	for rows.Next() {
		var b domain.Bay
		if err := rows.Scan(&b.ID, &b.Name, &b.BayType, &b.IsActive); err != nil {
			return nil, fmt.Errorf("%w: list - scan bay: %v", ErrScanRow, err)
		}
		bays = append(bays, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list - rows error: %v", ErrScanRow, err)
	}
	return bays, nil
}
