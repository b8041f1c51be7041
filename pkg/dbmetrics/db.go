package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/autobay/shop-scheduling-service/pkg/metrics"
)

// DB wraps *sql.DB and reports per-query latency to the metrics collector.
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// Wrap instruments db with the given collector.
func Wrap(db *sql.DB, collector *metrics.Metrics) *DB {
	return &DB{db: db, metrics: collector}
}

// WrapWithDefault instruments db and starts a background goroutine that
// samples connection-pool stats every 15s until stopCh is closed.
func WrapWithDefault(db *sql.DB, collector *metrics.Metrics, pool string, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, collector)

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				stats := db.Stats()
				collector.SetDBPoolStats(pool, stats.OpenConnections, stats.InUse, stats.Idle)
			}
		}
	}()

	return wrapped
}

// operationName extracts the leading SQL verb for the metrics label.
func operationName(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

func (d *DB) observe(query string, start time.Time) {
	d.metrics.ObserveDBQuery(operationName(query), time.Since(start))
}

// ExecContext implements DBExecutor.
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	defer d.observe(query, start)
	return d.db.ExecContext(ctx, query, args...)
}

// QueryContext implements DBExecutor.
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	defer d.observe(query, start)
	return d.db.QueryContext(ctx, query, args...)
}

// QueryRowContext implements DBExecutor.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	defer d.observe(query, start)
	return d.db.QueryRowContext(ctx, query, args...)
}

// BeginTx opens an instrumented transaction.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, metrics: d.metrics}, nil
}

// Tx is an instrumented transaction.
type Tx struct {
	tx      *sql.Tx
	metrics *metrics.Metrics
}

func (t *Tx) observe(query string, start time.Time) {
	t.metrics.ObserveDBQuery(operationName(query), time.Since(start))
}

// ExecContext implements DBExecutor.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	defer t.observe(query, start)
	return t.tx.ExecContext(ctx, query, args...)
}

// QueryContext implements DBExecutor.
func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	defer t.observe(query, start)
	return t.tx.QueryContext(ctx, query, args...)
}

// QueryRowContext implements DBExecutor.
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	defer t.observe(query, start)
	return t.tx.QueryRowContext(ctx, query, args...)
}

// Commit commits the transaction.
func (t *Tx) Commit() error { return t.tx.Commit() }

// Rollback rolls the transaction back.
func (t *Tx) Rollback() error { return t.tx.Rollback() }
