package bay

import "errors"

var (
	// ErrBayNotFound is returned when the bay does not exist.
	ErrBayNotFound = errors.New("bay.repository: bay not found")

	// ErrBuildQuery is returned when building a SQL statement fails.
	ErrBuildQuery = errors.New("bay.repository: failed to build query")

	// ErrExecQuery is returned when executing a SQL statement fails.
	ErrExecQuery = errors.New("bay.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("bay.repository: failed to scan row")
)
