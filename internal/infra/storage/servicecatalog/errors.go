package servicecatalog

import "errors"

var (
	// ErrServiceNotFound is returned when a requested service id does not
	// exist or is inactive.
	ErrServiceNotFound = errors.New("servicecatalog.repository: service not found")

	// ErrBuildQuery is returned when building a SQL statement fails.
	ErrBuildQuery = errors.New("servicecatalog.repository: failed to build query")

	// ErrExecQuery is returned when executing a SQL statement fails.
	ErrExecQuery = errors.New("servicecatalog.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("servicecatalog.repository: failed to scan row")
)
