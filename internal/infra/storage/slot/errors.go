package slot

import "errors"

var (
	// ErrSlotNotAvailable is returned when any required slot is already
	// claimed by another appointment at reserve time.
	ErrSlotNotAvailable = errors.New("slot.repository: slot not available")

	// ErrMissingInventory is returned when the slot rows for the requested
	// window have not been generated.
	ErrMissingInventory = errors.New("slot.repository: slot inventory missing for window")

	// ErrNotInTransaction is returned when Reserve is called outside an open
	// transaction; the reserve protocol is only correct under row locks.
	ErrNotInTransaction = errors.New("slot.repository: reserve requires an open transaction")

	// ErrBuildQuery is returned when building a SQL statement fails.
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery is returned when executing a SQL statement fails.
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
