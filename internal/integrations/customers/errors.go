package customers

import "errors"

var (
	// ErrCustomerNotFound is returned when a lookup-only call finds no
	// customer for the phone number.
	ErrCustomerNotFound = errors.New("customers client: customer not found")

	// ErrMissingCustomerFields is returned when a new customer would be
	// created but the required name fields are absent.
	ErrMissingCustomerFields = errors.New("customers client: missing required fields for new customer")

	// ErrInternal is returned on client-side failures.
	ErrInternal = errors.New("customers client: internal error")

	// ErrInvalidResponse is returned when the store answers in an
	// unexpected shape.
	ErrInvalidResponse = errors.New("customers client: invalid response")
)
