package customers

// Customer is the customer record from the customer/vehicle store.
type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
}

// Vehicle is a customer's vehicle record.
type Vehicle struct {
	ID           int64  `json:"id"`
	CustomerID   int64  `json:"customer_id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"license_plate,omitempty"`
}

// LookupOrCreateRequest identifies a customer by phone, creating the record
// when it does not exist yet. First/last name are required only for new
// customers.
type LookupOrCreateRequest struct {
	Phone     string `json:"phone"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// VehicleRequest attaches or resolves a vehicle for a customer.
type VehicleRequest struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year,omitempty"`
}

// ErrorResponse is the error shape returned by the customer store.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
