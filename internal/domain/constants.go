package domain

// Default scheduling parameters. Every one of these is overridable from
// config.toml; the defaults match the shop's current operating profile.
const (
	DefaultSlotGranularityMinutes = 30
	DefaultMinLeadTimeMinutes     = 30
	DefaultCheckoutBufferMinutes  = 15
	DefaultRollingWindowDays      = 60
	DefaultRetentionDays          = 90
	DefaultMaxSearchResults       = 10
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxServicesPerVisit       = 10
	MaxNotesLength            = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
