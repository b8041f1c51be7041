package types

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const timeLayout = "15:04"

// TimeString is a time-of-day value in "HH:MM" form.
// It is the wire and storage representation for slot start/end times.
type TimeString string

// NewTimeString builds a TimeString from the hour/minute of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString parses s as "HH:MM".
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid time string format %q: %w", s, err)
	}
	return NewTimeString(t), nil
}

// String returns the "HH:MM" representation.
func (ts TimeString) String() string {
	return string(ts)
}

// IsZero reports whether the value is unset.
func (ts TimeString) IsZero() bool {
	return ts == ""
}

// Validate checks that the value parses as "HH:MM".
func (ts TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(ts)); err != nil {
		return fmt.Errorf("invalid time string format %q: %w", string(ts), err)
	}
	return nil
}

// Minutes returns the value as minutes since midnight.
func (ts TimeString) Minutes() (int, error) {
	t, err := time.Parse(timeLayout, string(ts))
	if err != nil {
		return 0, fmt.Errorf("invalid time string format %q: %w", string(ts), err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// AddMinutes returns the time-of-day minutes later. The result wraps within a
// single day; callers validate against closing time before relying on it.
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	t, err := time.Parse(timeLayout, string(ts))
	if err != nil {
		return "", fmt.Errorf("invalid time string format %q: %w", string(ts), err)
	}
	return NewTimeString(t.Add(time.Duration(minutes) * time.Minute)), nil
}

// IsBefore reports whether ts is strictly earlier in the day than other.
// "HH:MM" strings with zero-padded fields compare correctly as strings.
func (ts TimeString) IsBefore(other TimeString) bool {
	return string(ts) < string(other)
}

// IsAfter reports whether ts is strictly later in the day than other.
func (ts TimeString) IsAfter(other TimeString) bool {
	return string(ts) > string(other)
}

// Equal reports whether both values name the same time of day.
func (ts TimeString) Equal(other TimeString) bool {
	return string(ts) == string(other)
}

// At anchors the time-of-day onto the given date.
func (ts TimeString) At(date time.Time) (time.Time, error) {
	t, err := time.Parse(timeLayout, string(ts))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time string format %q: %w", string(ts), err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// Value implements driver.Valuer.
func (ts TimeString) Value() (driver.Value, error) {
	if ts.IsZero() {
		return nil, nil
	}
	return string(ts), nil
}

// Scan implements sql.Scanner. Postgres TIME columns arrive as
// "HH:MM:SS"; the seconds component is dropped.
func (ts *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*ts = ""
		return nil
	case string:
		return ts.scanString(v)
	case []byte:
		return ts.scanString(string(v))
	case time.Time:
		*ts = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeString", src)
	}
}

func (ts *TimeString) scanString(s string) error {
	if len(s) > len(timeLayout) {
		s = s[:len(timeLayout)]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
