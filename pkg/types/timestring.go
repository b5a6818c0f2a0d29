package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// TimeString represents a time of day in "HH:MM" format.
// Stored as a plain string so it maps cleanly onto the TIME column type.
type TimeString string

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format, expected HH:MM")
)

const timeLayout = "15:04"

// NewTimeString creates a TimeString from a time.Time, truncating to HH:MM.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString parses and validates an "HH:MM" string.
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// Validate checks that the value is a well-formed "HH:MM" time.
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// IsZero returns true for the empty value.
func (t TimeString) IsZero() bool {
	return t == ""
}

// String returns the raw "HH:MM" representation.
func (t TimeString) String() string {
	return string(t)
}

// AddMinutes returns a new TimeString shifted forward by the given number of minutes.
// The result wraps around midnight, matching TIME column semantics.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return TimeString(parsed.Add(time.Duration(minutes) * time.Minute).Format(timeLayout)), nil
}

// IsBefore reports whether t is strictly earlier than other.
// Lexicographic comparison is correct for zero-padded "HH:MM" values.
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// IsAfter reports whether t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return string(t) > string(other)
}

// Value implements driver.Valuer.
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

// Scan implements sql.Scanner. Accepts TIME values coming back as string,
// []byte or time.Time depending on the driver.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// Postgres TIME columns come back as "HH:MM:SS"
	if len(s) > 5 {
		s = s[:5]
	}
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return err
	}
	*t = ts
	return nil
}
