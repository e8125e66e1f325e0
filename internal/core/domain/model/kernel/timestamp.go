package kernel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tracking/internal/pkg/errs"
)

const (
	// DisplayLayout is the rendering of every timestamp leaving the service.
	DisplayLayout = "02/01/2006 15:04:05"

	// DateDisplayLayout renders a calendar date without time of day.
	DateDisplayLayout = "02/01/2006"

	// ProviderLayout is the format the field-service provider uses.
	ProviderLayout = "2006-01-02 15:04:05"

	// Placeholder is rendered for a missing or unparseable timestamp.
	Placeholder = "—"

	// MaxSecondsOfDay is the largest valid time-of-day value in the local store.
	MaxSecondsOfDay = 86399
)

// ErrMalformedTimestamp is wrapped by every decoding failure in this file.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// Timestamp is an immutable wall-clock instant with second precision, or the
// missing value. The zero value is missing.
//
// Missing timestamps render as Placeholder and order before every valid
// instant. They are never replaced by a sort value: a missing timestamp stays
// missing in every output.
type Timestamp struct {
	t     time.Time
	valid bool
}

// NewTimestamp wraps t, dropping sub-second precision and the location so that
// instants from both sources compare as wall clocks.
func NewTimestamp(t time.Time) Timestamp {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	return Timestamp{t: wall, valid: true}
}

// MissingTimestamp returns the missing value.
func MissingTimestamp() Timestamp {
	return Timestamp{}
}

// ParseProviderTimestamp parses a "YYYY-MM-DD HH:MM:SS" value.
// Surrounding whitespace is ignored. Any other shape, including the empty
// string, returns the missing timestamp and an error wrapping ErrMalformedTimestamp.
func ParseProviderTimestamp(raw string) (Timestamp, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return MissingTimestamp(), fmt.Errorf("%w: empty value", ErrMalformedTimestamp)
	}

	t, err := time.ParseInLocation(ProviderLayout, value, time.UTC)
	if err != nil {
		return MissingTimestamp(), fmt.Errorf("%w: %q: %w", ErrMalformedTimestamp, value, err)
	}

	return NewTimestamp(t), nil
}

// ProviderTimestampOrMissing is ParseProviderTimestamp for callers that treat
// malformed input as missing.
func ProviderTimestampOrMissing(raw string) Timestamp {
	ts, _ := ParseProviderTimestamp(raw)
	return ts
}

// DecodeLocalDateTime decodes the local store encoding: an 8-digit YYYYMMDD
// date and the number of seconds since midnight.
//
// Example:
//
//	ts, _ := kernel.DecodeLocalDateTime(20251015, 58235)
//	fmt.Println(ts) // 15/10/2025 16:10:35
func DecodeLocalDateTime(date, secondsOfDay int) (Timestamp, error) {
	day, err := decodeDate(date)
	if err != nil {
		return MissingTimestamp(), err
	}

	if secondsOfDay < 0 || secondsOfDay > MaxSecondsOfDay {
		return MissingTimestamp(), fmt.Errorf("%w: %w", ErrMalformedTimestamp,
			errs.NewValueIsOutOfRangeError("seconds of day", secondsOfDay, 0, MaxSecondsOfDay))
	}

	hours := secondsOfDay / 3600
	minutes := (secondsOfDay % 3600) / 60
	seconds := secondsOfDay % 60

	return NewTimestamp(time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, seconds, 0, time.UTC)), nil
}

// RenderLocalDate renders an 8-digit YYYYMMDD date as "DD/MM/YYYY", or
// Placeholder when the value is not a calendar date.
func RenderLocalDate(date int) string {
	day, err := decodeDate(date)
	if err != nil {
		return Placeholder
	}
	return day.Format(DateDisplayLayout)
}

func decodeDate(date int) (time.Time, error) {
	if date < 10000101 || date > 99991231 {
		return time.Time{}, fmt.Errorf("%w: %w", ErrMalformedTimestamp,
			errs.NewValueIsOutOfRangeError("date", date, 10000101, 99991231))
	}

	year, month, day := date/10000, (date/100)%100, date%100
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	// time.Date normalizes overflow (e.g. 20250230 -> 2 March), so compare back.
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %w", ErrMalformedTimestamp,
			errs.NewValueIsInvalidErrorWithCause("date", fmt.Errorf("%d is not a calendar date", date)))
	}

	return t, nil
}

// IsValid reports whether the timestamp holds an instant.
func (ts Timestamp) IsValid() bool {
	return ts.valid
}

// Time returns the wall-clock instant. It is the zero time for a missing timestamp.
func (ts Timestamp) Time() time.Time {
	return ts.t
}

// Or returns ts when valid, otherwise fallback.
func (ts Timestamp) Or(fallback Timestamp) Timestamp {
	if ts.valid {
		return ts
	}
	return fallback
}

// Compare orders timestamps with missing values first.
// It returns -1, 0 or +1 like time.Time.Compare.
func (ts Timestamp) Compare(other Timestamp) int {
	switch {
	case !ts.valid && !other.valid:
		return 0
	case !ts.valid:
		return -1
	case !other.valid:
		return 1
	default:
		return ts.t.Compare(other.t)
	}
}

// Before reports whether ts sorts strictly before other.
func (ts Timestamp) Before(other Timestamp) bool {
	return ts.Compare(other) < 0
}

// IsEqual reports whether both timestamps render identically.
func (ts Timestamp) IsEqual(other Timestamp) bool {
	return ts.Compare(other) == 0
}

// String renders the timestamp in DisplayLayout, or Placeholder when missing.
func (ts Timestamp) String() string {
	if !ts.valid {
		return Placeholder
	}
	return ts.t.Format(DisplayLayout)
}

// ProviderString renders the timestamp back into ProviderLayout, or "" when
// missing. Used when task events are serialized for caching.
func (ts Timestamp) ProviderString() string {
	if !ts.valid {
		return ""
	}
	return ts.t.Format(ProviderLayout)
}
