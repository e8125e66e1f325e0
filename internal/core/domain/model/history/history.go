// Package history models the locally stored coarse order-status transitions.
package history

import (
	"cmp"

	"tracking/internal/core/domain/model/kernel"
)

// LocalStatusRow is one stored status transition.
//
// Date is an 8-digit YYYYMMDD integer and TimeOfDaySeconds counts seconds
// since midnight (0..86399).
type LocalStatusRow struct {
	TransactionID    string
	StatusLabel      string
	Date             int
	TimeOfDaySeconds int
}

// Timestamp decodes the row's date and time of day. Rows holding values
// outside the encoding yield the missing timestamp.
func (r LocalStatusRow) Timestamp() kernel.Timestamp {
	ts, err := kernel.DecodeLocalDateTime(r.Date, r.TimeOfDaySeconds)
	if err != nil {
		return kernel.MissingTimestamp()
	}
	return ts
}

// Compare orders rows by (Date, TimeOfDaySeconds) numerically.
func (r LocalStatusRow) Compare(other LocalStatusRow) int {
	if c := cmp.Compare(r.Date, other.Date); c != 0 {
		return c
	}
	return cmp.Compare(r.TimeOfDaySeconds, other.TimeOfDaySeconds)
}

// Latest returns the row with the largest (Date, TimeOfDaySeconds) pair.
// Among equal pairs the first row wins. ok is false when rows is empty.
func Latest(rows []LocalStatusRow) (latest LocalStatusRow, ok bool) {
	for i, row := range rows {
		if i == 0 || row.Compare(latest) > 0 {
			latest = row
		}
	}
	return latest, len(rows) > 0
}
