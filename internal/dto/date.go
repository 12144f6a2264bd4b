package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the date-only form accepted for due dates.
const DateLayout = "2006-01-02"

// DueDate decodes either an RFC 3339 timestamp or a plain date. A plain date
// is read as midnight UTC.
type DueDate struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DueDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("due date must be a string: %w", err)
	}

	for _, layout := range []string{time.RFC3339Nano, DateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid due date %q", raw)
}

// Ptr returns the decoded time, or nil when d is nil.
func (d *DueDate) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
