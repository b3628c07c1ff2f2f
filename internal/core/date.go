package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

// localLayouts carry no zone and are read on the local wall clock.
var localLayouts = []string{"2006-01-02T15:04:05", "2006-01-02"}

// ParseDate accepts RFC 3339 timestamps, zone-less timestamps and plain
// calendar dates. Zone-less values are local wall-clock times, so
// "2025-03-01" is local midnight of that day. The result is in local time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.Local(), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
