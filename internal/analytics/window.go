// Package analytics filters expenses into rolling time windows and breaks
// the result down by category.
package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"expenses/internal/core"
)

// Window is a relative date range ending at "now".
type Window string

const (
	// Day covers everything since midnight today.
	Day Window = "1D"
	// Week covers everything since midnight seven calendar days ago.
	Week Window = "1W"
)

// DefaultWindow is the window a fresh tracker starts with.
const DefaultWindow = Day

// Windows lists the selectable windows in display order.
var Windows = []Window{Day, Week}

var ErrUnknownWindow = errors.New("unknown window")

// ParseWindow accepts the window codes, case-insensitively.
func ParseWindow(s string) (Window, error) {
	w := Window(strings.ToUpper(strings.TrimSpace(s)))
	if !w.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownWindow, s)
	}
	return w, nil
}

func (w Window) Valid() bool {
	return w == Day || w == Week
}

func (w Window) String() string { return string(w) }

func (w Window) Label() string {
	switch w {
	case Week:
		return "Last 7 days"
	default:
		return "Today"
	}
}

// Start returns the inclusive lower bound of w relative to now, in now's
// location. Unknown windows behave like Day.
func (w Window) Start(now time.Time) time.Time {
	y, m, d := now.Date()
	if w == Week {
		d -= 7
	}
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Filter returns the expenses dated within [w.Start(now), now]. The input is
// not modified.
func Filter(expenses []core.Expense, w Window, now time.Time) []core.Expense {
	start := w.Start(now)
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Date.Before(start) || e.Date.After(now) {
			continue
		}
		out = append(out, e)
	}
	return out
}
