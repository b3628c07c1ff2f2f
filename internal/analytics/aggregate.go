package analytics

import (
	"slices"
	"time"

	"expenses/internal/core"
)

// CategoryTotal is the spend of one category within a filtered list.
type CategoryTotal struct {
	Category   core.Category `json:"category"`
	Total      core.Money    `json:"total"`
	Percentage float64       `json:"percentage"`
}

// Aggregate sums expenses per category in a single pass. Only categories
// that occur are returned, largest total first; equal totals keep the order
// in which their category first appeared.
func Aggregate(expenses []core.Expense) []CategoryTotal {
	var (
		order []core.Category
		sums  = make(map[core.Category]int64)
		grand int64
	)
	for _, e := range expenses {
		if _, seen := sums[e.Category]; !seen {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount.Cents
		grand += e.Amount.Cents
	}

	totals := make([]CategoryTotal, 0, len(order))
	for _, c := range order {
		ct := CategoryTotal{Category: c, Total: core.Money{Cents: sums[c]}}
		if grand > 0 {
			ct.Percentage = float64(sums[c]) / float64(grand) * 100
		}
		totals = append(totals, ct)
	}

	slices.SortStableFunc(totals, func(a, b CategoryTotal) int {
		switch {
		case a.Total.Cents > b.Total.Cents:
			return -1
		case a.Total.Cents < b.Total.Cents:
			return 1
		}
		return 0
	})
	return totals
}

// Summary is everything the analytics view renders for one window.
type Summary struct {
	Window     Window          `json:"range"`
	Label      string          `json:"label"`
	Start      time.Time       `json:"start"`
	End        time.Time       `json:"end"`
	Count      int             `json:"count"`
	Total      core.Money      `json:"total"`
	Categories []CategoryTotal `json:"categories"`
	Chart      []Slice         `json:"chart"`
}

// Summarize filters expenses to w and aggregates the result.
func Summarize(expenses []core.Expense, w Window, now time.Time) Summary {
	filtered := Filter(expenses, w, now)
	totals := Aggregate(filtered)

	var total core.Money
	for _, ct := range totals {
		total = total.Add(ct.Total)
	}

	return Summary{
		Window:     w,
		Label:      w.Label(),
		Start:      w.Start(now),
		End:        now,
		Count:      len(filtered),
		Total:      total,
		Categories: totals,
		Chart:      ChartSlices(totals),
	}
}
