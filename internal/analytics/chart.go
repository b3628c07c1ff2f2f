package analytics

import "expenses/internal/core"

// Slice is one segment of the category pie chart.
type Slice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

var categoryColors = map[core.Category]string{
	core.Food:          "#22c55e",
	core.Transport:     "#3b82f6",
	core.Utilities:     "#f59e0b",
	core.Entertainment: "#a855f7",
	core.Other:         "#6b7280",
}

// CategoryColor returns the hex color used for c in charts and terminals.
func CategoryColor(c core.Category) string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return categoryColors[core.Other]
}

// ChartSlices maps totals to chart segments, preserving their order.
func ChartSlices(totals []CategoryTotal) []Slice {
	out := make([]Slice, 0, len(totals))
	for _, ct := range totals {
		out = append(out, Slice{
			Name:  string(ct.Category),
			Value: ct.Total.Float(),
			Color: CategoryColor(ct.Category),
		})
	}
	return out
}
