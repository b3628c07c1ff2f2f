package google

import (
	"fmt"
	"strings"

	"expenses/internal/core"
)

const dateLayout = "2006-01-02"

var header = []any{"Date", "Description", "Amount", "Category", "Notes", "ID"}

// toRows lays out expenses as Date, Description, Amount, Category, Notes, ID
// under a header row.
func toRows(expenses []core.Expense) [][]any {
	rows := make([][]any, 0, len(expenses)+1)
	rows = append(rows, header)
	for _, e := range expenses {
		rows = append(rows, []any{
			e.Date.Format(dateLayout),
			e.Description,
			e.Amount.Float(),
			string(e.Category),
			e.Notes,
			e.ID,
		})
	}
	return rows
}

// parseRows is the inverse of toRows. It returns the rows it could read and
// the number it had to skip.
func parseRows(values [][]any) ([]core.Expense, int) {
	var (
		out     []core.Expense
		skipped int
	)
	for i, row := range values {
		cols := toStrings(row)
		if i == 0 && len(cols) > 0 && strings.EqualFold(cols[0], "date") {
			continue
		}
		if isBlank(cols) {
			continue
		}
		e, err := parseRow(cols)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, e)
	}
	return out, skipped
}

func parseRow(cols []string) (core.Expense, error) {
	if len(cols) < 6 {
		return core.Expense{}, fmt.Errorf("want 6 columns, got %d", len(cols))
	}
	date, err := core.ParseDate(cols[0])
	if err != nil {
		return core.Expense{}, err
	}
	cents, err := core.ParseDecimalToCents(cols[2])
	if err != nil {
		return core.Expense{}, err
	}
	category, err := core.ParseCategory(cols[3])
	if err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{
		ID:          cols[5],
		Description: cols[1],
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Date:        date,
		Notes:       cols[4],
	}
	return e, e.Validate()
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func isBlank(cols []string) bool {
	for _, c := range cols {
		if c != "" {
			return false
		}
	}
	return true
}
