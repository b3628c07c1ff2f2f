package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"expenses/internal/core"
)

// record is the persisted shape of an expense. Dates are ISO-8601 strings.
type record struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Category    string     `json:"category"`
	Date        string     `json:"date"`
	Notes       string     `json:"notes,omitempty"`
}

// Encode serializes the list in its persisted form.
func Encode(expenses []core.Expense) ([]byte, error) {
	records := make([]record, len(expenses))
	for i, e := range expenses {
		records[i] = record{
			ID:          e.ID,
			Description: e.Description,
			Amount:      e.Amount,
			Category:    string(e.Category),
			Date:        e.Date.UTC().Format(time.RFC3339Nano),
			Notes:       e.Notes,
		}
	}
	return json.Marshal(records)
}

// Decode parses a persisted list. Any malformed record fails the whole
// document; callers treat that as absent data.
func Decode(data []byte) ([]core.Expense, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}

	out := make([]core.Expense, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if strings.TrimSpace(r.ID) == "" {
			return nil, fmt.Errorf("record %d: missing id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("record %d: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = struct{}{}

		date, err := core.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		category, err := core.ParseCategory(r.Category)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, core.Expense{
			ID:          r.ID,
			Description: r.Description,
			Amount:      r.Amount,
			Category:    category,
			Date:        date,
			Notes:       r.Notes,
		})
	}
	return out, nil
}
