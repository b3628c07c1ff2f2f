package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"expenses/internal/core"
)

const maxBodyBytes = 1 << 20

// expensePayload is the body of create and update requests. Date is
// optional; see toDraft.
type expensePayload struct {
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Category    string     `json:"category"`
	Date        string     `json:"date"`
	Notes       string     `json:"notes"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// badRequestError is a body that is not the expected JSON.
type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

// decodeJSON reads a size-limited JSON body into v. An amount that is not a
// number comes back as FieldErrors; anything else malformed as
// badRequestError.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(body).Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, core.ErrInvalidAmount):
		return core.FieldErrors{"amount": "Amount must be a number"}
	case errors.Is(err, io.EOF):
		return badRequestError{errors.New("request body is empty")}
	default:
		return badRequestError{fmt.Errorf("malformed JSON: %w", err)}
	}
}

// toDraft turns the payload into a draft; a missing date becomes fallback.
func (p expensePayload) toDraft(fallback time.Time) (core.Draft, error) {
	d := core.Draft{
		Description: sanitizeInput(p.Description),
		Amount:      p.Amount,
		Category:    core.Category(strings.ToLower(strings.TrimSpace(p.Category))),
		Notes:       sanitizeInput(p.Notes),
		Date:        fallback,
	}
	if strings.TrimSpace(p.Date) != "" {
		date, err := core.ParseDate(p.Date)
		if err != nil {
			return core.Draft{}, core.FieldErrors{"date": "Date must be an ISO-8601 date"}
		}
		d.Date = date
	}
	return d, nil
}

// sanitizeInput removes control characters except tab and newlines, and trims
// whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}
