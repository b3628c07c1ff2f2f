package http

import (
	"errors"
	"net/http"
	"strings"

	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/table"
)

type listResponse struct {
	Expenses []core.Expense  `json:"expenses"`
	Sort     table.SortState `json:"sort"`
	Count    int             `json:"count"`
	Total    core.Money      `json:"total"`
}

type updateResponse struct {
	Expense core.Expense `json:"expense"`
	Updated bool         `json:"updated"`
}

type bulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

// parseSortState reads ?sort=&dir=. Without sort the dashboard default
// applies; with sort but without dir the order is ascending.
func parseSortState(r *http.Request) (table.SortState, error) {
	q := r.URL.Query()
	col := strings.TrimSpace(q.Get("sort"))
	dir := strings.TrimSpace(q.Get("dir"))
	if col == "" && dir == "" {
		return table.DefaultSortState, nil
	}

	state := table.SortState{Column: table.DefaultSortState.Column, Direction: table.Asc}
	if col != "" {
		c, err := table.ParseColumn(col)
		if err != nil {
			return table.SortState{}, err
		}
		state.Column = c
	}
	if dir != "" {
		d, err := table.ParseDirection(dir)
		if err != nil {
			return table.SortState{}, err
		}
		state.Direction = d
	}
	return state, nil
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	state, err := parseSortState(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows := s.sorter.Sort(s.store.Expenses(), state)
	var total core.Money
	for _, e := range rows {
		total = total.Add(e.Amount)
	}
	writeJSON(w, http.StatusOK, listResponse{Expenses: rows, Sort: state, Count: len(rows), Total: total})
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var p expensePayload
	if err := decodeJSON(w, r, &p); err != nil {
		s.writeInputError(w, r, err)
		return
	}

	draft, err := p.toDraft(s.now())
	if err != nil {
		s.writeInputError(w, r, err)
		return
	}

	created, err := s.store.Add(r.Context(), draft)
	if err != nil {
		s.writeInputError(w, r, err)
		return
	}

	s.events.LogExpenseCreated(r.Context(), created.ID, created.Description, created.Amount.Cents, string(created.Category))
	w.Header().Set("Location", "/api/expenses/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateExpense replaces a record in full. An unknown id is accepted
// and changes nothing, which the response reports as updated=false.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var p expensePayload
	if err := decodeJSON(w, r, &p); err != nil {
		s.writeInputError(w, r, err)
		return
	}

	existing, found := s.store.Get(id)
	fallback := s.now()
	if found {
		fallback = existing.Date
	}
	draft, err := p.toDraft(fallback)
	if err != nil {
		s.writeInputError(w, r, err)
		return
	}

	updated := draft.WithID(id)
	if err := s.store.Update(r.Context(), updated); err != nil {
		s.writeInputError(w, r, err)
		return
	}

	if found {
		s.events.LogExpenseUpdated(r.Context(), id, updated.Description, updated.Amount.Cents, string(updated.Category))
		if stored, ok := s.store.Get(id); ok {
			updated = stored
		}
	}
	writeJSON(w, http.StatusOK, updateResponse{Expense: updated, Updated: found})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	removed := s.store.DeleteMany(r.Context(), r.PathValue("id"))
	s.events.LogExpensesDeleted(r.Context(), log.OpDelete, 1, removed)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeInputError(w, r, err)
		return
	}

	removed := 0
	if len(req.IDs) > 0 {
		removed = s.store.DeleteMany(r.Context(), req.IDs...)
	}
	s.events.LogExpensesDeleted(r.Context(), log.OpBulkDelete, len(req.IDs), removed)
	writeJSON(w, http.StatusOK, bulkDeleteResponse{Deleted: removed})
}

func (s *Server) handleClearExpenses(w http.ResponseWriter, r *http.Request) {
	before := s.store.Len()
	s.store.Clear(r.Context())
	s.events.LogExpensesDeleted(r.Context(), log.OpClear, before, before)
	w.WriteHeader(http.StatusNoContent)
}

// writeInputError maps validation failures to 422 and malformed bodies to 400.
func (s *Server) writeInputError(w http.ResponseWriter, r *http.Request, err error) {
	var fe core.FieldErrors
	if errors.As(err, &fe) {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Expense rejected", log.FieldError, err)
		writeFieldErrors(w, fe)
		return
	}

	var bad badRequestError
	if errors.As(err, &bad) {
		writeError(w, http.StatusBadRequest, bad.Error())
		return
	}

	s.events.LogError(r.Context(), "Unexpected error handling expense request", err, r.Method, nil)
	writeError(w, http.StatusInternalServerError, "internal error")
}
