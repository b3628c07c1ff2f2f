package table

import (
	"slices"

	"expenses/internal/core"
)

// Selection is a set of expense ids. The zero value is not usable; call
// NewSelection.
type Selection struct {
	ids map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int { return len(s.ids) }

// Toggle flips membership of id and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	if s.Has(id) {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *Selection) Remove(id string) {
	delete(s.ids, id)
}

func (s *Selection) Clear() {
	clear(s.ids)
}

// AllSelected reports whether every displayed row is selected. An empty
// table is never all-selected.
func (s *Selection) AllSelected(displayed []core.Expense) bool {
	if len(displayed) == 0 || len(s.ids) != len(displayed) {
		return false
	}
	for _, e := range displayed {
		if !s.Has(e.ID) {
			return false
		}
	}
	return true
}

// ToggleAll clears the selection when every displayed row is selected and
// selects every displayed row otherwise.
func (s *Selection) ToggleAll(displayed []core.Expense) {
	if s.AllSelected(displayed) {
		s.Clear()
		return
	}
	for _, e := range displayed {
		s.ids[e.ID] = struct{}{}
	}
}

// Retain drops ids that are not displayed.
func (s *Selection) Retain(displayed []core.Expense) {
	present := make(map[string]struct{}, len(displayed))
	for _, e := range displayed {
		present[e.ID] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := present[id]; !ok {
			delete(s.ids, id)
		}
	}
}

// IDs returns the selected ids in lexical order.
func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
