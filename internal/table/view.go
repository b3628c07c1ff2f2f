package table

import (
	"context"
	"slices"
	"sync"

	"expenses/internal/core"
	"expenses/internal/store"
)

// Store is the part of the expense store a View drives.
type Store interface {
	Subscribe(store.Listener) (unsubscribe func())
	Delete(ctx context.Context, id string)
	DeleteMany(ctx context.Context, ids ...string) int
}

// Dashboard is a rendered view state.
type Dashboard struct {
	Rows        []core.Expense `json:"rows"`
	Sort        SortState      `json:"sort"`
	Selected    []string       `json:"selected"`
	AllSelected bool           `json:"allSelected"`
	Total       core.Money     `json:"total"`
}

type ViewOption func(*View)

func WithSorter(s *Sorter) ViewOption {
	return func(v *View) { v.sorter = s }
}

func WithSortState(s SortState) ViewOption {
	return func(v *View) { v.state = s }
}

// View is the dashboard table: rows sorted under the current state plus the
// selection, kept consistent with every store emission.
type View struct {
	mu        sync.Mutex
	store     Store
	sorter    *Sorter
	state     SortState
	rows      []core.Expense
	selection *Selection
	observers []func(Dashboard)

	unsubscribe func()
}

func NewView(s Store, opts ...ViewOption) *View {
	v := &View{
		store:     s,
		sorter:    defaultSorter,
		state:     DefaultSortState,
		selection: NewSelection(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.unsubscribe = s.Subscribe(v.onSnapshot)
	return v
}

// OnChange registers fn to receive the dashboard after every change.
func (v *View) OnChange(fn func(Dashboard)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.observers = append(v.observers, fn)
}

func (v *View) Dashboard() Dashboard {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dashboardLocked()
}

// Sort applies a click on column c.
func (v *View) Sort(c Column) {
	v.mu.Lock()
	v.state = v.state.Toggle(c)
	v.rows = v.sorter.Sort(v.rows, v.state)
	v.notifyAndUnlock()
}

func (v *View) SetSortState(s SortState) {
	v.mu.Lock()
	v.state = s
	v.rows = v.sorter.Sort(v.rows, v.state)
	v.notifyAndUnlock()
}

// ToggleSelection flips the selection of a displayed row. Ids that are not
// displayed are ignored.
func (v *View) ToggleSelection(id string) {
	v.mu.Lock()
	if !slices.ContainsFunc(v.rows, func(e core.Expense) bool { return e.ID == id }) {
		v.mu.Unlock()
		return
	}
	v.selection.Toggle(id)
	v.notifyAndUnlock()
}

func (v *View) ToggleAll() {
	v.mu.Lock()
	v.selection.ToggleAll(v.rows)
	v.notifyAndUnlock()
}

// DeleteSelected removes every selected expense in one store mutation and
// clears the selection. It returns the number removed.
func (v *View) DeleteSelected(ctx context.Context) int {
	v.mu.Lock()
	ids := v.selection.IDs()
	v.mu.Unlock()
	if len(ids) == 0 {
		return 0
	}

	// The store calls back into onSnapshot, so v.mu must not be held here.
	n := v.store.DeleteMany(ctx, ids...)

	v.mu.Lock()
	v.selection.Clear()
	v.notifyAndUnlock()
	return n
}

// Delete removes one expense and drops it from the selection.
func (v *View) Delete(ctx context.Context, id string) {
	v.store.Delete(ctx, id)

	v.mu.Lock()
	v.selection.Remove(id)
	v.mu.Unlock()
}

func (v *View) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
	}
}

func (v *View) onSnapshot(snap store.Snapshot) {
	v.mu.Lock()
	v.rows = v.sorter.Sort(snap.Expenses, v.state)
	v.selection.Retain(v.rows)
	v.notifyAndUnlock()
}

func (v *View) dashboardLocked() Dashboard {
	var total core.Money
	for _, e := range v.rows {
		total = total.Add(e.Amount)
	}
	return Dashboard{
		Rows:        slices.Clone(v.rows),
		Sort:        v.state,
		Selected:    v.selection.IDs(),
		AllSelected: v.selection.AllSelected(v.rows),
		Total:       total,
	}
}

// notifyAndUnlock must be called with v.mu held.
func (v *View) notifyAndUnlock() {
	d := v.dashboardLocked()
	observers := slices.Clone(v.observers)
	v.mu.Unlock()

	for _, fn := range observers {
		fn(d)
	}
}
