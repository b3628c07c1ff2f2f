// Package memory is an in-process sheets.Mirror for tests and for running
// the worker without Google credentials.
package memory

import (
	"context"
	"slices"
	"sync"

	"expenses/internal/core"
	"expenses/internal/sheets"
)

type Mirror struct {
	mu       sync.Mutex
	items    []core.Expense
	replaces int
}

var (
	_ sheets.Mirror = (*Mirror)(nil)
	_ sheets.Lister = (*Mirror)(nil)
)

func New() *Mirror {
	return &Mirror{}
}

func (m *Mirror) ReplaceAll(_ context.Context, expenses []core.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = slices.Clone(expenses)
	m.replaces++
	return nil
}

func (m *Mirror) ListExpenses(_ context.Context) ([]core.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items), nil
}

// Replaces reports how many times the mirror was overwritten.
func (m *Mirror) Replaces() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replaces
}
