package table

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenses/internal/core"
	"expenses/internal/store"
)

var base = time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

func row(id, desc string, c core.Category, amount string, dayOffset int) core.Expense {
	return core.Expense{
		ID:          id,
		Description: desc,
		Amount:      core.MustParseMoney(amount),
		Category:    c,
		Date:        base.AddDate(0, 0, dayOffset),
	}
}

func ids(list []core.Expense) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.ID
	}
	return out
}

func sample() []core.Expense {
	return []core.Expense{
		row("a", "banana bread", core.Food, "12.50", -1),
		row("b", "Apple pie", core.Other, "3.00", -3),
		row("c", "Électricité", core.Utilities, "80.00", 0),
		row("d", "cinema", core.Entertainment, "12.50", -2),
	}
}

func TestSortStateToggle(t *testing.T) {
	s := SortState{Column: ColumnAmount, Direction: Asc}
	s = s.Toggle(ColumnAmount)
	assert.Equal(t, SortState{Column: ColumnAmount, Direction: Desc}, s)

	s = s.Toggle(ColumnDescription)
	assert.Equal(t, SortState{Column: ColumnDescription, Direction: Asc}, s)
}

func TestSortByAmountThenToggle(t *testing.T) {
	input := sample()
	state := SortState{Column: ColumnAmount, Direction: Asc}

	asc := Sort(input, state)
	assert.Equal(t, []string{"b", "a", "d", "c"}, ids(asc))

	desc := Sort(input, state.Toggle(ColumnAmount))
	assert.Equal(t, []string{"c", "a", "d", "b"}, ids(desc))
	assert.ElementsMatch(t, ids(asc), ids(desc))

	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(input), "input untouched")
}

func TestSortColumns(t *testing.T) {
	tests := []struct {
		state SortState
		want  []string
	}{
		{SortState{ColumnDate, Asc}, []string{"b", "d", "a", "c"}},
		{SortState{ColumnDate, Desc}, []string{"c", "a", "d", "b"}},
		{SortState{ColumnDescription, Asc}, []string{"b", "a", "d", "c"}},
		{SortState{ColumnCategory, Asc}, []string{"d", "a", "b", "c"}},
		{SortState{ColumnCategory, Desc}, []string{"c", "b", "a", "d"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s-%s", tt.state.Column, tt.state.Direction), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Sort(sample(), tt.state)))
		})
	}
}

func TestNewSorter(t *testing.T) {
	s, err := NewSorter("de")
	require.NoError(t, err)
	got := s.Sort(sample(), SortState{ColumnDescription, Asc})
	assert.Equal(t, []string{"b", "a", "d", "c"}, ids(got))

	_, err = NewSorter("not a locale!")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	c, err := ParseColumn("Amount")
	require.NoError(t, err)
	assert.Equal(t, ColumnAmount, c)
	_, err = ParseColumn("notes")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	d, err := ParseDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, Desc, d)
	_, err = ParseDirection("up")
	assert.ErrorIs(t, err, ErrUnknownDirection)
}

func TestSelectionToggleAllTwice(t *testing.T) {
	displayed := sample()[:3]
	sel := NewSelection()

	sel.ToggleAll(displayed)
	assert.Equal(t, 3, sel.Len())
	assert.True(t, sel.AllSelected(displayed))

	sel.ToggleAll(displayed)
	assert.Equal(t, 0, sel.Len())
}

func TestSelectionPartialThenToggleAll(t *testing.T) {
	displayed := sample()
	sel := NewSelection()
	assert.True(t, sel.Toggle("a"))
	assert.False(t, sel.AllSelected(displayed))

	sel.ToggleAll(displayed)
	assert.Equal(t, []string{"a", "b", "c", "d"}, sel.IDs())

	assert.False(t, sel.Toggle("a"))
	assert.False(t, sel.AllSelected(displayed))
}

func TestSelectionEmptyTableNeverAllSelected(t *testing.T) {
	sel := NewSelection()
	assert.False(t, sel.AllSelected(nil))
	sel.ToggleAll(nil)
	assert.Equal(t, 0, sel.Len())
}

func TestSelectionRetain(t *testing.T) {
	sel := NewSelection()
	sel.Toggle("a")
	sel.Toggle("gone")
	sel.Retain(sample())
	assert.Equal(t, []string{"a"}, sel.IDs())
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()
	n := 0
	s := store.New(ctx, nil, store.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("e%d", n)
	}))
	for i, amount := range []string{"30", "10", "20"} {
		_, err := s.Add(ctx, core.Draft{
			Description: fmt.Sprintf("Expense %d", i+1),
			Amount:      core.MustParseMoney(amount),
			Category:    core.Other,
			Date:        base.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}
	return s
}

func TestViewFollowsStore(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	v := NewView(s)
	defer v.Close()

	d := v.Dashboard()
	assert.Equal(t, DefaultSortState, d.Sort)
	assert.Equal(t, []string{"e3", "e2", "e1"}, ids(d.Rows))
	assert.Equal(t, "60.00", d.Total.String())

	v.Sort(ColumnAmount)
	assert.Equal(t, []string{"e2", "e3", "e1"}, ids(v.Dashboard().Rows))

	_, err := s.Add(ctx, core.Draft{Description: "Cheap one", Amount: core.MustParseMoney("1"), Category: core.Food, Date: base})
	require.NoError(t, err)
	assert.Equal(t, "e4", v.Dashboard().Rows[0].ID)
}

func TestViewPrunesSelectionOnExternalDelete(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	v := NewView(s)
	defer v.Close()

	v.ToggleSelection("e1")
	v.ToggleSelection("e2")
	v.ToggleSelection("missing")
	assert.Equal(t, []string{"e1", "e2"}, v.Dashboard().Selected)

	s.Delete(ctx, "e1")
	assert.Equal(t, []string{"e2"}, v.Dashboard().Selected)
}

func TestViewDeleteSelected(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	v := NewView(s)
	defer v.Close()

	var changes int
	v.OnChange(func(Dashboard) { changes++ })

	v.ToggleAll()
	assert.True(t, v.Dashboard().AllSelected)

	n := v.DeleteSelected(ctx)
	assert.Equal(t, 3, n)
	assert.Empty(t, s.Expenses())

	d := v.Dashboard()
	assert.Empty(t, d.Rows)
	assert.Empty(t, d.Selected)
	assert.False(t, d.AllSelected)
	assert.Equal(t, 3, changes, "toggle, store emission, selection clear")

	assert.Equal(t, 0, v.DeleteSelected(ctx))
}

func TestViewDeleteOne(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	v := NewView(s)
	defer v.Close()

	v.ToggleSelection("e2")
	v.Delete(ctx, "e2")
	assert.Empty(t, v.Dashboard().Selected)
	assert.Len(t, v.Dashboard().Rows, 2)
}
