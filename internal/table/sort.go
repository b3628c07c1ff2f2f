// Package table orders expenses for the dashboard and tracks which rows are
// selected.
package table

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"expenses/internal/core"
)

type Column string

const (
	ColumnDate        Column = "date"
	ColumnDescription Column = "description"
	ColumnCategory    Column = "category"
	ColumnAmount      Column = "amount"
)

var Columns = []Column{ColumnDate, ColumnDescription, ColumnCategory, ColumnAmount}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

var (
	ErrUnknownColumn    = errors.New("unknown sort column")
	ErrUnknownDirection = errors.New("unknown sort direction")
)

func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Columns, c) {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, s)
	}
	return c, nil
}

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Asc, Desc:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// SortState is the active column and direction.
type SortState struct {
	Column    Column    `json:"column"`
	Direction Direction `json:"direction"`
}

// DefaultSortState shows the newest expenses first.
var DefaultSortState = SortState{Column: ColumnDate, Direction: Desc}

// Toggle applies a click on column c: the active column flips direction, any
// other column becomes active in ascending order.
func (s SortState) Toggle(c Column) SortState {
	if s.Column == c {
		return SortState{Column: c, Direction: s.Direction.Flip()}
	}
	return SortState{Column: c, Direction: Asc}
}

// Sorter orders expenses, comparing text columns with the collation rules of
// its language.
type Sorter struct {
	tag language.Tag
}

// NewSorter builds a sorter for a BCP 47 locale such as "en" or "de-CH".
// An empty locale means English.
func NewSorter(locale string) (*Sorter, error) {
	if strings.TrimSpace(locale) == "" {
		return &Sorter{tag: language.English}, nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse sort locale %q: %w", locale, err)
	}
	return &Sorter{tag: tag}, nil
}

var defaultSorter = &Sorter{tag: language.English}

// Sort orders expenses with the English collation.
func Sort(expenses []core.Expense, state SortState) []core.Expense {
	return defaultSorter.Sort(expenses, state)
}

// Sort returns a sorted copy of expenses. Equal keys keep their input order.
func (s *Sorter) Sort(expenses []core.Expense, state SortState) []core.Expense {
	out := slices.Clone(expenses)

	// A collator holds scratch buffers and cannot be shared between goroutines.
	col := collate.New(s.tag)

	var compare func(a, b core.Expense) int
	switch state.Column {
	case ColumnDescription:
		compare = func(a, b core.Expense) int { return col.CompareString(a.Description, b.Description) }
	case ColumnCategory:
		compare = func(a, b core.Expense) int { return col.CompareString(string(a.Category), string(b.Category)) }
	case ColumnAmount:
		compare = func(a, b core.Expense) int { return cmp.Compare(a.Amount.Cents, b.Amount.Cents) }
	default:
		compare = func(a, b core.Expense) int { return a.Date.Compare(b.Date) }
	}

	if state.Direction == Desc {
		asc := compare
		compare = func(a, b core.Expense) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, compare)
	return out
}
