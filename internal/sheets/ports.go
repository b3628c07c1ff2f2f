// Package sheets defines the spreadsheet mirror of the expense list.
package sheets

import (
	"context"

	"expenses/internal/core"
)

// Ports for outbound adapters.
type (
	// Mirror holds a full copy of the expense list. ReplaceAll overwrites
	// whatever the mirror held before.
	Mirror interface {
		ReplaceAll(ctx context.Context, expenses []core.Expense) error
	}

	// Lister reads the mirrored list back.
	Lister interface {
		ListExpenses(ctx context.Context) ([]core.Expense, error)
	}
)
