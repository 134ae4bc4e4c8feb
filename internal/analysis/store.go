package analysis

import (
	"context"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// TransactionStore is the read-only boundary the engine consumes. All date
// ranges are inclusive on both ends. Implementations must return zero values
// and empty slices for absent data, never nils-as-errors; any real read
// failure aborts the whole analysis pass.
type TransactionStore interface {
	// SumAmount returns the total of matching entry amounts, optionally
	// restricted to a single category. No matches yields zero.
	SumAmount(ctx context.Context, typ core.EntryType, from, to core.Date, categoryID *int64) (decimal.Decimal, error)

	// AverageAmount returns the mean of matching entry amounts. No matches
	// yields zero.
	AverageAmount(ctx context.Context, typ core.EntryType, from, to core.Date, categoryID *int64) (decimal.Decimal, error)

	// ListActiveGoals returns all goals with the active flag set.
	ListActiveGoals(ctx context.Context) ([]core.Goal, error)

	// ListSpendingLimits returns the limits defined for a month key.
	ListSpendingLimits(ctx context.Context, periodKey string) ([]core.SpendingLimit, error)

	// ListActiveRecurringItems returns active recurring items, optionally
	// filtered by entry type.
	ListActiveRecurringItems(ctx context.Context, typ *core.EntryType) ([]core.RecurringItem, error)

	// ListCategories returns every known category.
	ListCategories(ctx context.Context) ([]core.Category, error)

	// CountDistinctIncomeCategories counts the categories that produced
	// income inside the range.
	CountDistinctIncomeCategories(ctx context.Context, from, to core.Date) (int, error)
}
