package analysis

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// Aggregator is the primitive every other component builds on: sums and
// averages of ledger amounts over an inclusive date range, optionally
// restricted to one category. Absent data yields zero, never an error.
type Aggregator struct {
	store TransactionStore
}

func NewAggregator(store TransactionStore) Aggregator {
	return Aggregator{store: store}
}

// Sum totals matching entry amounts across all categories.
func (a Aggregator) Sum(ctx context.Context, typ core.EntryType, from, to core.Date) (decimal.Decimal, error) {
	return a.store.SumAmount(ctx, typ, from, to, nil)
}

// SumCategory totals matching entry amounts for a single category.
func (a Aggregator) SumCategory(ctx context.Context, typ core.EntryType, from, to core.Date, categoryID int64) (decimal.Decimal, error) {
	return a.store.SumAmount(ctx, typ, from, to, &categoryID)
}

// Average returns the mean matching entry amount across all categories.
func (a Aggregator) Average(ctx context.Context, typ core.EntryType, from, to core.Date) (decimal.Decimal, error) {
	return a.store.AverageAmount(ctx, typ, from, to, nil)
}

// AverageCategory returns the mean matching entry amount for one category.
func (a Aggregator) AverageCategory(ctx context.Context, typ core.EntryType, from, to core.Date, categoryID int64) (decimal.Decimal, error) {
	return a.store.AverageAmount(ctx, typ, from, to, &categoryID)
}

// CategoryAmount is an amount attributed to one category.
type CategoryAmount struct {
	CategoryID int64           `json:"category_id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
}

// MonthSummary describes the current month from its first day through the
// analysis date.
type MonthSummary struct {
	PeriodFrom         core.Date        `json:"period_from"`
	PeriodTo           core.Date        `json:"period_to"`
	TotalIncome        decimal.Decimal  `json:"total_income"`
	TotalExpenses      decimal.Decimal  `json:"total_expenses"`
	Balance            decimal.Decimal  `json:"balance"`
	ExpensesByCategory []CategoryAmount `json:"expenses_by_category"`
	DaysElapsed        int              `json:"days_elapsed"`
	DaysInMonth        int              `json:"days_in_month"`
}

// CurrentMonthSummary aggregates income, expenses and the per-category
// expense breakdown from the start of today's month through today.
func (a *Analyzer) CurrentMonthSummary(ctx context.Context, today core.Date) (MonthSummary, error) {
	start := today.StartOfMonth()

	income, err := a.agg.Sum(ctx, core.Income, start, today)
	if err != nil {
		return MonthSummary{}, fmt.Errorf("sum income: %w", err)
	}
	expenses, err := a.agg.Sum(ctx, core.Expense, start, today)
	if err != nil {
		return MonthSummary{}, fmt.Errorf("sum expenses: %w", err)
	}

	categories, err := a.store.ListCategories(ctx)
	if err != nil {
		return MonthSummary{}, fmt.Errorf("list categories: %w", err)
	}

	var byCategory []CategoryAmount
	for _, cat := range categories {
		spent, err := a.agg.SumCategory(ctx, core.Expense, start, today, cat.ID)
		if err != nil {
			return MonthSummary{}, fmt.Errorf("sum category %q: %w", cat.Name, err)
		}
		if spent.IsZero() {
			continue
		}
		byCategory = append(byCategory, CategoryAmount{
			CategoryID: cat.ID,
			Name:       cat.Name,
			Amount:     spent,
		})
	}

	return MonthSummary{
		PeriodFrom:         start,
		PeriodTo:           today,
		TotalIncome:        income,
		TotalExpenses:      expenses,
		Balance:            income.Sub(expenses),
		ExpensesByCategory: byCategory,
		DaysElapsed:        today.Day(),
		DaysInMonth:        core.DaysInMonth(today.Year(), today.Month()),
	}, nil
}
