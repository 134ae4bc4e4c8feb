package analysis

import (
	"context"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// fakeStore is a reference in-memory TransactionStore backed by slices.
type fakeStore struct {
	entries    []core.LedgerEntry
	goals      []core.Goal
	limits     []core.SpendingLimit
	recurring  []core.RecurringItem
	categories []core.Category
	failWith   error
}

func (s *fakeStore) matching(typ core.EntryType, from, to core.Date, categoryID *int64) []core.LedgerEntry {
	var out []core.LedgerEntry
	for _, e := range s.entries {
		if e.Type != typ {
			continue
		}
		if e.Date.Before(from.Time) || e.Date.After(to.Time) {
			continue
		}
		if categoryID != nil && e.CategoryID != *categoryID {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (s *fakeStore) SumAmount(_ context.Context, typ core.EntryType, from, to core.Date, categoryID *int64) (decimal.Decimal, error) {
	if s.failWith != nil {
		return decimal.Zero, s.failWith
	}
	total := decimal.Zero
	for _, e := range s.matching(typ, from, to, categoryID) {
		total = total.Add(e.Amount)
	}
	return total, nil
}

func (s *fakeStore) AverageAmount(_ context.Context, typ core.EntryType, from, to core.Date, categoryID *int64) (decimal.Decimal, error) {
	if s.failWith != nil {
		return decimal.Zero, s.failWith
	}
	matches := s.matching(typ, from, to, categoryID)
	if len(matches) == 0 {
		return decimal.Zero, nil
	}
	total := decimal.Zero
	for _, e := range matches {
		total = total.Add(e.Amount)
	}
	return total.Div(decimal.NewFromInt(int64(len(matches)))), nil
}

func (s *fakeStore) ListActiveGoals(context.Context) ([]core.Goal, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []core.Goal
	for _, g := range s.goals {
		if g.Active {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *fakeStore) ListSpendingLimits(_ context.Context, periodKey string) ([]core.SpendingLimit, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []core.SpendingLimit
	for _, l := range s.limits {
		if l.PeriodKey == periodKey {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeStore) ListActiveRecurringItems(_ context.Context, typ *core.EntryType) ([]core.RecurringItem, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []core.RecurringItem
	for _, r := range s.recurring {
		if !r.Active {
			continue
		}
		if typ != nil && r.Type != *typ {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *fakeStore) ListCategories(context.Context) ([]core.Category, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.categories, nil
}

func (s *fakeStore) CountDistinctIncomeCategories(_ context.Context, from, to core.Date) (int, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	seen := map[int64]bool{}
	for _, e := range s.matching(core.Income, from, to, nil) {
		seen[e.CategoryID] = true
	}
	return len(seen), nil
}

// entry builds a ledger entry for tests.
func entry(date core.Date, typ core.EntryType, amount string, categoryID int64) core.LedgerEntry {
	return core.LedgerEntry{
		Date:        date,
		Description: "test entry",
		Amount:      decimal.RequireFromString(amount),
		Type:        typ,
		CategoryID:  categoryID,
		AccountID:   1,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
