package storage

import (
	"context"
	"path/filepath"
	"testing"

	"bilancio/internal/core"

	"github.com/shopspring/decimal"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedEntry(t *testing.T, repo *SQLiteRepository, date core.Date, typ core.EntryType, amount string, categoryID int64) {
	t.Helper()
	_, err := repo.InsertEntry(context.Background(), core.LedgerEntry{
		Date:        date,
		Description: "seed entry",
		Amount:      decimal.RequireFromString(amount),
		Type:        typ,
		CategoryID:  categoryID,
		AccountID:   1,
	})
	if err != nil {
		t.Fatalf("InsertEntry() error = %v", err)
	}
}

func TestSQLiteRepository_SumAmount(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seedEntry(t, repo, core.NewDate(2025, 1, 5), core.Expense, "100.50", 1)
	seedEntry(t, repo, core.NewDate(2025, 1, 10), core.Expense, "49.50", 1)
	seedEntry(t, repo, core.NewDate(2025, 1, 12), core.Expense, "30", 2)
	seedEntry(t, repo, core.NewDate(2025, 1, 8), core.Income, "2000", 6)
	// Outside the range.
	seedEntry(t, repo, core.NewDate(2024, 12, 31), core.Expense, "999", 1)

	from, to := core.NewDate(2025, 1, 1), core.NewDate(2025, 1, 31)

	total, err := repo.SumAmount(ctx, core.Expense, from, to, nil)
	if err != nil {
		t.Fatalf("SumAmount() error = %v", err)
	}
	if !total.Equal(decimal.RequireFromString("180")) {
		t.Errorf("expense total = %s, want 180", total)
	}

	catID := int64(1)
	catTotal, err := repo.SumAmount(ctx, core.Expense, from, to, &catID)
	if err != nil {
		t.Fatalf("SumAmount() error = %v", err)
	}
	if !catTotal.Equal(decimal.RequireFromString("150")) {
		t.Errorf("category total = %s, want 150", catTotal)
	}

	income, err := repo.SumAmount(ctx, core.Income, from, to, nil)
	if err != nil {
		t.Fatalf("SumAmount() error = %v", err)
	}
	if !income.Equal(decimal.RequireFromString("2000")) {
		t.Errorf("income total = %s, want 2000", income)
	}
}

func TestSQLiteRepository_SumAmount_Empty(t *testing.T) {
	repo := newTestRepository(t)

	total, err := repo.SumAmount(context.Background(), core.Expense,
		core.NewDate(2025, 1, 1), core.NewDate(2025, 1, 31), nil)
	if err != nil {
		t.Fatalf("SumAmount() error = %v", err)
	}
	if !total.IsZero() {
		t.Errorf("empty sum = %s, want 0", total)
	}
}

func TestSQLiteRepository_AverageAmount(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seedEntry(t, repo, core.NewDate(2025, 1, 5), core.Expense, "100", 1)
	seedEntry(t, repo, core.NewDate(2025, 1, 10), core.Expense, "50", 1)

	avg, err := repo.AverageAmount(ctx, core.Expense,
		core.NewDate(2025, 1, 1), core.NewDate(2025, 1, 31), nil)
	if err != nil {
		t.Fatalf("AverageAmount() error = %v", err)
	}
	if !avg.Equal(decimal.RequireFromString("75")) {
		t.Errorf("average = %s, want 75", avg)
	}

	empty, err := repo.AverageAmount(ctx, core.Income,
		core.NewDate(2025, 1, 1), core.NewDate(2025, 1, 31), nil)
	if err != nil {
		t.Fatalf("AverageAmount() error = %v", err)
	}
	if !empty.IsZero() {
		t.Errorf("empty average = %s, want 0", empty)
	}
}

func TestSQLiteRepository_CountDistinctIncomeCategories(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seedEntry(t, repo, core.NewDate(2025, 1, 5), core.Income, "100", 5)
	seedEntry(t, repo, core.NewDate(2025, 1, 6), core.Income, "100", 5)
	seedEntry(t, repo, core.NewDate(2025, 1, 7), core.Income, "100", 6)
	seedEntry(t, repo, core.NewDate(2025, 1, 8), core.Expense, "100", 7)

	count, err := repo.CountDistinctIncomeCategories(ctx,
		core.NewDate(2025, 1, 1), core.NewDate(2025, 1, 31))
	if err != nil {
		t.Fatalf("CountDistinctIncomeCategories() error = %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestSQLiteRepository_Categories(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	categories, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(categories) != 7 {
		t.Fatalf("got %d seeded categories, want 7", len(categories))
	}

	id, err := repo.CategoryIDByName(ctx, "Groceries")
	if err != nil {
		t.Fatalf("CategoryIDByName() error = %v", err)
	}
	if id == 0 {
		t.Error("CategoryIDByName() returned zero id")
	}

	if _, err := repo.CategoryIDByName(ctx, "does-not-exist"); err == nil {
		t.Error("CategoryIDByName() error = nil for unknown category")
	}
}

func TestSQLiteRepository_Goals(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	active := core.Goal{
		Name:          "emergency fund",
		TargetAmount:  decimal.RequireFromString("10000"),
		CurrentAmount: decimal.RequireFromString("2500.50"),
		TargetDate:    core.NewDate(2025, 12, 31),
		CreatedDate:   core.NewDate(2024, 6, 1),
		Active:        true,
	}
	inactive := active
	inactive.Name = "paused"
	inactive.Active = false

	if _, err := repo.InsertGoal(ctx, active); err != nil {
		t.Fatalf("InsertGoal() error = %v", err)
	}
	if _, err := repo.InsertGoal(ctx, inactive); err != nil {
		t.Fatalf("InsertGoal() error = %v", err)
	}

	goals, err := repo.ListActiveGoals(ctx)
	if err != nil {
		t.Fatalf("ListActiveGoals() error = %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("got %d active goals, want 1", len(goals))
	}

	got := goals[0]
	if got.Name != "emergency fund" {
		t.Errorf("name = %q, want %q", got.Name, "emergency fund")
	}
	if !got.CurrentAmount.Equal(decimal.RequireFromString("2500.5")) {
		t.Errorf("current amount = %s, want 2500.5", got.CurrentAmount)
	}
	if got.TargetDate.ISO() != "2025-12-31" {
		t.Errorf("target date = %s, want 2025-12-31", got.TargetDate.ISO())
	}
}

func TestSQLiteRepository_SpendingLimits(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	catID, err := repo.CategoryIDByName(ctx, "Groceries")
	if err != nil {
		t.Fatalf("CategoryIDByName() error = %v", err)
	}

	limit := core.SpendingLimit{
		CategoryID:   catID,
		CategoryName: "Groceries",
		MonthlyLimit: decimal.RequireFromString("400"),
		PeriodKey:    "2025-01",
	}
	if _, err := repo.InsertSpendingLimit(ctx, limit); err != nil {
		t.Fatalf("InsertSpendingLimit() error = %v", err)
	}

	limits, err := repo.ListSpendingLimits(ctx, "2025-01")
	if err != nil {
		t.Fatalf("ListSpendingLimits() error = %v", err)
	}
	if len(limits) != 1 {
		t.Fatalf("got %d limits, want 1", len(limits))
	}
	if limits[0].CategoryName != "Groceries" {
		t.Errorf("category name = %q, want Groceries", limits[0].CategoryName)
	}
	if !limits[0].MonthlyLimit.Equal(decimal.RequireFromString("400")) {
		t.Errorf("limit = %s, want 400", limits[0].MonthlyLimit)
	}

	other, err := repo.ListSpendingLimits(ctx, "2025-02")
	if err != nil {
		t.Fatalf("ListSpendingLimits() error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("got %d limits for another period, want 0", len(other))
	}
}

func TestSQLiteRepository_RecurringItems(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rent := core.RecurringItem{
		Description: "rent",
		Amount:      decimal.RequireFromString("850"),
		Type:        core.Expense,
		Frequency:   core.Monthly,
		StartDate:   core.NewDate(2024, 1, 1),
		Active:      true,
		CategoryID:  2,
		AccountID:   1,
	}
	salary := rent
	salary.Description = "salary"
	salary.Amount = decimal.RequireFromString("3000")
	salary.Type = core.Income
	salary.CategoryID = 6

	bounded := rent
	bounded.Description = "gym"
	bounded.Amount = decimal.RequireFromString("40")
	bounded.EndDate = core.NewDate(2025, 6, 30)

	cancelled := rent
	cancelled.Description = "old subscription"
	cancelled.Active = false

	for _, item := range []core.RecurringItem{rent, salary, bounded, cancelled} {
		if _, err := repo.InsertRecurringItem(ctx, item); err != nil {
			t.Fatalf("InsertRecurringItem(%q) error = %v", item.Description, err)
		}
	}

	all, err := repo.ListActiveRecurringItems(ctx, nil)
	if err != nil {
		t.Fatalf("ListActiveRecurringItems() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d active items, want 3", len(all))
	}

	expense := core.Expense
	expenses, err := repo.ListActiveRecurringItems(ctx, &expense)
	if err != nil {
		t.Fatalf("ListActiveRecurringItems() error = %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("got %d expense items, want 2", len(expenses))
	}

	if !expenses[0].EndDate.IsEmpty() {
		t.Errorf("rent end date = %s, want empty", expenses[0].EndDate.ISO())
	}
	if expenses[1].EndDate.IsEmpty() {
		t.Error("gym end date is empty, want 2025-06-30")
	} else if expenses[1].EndDate.ISO() != "2025-06-30" {
		t.Errorf("gym end date = %s, want 2025-06-30", expenses[1].EndDate.ISO())
	}
}

func TestSQLiteRepository_InsertEntryValidates(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.InsertEntry(context.Background(), core.LedgerEntry{
		Date:        core.NewDate(2025, 1, 1),
		Description: "bad type",
		Amount:      decimal.RequireFromString("10"),
		Type:        core.EntryType("transfer"),
		CategoryID:  1,
		AccountID:   1,
	})
	if err == nil {
		t.Fatal("InsertEntry() error = nil for invalid type")
	}
}
