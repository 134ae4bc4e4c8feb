package analysis

import (
	"context"
	"testing"

	"bilancio/internal/core"
)

func TestSavingsCapacity(t *testing.T) {
	today := core.NewDate(2025, 1, 15)
	capacity, err := NewAnalyzer(projectionStore(), 3).SavingsCapacity(context.Background(), today)
	if err != nil {
		t.Fatalf("SavingsCapacity() error = %v", err)
	}
	if len(capacity) != 3 {
		t.Fatalf("got %d months, want 3", len(capacity))
	}

	feb := capacity[0]
	if feb.PeriodKey != "2025-02" {
		t.Errorf("first period = %q, want 2025-02", feb.PeriodKey)
	}
	if !feb.ProjectedIncome.Equal(dec("3000")) {
		t.Errorf("february income = %s, want 3000", feb.ProjectedIncome)
	}
	if !feb.ProjectedExpenses.Equal(dec("1150")) {
		t.Errorf("february expenses = %s, want 1150", feb.ProjectedExpenses)
	}
	if !feb.ProjectedSavings.Equal(dec("1850")) {
		t.Errorf("february savings = %s, want 1850", feb.ProjectedSavings)
	}
	almostEqual(t, "february rate", feb.SavingsRate, 1850.0/3000.0*100)

	mar := capacity[1]
	if !mar.ProjectedSavings.Equal(dec("2000")) {
		t.Errorf("march savings = %s, want 2000", mar.ProjectedSavings)
	}
}

func TestSavingsCapacity_ZeroIncome(t *testing.T) {
	today := core.NewDate(2025, 1, 15)
	store := &fakeStore{
		recurring: []core.RecurringItem{{
			ID: 1, Description: "rent", Amount: dec("1000"),
			Type: core.Expense, Frequency: core.Monthly,
			StartDate: core.NewDate(2024, 1, 1), Active: true,
		}},
	}

	capacity, err := NewAnalyzer(store, 2).SavingsCapacity(context.Background(), today)
	if err != nil {
		t.Fatalf("SavingsCapacity() error = %v", err)
	}
	for _, month := range capacity {
		if month.SavingsRate != 0 {
			t.Errorf("%s rate = %v, want 0 with no income", month.PeriodKey, month.SavingsRate)
		}
		if !month.ProjectedSavings.Equal(dec("-1000")) {
			t.Errorf("%s savings = %s, want -1000", month.PeriodKey, month.ProjectedSavings)
		}
	}
}

func TestAverageSavings(t *testing.T) {
	if got := averageSavings(nil); !got.IsZero() {
		t.Errorf("averageSavings(nil) = %s, want 0", got)
	}

	capacity := []MonthlySavings{
		{ProjectedSavings: dec("100")},
		{ProjectedSavings: dec("300")},
	}
	if got := averageSavings(capacity); !got.Equal(dec("200")) {
		t.Errorf("averageSavings() = %s, want 200", got)
	}
}
