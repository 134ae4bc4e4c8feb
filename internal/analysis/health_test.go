package analysis

import (
	"context"
	"testing"

	"bilancio/internal/core"
)

func TestHealthScore_AllFactors(t *testing.T) {
	today := core.NewDate(2025, 1, 15)
	store := &fakeStore{
		entries: []core.LedgerEntry{
			entry(core.NewDate(2025, 1, 2), core.Income, "1000", 10),
			entry(core.NewDate(2025, 1, 3), core.Income, "1000", 11),
			entry(core.NewDate(2025, 1, 4), core.Income, "1000", 12),
			entry(core.NewDate(2025, 1, 5), core.Expense, "1000", 1),
		},
		limits: []core.SpendingLimit{
			{CategoryID: 1, CategoryName: "groceries", MonthlyLimit: dec("1500"), PeriodKey: "2025-01"},
		},
	}

	score, err := NewAnalyzer(store, 3).HealthScore(context.Background(), today)
	if err != nil {
		t.Fatalf("HealthScore() error = %v", err)
	}

	if score.Factors.PositiveBalance != 25 {
		t.Errorf("balance factor = %v, want 25", score.Factors.PositiveBalance)
	}
	if score.Factors.SavingsCapacity != 30 {
		t.Errorf("savings factor = %v, want 30", score.Factors.SavingsCapacity)
	}
	if score.Factors.SpendingDiscipline != 30 {
		t.Errorf("discipline factor = %v, want 30", score.Factors.SpendingDiscipline)
	}
	if score.Factors.IncomeDiversification != 15 {
		t.Errorf("diversification factor = %v, want 15", score.Factors.IncomeDiversification)
	}
	if score.Total != 100 {
		t.Errorf("total = %v, want 100", score.Total)
	}
	if score.Level != LevelExcellent {
		t.Errorf("level = %q, want %q", score.Level, LevelExcellent)
	}
	if len(score.Recommendations) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(score.Recommendations))
	}
}

func TestHealthScore_EmptyStore(t *testing.T) {
	score, err := NewAnalyzer(&fakeStore{}, 3).HealthScore(context.Background(), core.NewDate(2025, 1, 15))
	if err != nil {
		t.Fatalf("HealthScore() error = %v", err)
	}

	// Only the neutral discipline credit survives an empty ledger.
	if score.Total != neutralDiscipline {
		t.Errorf("total = %v, want %v", score.Total, neutralDiscipline)
	}
	if score.Level != LevelPoor {
		t.Errorf("level = %q, want %q", score.Level, LevelPoor)
	}
	if len(score.Recommendations) != 4 {
		t.Errorf("got %d recommendations, want 4", len(score.Recommendations))
	}
}

func TestSavingsFactorBands(t *testing.T) {
	tests := []struct {
		name             string
		income, expenses string
		want             float64
	}{
		{"rate at least 20 percent", "1000", "750", 30},
		{"rate between 10 and 20 percent", "1000", "850", 20},
		{"barely positive rate", "1000", "990", 10},
		{"zero rate", "1000", "1000", 0},
		{"negative rate", "1000", "1200", 0},
		{"no income", "0", "100", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := MonthSummary{
				TotalIncome: dec(tt.income),
				Balance:     dec(tt.income).Sub(dec(tt.expenses)),
			}
			if got := savingsFactor(summary); got != tt.want {
				t.Errorf("savingsFactor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDisciplineFactor(t *testing.T) {
	if got := disciplineFactor(nil); got != neutralDiscipline {
		t.Errorf("no limits: got %v, want %v", got, neutralDiscipline)
	}

	mixed := []LimitStatus{
		{Status: LimitOK},
		{Status: LimitWarning},
		{Status: LimitExceeded},
		{Status: LimitExceeded},
	}
	// Warnings still count as within the limit.
	if got := disciplineFactor(mixed); got != 15 {
		t.Errorf("half exceeded: got %v, want 15", got)
	}

	allExceeded := []LimitStatus{{Status: LimitExceeded}}
	if got := disciplineFactor(allExceeded); got != 0 {
		t.Errorf("all exceeded: got %v, want 0", got)
	}
}

func TestDiversificationFactor(t *testing.T) {
	tests := []struct {
		categories int
		want       float64
	}{
		{0, 0},
		{1, 5},
		{2, 10},
		{3, 15},
		{5, 15},
	}
	for _, tt := range tests {
		if got := diversificationFactor(tt.categories); got != tt.want {
			t.Errorf("diversificationFactor(%d) = %v, want %v", tt.categories, got, tt.want)
		}
	}
}

func TestHealthLevel(t *testing.T) {
	tests := []struct {
		total float64
		want  HealthLevel
	}{
		{100, LevelExcellent},
		{80, LevelExcellent},
		{79.9, LevelGood},
		{60, LevelGood},
		{59.9, LevelFair},
		{40, LevelFair},
		{39.9, LevelPoor},
		{0, LevelPoor},
	}
	for _, tt := range tests {
		if got := healthLevel(tt.total); got != tt.want {
			t.Errorf("healthLevel(%v) = %q, want %q", tt.total, got, tt.want)
		}
	}
}
