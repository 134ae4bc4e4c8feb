package analysis

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// MonthlySavings is the projected net savings for one future month.
type MonthlySavings struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	PeriodKey         string          `json:"period_key"`
	ProjectedIncome   decimal.Decimal `json:"projected_income"`
	ProjectedExpenses decimal.Decimal `json:"projected_expenses"`
	ProjectedSavings  decimal.Decimal `json:"projected_savings"`
	SavingsRate       float64         `json:"savings_rate"` // percent
}

// SavingsCapacity derives projected net savings and savings rate per future
// month from the income and expense projections.
func (a *Analyzer) SavingsCapacity(ctx context.Context, today core.Date) ([]MonthlySavings, error) {
	income, err := a.ProjectIncome(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("project income: %w", err)
	}
	expenses, err := a.ProjectExpenses(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("project expenses: %w", err)
	}

	capacity := make([]MonthlySavings, 0, len(income))
	for i := range income {
		savings := income[i].ProjectedTotal.Sub(expenses[i].ProjectedTotal)

		rate := 0.0
		if income[i].ProjectedTotal.IsPositive() {
			rate, _ = savings.Div(income[i].ProjectedTotal).Mul(decimal.NewFromInt(100)).Float64()
		}

		capacity = append(capacity, MonthlySavings{
			Year:              income[i].Year,
			Month:             income[i].Month,
			PeriodKey:         income[i].PeriodKey,
			ProjectedIncome:   income[i].ProjectedTotal,
			ProjectedExpenses: expenses[i].ProjectedTotal,
			ProjectedSavings:  savings,
			SavingsRate:       rate,
		})
	}

	return capacity, nil
}

// averageSavings is the mean projected savings across the horizon; zero for
// an empty horizon.
func averageSavings(capacity []MonthlySavings) decimal.Decimal {
	if len(capacity) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, month := range capacity {
		total = total.Add(month.ProjectedSavings)
	}
	return total.Div(decimal.NewFromInt(int64(len(capacity))))
}
