package analysis

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

const (
	LimitOK       LimitState = "ok"
	LimitWarning  LimitState = "warning"
	LimitExceeded LimitState = "exceeded"
)

// warningThreshold is the percentage of a limit at which a warning fires.
const warningThreshold = 80.0

type LimitState string

// LimitStatus reports how far one category's month-to-date spending has
// progressed against its limit.
type LimitStatus struct {
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	MonthlyLimit decimal.Decimal `json:"monthly_limit"`
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"` // negative when exceeded
	PercentUsed  float64         `json:"percent_used"`
	Status       LimitState      `json:"status"`
}

// SpendingLimitsStatus evaluates every limit defined for today's month
// against spending from the start of the month through today.
func (a *Analyzer) SpendingLimitsStatus(ctx context.Context, today core.Date) ([]LimitStatus, error) {
	limits, err := a.store.ListSpendingLimits(ctx, today.PeriodKey())
	if err != nil {
		return nil, fmt.Errorf("list spending limits: %w", err)
	}

	start := today.StartOfMonth()
	statuses := make([]LimitStatus, 0, len(limits))
	for _, limit := range limits {
		spent, err := a.agg.SumCategory(ctx, core.Expense, start, today, limit.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("sum spending for category %d: %w", limit.CategoryID, err)
		}

		percent := 0.0
		if limit.MonthlyLimit.IsPositive() {
			percent, _ = spent.Div(limit.MonthlyLimit).Mul(decimal.NewFromInt(100)).Float64()
		}

		state := LimitOK
		switch {
		case spent.GreaterThan(limit.MonthlyLimit):
			state = LimitExceeded
		case percent >= warningThreshold:
			state = LimitWarning
		}

		statuses = append(statuses, LimitStatus{
			CategoryID:   limit.CategoryID,
			CategoryName: limit.CategoryName,
			MonthlyLimit: limit.MonthlyLimit,
			Spent:        spent,
			Remaining:    limit.MonthlyLimit.Sub(spent),
			PercentUsed:  percent,
			Status:       state,
		})
	}

	return statuses, nil
}
