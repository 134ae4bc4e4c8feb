package analysis

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// historicalYears is how many prior years feed the same-calendar-month
// average. Years with no data are skipped, not counted as zero.
const historicalYears = 3

// historicalWeight is the share of the historical average blended on top of
// the recurring amount. The alternative policy, max(recurring, historical),
// was rejected in favor of this one; both appear in the wild and produce
// materially different alert thresholds, so it must be applied uniformly to
// income and expenses.
var historicalWeight = decimal.RequireFromString("0.3")

// MonthlyProjection is the forward estimate for one future calendar month.
type MonthlyProjection struct {
	Year              int              `json:"year"`
	Month             int              `json:"month"`
	PeriodKey         string           `json:"period_key"`
	Recurring         decimal.Decimal  `json:"recurring_amount"`
	HistoricalAverage decimal.Decimal  `json:"historical_average"`
	ProjectedTotal    decimal.Decimal  `json:"projected_total"`
	ByCategory        []CategoryAmount `json:"projected_by_category,omitempty"`
}

// ProjectIncome forecasts income totals for each of the next configured
// months after today.
func (a *Analyzer) ProjectIncome(ctx context.Context, today core.Date) ([]MonthlyProjection, error) {
	return a.project(ctx, today, core.Income, false)
}

// ProjectExpenses forecasts expense totals, including a per-category
// breakdown, for each of the next configured months after today.
func (a *Analyzer) ProjectExpenses(ctx context.Context, today core.Date) ([]MonthlyProjection, error) {
	return a.project(ctx, today, core.Expense, true)
}

func (a *Analyzer) project(ctx context.Context, today core.Date, typ core.EntryType, byCategory bool) ([]MonthlyProjection, error) {
	items, err := a.store.ListActiveRecurringItems(ctx, &typ)
	if err != nil {
		return nil, fmt.Errorf("list recurring items: %w", err)
	}

	projections := make([]MonthlyProjection, 0, a.months)
	for offset := 1; offset <= a.months; offset++ {
		target := today.AddMonths(offset)
		year, month := target.Year(), target.Month()

		recurring := recurringTotal(items, year, month)
		historical, err := a.historicalMonthAverage(ctx, typ, today, month)
		if err != nil {
			return nil, fmt.Errorf("historical average for month %d: %w", month, err)
		}

		projection := MonthlyProjection{
			Year:              year,
			Month:             month,
			PeriodKey:         core.PeriodKey(year, month),
			Recurring:         recurring,
			HistoricalAverage: historical,
			ProjectedTotal:    blend(recurring, historical),
		}
		if byCategory {
			projection.ByCategory, err = a.categoryAverages(ctx, today)
			if err != nil {
				return nil, fmt.Errorf("category averages: %w", err)
			}
		}
		projections = append(projections, projection)
	}

	return projections, nil
}

// recurringTotal sums the amounts of items falling due in the target month.
func recurringTotal(items []core.RecurringItem, year, month int) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if OccursInMonth(item, year, month) {
			total = total.Add(item.Amount)
		}
	}
	return total
}

// historicalMonthAverage computes the mean total for the same calendar month
// across the previous historicalYears years. Sums are of strictly positive
// amounts, so a zero year total means no data and is skipped; when no year
// has data the average is zero.
func (a *Analyzer) historicalMonthAverage(ctx context.Context, typ core.EntryType, today core.Date, month int) (decimal.Decimal, error) {
	total := decimal.Zero
	years := 0
	for offset := 1; offset <= historicalYears; offset++ {
		year := today.Year() - offset
		from := core.NewDate(year, month, 1)
		yearTotal, err := a.agg.Sum(ctx, typ, from, from.EndOfMonth())
		if err != nil {
			return decimal.Zero, err
		}
		if yearTotal.IsPositive() {
			total = total.Add(yearTotal)
			years++
		}
	}
	if years == 0 {
		return decimal.Zero, nil
	}
	return total.Div(decimal.NewFromInt(int64(years))), nil
}

// blend combines the recurring-schedule amount with the historical average:
// when a recurring base exists it is taken as the floor plus 30% of the
// historical average as variation, otherwise the history stands alone.
func blend(recurring, historical decimal.Decimal) decimal.Decimal {
	if recurring.IsPositive() {
		return recurring.Add(historical.Mul(historicalWeight))
	}
	return historical
}

// categoryAverages estimates per-category expense levels from the trailing
// three months' mean entry amount per category.
func (a *Analyzer) categoryAverages(ctx context.Context, today core.Date) ([]CategoryAmount, error) {
	categories, err := a.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	from := today.AddMonths(-3)
	var averages []CategoryAmount
	for _, cat := range categories {
		avg, err := a.agg.AverageCategory(ctx, core.Expense, from, today, cat.ID)
		if err != nil {
			return nil, fmt.Errorf("average for category %q: %w", cat.Name, err)
		}
		if avg.IsZero() {
			continue
		}
		averages = append(averages, CategoryAmount{
			CategoryID: cat.ID,
			Name:       cat.Name,
			Amount:     avg,
		})
	}
	return averages, nil
}
