package analysis

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// unusualFactor is how far above the weekly baseline the trailing week must
// land before the unusual-spending rule fires.
var unusualFactor = decimal.RequireFromString("1.5")

// billReminderDays is the lookahead window, inclusive, for upcoming bills.
const billReminderDays = 7

// GenerateAllAlerts runs every alert rule against a fresh snapshot and
// returns the prioritized list. Rules are independent; the list is built in
// fixed rule order and replaced, never merged, on each pass. Any store
// failure aborts the pass.
func (a *Analyzer) GenerateAllAlerts(ctx context.Context, today core.Date) ([]core.Alert, error) {
	var alerts []core.Alert

	limitAlerts, err := a.spendingLimitAlerts(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("spending limit alerts: %w", err)
	}
	alerts = append(alerts, limitAlerts...)

	goalAlerts, err := a.goalAlerts(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("goal alerts: %w", err)
	}
	alerts = append(alerts, goalAlerts...)

	balanceAlert, err := a.lowBalanceAlert(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("balance projection alert: %w", err)
	}
	alerts = append(alerts, balanceAlert...)

	spendingAlert, err := a.unusualSpendingAlert(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("unusual spending alert: %w", err)
	}
	alerts = append(alerts, spendingAlert...)

	billAlerts, err := a.billReminderAlerts(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("bill reminder alerts: %w", err)
	}
	alerts = append(alerts, billAlerts...)

	trendAlert, err := a.positiveTrendAlert(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("positive trend alert: %w", err)
	}
	alerts = append(alerts, trendAlert...)

	return alerts, nil
}

func (a *Analyzer) spendingLimitAlerts(ctx context.Context, today core.Date) ([]core.Alert, error) {
	statuses, err := a.SpendingLimitsStatus(ctx, today)
	if err != nil {
		return nil, err
	}

	var alerts []core.Alert
	for _, status := range statuses {
		switch status.Status {
		case LimitExceeded:
			excess := status.Spent.Sub(status.MonthlyLimit)
			alerts = append(alerts, core.Alert{
				Type:     core.AlertSpendingLimitExceeded,
				Priority: core.PriorityHigh,
				Title:    fmt.Sprintf("Limit exceeded: %s", status.CategoryName),
				Message: fmt.Sprintf("You exceeded the %s limit on %s by %s.",
					core.DisplayAmount(status.MonthlyLimit), status.CategoryName, core.DisplayAmount(excess)),
				Data: core.LimitExceededData{
					CategoryID:   status.CategoryID,
					CategoryName: status.CategoryName,
					Limit:        status.MonthlyLimit,
					Spent:        status.Spent,
					Excess:       excess,
					PercentUsed:  status.PercentUsed,
				},
				Action:    "transactions",
				CreatedAt: today.Time,
			})
		case LimitWarning:
			alerts = append(alerts, core.Alert{
				Type:     core.AlertSpendingLimitWarning,
				Priority: core.PriorityMedium,
				Title:    fmt.Sprintf("Approaching limit: %s", status.CategoryName),
				Message: fmt.Sprintf("You have spent %.1f%% of the %s limit; %s remains.",
					status.PercentUsed, status.CategoryName, core.DisplayAmount(status.Remaining)),
				Data: core.LimitWarningData{
					CategoryID:   status.CategoryID,
					CategoryName: status.CategoryName,
					Limit:        status.MonthlyLimit,
					Spent:        status.Spent,
					Remaining:    status.Remaining,
					PercentUsed:  status.PercentUsed,
				},
				Action:    "transactions",
				CreatedAt: today.Time,
			})
		}
	}
	return alerts, nil
}

func (a *Analyzer) goalAlerts(ctx context.Context, today core.Date) ([]core.Alert, error) {
	progress, err := a.GoalsProgress(ctx, today)
	if err != nil {
		return nil, err
	}

	var alerts []core.Alert
	for _, goal := range progress {
		if goal.DeadlineApproaching {
			alerts = append(alerts, core.Alert{
				Type:     core.AlertGoalDeadlineApproaching,
				Priority: core.PriorityHigh,
				Title:    fmt.Sprintf("Goal deadline approaching: %s", goal.Name),
				Message: fmt.Sprintf("Goal %q is due in %d days and is %.1f%% complete.",
					goal.Name, goal.DaysRemaining, goal.ActualProgress*100),
				Data: core.GoalDeadlineData{
					GoalName:      goal.Name,
					TargetAmount:  goal.TargetAmount,
					CurrentAmount: goal.CurrentAmount,
					ActualPercent: goal.ActualProgress * 100,
					DaysRemaining: goal.DaysRemaining,
				},
				Action:    "goals",
				CreatedAt: today.Time,
			})
		}
		if goal.BehindSchedule {
			alerts = append(alerts, core.Alert{
				Type:     core.AlertGoalBehindSchedule,
				Priority: core.PriorityMedium,
				Title:    fmt.Sprintf("Goal behind schedule: %s", goal.Name),
				Message: fmt.Sprintf("Goal %q is behind schedule; saving %s per month would catch it up.",
					goal.Name, core.DisplayAmount(goal.MonthlyNeeded)),
				Data: core.GoalBehindData{
					GoalName:        goal.Name,
					IdealPercent:    goal.IdealProgress * 100,
					ActualPercent:   goal.ActualProgress * 100,
					MonthlyNeeded:   goal.MonthlyNeeded,
					MonthsRemaining: goal.MonthsRemaining,
				},
				Action:    "goals",
				CreatedAt: today.Time,
			})
		}
	}
	return alerts, nil
}

// lowBalanceAlert flags the chronologically first projected month with
// negative savings; later deficit months are suppressed.
func (a *Analyzer) lowBalanceAlert(ctx context.Context, today core.Date) ([]core.Alert, error) {
	capacity, err := a.SavingsCapacity(ctx, today)
	if err != nil {
		return nil, err
	}

	for _, month := range capacity {
		if !month.ProjectedSavings.IsNegative() {
			continue
		}
		deficit := month.ProjectedSavings.Neg()
		return []core.Alert{{
			Type:     core.AlertLowBalanceProjection,
			Priority: core.PriorityHigh,
			Title:    "Negative balance projected",
			Message: fmt.Sprintf("In %s expenses may exceed income by %s.",
				month.PeriodKey, core.DisplayAmount(deficit)),
			Data: core.LowBalanceData{
				Year:              month.Year,
				Month:             month.Month,
				ProjectedIncome:   month.ProjectedIncome,
				ProjectedExpenses: month.ProjectedExpenses,
				ProjectedDeficit:  deficit,
			},
			Action:    "projections",
			CreatedAt: today.Time,
		}}, nil
	}
	return nil, nil
}

// unusualSpendingAlert compares the trailing 7 days of expenses against the
// weekly-equivalent daily mean of the preceding three months.
func (a *Analyzer) unusualSpendingAlert(ctx context.Context, today core.Date) ([]core.Alert, error) {
	weekStart := today.AddDays(-6)
	recent, err := a.agg.Sum(ctx, core.Expense, weekStart, today)
	if err != nil {
		return nil, err
	}

	baselineFrom := today.AddMonths(-3)
	baselineTo := weekStart.AddDays(-1)
	baselineTotal, err := a.agg.Sum(ctx, core.Expense, baselineFrom, baselineTo)
	if err != nil {
		return nil, err
	}

	baselineDays := baselineFrom.DaysUntil(baselineTo) + 1
	if baselineDays <= 0 {
		return nil, nil
	}
	weeklyAvg := baselineTotal.Div(decimal.NewFromInt(int64(baselineDays))).Mul(decimal.NewFromInt(7))

	if !weeklyAvg.IsPositive() || !recent.GreaterThan(weeklyAvg.Mul(unusualFactor)) {
		return nil, nil
	}

	excess := recent.Sub(weeklyAvg)
	increase, _ := recent.Div(weeklyAvg).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).Float64()
	return []core.Alert{{
		Type:     core.AlertUnusualSpending,
		Priority: core.PriorityMedium,
		Title:    "Spending above normal",
		Message: fmt.Sprintf("This week's expenses (%s) are %s above your historical average.",
			core.DisplayAmount(recent), core.DisplayAmount(excess)),
		Data: core.UnusualSpendingData{
			RecentExpenses:  recent,
			WeeklyAverage:   weeklyAvg,
			Excess:          excess,
			PercentIncrease: increase,
		},
		Action:    "transactions",
		CreatedAt: today.Time,
	}}, nil
}

// billReminderAlerts flags active recurring expenses falling due within the
// next billReminderDays days, inclusive.
func (a *Analyzer) billReminderAlerts(ctx context.Context, today core.Date) ([]core.Alert, error) {
	expense := core.Expense
	items, err := a.store.ListActiveRecurringItems(ctx, &expense)
	if err != nil {
		return nil, err
	}

	var alerts []core.Alert
	for _, item := range items {
		due, ok := NextOccurrence(item, today)
		if !ok {
			continue
		}
		daysUntil := today.DaysUntil(due)
		if daysUntil < 0 || daysUntil > billReminderDays {
			continue
		}
		alerts = append(alerts, core.Alert{
			Type:     core.AlertBillReminder,
			Priority: core.PriorityLow,
			Title:    fmt.Sprintf("Reminder: %s", item.Description),
			Message: fmt.Sprintf("%q (%s) is due in %d day(s).",
				item.Description, core.DisplayAmount(item.Amount), daysUntil),
			Data: core.BillReminderData{
				ItemID:      item.ID,
				Description: item.Description,
				Amount:      item.Amount,
				DueDate:     due,
				DaysUntil:   daysUntil,
				CategoryID:  item.CategoryID,
			},
			Action:    "transactions",
			CreatedAt: today.Time,
		})
	}
	return alerts, nil
}

// positiveTrendAlert fires when month-to-date savings beat the previous
// month's savings over the same day-count window, provided the previous
// month was itself positive.
func (a *Analyzer) positiveTrendAlert(ctx context.Context, today core.Date) ([]core.Alert, error) {
	currentStart := today.StartOfMonth()
	currentSavings, err := a.netSavings(ctx, currentStart, today)
	if err != nil {
		return nil, err
	}

	prevStart := currentStart.AddMonths(-1)
	// Cap the comparison day at 28 so short months always have it.
	day := today.Day()
	if day > 28 {
		day = 28
	}
	prevEnd := core.NewDate(prevStart.Year(), prevStart.Month(), day)
	prevSavings, err := a.netSavings(ctx, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	if !prevSavings.IsPositive() || !currentSavings.GreaterThan(prevSavings) {
		return nil, nil
	}

	improvement := currentSavings.Sub(prevSavings)
	percent, _ := currentSavings.Div(prevSavings).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).Float64()
	return []core.Alert{{
		Type:     core.AlertPositiveTrend,
		Priority: core.PriorityLow,
		Title:    "Savings are improving",
		Message: fmt.Sprintf("You are saving %s more than at this point last month. Keep it up!",
			core.DisplayAmount(improvement)),
		Data: core.PositiveTrendData{
			CurrentSavings:  currentSavings,
			PreviousSavings: prevSavings,
			Improvement:     improvement,
			PercentImproved: percent,
		},
		Action:    "dashboard",
		CreatedAt: today.Time,
	}}, nil
}

func (a *Analyzer) netSavings(ctx context.Context, from, to core.Date) (decimal.Decimal, error) {
	income, err := a.agg.Sum(ctx, core.Income, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	expenses, err := a.agg.Sum(ctx, core.Expense, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return income.Sub(expenses), nil
}
