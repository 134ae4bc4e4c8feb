package analysis

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// daysPerMonth is the mean calendar month length used for goal pacing.
const daysPerMonth = 30.44

// scheduleTolerance is the slack, as a progress fraction, before a goal
// counts as behind its ideal pacing.
const scheduleTolerance = 0.10

// GoalProgress scores one active goal against its pacing and the projected
// savings capacity.
type GoalProgress struct {
	Name                string          `json:"name"`
	TargetAmount        decimal.Decimal `json:"target_amount"`
	CurrentAmount       decimal.Decimal `json:"current_amount"`
	Remaining           decimal.Decimal `json:"remaining"`
	TargetDate          core.Date       `json:"target_date"`
	DaysRemaining       int             `json:"days_remaining"`
	MonthsRemaining     float64         `json:"months_remaining"`
	ActualProgress      float64         `json:"actual_progress"` // fraction of target reached
	IdealProgress       float64         `json:"ideal_progress"`  // fraction expected by now
	MonthlyNeeded       decimal.Decimal `json:"monthly_needed"`
	Achievable          bool            `json:"achievable"`
	AvgProjectedSavings decimal.Decimal `json:"avg_projected_savings"`
	BehindSchedule      bool            `json:"behind_schedule"`
	DeadlineApproaching bool            `json:"deadline_approaching"`
}

// GoalsProgress evaluates every active goal. Overdue goals (negative days
// remaining) are still scored.
func (a *Analyzer) GoalsProgress(ctx context.Context, today core.Date) ([]GoalProgress, error) {
	goals, err := a.store.ListActiveGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	capacity, err := a.SavingsCapacity(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("savings capacity: %w", err)
	}
	avgSavings := averageSavings(capacity)

	progress := make([]GoalProgress, 0, len(goals))
	for _, goal := range goals {
		progress = append(progress, scoreGoal(goal, today, avgSavings))
	}
	return progress, nil
}

func scoreGoal(goal core.Goal, today core.Date, avgSavings decimal.Decimal) GoalProgress {
	daysRemaining := today.DaysUntil(goal.TargetDate)

	monthsRemaining := float64(daysRemaining) / daysPerMonth
	if monthsRemaining < 0 {
		monthsRemaining = 0
	}

	totalMonths := float64(goal.CreatedDate.DaysUntil(goal.TargetDate)) / daysPerMonth
	if totalMonths < 1 {
		totalMonths = 1
	}
	idealProgress := 1 - monthsRemaining/totalMonths

	actualProgress := 0.0
	if goal.TargetAmount.IsPositive() {
		actualProgress, _ = goal.CurrentAmount.Div(goal.TargetAmount).Float64()
	}

	remaining := goal.TargetAmount.Sub(goal.CurrentAmount)
	monthlyNeeded := remaining
	if monthsRemaining > 0 {
		monthlyNeeded = remaining.Div(decimal.NewFromFloat(monthsRemaining))
	}

	return GoalProgress{
		Name:                goal.Name,
		TargetAmount:        goal.TargetAmount,
		CurrentAmount:       goal.CurrentAmount,
		Remaining:           remaining,
		TargetDate:          goal.TargetDate,
		DaysRemaining:       daysRemaining,
		MonthsRemaining:     monthsRemaining,
		ActualProgress:      actualProgress,
		IdealProgress:       idealProgress,
		MonthlyNeeded:       monthlyNeeded,
		Achievable:          monthlyNeeded.LessThanOrEqual(avgSavings),
		AvgProjectedSavings: avgSavings,
		BehindSchedule:      monthsRemaining > 0 && actualProgress < idealProgress-scheduleTolerance,
		DeadlineApproaching: daysRemaining > 0 && daysRemaining <= 30 && actualProgress*100 < 90,
	}
}
