// Package analysis implements the personal-finance analytics engine: period
// aggregation, recurring-schedule projection, savings capacity, goal
// pacing, spending-limit monitoring, the composite health score, and the
// alert rule pass that ties them together.
//
// The engine is a pure, synchronous computation over a point-in-time
// snapshot of the Transaction Store. It holds no mutable state between
// calls; the caller passes the analysis date explicitly so every pass is
// deterministic and testable with fixed dates.
package analysis

import (
	"context"
	"fmt"

	"bilancio/internal/core"
)

// DefaultProjectionMonths is the forward horizon used when none is
// configured.
const DefaultProjectionMonths = 3

// Analyzer orchestrates one analysis pass over the Transaction Store.
type Analyzer struct {
	agg    Aggregator
	store  TransactionStore
	months int
}

// NewAnalyzer builds an engine over the given store. months is the
// projection horizon; non-positive values fall back to
// DefaultProjectionMonths.
func NewAnalyzer(store TransactionStore, months int) *Analyzer {
	if months <= 0 {
		months = DefaultProjectionMonths
	}
	return &Analyzer{
		agg:    NewAggregator(store),
		store:  store,
		months: months,
	}
}

// DashboardSnapshot bundles everything the dashboard renders for one pass.
type DashboardSnapshot struct {
	CurrentMonth       MonthSummary        `json:"current_month_summary"`
	HealthScore        HealthScore         `json:"health_score"`
	SavingsCapacity    []MonthlySavings    `json:"savings_capacity"`
	IncomeProjections  []MonthlyProjection `json:"income_projections"`
	ExpenseProjections []MonthlyProjection `json:"expense_projections"`
	GoalsProgress      []GoalProgress      `json:"goals_progress"`
	SpendingLimits     []LimitStatus       `json:"spending_limits_status"`
}

// Snapshot runs every component for one pass and returns the consolidated
// dashboard view. Any store failure aborts the pass.
func (a *Analyzer) Snapshot(ctx context.Context, today core.Date) (DashboardSnapshot, error) {
	summary, err := a.CurrentMonthSummary(ctx, today)
	if err != nil {
		return DashboardSnapshot{}, fmt.Errorf("current month summary: %w", err)
	}
	health, err := a.HealthScore(ctx, today)
	if err != nil {
		return DashboardSnapshot{}, fmt.Errorf("health score: %w", err)
	}
	savings, err := a.SavingsCapacity(ctx, today)
	if err != nil {
		return DashboardSnapshot{}, fmt.Errorf("savings capacity: %w", err)
	}
	income, err := a.ProjectIncome(ctx, today)
	if err != nil {
		return DashboardSnapshot{}, fmt.Errorf("income projections: %w", err)
	}
	expenses, err := a.ProjectExpenses(ctx, today)
	if err != nil {
		return DashboardSnapshot{}, fmt.Errorf("expense projections: %w", err)
	}
	goals, err := a.GoalsProgress(ctx, today)
	if err != nil {
		return DashboardSnapshot{}, fmt.Errorf("goals progress: %w", err)
	}
	limits, err := a.SpendingLimitsStatus(ctx, today)
	if err != nil {
		return DashboardSnapshot{}, fmt.Errorf("spending limits: %w", err)
	}

	return DashboardSnapshot{
		CurrentMonth:       summary,
		HealthScore:        health,
		SavingsCapacity:    savings,
		IncomeProjections:  income,
		ExpenseProjections: expenses,
		GoalsProgress:      goals,
		SpendingLimits:     limits,
	}, nil
}

// AlertsSummary is the per-pass rollup of the generated alert list.
type AlertsSummary struct {
	Total      int                   `json:"total"`
	Unread     int                   `json:"unread"`
	ByPriority map[core.Priority]int `json:"by_priority"`
	Alerts     []core.Alert          `json:"alerts"`
}

// AlertsSummary generates a fresh alert pass and summarizes it.
func (a *Analyzer) AlertsSummary(ctx context.Context, today core.Date) (AlertsSummary, error) {
	alerts, err := a.GenerateAllAlerts(ctx, today)
	if err != nil {
		return AlertsSummary{}, err
	}
	return SummarizeAlerts(alerts), nil
}

// SummarizeAlerts rolls an alert list up into counts. Pure.
func SummarizeAlerts(alerts []core.Alert) AlertsSummary {
	summary := AlertsSummary{
		Total: len(alerts),
		ByPriority: map[core.Priority]int{
			core.PriorityCritical: 0,
			core.PriorityHigh:     0,
			core.PriorityMedium:   0,
			core.PriorityLow:      0,
		},
		Alerts: alerts,
	}
	for _, alert := range alerts {
		summary.ByPriority[alert.Priority]++
		if !alert.Read {
			summary.Unread++
		}
	}
	return summary
}
