package analysis

import (
	"context"
	"fmt"

	"bilancio/internal/core"
)

// Factor weights. They sum to 100; each factor is independently capped at
// its weight so the composite always lands in [0, 100].
const (
	balanceWeight         = 25.0
	savingsWeight         = 30.0
	disciplineWeight      = 30.0
	diversificationWeight = 15.0

	// neutralDiscipline is awarded when no limits are defined at all:
	// neither punished nor rewarded.
	neutralDiscipline = 15.0
)

const (
	LevelExcellent HealthLevel = "excellent"
	LevelGood      HealthLevel = "good"
	LevelFair      HealthLevel = "fair"
	LevelPoor      HealthLevel = "poor"
)

type HealthLevel string

// ScoreFactors breaks the composite score into its four components.
type ScoreFactors struct {
	PositiveBalance       float64 `json:"positive_balance"`
	SavingsCapacity       float64 `json:"savings_capacity"`
	SpendingDiscipline    float64 `json:"spending_discipline"`
	IncomeDiversification float64 `json:"income_diversification"`
}

// HealthScore is the 0-100 composite with its level and recommendations.
type HealthScore struct {
	Total           float64      `json:"total_score"`
	Level           HealthLevel  `json:"level"`
	Factors         ScoreFactors `json:"factors"`
	Recommendations []string     `json:"recommendations"`
}

// HealthScore combines current-month balance, savings rate, spending
// discipline and income diversification into one composite score.
func (a *Analyzer) HealthScore(ctx context.Context, today core.Date) (HealthScore, error) {
	summary, err := a.CurrentMonthSummary(ctx, today)
	if err != nil {
		return HealthScore{}, fmt.Errorf("current month summary: %w", err)
	}
	limits, err := a.SpendingLimitsStatus(ctx, today)
	if err != nil {
		return HealthScore{}, fmt.Errorf("spending limits: %w", err)
	}
	incomeCategories, err := a.store.CountDistinctIncomeCategories(ctx, today.AddMonths(-3), today)
	if err != nil {
		return HealthScore{}, fmt.Errorf("count income categories: %w", err)
	}

	factors := ScoreFactors{
		PositiveBalance:       balanceFactor(summary),
		SavingsCapacity:       savingsFactor(summary),
		SpendingDiscipline:    disciplineFactor(limits),
		IncomeDiversification: diversificationFactor(incomeCategories),
	}
	total := factors.PositiveBalance + factors.SavingsCapacity +
		factors.SpendingDiscipline + factors.IncomeDiversification

	return HealthScore{
		Total:           total,
		Level:           healthLevel(total),
		Factors:         factors,
		Recommendations: recommendations(factors),
	}, nil
}

func balanceFactor(summary MonthSummary) float64 {
	if summary.Balance.IsPositive() {
		return balanceWeight
	}
	return 0
}

// savingsFactor bands the current-month savings rate: 20%+ earns full
// credit, 10-19% partial, any positive rate minimal, zero or negative none.
func savingsFactor(summary MonthSummary) float64 {
	if !summary.TotalIncome.IsPositive() {
		return 0
	}
	rate, _ := summary.Balance.Div(summary.TotalIncome).Float64()
	switch {
	case rate >= 0.20:
		return savingsWeight
	case rate >= 0.10:
		return 20
	case rate > 0:
		return 10
	default:
		return 0
	}
}

// disciplineFactor scales with the fraction of limits not exceeded. With no
// limits defined there is nothing to measure, so a fixed neutral mid-value
// is awarded.
func disciplineFactor(limits []LimitStatus) float64 {
	if len(limits) == 0 {
		return neutralDiscipline
	}
	within := 0
	for _, limit := range limits {
		if limit.Status != LimitExceeded {
			within++
		}
	}
	return float64(within) / float64(len(limits)) * disciplineWeight
}

func diversificationFactor(incomeCategories int) float64 {
	switch {
	case incomeCategories >= 3:
		return diversificationWeight
	case incomeCategories == 2:
		return 10
	case incomeCategories == 1:
		return 5
	default:
		return 0
	}
}

func healthLevel(total float64) HealthLevel {
	switch {
	case total >= 80:
		return LevelExcellent
	case total >= 60:
		return LevelGood
	case total >= 40:
		return LevelFair
	default:
		return LevelPoor
	}
}

// recommendations emits one suggestion per underperforming factor, or a
// single congratulatory message when everything holds up.
func recommendations(factors ScoreFactors) []string {
	var recs []string
	if factors.PositiveBalance == 0 {
		recs = append(recs, "Reduce expenses or increase income to keep the monthly balance positive")
	}
	if factors.SavingsCapacity < 20 {
		recs = append(recs, "Raise income or cut expenses to improve your savings capacity")
	}
	if factors.SpendingDiscipline < 20 {
		recs = append(recs, "Review and adjust your per-category spending limits")
	}
	if factors.IncomeDiversification < 10 {
		recs = append(recs, "Consider diversifying your income sources")
	}
	if len(recs) == 0 {
		recs = append(recs, "Keep up your good financial habits!")
	}
	return recs
}
