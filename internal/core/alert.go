package core

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// AlertType is the closed set of notification kinds the engine can emit.
// Each type carries exactly one payload struct; see the *Data types below.
const (
	AlertSpendingLimitWarning    AlertType = "spending_limit_warning"
	AlertSpendingLimitExceeded   AlertType = "spending_limit_exceeded"
	AlertGoalBehindSchedule      AlertType = "goal_behind_schedule"
	AlertGoalDeadlineApproaching AlertType = "goal_deadline_approaching"
	AlertLowBalanceProjection    AlertType = "low_balance_projection"
	AlertUnusualSpending         AlertType = "unusual_spending"
	AlertBillReminder            AlertType = "bill_reminder"
	AlertPositiveTrend           AlertType = "positive_trend"
)

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type (
	AlertType string
	Priority  string

	// Alert is a typed, prioritized notification produced fresh on every
	// analysis pass. The engine never mutates alerts after emission; read
	// state is caller-held, keyed by Key().
	Alert struct {
		Type      AlertType `json:"type"`
		Priority  Priority  `json:"priority"`
		Title     string    `json:"title"`
		Message   string    `json:"message"`
		Data      any       `json:"data"`
		Action    string    `json:"action"` // logical destination, not a URL
		CreatedAt time.Time `json:"created_at"`
		Read      bool      `json:"read"`
	}

	LimitExceededData struct {
		CategoryID   int64           `json:"category_id"`
		CategoryName string          `json:"category_name"`
		Limit        decimal.Decimal `json:"limit"`
		Spent        decimal.Decimal `json:"spent"`
		Excess       decimal.Decimal `json:"excess"`
		PercentUsed  float64         `json:"percent_used"`
	}

	LimitWarningData struct {
		CategoryID   int64           `json:"category_id"`
		CategoryName string          `json:"category_name"`
		Limit        decimal.Decimal `json:"limit"`
		Spent        decimal.Decimal `json:"spent"`
		Remaining    decimal.Decimal `json:"remaining"`
		PercentUsed  float64         `json:"percent_used"`
	}

	GoalBehindData struct {
		GoalName        string          `json:"goal_name"`
		IdealPercent    float64         `json:"ideal_percent"`
		ActualPercent   float64         `json:"actual_percent"`
		MonthlyNeeded   decimal.Decimal `json:"monthly_needed"`
		MonthsRemaining float64         `json:"months_remaining"`
	}

	GoalDeadlineData struct {
		GoalName      string          `json:"goal_name"`
		TargetAmount  decimal.Decimal `json:"target_amount"`
		CurrentAmount decimal.Decimal `json:"current_amount"`
		ActualPercent float64         `json:"actual_percent"`
		DaysRemaining int             `json:"days_remaining"`
	}

	LowBalanceData struct {
		Year              int             `json:"year"`
		Month             int             `json:"month"`
		ProjectedIncome   decimal.Decimal `json:"projected_income"`
		ProjectedExpenses decimal.Decimal `json:"projected_expenses"`
		ProjectedDeficit  decimal.Decimal `json:"projected_deficit"`
	}

	UnusualSpendingData struct {
		RecentExpenses  decimal.Decimal `json:"recent_expenses"`
		WeeklyAverage   decimal.Decimal `json:"weekly_average"`
		Excess          decimal.Decimal `json:"excess"`
		PercentIncrease float64         `json:"percent_increase"`
	}

	BillReminderData struct {
		ItemID      int64           `json:"item_id"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		DueDate     Date            `json:"due_date"`
		DaysUntil   int             `json:"days_until"`
		CategoryID  int64           `json:"category_id"`
	}

	PositiveTrendData struct {
		CurrentSavings  decimal.Decimal `json:"current_savings"`
		PreviousSavings decimal.Decimal `json:"previous_savings"`
		Improvement     decimal.Decimal `json:"improvement"`
		PercentImproved float64         `json:"percent_improved"`
	}
)

func (p Priority) Validate() error {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return nil
	}
	return fmt.Errorf("invalid priority: %q", string(p))
}

// Key returns a stable identity for the alert built from its type and the
// natural key fields of its payload. Identity survives regeneration of the
// alert list, unlike positional indexes; callers carry read-state keyed by
// this value.
func (a Alert) Key() string {
	switch data := a.Data.(type) {
	case LimitExceededData:
		return string(a.Type) + ":" + strconv.FormatInt(data.CategoryID, 10)
	case LimitWarningData:
		return string(a.Type) + ":" + strconv.FormatInt(data.CategoryID, 10)
	case GoalBehindData:
		return string(a.Type) + ":" + data.GoalName
	case GoalDeadlineData:
		return string(a.Type) + ":" + data.GoalName
	case LowBalanceData:
		return string(a.Type) + ":" + PeriodKey(data.Year, data.Month)
	case UnusualSpendingData:
		return string(a.Type)
	case BillReminderData:
		return string(a.Type) + ":" + strconv.FormatInt(data.ItemID, 10) + ":" + data.DueDate.ISO()
	case PositiveTrendData:
		return string(a.Type)
	default:
		return string(a.Type)
	}
}
