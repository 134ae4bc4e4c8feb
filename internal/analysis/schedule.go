// Recurring-schedule evaluation. Each frequency has its own rule type so the
// per-cadence logic stays isolated and individually testable.
package analysis

import (
	"bilancio/internal/core"
)

// occurrenceRule decides, for one frequency, whether an item falls due in a
// target month and when its next occurrence lands relative to a date.
type occurrenceRule interface {
	// occursIn reports whether the item produces an occurrence inside the
	// given calendar month. The caller has already checked the active flag
	// and the [startDate, endDate] window.
	occursIn(item core.RecurringItem, year, month int) bool

	// next returns the first occurrence on or after the given date,
	// ignoring the end-date window (checked by the caller).
	next(item core.RecurringItem, from core.Date) core.Date
}

type monthlyRule struct{}

func (monthlyRule) occursIn(core.RecurringItem, int, int) bool { return true }

func (monthlyRule) next(item core.RecurringItem, from core.Date) core.Date {
	candidate := clampedDay(from.Year(), from.Month(), item.StartDate.Day())
	if candidate.Before(from.Time) {
		next := from.StartOfMonth().AddMonths(1)
		candidate = clampedDay(next.Year(), next.Month(), item.StartDate.Day())
	}
	return candidate
}

type weeklyRule struct{}

// Weekly items are treated as occurring in every month of their window; the
// cadence is deliberately not decomposed into exact per-month counts.
func (weeklyRule) occursIn(core.RecurringItem, int, int) bool { return true }

func (weeklyRule) next(item core.RecurringItem, from core.Date) core.Date {
	offset := (int(item.StartDate.Weekday()) - int(from.Weekday()) + 7) % 7
	return from.AddDays(offset)
}

type yearlyRule struct{}

func (yearlyRule) occursIn(item core.RecurringItem, year, month int) bool {
	return item.StartDate.Month() == month
}

func (yearlyRule) next(item core.RecurringItem, from core.Date) core.Date {
	candidate := clampedDay(from.Year(), item.StartDate.Month(), item.StartDate.Day())
	if candidate.Before(from.Time) {
		candidate = clampedDay(from.Year()+1, item.StartDate.Month(), item.StartDate.Day())
	}
	return candidate
}

var occurrenceRules = map[core.Frequency]occurrenceRule{
	core.Monthly: monthlyRule{},
	core.Weekly:  weeklyRule{},
	core.Yearly:  yearlyRule{},
}

// clampedDay builds a date in (year, month) with the day clamped to the
// month's length, so a day-31 schedule lands on Feb 28/29.
func clampedDay(year, month, day int) core.Date {
	if last := core.DaysInMonth(year, month); day > last {
		day = last
	}
	return core.NewDate(year, month, day)
}

// OccursInMonth reports whether an active recurring item falls due within
// the target calendar month. Pure; inactive items and months outside the
// item's [startDate, endDate] window never occur.
func OccursInMonth(item core.RecurringItem, year, month int) bool {
	if !item.Active {
		return false
	}
	first := core.NewDate(year, month, 1)
	if item.StartDate.After(first.Time) {
		return false
	}
	if !item.EndDate.IsEmpty() && item.EndDate.Before(first.Time) {
		return false
	}
	rule, ok := occurrenceRules[item.Frequency]
	if !ok {
		return false
	}
	return rule.occursIn(item, year, month)
}

// NextOccurrence returns the first occurrence of an item on or after today.
// The second return is false when the item is inactive, has an unknown
// frequency, or its window has closed before the next occurrence.
func NextOccurrence(item core.RecurringItem, today core.Date) (core.Date, bool) {
	if !item.Active {
		return core.Date{}, false
	}
	rule, ok := occurrenceRules[item.Frequency]
	if !ok {
		return core.Date{}, false
	}

	from := today
	if item.StartDate.After(today.Time) {
		from = item.StartDate
	}
	next := rule.next(item, from)
	if !item.EndDate.IsEmpty() && next.After(item.EndDate.Time) {
		return core.Date{}, false
	}
	return next, true
}
