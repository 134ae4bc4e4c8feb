// Package storage provides the SQLite-backed transaction store the analysis
// engine reads from.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements analysis.TransactionStore over one SQLite
// database. Dates are stored as 'YYYY-MM-DD' text so range predicates
// compare lexicographically; amounts are stored as integer cents.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SumAmount totals entry amounts of the given type in the inclusive date
// range, optionally restricted to one category. No matching rows sum to zero.
func (r *SQLiteRepository) SumAmount(ctx context.Context, typ core.EntryType, from, to core.Date, categoryID *int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount_cents), 0) FROM entries WHERE type = ? AND date >= ? AND date <= ?`
	args := []any{string(typ), from.ISO(), to.ISO()}
	if categoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *categoryID)
	}

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return decimal.Zero, fmt.Errorf("sum %s amounts: %w", typ, err)
	}
	return core.AmountFromCents(cents), nil
}

// AverageAmount returns the mean entry amount of the given type in the
// inclusive date range, optionally restricted to one category.
func (r *SQLiteRepository) AverageAmount(ctx context.Context, typ core.EntryType, from, to core.Date, categoryID *int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(AVG(amount_cents), 0) FROM entries WHERE type = ? AND date >= ? AND date <= ?`
	args := []any{string(typ), from.ISO(), to.ISO()}
	if categoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *categoryID)
	}

	var cents float64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return decimal.Zero, fmt.Errorf("average %s amounts: %w", typ, err)
	}
	return decimal.NewFromFloat(cents).Shift(-2), nil
}

// CountDistinctIncomeCategories counts categories with at least one income
// entry in the inclusive date range.
func (r *SQLiteRepository) CountDistinctIncomeCategories(ctx context.Context, from, to core.Date) (int, error) {
	const query = `SELECT COUNT(DISTINCT category_id) FROM entries WHERE type = ? AND date >= ? AND date <= ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, string(core.Income), from.ISO(), to.ISO()).Scan(&count); err != nil {
		return 0, fmt.Errorf("count income categories: %w", err)
	}
	return count, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	const query = `SELECT id, name, color, is_default FROM categories ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.IsDefault); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) ListActiveGoals(ctx context.Context) ([]core.Goal, error) {
	const query = `SELECT name, target_amount_cents, current_amount_cents, target_date, created_date
		FROM goals WHERE active = 1 ORDER BY target_date`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		var g core.Goal
		var targetCents, currentCents int64
		var targetDate, createdDate string
		if err := rows.Scan(&g.Name, &targetCents, &currentCents, &targetDate, &createdDate); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.TargetAmount = core.AmountFromCents(targetCents)
		g.CurrentAmount = core.AmountFromCents(currentCents)
		if g.TargetDate, err = core.ParseDate(targetDate); err != nil {
			return nil, fmt.Errorf("parse goal target date: %w", err)
		}
		if g.CreatedDate, err = core.ParseDate(createdDate); err != nil {
			return nil, fmt.Errorf("parse goal created date: %w", err)
		}
		g.Active = true
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) ListSpendingLimits(ctx context.Context, periodKey string) ([]core.SpendingLimit, error) {
	const query = `SELECT l.category_id, c.name, l.monthly_limit_cents, l.period_key
		FROM spending_limits l
		JOIN categories c ON c.id = l.category_id
		WHERE l.period_key = ?
		ORDER BY c.name`

	rows, err := r.db.QueryContext(ctx, query, periodKey)
	if err != nil {
		return nil, fmt.Errorf("list spending limits: %w", err)
	}
	defer rows.Close()

	var limits []core.SpendingLimit
	for rows.Next() {
		var (
			l          core.SpendingLimit
			limitCents int64
		)
		if err := rows.Scan(&l.CategoryID, &l.CategoryName, &limitCents, &l.PeriodKey); err != nil {
			return nil, fmt.Errorf("scan spending limit: %w", err)
		}
		l.MonthlyLimit = core.AmountFromCents(limitCents)
		limits = append(limits, l)
	}
	return limits, rows.Err()
}

func (r *SQLiteRepository) ListActiveRecurringItems(ctx context.Context, typ *core.EntryType) ([]core.RecurringItem, error) {
	query := `SELECT id, description, amount_cents, type, frequency, start_date, end_date, category_id, account_id
		FROM recurring_items WHERE active = 1`
	var args []any
	if typ != nil {
		query += ` AND type = ?`
		args = append(args, string(*typ))
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recurring items: %w", err)
	}
	defer rows.Close()

	var items []core.RecurringItem
	for rows.Next() {
		var (
			item        core.RecurringItem
			amountCents int64
			itemType    string
			frequency   string
			startDate   string
			endDate     sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.Description, &amountCents, &itemType, &frequency,
			&startDate, &endDate, &item.CategoryID, &item.AccountID); err != nil {
			return nil, fmt.Errorf("scan recurring item: %w", err)
		}
		item.Amount = core.AmountFromCents(amountCents)
		item.Type = core.EntryType(itemType)
		item.Frequency = core.Frequency(frequency)
		if item.StartDate, err = core.ParseDate(startDate); err != nil {
			return nil, fmt.Errorf("parse recurring item start date: %w", err)
		}
		if endDate.Valid && endDate.String != "" {
			if item.EndDate, err = core.ParseDate(endDate.String); err != nil {
				return nil, fmt.Errorf("parse recurring item end date: %w", err)
			}
		}
		item.Active = true
		items = append(items, item)
	}
	return items, rows.Err()
}

// InsertEntry records one ledger entry. Used by seed tooling and tests; the
// analysis engine itself never writes.
func (r *SQLiteRepository) InsertEntry(ctx context.Context, e core.LedgerEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, fmt.Errorf("validate entry: %w", err)
	}

	const query = `INSERT INTO entries (date, description, amount_cents, type, category_id, account_id)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		e.Date.ISO(), e.Description, core.Cents(e.Amount), string(e.Type), e.CategoryID, e.AccountID)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) InsertGoal(ctx context.Context, g core.Goal) (int64, error) {
	if err := g.Validate(); err != nil {
		return 0, fmt.Errorf("validate goal: %w", err)
	}

	const query = `INSERT INTO goals (name, target_amount_cents, current_amount_cents, target_date, created_date, active)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		g.Name, core.Cents(g.TargetAmount), core.Cents(g.CurrentAmount),
		g.TargetDate.ISO(), g.CreatedDate.ISO(), g.Active)
	if err != nil {
		return 0, fmt.Errorf("insert goal: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) InsertSpendingLimit(ctx context.Context, l core.SpendingLimit) (int64, error) {
	if err := l.Validate(); err != nil {
		return 0, fmt.Errorf("validate spending limit: %w", err)
	}

	const query = `INSERT INTO spending_limits (category_id, monthly_limit_cents, period_key)
		VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, l.CategoryID, core.Cents(l.MonthlyLimit), l.PeriodKey)
	if err != nil {
		return 0, fmt.Errorf("insert spending limit: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) InsertRecurringItem(ctx context.Context, item core.RecurringItem) (int64, error) {
	if err := item.Validate(); err != nil {
		return 0, fmt.Errorf("validate recurring item: %w", err)
	}

	var endDate any
	if !item.EndDate.IsEmpty() {
		endDate = item.EndDate.ISO()
	}

	const query = `INSERT INTO recurring_items (description, amount_cents, type, frequency, start_date, end_date, active, category_id, account_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		item.Description, core.Cents(item.Amount), string(item.Type), string(item.Frequency),
		item.StartDate.ISO(), endDate, item.Active, item.CategoryID, item.AccountID)
	if err != nil {
		return 0, fmt.Errorf("insert recurring item: %w", err)
	}
	return res.LastInsertId()
}

// CategoryIDByName resolves a category name to its row id.
func (r *SQLiteRepository) CategoryIDByName(ctx context.Context, name string) (int64, error) {
	const query = `SELECT id FROM categories WHERE name = ?`

	var id int64
	err := r.db.QueryRowContext(ctx, query, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("category %q not found", name)
	}
	if err != nil {
		return 0, fmt.Errorf("look up category %q: %w", name, err)
	}
	return id, nil
}
