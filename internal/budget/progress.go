package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-dashboard/internal/expense"
)

type Status string

const (
	StatusOnTrack  Status = "on_track"
	StatusWarning  Status = "warning"
	StatusExceeded Status = "exceeded"
)

var (
	hundred          = decimal.NewFromInt(100)
	warningThreshold = decimal.NewFromInt(80)
)

// Progress is the spend state of one budget. It is derived on every call
// and never stored.
type Progress struct {
	Budget          *Budget         `json:"budget"`
	CurrentSpending decimal.Decimal `json:"current_spending"`
	PercentageUsed  float64         `json:"percentage_used"`
	Remaining       decimal.Decimal `json:"remaining"`
	Status          Status          `json:"status"`
}

// StatusFor maps a percentage of the budget used to a status.
func StatusFor(percentage decimal.Decimal) Status {
	switch {
	case percentage.GreaterThanOrEqual(hundred):
		return StatusExceeded
	case percentage.GreaterThanOrEqual(warningThreshold):
		return StatusWarning
	default:
		return StatusOnTrack
	}
}

// Compute joins budgets with expenses by category and window. The result
// keeps the order of budgets.
func Compute(budgets []*Budget, expenses []*expense.Expense) []Progress {
	byCategory := make(map[string][]*expense.Expense)
	for _, e := range expenses {
		if e == nil {
			continue
		}
		byCategory[e.Category] = append(byCategory[e.Category], e)
	}

	out := make([]Progress, 0, len(budgets))
	for _, b := range budgets {
		if b == nil {
			continue
		}
		out = append(out, progressOf(b, byCategory[b.Category]))
	}
	return out
}

func progressOf(b *Budget, expenses []*expense.Expense) Progress {
	spent := decimal.Zero
	for _, e := range expenses {
		if b.HasWindow() && !withinDays(e.Date, *b.StartDate, *b.EndDate) {
			continue
		}
		spent = spent.Add(e.Amount)
	}

	p := Progress{
		Budget:          b,
		CurrentSpending: spent,
		Remaining:       b.Amount.Sub(spent),
	}

	// amount <= 0 is rejected on write; a bad row still must not divide by zero.
	if !b.Amount.IsPositive() {
		p.Status = StatusExceeded
		return p
	}

	pct := spent.Div(b.Amount).Mul(hundred)
	p.PercentageUsed = pct.InexactFloat64()
	p.Status = StatusFor(pct)
	return p
}

// withinDays compares calendar days in UTC, inclusive on both ends.
func withinDays(t, start, end time.Time) bool {
	d := day(t)
	return !d.Before(day(start)) && !d.After(day(end))
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type Summary struct {
	TotalBudget   decimal.Decimal `json:"total_budget"`
	TotalSpending decimal.Decimal `json:"total_spending"`
	Remaining     decimal.Decimal `json:"remaining"`
	OnTrack       int             `json:"on_track"`
	Warning       int             `json:"warning"`
	Exceeded      int             `json:"exceeded"`
}

func Summarize(progress []Progress) Summary {
	s := Summary{TotalBudget: decimal.Zero, TotalSpending: decimal.Zero}
	for _, p := range progress {
		s.TotalBudget = s.TotalBudget.Add(p.Budget.Amount)
		s.TotalSpending = s.TotalSpending.Add(p.CurrentSpending)
		switch p.Status {
		case StatusOnTrack:
			s.OnTrack++
		case StatusWarning:
			s.Warning++
		case StatusExceeded:
			s.Exceeded++
		}
	}
	s.Remaining = s.TotalBudget.Sub(s.TotalSpending)
	return s
}
