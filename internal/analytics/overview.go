package analytics

import (
	"math"
	"time"

	"finboard/internal/core"
)

// SavingsTarget is the savings rate, in percent, the dashboard aims for.
const SavingsTarget = 20.0

// Summarize computes the overview cards for the given snapshot.
// Ratios against income are 0 when there is no income.
func Summarize(transactions []core.Transaction, now time.Time) core.Overview {
	var o core.Overview
	for _, tx := range transactions {
		switch tx.Type {
		case core.Income:
			o.Income += tx.Amount
		case core.Expense:
			o.Expenses += tx.Amount
		}
	}
	o.Balance = o.Income - o.Expenses
	if o.Income > 0 {
		o.SavingsRate = o.Balance / o.Income * 100
		o.BudgetProgress = o.Expenses / o.Income * 100
	}
	o.MonthProgress = math.Min(float64(now.Day())/30*100, 100)
	return o
}

// MeetsSavingsTarget reports whether the overview's savings rate reaches
// SavingsTarget.
func MeetsSavingsTarget(o core.Overview) bool {
	return o.SavingsRate >= SavingsTarget
}
