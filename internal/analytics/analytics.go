// Package analytics derives spending insights from a ledger snapshot.
//
// Every function is pure: it reads the slice it is given and never keeps a
// reference to it, so callers may share one snapshot across goroutines.
package analytics

import (
	"fmt"
	"sort"
	"strings"

	"finboard/internal/core"
)

// ExpenseBuffer is applied on top of the monthly average when projecting.
const ExpenseBuffer = 1.1

var categoryAdvice = map[string]string{
	"food":           "Consider meal prepping to reduce food expenses.",
	"entertainment":  "Look for free or low-cost entertainment alternatives.",
	"transportation": "Consider carpooling or public transportation options.",
}

const genericAdvice = "Review your expenses in this category for potential savings."

func validateAll(transactions []core.Transaction) error {
	for i, tx := range transactions {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	return nil
}

// AggregateByCategory sums expenses per category and ranks them by amount.
//
// Income is ignored and categories without any spending are left out. When
// there is no spending at all the result is empty (never nil). Equal amounts
// keep the order in which their category first appears, income rows
// included.
func AggregateByCategory(transactions []core.Transaction) ([]core.CategoryAnalysis, error) {
	if err := validateAll(transactions); err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	var order []string
	for _, tx := range transactions {
		if _, seen := totals[tx.Category]; !seen {
			order = append(order, tx.Category)
			totals[tx.Category] = 0
		}
		if tx.IsExpense() {
			totals[tx.Category] += tx.Amount
		}
	}

	var total float64
	for _, name := range order {
		total += totals[name]
	}

	out := make([]core.CategoryAnalysis, 0, len(order))
	if total == 0 {
		return out, nil
	}
	for _, name := range order {
		if totals[name] == 0 {
			continue
		}
		out = append(out, core.CategoryAnalysis{
			Category:   name,
			Amount:     totals[name],
			Percentage: totals[name] / total * 100,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out, nil
}

// GenerateSavingsTips returns up to two tips about the top spending category.
func GenerateSavingsTips(transactions []core.Transaction) ([]string, error) {
	analysis, err := AggregateByCategory(transactions)
	if err != nil {
		return nil, err
	}
	tips := make([]string, 0, 2)
	if len(analysis) == 0 {
		return tips, nil
	}
	top := analysis[0]
	tips = append(tips, fmt.Sprintf(
		"Your highest spending category is %s at %.1f%% of total expenses.",
		top.Category, top.Percentage,
	))
	advice, ok := categoryAdvice[strings.ToLower(top.Category)]
	if !ok {
		advice = genericAdvice
	}
	return append(tips, advice), nil
}

// PredictMonthlyExpenses projects next month's spending from the average of
// the months present in the input.
//
// Months are bucketed by calendar month only, so January 2024 and January
// 2025 share a bucket. Every transaction opens its month's bucket but only
// expenses add to it. core.ErrEmptyInput is returned when there is nothing
// to average.
func PredictMonthlyExpenses(transactions []core.Transaction) (core.MonthlyPrediction, error) {
	if err := validateAll(transactions); err != nil {
		return core.MonthlyPrediction{}, err
	}

	monthly := make(map[int]float64)
	expenses := 0
	for _, tx := range transactions {
		month := int(tx.Date.Month()) - 1
		if tx.IsExpense() {
			monthly[month] += tx.Amount
			expenses++
			continue
		}
		if _, ok := monthly[month]; !ok {
			monthly[month] = 0
		}
	}
	if expenses == 0 {
		return core.MonthlyPrediction{}, fmt.Errorf("predict monthly expenses: %w", core.ErrEmptyInput)
	}

	var total float64
	for _, v := range monthly {
		total += v
	}
	avg := total / float64(len(monthly))
	return core.MonthlyPrediction{
		AverageMonthly: avg,
		PredictedNext:  avg * ExpenseBuffer,
		MonthlyTotals:  monthly,
	}, nil
}
