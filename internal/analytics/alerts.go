package analytics

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"finboard/internal/core"
)

const (
	// WeekendThreshold is how much higher, as a fraction, the average weekend
	// day must run over the average weekday before it is flagged.
	WeekendThreshold = 0.2
	// BudgetWarning is the share of income spent, in percent, that raises a
	// spending alert.
	BudgetWarning = 80.0
	// PaperlessMonthlySaving is what switching one month of bills to
	// e-statements saves.
	PaperlessMonthlySaving = 2.0
)

var (
	billingWords     = wordSet("bill", "bills", "utility", "utilities", "phone", "internet")
	sustainableWords = wordSet("transit", "bus", "train", "bike", "bicycle", "cycling", "thrift", "secondhand", "repair", "organic", "recycling")
	carbonWords      = wordSet("travel", "flight", "flights", "fuel", "gas", "gasoline", "petrol", "car")
)

// GenerateAlerts derives notices from the snapshot, in a fixed order:
// weekend behavior, budget use, then eco. The result is empty (never nil)
// when nothing stands out.
func GenerateAlerts(transactions []core.Transaction, now time.Time) ([]core.Alert, error) {
	if err := validateAll(transactions); err != nil {
		return nil, err
	}

	alerts := []core.Alert{}
	if pct, ok := weekendExcess(transactions); ok {
		alerts = append(alerts, core.Alert{
			ID:        "weekend-spending",
			Type:      core.AlertBehavior,
			Message:   fmt.Sprintf("Weekend spending is %.0f%% higher than weekdays. Consider setting a weekend budget.", pct),
			Action:    "Set Weekend Budget",
			Timestamp: now,
		})
	}

	o := Summarize(transactions, now)
	switch {
	case o.BudgetProgress >= 100:
		alerts = append(alerts, core.Alert{
			ID:        "budget",
			Type:      core.AlertSpending,
			Message:   fmt.Sprintf("Your expenses have passed your income: %.0f%% of your budget is spent.", o.BudgetProgress),
			Action:    "Review Budget",
			Timestamp: now,
		})
	case o.BudgetProgress >= BudgetWarning:
		alerts = append(alerts, core.Alert{
			ID:        "budget",
			Type:      core.AlertSpending,
			Message:   fmt.Sprintf("You're approaching your budget limit: %.0f%% of your income is spent.", o.BudgetProgress),
			Action:    "Review Budget",
			Timestamp: now,
		})
	}

	for _, tx := range transactions {
		if tx.IsExpense() && matches(tx.Category, billingWords) {
			alerts = append(alerts, core.Alert{
				ID:        "paperless",
				Type:      core.AlertEco,
				Message:   fmt.Sprintf("Switch to paperless billing to save $%.0f/month and reduce paper waste.", PaperlessMonthlySaving),
				Action:    "Go Paperless",
				Timestamp: now,
			})
			break
		}
	}
	return alerts, nil
}

// weekendExcess compares the average spend of a weekend day against a
// weekday, counting only days with expenses. It reports the excess in
// percent when it reaches WeekendThreshold.
func weekendExcess(transactions []core.Transaction) (float64, bool) {
	days := make(map[time.Time]float64)
	for _, tx := range transactions {
		if tx.IsExpense() {
			y, m, d := tx.Date.Date()
			days[time.Date(y, m, d, 0, 0, 0, 0, time.UTC)] += tx.Amount
		}
	}

	var weekend, weekday float64
	var weekendDays, weekdays int
	for day, amount := range days {
		switch day.Weekday() {
		case time.Saturday, time.Sunday:
			weekend += amount
			weekendDays++
		default:
			weekday += amount
			weekdays++
		}
	}
	if weekendDays == 0 || weekdays == 0 || weekday == 0 {
		return 0, false
	}

	ratio := (weekend / float64(weekendDays)) / (weekday / float64(weekdays))
	if ratio < 1+WeekendThreshold {
		return 0, false
	}
	return (ratio - 1) * 100, true
}

// EcoImpact scores the snapshot's spending for the sustainability card.
//
// Each calendar month with a billing expense counts towards paperless
// savings. Sustainable choices count expenses in categories such as transit
// or repair. The score starts from the spending kept out of carbon-intensive
// categories and adds five points per sustainable choice, up to ten.
func EcoImpact(transactions []core.Transaction) (core.EcoMetrics, error) {
	if err := validateAll(transactions); err != nil {
		return core.EcoMetrics{}, err
	}

	var m core.EcoMetrics
	var total, carbon float64
	billedMonths := make(map[[2]int]struct{})
	for _, tx := range transactions {
		if !tx.IsExpense() {
			continue
		}
		total += tx.Amount
		if matches(tx.Category, billingWords) {
			billedMonths[[2]int{tx.Date.Year(), int(tx.Date.Month())}] = struct{}{}
		}
		if matches(tx.Category, sustainableWords) {
			m.SustainableChoices++
		}
		if matches(tx.Category, carbonWords) {
			carbon += tx.Amount
		}
	}

	m.PaperlessSavings = float64(len(billedMonths)) * PaperlessMonthlySaving
	if total > 0 {
		m.CarbonFootprint = carbon / total * 100
	}
	m.EcoScore = math.Round(50*(1-m.CarbonFootprint/100) + float64(min(m.SustainableChoices, 10))*5)
	return m, nil
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// matches reports whether any word of the category label is in set.
func matches(category string, set map[string]struct{}) bool {
	words := strings.FieldsFunc(strings.ToLower(category), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}
