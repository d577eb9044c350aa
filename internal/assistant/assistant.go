// Package assistant answers chat questions about the ledger with scripted,
// keyword-routed replies.
package assistant

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"finboard/internal/analytics"
	"finboard/internal/core"
)

const (
	Greeting = "Hello! I can help you analyze your spending patterns and provide financial advice. What would you like to know?"

	helpReply = `I can give you savings tips, break down your spending by category, forecast next month's expenses or summarize your balance. Try asking "how can I save?"`

	notEnoughData = "I don't have enough transaction data to answer that yet. Add a few expenses and ask again."
)

// Intent is what a user message is asking for.
type Intent string

const (
	IntentTips       Intent = "tips"
	IntentPrediction Intent = "prediction"
	IntentCategories Intent = "categories"
	IntentOverview   Intent = "overview"
	IntentGreeting   Intent = "greeting"
	IntentHelp       Intent = "help"
)

type route struct {
	intent  Intent
	words   []string
	phrases []string
}

// routes are tried in order; the first hit wins.
var routes = []route{
	{intent: IntentTips, words: []string{"save", "saving", "savings", "tip", "tips"}},
	{intent: IntentPrediction, words: []string{"predict", "prediction", "forecast"}, phrases: []string{"next month"}},
	{intent: IntentCategories, words: []string{"spend", "spending", "spent", "category", "categories"}},
	{intent: IntentOverview, words: []string{"balance", "income", "overview"}},
	{intent: IntentGreeting, words: []string{"hello", "hi", "hey"}},
}

// Classify maps a message to an intent. Matching is case-insensitive and
// whole-word, so "this" does not count as "hi".
func Classify(message string) Intent {
	lower := strings.ToLower(message)
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool { return !unicode.IsLetter(r) }) {
		words[w] = true
	}
	normalized := strings.Join(strings.FieldsFunc(lower, func(r rune) bool { return !unicode.IsLetter(r) }), " ")

	for _, rt := range routes {
		for _, w := range rt.words {
			if words[w] {
				return rt.intent
			}
		}
		for _, p := range rt.phrases {
			if strings.Contains(normalized, p) {
				return rt.intent
			}
		}
	}
	return IntentHelp
}

// Reply answers message from the given ledger snapshot. Invalid ledger data
// is an error; an empty ledger is answered with a "not enough data" reply.
func Reply(message string, txs []core.Transaction, now time.Time) (string, error) {
	switch Classify(message) {
	case IntentTips:
		tips, err := analytics.GenerateSavingsTips(txs)
		if err != nil {
			return "", err
		}
		if len(tips) == 0 {
			return notEnoughData, nil
		}
		return strings.Join(tips, " "), nil

	case IntentPrediction:
		p, err := analytics.PredictMonthlyExpenses(txs)
		if errors.Is(err, core.ErrEmptyInput) {
			return notEnoughData, nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("You spend about $%.2f a month on average. Plan for around $%.2f next month, which includes a %.0f%% buffer.",
			p.AverageMonthly, p.PredictedNext, (analytics.ExpenseBuffer-1)*100), nil

	case IntentCategories:
		cats, err := analytics.AggregateByCategory(txs)
		if err != nil {
			return "", err
		}
		if len(cats) == 0 {
			return notEnoughData, nil
		}
		parts := make([]string, 0, 3)
		for _, c := range cats[:min(3, len(cats))] {
			parts = append(parts, fmt.Sprintf("%s ($%.2f, %.1f%%)", c.Category, c.Amount, c.Percentage))
		}
		return "Your top spending categories are " + strings.Join(parts, ", ") + ".", nil

	case IntentOverview:
		if len(txs) == 0 {
			return notEnoughData, nil
		}
		o := analytics.Summarize(txs, now)
		reply := fmt.Sprintf("Income $%.2f, expenses $%.2f, balance $%.2f.", o.Income, o.Expenses, o.Balance)
		if o.Income <= 0 {
			return reply, nil
		}
		if analytics.MeetsSavingsTarget(o) {
			return reply + fmt.Sprintf(" You are saving %.1f%% of your income, above the %.0f%% target.", o.SavingsRate, analytics.SavingsTarget), nil
		}
		return reply + fmt.Sprintf(" You are saving %.1f%% of your income, below the %.0f%% target.", o.SavingsRate, analytics.SavingsTarget), nil

	case IntentGreeting:
		return Greeting, nil
	}
	return helpReply, nil
}
