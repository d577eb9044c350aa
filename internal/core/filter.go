package core

import (
	"strings"
	"time"
)

// TransactionFilter narrows a transaction list. Zero fields match everything.
type TransactionFilter struct {
	// Query is matched case-insensitively against description and category.
	Query string
	// Day keeps only transactions on the same calendar day.
	Day  time.Time
	Type TransactionType
}

func (f TransactionFilter) Match(tx Transaction) bool {
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if !f.Day.IsZero() {
		y1, m1, d1 := f.Day.Date()
		y2, m2, d2 := tx.Date.Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			return false
		}
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(tx.Description), q) ||
		strings.Contains(strings.ToLower(tx.Category), q)
}

// Apply returns the matching transactions in their original order.
func (f TransactionFilter) Apply(in []Transaction) []Transaction {
	out := make([]Transaction, 0, len(in))
	for _, tx := range in {
		if f.Match(tx) {
			out = append(out, tx)
		}
	}
	return out
}
