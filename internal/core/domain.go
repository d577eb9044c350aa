package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Transaction is a single recorded monetary event.
	Transaction struct {
		ID          string          `json:"id"`
		Description string          `json:"description,omitempty"`
		Category    string          `json:"category"`
		Amount      float64         `json:"amount"`
		Type        TransactionType `json:"type"`
		Date        time.Time       `json:"date"`
	}
)

var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrEmptyInput         = errors.New("no data")
)

// ParseTransactionType accepts "income" or "expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	}
	return "", fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, s)
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// NewTransaction builds a validated transaction.
func NewTransaction(category string, amount float64, typ TransactionType, date time.Time) (Transaction, error) {
	tx := Transaction{
		Category: strings.TrimSpace(category),
		Amount:   amount,
		Type:     typ,
		Date:     date,
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: empty category", ErrInvalidTransaction)
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return fmt.Errorf("%w: amount is not a number", ErrInvalidTransaction)
	}
	if t.Amount < 0 {
		return fmt.Errorf("%w: negative amount %.2f", ErrInvalidTransaction, t.Amount)
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, t.Type)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidTransaction)
	}
	return nil
}

// IsExpense reports whether the transaction counts toward spending.
func (t Transaction) IsExpense() bool {
	return t.Type == Expense
}

// NewDate returns midnight UTC of the given calendar day.
func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
