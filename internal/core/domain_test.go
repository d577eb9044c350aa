package core

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	day := NewDate(2025, 1, 1)
	cases := []struct {
		name     string
		category string
		amount   float64
		typ      TransactionType
		date     time.Time
		ok       bool
	}{
		{"expense", "Food", 12.5, Expense, day, true},
		{"income", "Salary", 5000, Income, day, true},
		{"zero amount", "Food", 0, Expense, day, true},
		{"negative amount", "Food", -1, Expense, day, false},
		{"nan amount", "Food", math.NaN(), Expense, day, false},
		{"inf amount", "Food", math.Inf(1), Expense, day, false},
		{"unknown type", "Food", 1, TransactionType("transfer"), day, false},
		{"blank category", "   ", 1, Expense, day, false},
		{"zero date", "Food", 1, Expense, time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx, err := NewTransaction(tc.category, tc.amount, tc.typ, tc.date)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.amount, tx.Amount)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTransaction), "got %v", err)
		})
	}
}

func TestNewTransactionTrimsCategory(t *testing.T) {
	tx, err := NewTransaction("  Food ", 1, Expense, NewDate(2025, 3, 2))
	require.NoError(t, err)
	assert.Equal(t, "Food", tx.Category)
}

func TestValidateHasNoLengthCap(t *testing.T) {
	tx := Transaction{
		Category:    strings.Repeat("食", 100),
		Description: strings.Repeat("x", 500),
		Amount:      1,
		Type:        Expense,
		Date:        NewDate(2025, 3, 2),
	}
	assert.NoError(t, tx.Validate())
}

func TestParseTransactionType(t *testing.T) {
	typ, err := ParseTransactionType(" EXPENSE ")
	require.NoError(t, err)
	assert.Equal(t, Expense, typ)

	typ, err = ParseTransactionType("income")
	require.NoError(t, err)
	assert.Equal(t, Income, typ)

	_, err = ParseTransactionType("refund")
	assert.ErrorIs(t, err, ErrInvalidTransaction)
}
