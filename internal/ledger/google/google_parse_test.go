package google

import (
	"errors"
	"testing"

	"finboard/internal/core"
)

func TestParseRows(t *testing.T) {
	values := [][]any{
		{"Date", "Description", "Category", "Type", "Amount", "ID"},
		{"2025-03-01", "Grocery Shopping", "Food", "expense", 150.5, "a1"},
		{"2025-03-01", "Salary", "Income", "INCOME", "5000", "a2"},
		{},
		{"01/03/2025", "Internet Bill", "Utilities", "expense", "79,99"},
		{"yesterday", "Broken", "Food", "expense", 10, "bad1"},
		{"2025-03-02", "Refund", "Food", "refund", 10, "bad2"},
		{"2025-03-02", "Short", "Food"},
	}
	txs, skipped := parseRows(values)
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d: %+v", len(txs), txs)
	}
	if txs[0].ID != "a1" || txs[0].Amount != 150.5 || txs[0].Type != core.Expense {
		t.Fatalf("unexpected first row: %+v", txs[0])
	}
	if txs[1].Type != core.Income || txs[1].Amount != 5000 {
		t.Fatalf("unexpected second row: %+v", txs[1])
	}
	if txs[2].ID != "" || !txs[2].Date.Equal(core.NewDate(2025, 3, 1)) || txs[2].Amount != 79.99 {
		t.Fatalf("unexpected third row: %+v", txs[2])
	}
	if len(skipped) != 3 {
		t.Fatalf("expected 3 skipped rows, got %+v", skipped)
	}
	if skipped[0].Row != 6 {
		t.Fatalf("skipped rows should be 1-based, got %d", skipped[0].Row)
	}
}

func TestParseRowsWithoutHeader(t *testing.T) {
	txs, skipped := parseRows([][]any{{"2025-01-05", "", "Travel", "expense", 20.0}})
	if len(txs) != 1 || len(skipped) != 0 {
		t.Fatalf("unexpected result: %+v %+v", txs, skipped)
	}
}

func TestFormatRowRoundTrip(t *testing.T) {
	tx := core.Transaction{
		ID:          "id-1",
		Description: "Bus pass",
		Category:    "Transportation",
		Amount:      42.129,
		Type:        core.Expense,
		Date:        core.NewDate(2025, 2, 28),
	}
	row := formatRow(tx)
	if row[0] != "2025-02-28" || row[4] != 42.13 {
		t.Fatalf("unexpected row: %v", row)
	}
	got, err := parseRow(toStrings(row))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.ID != tx.ID || got.Category != tx.Category || got.Amount != 42.13 || !got.Date.Equal(tx.Date) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestParseRowRejectsNonASCIIDigits(t *testing.T) {
	for _, amount := range []string{"1.٣", "٣٠", "１０"} {
		if _, err := parseRow([]string{"2025-03-01", "", "Food", "expense", amount}); !errors.Is(err, core.ErrInvalidTransaction) {
			t.Errorf("amount %q: expected invalid transaction, got %v", amount, err)
		}
	}
}
