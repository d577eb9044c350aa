package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"finboard/internal/config"
	"finboard/internal/core"
	"finboard/internal/ledger"
	"finboard/internal/ledger/google"
	"finboard/internal/storage"
)

// fileTransaction is the on-disk shape; dates may be YYYY-MM-DD or RFC 3339.
type fileTransaction struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Date        string  `json:"date"`
}

func (ft fileTransaction) toCore() (core.Transaction, error) {
	typ, err := core.ParseTransactionType(ft.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(ft.Date))
	if err != nil {
		if date, err = time.Parse(time.RFC3339, strings.TrimSpace(ft.Date)); err != nil {
			return core.Transaction{}, fmt.Errorf("%w: date %q", core.ErrInvalidTransaction, ft.Date)
		}
	}
	return core.Transaction{
		ID:          ft.ID,
		Description: ft.Description,
		Category:    ft.Category,
		Amount:      ft.Amount,
		Type:        typ,
		Date:        date,
	}, nil
}

func readTransactionsFile(path string) ([]core.Transaction, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transactions file: %w", err)
	}
	var rows []fileTransaction
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode transactions file: %w", err)
	}
	txs := make([]core.Transaction, 0, len(rows))
	for i, row := range rows {
		tx, err := row.toCore()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func loadTransactions(ctx context.Context, flags *sourceFlags) ([]core.Transaction, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	set := 0
	for _, v := range []string{flags.file, flags.db, flags.sheets} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New("exactly one of --file, --db or --sheets is required")
	}

	switch {
	case flags.file != "":
		return readTransactionsFile(flags.file)

	case flags.db != "":
		repo, err := storage.NewSQLiteRepository(flags.db)
		if err != nil {
			return nil, err
		}
		defer repo.Close()
		return listFrom(ctx, repo)

	default:
		cfg, err := config.Load(flags.configFile)
		if err != nil {
			return nil, err
		}
		client, err := google.New(ctx, google.Config{
			SpreadsheetID:   flags.sheets,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
		})
		if err != nil {
			return nil, err
		}
		return listFrom(ctx, client)
	}
}

func listFrom(ctx context.Context, l ledger.TransactionLister) ([]core.Transaction, error) {
	txs, err := l.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}
