package adapters

import (
	"context"
	"errors"
	"fmt"

	"finboard/internal/core"
	"finboard/internal/ledger"
	"finboard/internal/ledger/google"
)

// SheetsAdapter keeps transactions in a spreadsheet and everything else in
// an in-process store.
type SheetsAdapter struct {
	sheets *google.Client
	local  LocalStore
}

// LocalStore holds the categories and goals the spreadsheet has no tab for.
type LocalStore interface {
	ledger.CategoryStore
	ledger.GoalStore
}

func NewSheetsAdapter(sheets *google.Client, local LocalStore) *SheetsAdapter {
	return &SheetsAdapter{sheets: sheets, local: local}
}

func (a *SheetsAdapter) Append(ctx context.Context, tx core.Transaction) (string, error) {
	return a.sheets.Append(ctx, tx)
}

func (a *SheetsAdapter) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return a.sheets.ListTransactions(ctx)
}

// DeleteTransaction is not supported: spreadsheet rows are append-only.
func (a *SheetsAdapter) DeleteTransaction(_ context.Context, id string) error {
	return fmt.Errorf("delete transaction %s from spreadsheet: %w", id, errors.ErrUnsupported)
}

func (a *SheetsAdapter) ListCategories(ctx context.Context) ([]core.Category, error) {
	return a.local.ListCategories(ctx)
}

func (a *SheetsAdapter) SaveCategory(ctx context.Context, c core.Category) (core.Category, error) {
	return a.local.SaveCategory(ctx, c)
}

func (a *SheetsAdapter) DeleteCategory(ctx context.Context, id string) error {
	return a.local.DeleteCategory(ctx, id)
}

func (a *SheetsAdapter) ListGoals(ctx context.Context) ([]core.Goal, error) {
	return a.local.ListGoals(ctx)
}

func (a *SheetsAdapter) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	return a.local.GetGoal(ctx, id)
}

func (a *SheetsAdapter) SaveGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	return a.local.SaveGoal(ctx, g)
}

func (a *SheetsAdapter) JoinGoal(ctx context.Context, goalID string, p core.Participant) (core.Goal, error) {
	return a.local.JoinGoal(ctx, goalID, p)
}
