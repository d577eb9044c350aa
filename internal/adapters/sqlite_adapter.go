// Package adapters bundles stores and services into backend.Backend
// implementations.
package adapters

import (
	"context"

	"finboard/internal/core"
	"finboard/internal/services"
	"finboard/internal/storage"
)

// SQLiteAdapter serves reads from the repository and routes transaction
// writes through TransactionService so they publish sync messages.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.TransactionService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.TransactionService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// Append implements ledger.TransactionWriter
func (a *SQLiteAdapter) Append(ctx context.Context, tx core.Transaction) (string, error) {
	return a.service.Append(ctx, tx)
}

// DeleteTransaction implements ledger.TransactionDeleter
func (a *SQLiteAdapter) DeleteTransaction(ctx context.Context, id string) error {
	return a.service.Delete(ctx, id)
}

// ListTransactions implements ledger.TransactionLister
func (a *SQLiteAdapter) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return a.storage.ListTransactions(ctx)
}

func (a *SQLiteAdapter) ListCategories(ctx context.Context) ([]core.Category, error) {
	return a.storage.ListCategories(ctx)
}

func (a *SQLiteAdapter) SaveCategory(ctx context.Context, c core.Category) (core.Category, error) {
	return a.storage.SaveCategory(ctx, c)
}

func (a *SQLiteAdapter) DeleteCategory(ctx context.Context, id string) error {
	return a.storage.DeleteCategory(ctx, id)
}

func (a *SQLiteAdapter) ListGoals(ctx context.Context) ([]core.Goal, error) {
	return a.storage.ListGoals(ctx)
}

func (a *SQLiteAdapter) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	return a.storage.GetGoal(ctx, id)
}

func (a *SQLiteAdapter) SaveGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	return a.storage.SaveGoal(ctx, g)
}

func (a *SQLiteAdapter) JoinGoal(ctx context.Context, goalID string, p core.Participant) (core.Goal, error) {
	return a.storage.JoinGoal(ctx, goalID, p)
}

// Ping reports whether the database answers.
func (a *SQLiteAdapter) Ping(ctx context.Context) error {
	return a.storage.Ping(ctx)
}
