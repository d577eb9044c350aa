// Package ledger declares the ports the application reads and writes its
// data through. Implementations live in ledger/memory, ledger/google and
// storage.
package ledger

import (
	"context"

	"finboard/internal/core"
)

type (
	// TransactionWriter stores a transaction and returns its id.
	TransactionWriter interface {
		Append(ctx context.Context, tx core.Transaction) (id string, err error)
	}

	// TransactionLister returns every recorded transaction, oldest first.
	TransactionLister interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// TransactionDeleter removes a transaction. Unknown ids yield core.ErrNotFound.
	TransactionDeleter interface {
		DeleteTransaction(ctx context.Context, id string) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		// SaveCategory inserts c, or replaces the category with the same id.
		// An empty id gets a fresh one.
		SaveCategory(ctx context.Context, c core.Category) (core.Category, error)
		DeleteCategory(ctx context.Context, id string) error
	}

	GoalStore interface {
		ListGoals(ctx context.Context) ([]core.Goal, error)
		GetGoal(ctx context.Context, id string) (core.Goal, error)
		SaveGoal(ctx context.Context, g core.Goal) (core.Goal, error)
		// JoinGoal adds p to the goal and returns the updated goal.
		JoinGoal(ctx context.Context, goalID string, p core.Participant) (core.Goal, error)
	}
)
