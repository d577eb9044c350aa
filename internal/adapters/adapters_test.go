package adapters

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/core"
	"finboard/internal/ledger/memory"
	"finboard/internal/services"
	"finboard/internal/storage"
)

type recordingPublisher struct {
	ids []string
}

func (p *recordingPublisher) PublishTransactionSync(_ context.Context, id string, _ int64) error {
	p.ids = append(p.ids, id)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newSQLiteAdapter(t *testing.T) (*SQLiteAdapter, *recordingPublisher) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "adapter.db"))
	require.NoError(t, err)
	pub := &recordingPublisher{}
	svc := services.NewTransactionService(repo, pub)
	t.Cleanup(func() { _ = svc.Close() })
	return NewSQLiteAdapter(repo, svc), pub
}

func TestSQLiteAdapterWritesPublish(t *testing.T) {
	ctx := context.Background()
	a, pub := newSQLiteAdapter(t)

	id, err := a.Append(ctx, core.Transaction{Description: "Lunch", Category: "Food", Amount: 12.5, Type: core.Expense, Date: core.NewDate(2025, 3, 4)})
	require.NoError(t, err)
	assert.Equal(t, []string{id}, pub.ids)

	txs, err := a.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 12.5, txs[0].Amount)

	require.NoError(t, a.DeleteTransaction(ctx, id))
	assert.Len(t, pub.ids, 1, "deletes publish nothing")
	assert.ErrorIs(t, a.DeleteTransaction(ctx, id), core.ErrNotFound)

	require.NoError(t, a.Ping(ctx))
}

func TestSQLiteAdapterRejectsInvalid(t *testing.T) {
	a, pub := newSQLiteAdapter(t)
	_, err := a.Append(context.Background(), core.Transaction{Category: "Food", Amount: -1, Type: core.Expense, Date: core.NewDate(2025, 3, 4)})
	assert.ErrorIs(t, err, core.ErrInvalidTransaction)
	assert.Empty(t, pub.ids)
}

func TestSQLiteAdapterCategoriesAndGoals(t *testing.T) {
	ctx := context.Background()
	a, _ := newSQLiteAdapter(t)

	saved, err := a.SaveCategory(ctx, core.Category{Label: "Pets", Color: "#AABBCC"})
	require.NoError(t, err)
	cats, err := a.ListCategories(ctx)
	require.NoError(t, err)
	assert.Contains(t, cats, saved)
	require.NoError(t, a.DeleteCategory(ctx, saved.ID))

	g, err := a.SaveGoal(ctx, core.Goal{Title: "Trip", TargetAmount: 1000})
	require.NoError(t, err)
	g, err = a.JoinGoal(ctx, g.ID, core.Participant{ID: "p1", Name: "Sam", Contribution: 250})
	require.NoError(t, err)
	assert.InDelta(t, 25, g.Progress(), 1e-9)

	got, err := a.GetGoal(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, got.Participants, 1)
}

func TestSheetsAdapterLocalParts(t *testing.T) {
	ctx := context.Background()
	a := NewSheetsAdapter(nil, memory.New(nil, core.DefaultCategories(), core.DefaultGoals()))

	err := a.DeleteTransaction(ctx, "abc")
	assert.True(t, errors.Is(err, errors.ErrUnsupported))

	cats, err := a.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(core.DefaultCategories()))

	goals, err := a.ListGoals(ctx)
	require.NoError(t, err)
	assert.Len(t, goals, len(core.DefaultGoals()))
}
