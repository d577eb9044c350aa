package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"finboard/internal/core"
	"finboard/internal/ledger"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

var (
	_ ledger.TransactionWriter  = (*SQLiteRepository)(nil)
	_ ledger.TransactionLister  = (*SQLiteRepository)(nil)
	_ ledger.TransactionDeleter = (*SQLiteRepository)(nil)
	_ ledger.CategoryStore      = (*SQLiteRepository)(nil)
	_ ledger.GoalStore          = (*SQLiteRepository)(nil)
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// PendingSyncTransaction is the minimal data the sync queue needs.
type PendingSyncTransaction struct {
	ID        string
	Version   int64
	CreatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite serializes writers anyway; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Append implements ledger.TransactionWriter
func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		ID:          tx.ID,
		Description: tx.Description,
		Category:    tx.Category,
		AmountCents: core.CentsFromAmount(tx.Amount),
		Type:        string(tx.Type),
		OccurredOn:  tx.Date.Format(dateLayout),
	})
	if err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"category", row.Category,
		"amount_cents", row.AmountCents,
		"type", row.Type)

	return row.ID, nil
}

// ListTransactions implements ledger.TransactionLister
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := row.toCore()
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

// GetTransaction loads one transaction; unknown ids yield core.ErrNotFound.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction by id: %w", err)
	}
	return row.toCore()
}

// DeleteTransaction implements ledger.TransactionDeleter
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Transaction deleted from SQLite", "id", id)
	return nil
}

// PendingSync returns up to limit transactions not yet mirrored to Sheets.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.queries.GetPendingSyncTransactions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	out := make([]PendingSyncTransaction, len(rows))
	for i, row := range rows {
		out[i] = PendingSyncTransaction{ID: row.ID, Version: row.Version, CreatedAt: row.CreatedAt.Time}
	}
	return out, nil
}

// MarkSynced marks a transaction as successfully synced
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if err := r.queries.MarkTransactionSynced(ctx, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a transaction as having sync errors
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if err := r.queries.MarkTransactionSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

// RetrySyncErrors puts every transaction whose sync failed back in the
// pending state and returns how many were reset.
func (r *SQLiteRepository) RetrySyncErrors(ctx context.Context) (int, error) {
	n, err := r.queries.RetryTransactionSyncErrors(ctx)
	if err != nil {
		return 0, fmt.Errorf("retry transaction sync errors: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Transactions reset for sync retry", "count", n)
	}
	return int(n), nil
}

// SyncStatus returns the sync state column of a transaction.
func (r *SQLiteRepository) SyncStatus(ctx context.Context, id string) (string, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get transaction by id: %w", err)
	}
	return row.SyncStatus, nil
}

func (row Transaction) toCore() (core.Transaction, error) {
	date, err := time.Parse(dateLayout, row.OccurredOn)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: bad date %q: %w", row.ID, row.OccurredOn, err)
	}
	return core.Transaction{
		ID:          row.ID,
		Description: row.Description,
		Category:    row.Category,
		Amount:      core.AmountFromCents(row.AmountCents),
		Type:        core.TransactionType(row.Type),
		Date:        date,
	}, nil
}

// ListCategories implements ledger.CategoryStore
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]core.Category, len(rows))
	for i, c := range rows {
		out[i] = core.Category{ID: c.ID, Label: c.Label, Color: c.Color}
	}
	return out, nil
}

func (r *SQLiteRepository) SaveCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := r.queries.UpsertCategory(ctx, Category{ID: c.ID, Label: c.Label, Color: c.Color}); err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	n, err := r.queries.DeleteCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	return nil
}

// ListGoals implements ledger.GoalStore
func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	goals, err := r.queries.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	parts, err := r.queries.ListGoalParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goal participants: %w", err)
	}
	byGoal := make(map[string][]core.Participant)
	for _, p := range parts {
		byGoal[p.GoalID] = append(byGoal[p.GoalID], p.toCore())
	}
	out := make([]core.Goal, len(goals))
	for i, g := range goals {
		out[i] = g.toCore(byGoal[g.ID])
	}
	return out, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	return r.getGoal(ctx, r.queries, id)
}

func (r *SQLiteRepository) getGoal(ctx context.Context, q *Queries, id string) (core.Goal, error) {
	g, err := q.GetGoal(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	parts, err := q.ListGoalParticipants(ctx)
	if err != nil {
		return core.Goal{}, fmt.Errorf("list goal participants: %w", err)
	}
	var mine []core.Participant
	for _, p := range parts {
		if p.GoalID == id {
			mine = append(mine, p.toCore())
		}
	}
	return g.toCore(mine), nil
}

// SaveGoal upserts the goal and replaces its participant list.
func (r *SQLiteRepository) SaveGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	err := r.inTx(ctx, func(q *Queries) error {
		return saveGoal(ctx, q, g)
	})
	if err != nil {
		return core.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	return g, nil
}

// JoinGoal applies core.Goal.Join inside a database transaction.
func (r *SQLiteRepository) JoinGoal(ctx context.Context, goalID string, p core.Participant) (core.Goal, error) {
	var joined core.Goal
	err := r.inTx(ctx, func(q *Queries) error {
		g, err := r.getGoal(ctx, q, goalID)
		if err != nil {
			return err
		}
		if err := g.Join(p); err != nil {
			return err
		}
		if err := q.UpsertGoal(ctx, goalRow(g)); err != nil {
			return fmt.Errorf("update goal: %w", err)
		}
		if err := q.InsertGoalParticipant(ctx, participantRow(g.ID, p)); err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
		joined = g
		return nil
	})
	if err != nil {
		return core.Goal{}, err
	}
	slog.InfoContext(ctx, "Participant joined goal", "goal_id", goalID, "participant_id", p.ID)
	return joined, nil
}

func saveGoal(ctx context.Context, q *Queries, g core.Goal) error {
	if err := q.UpsertGoal(ctx, goalRow(g)); err != nil {
		return err
	}
	if err := q.DeleteGoalParticipants(ctx, g.ID); err != nil {
		return err
	}
	for _, p := range g.Participants {
		if err := q.InsertGoalParticipant(ctx, participantRow(g.ID, p)); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) inTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func goalRow(g core.Goal) Goal {
	deadline := ""
	if !g.Deadline.IsZero() {
		deadline = g.Deadline.Format(dateLayout)
	}
	return Goal{
		ID:           g.ID,
		Title:        g.Title,
		Description:  g.Description,
		TargetCents:  core.CentsFromAmount(g.TargetAmount),
		CurrentCents: core.CentsFromAmount(g.CurrentAmount),
		Deadline:     deadline,
	}
}

func participantRow(goalID string, p core.Participant) GoalParticipant {
	return GoalParticipant{
		GoalID:            goalID,
		ParticipantID:     p.ID,
		Name:              p.Name,
		ContributionCents: core.CentsFromAmount(p.Contribution),
	}
}

func (g Goal) toCore(participants []core.Participant) core.Goal {
	deadline, _ := time.Parse(dateLayout, g.Deadline)
	if participants == nil {
		participants = []core.Participant{}
	}
	return core.Goal{
		ID:            g.ID,
		Title:         g.Title,
		Description:   g.Description,
		TargetAmount:  core.AmountFromCents(g.TargetCents),
		CurrentAmount: core.AmountFromCents(g.CurrentCents),
		Deadline:      deadline,
		Participants:  participants,
	}
}

func (p GoalParticipant) toCore() core.Participant {
	return core.Participant{
		ID:           p.ParticipantID,
		Name:         p.Name,
		Contribution: core.AmountFromCents(p.ContributionCents),
	}
}

// Get implements auth.Store over the kv table.
func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.queries.GetValue(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	if err := r.queries.SetValue(ctx, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, key string) error {
	if err := r.queries.DeleteValue(ctx, key); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	return nil
}
