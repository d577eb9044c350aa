package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Transaction is a row of the transactions table.
type Transaction struct {
	ID          string
	Description string
	Category    string
	AmountCents int64
	Type        string
	OccurredOn  string
	CreatedAt   Timestamp
	Version     int64
	SyncStatus  string
	SyncedAt    Timestamp
}

const transactionColumns = `id, description, category, amount_cents, type, occurred_on, created_at, version, sync_status, synced_at`

func scanTransaction(row interface{ Scan(...any) error }) (Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.Description, &t.Category, &t.AmountCents, &t.Type,
		&t.OccurredOn, &t.CreatedAt, &t.Version, &t.SyncStatus, &t.SyncedAt)
	return t, err
}

type CreateTransactionParams struct {
	ID          string
	Description string
	Category    string
	AmountCents int64
	Type        string
	OccurredOn  string
}

const createTransaction = `INSERT INTO transactions (id, description, category, amount_cents, type, occurred_on)
VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	if _, err := q.db.ExecContext(ctx, createTransaction,
		arg.ID, arg.Description, arg.Category, arg.AmountCents, arg.Type, arg.OccurredOn); err != nil {
		return Transaction{}, err
	}
	return q.GetTransaction(ctx, arg.ID)
}

const getTransaction = `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id string) (Transaction, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, id))
}

const listTransactions = `SELECT ` + transactionColumns + ` FROM transactions
ORDER BY occurred_on, created_at, rowid`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	return q.queryTransactions(ctx, listTransactions)
}

const getPendingSyncTransactions = `SELECT ` + transactionColumns + ` FROM transactions
WHERE sync_status = 'pending'
ORDER BY created_at, rowid
LIMIT ?`

func (q *Queries) GetPendingSyncTransactions(ctx context.Context, limit int64) ([]Transaction, error) {
	return q.queryTransactions(ctx, getPendingSyncTransactions, limit)
}

func (q *Queries) queryTransactions(ctx context.Context, query string, args ...any) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const markTransactionSynced = `UPDATE transactions
SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP
WHERE id = ?`

func (q *Queries) MarkTransactionSynced(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markTransactionSynced, id)
	return err
}

const markTransactionSyncError = `UPDATE transactions SET sync_status = 'error' WHERE id = ?`

func (q *Queries) MarkTransactionSyncError(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markTransactionSyncError, id)
	return err
}

const retryTransactionSyncErrors = `UPDATE transactions SET sync_status = 'pending' WHERE sync_status = 'error'`

func (q *Queries) RetryTransactionSyncErrors(ctx context.Context) (int64, error) {
	res, err := q.db.ExecContext(ctx, retryTransactionSyncErrors)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Timestamp scans SQLite DATETIME columns whether the driver hands back a
// time.Time or the raw text. Valid is false for NULL.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
}

func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Timestamp{}
		return nil
	case time.Time:
		*t = Timestamp{Time: v, Valid: true}
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (t *Timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			*t = Timestamp{Time: ts, Valid: true}
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

type Category struct {
	ID    string
	Label string
	Color string
}

const listCategories = `SELECT id, label, color FROM categories ORDER BY created_at, rowid`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Label, &c.Color); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const upsertCategory = `INSERT INTO categories (id, label, color) VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET label = excluded.label, color = excluded.color`

func (q *Queries) UpsertCategory(ctx context.Context, c Category) error {
	_, err := q.db.ExecContext(ctx, upsertCategory, c.ID, c.Label, c.Color)
	return err
}

const deleteCategory = `DELETE FROM categories WHERE id = ?`

func (q *Queries) DeleteCategory(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteCategory, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type Goal struct {
	ID           string
	Title        string
	Description  string
	TargetCents  int64
	CurrentCents int64
	Deadline     string
}

type GoalParticipant struct {
	GoalID            string
	ParticipantID     string
	Name              string
	ContributionCents int64
}

const listGoals = `SELECT id, title, description, target_cents, current_cents, deadline FROM goals ORDER BY rowid`

func (q *Queries) ListGoals(ctx context.Context) ([]Goal, error) {
	rows, err := q.db.QueryContext(ctx, listGoals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.TargetCents, &g.CurrentCents, &g.Deadline); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

const getGoal = `SELECT id, title, description, target_cents, current_cents, deadline FROM goals WHERE id = ?`

func (q *Queries) GetGoal(ctx context.Context, id string) (Goal, error) {
	var g Goal
	err := q.db.QueryRowContext(ctx, getGoal, id).
		Scan(&g.ID, &g.Title, &g.Description, &g.TargetCents, &g.CurrentCents, &g.Deadline)
	return g, err
}

const upsertGoal = `INSERT INTO goals (id, title, description, target_cents, current_cents, deadline)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    title = excluded.title,
    description = excluded.description,
    target_cents = excluded.target_cents,
    current_cents = excluded.current_cents,
    deadline = excluded.deadline`

func (q *Queries) UpsertGoal(ctx context.Context, g Goal) error {
	_, err := q.db.ExecContext(ctx, upsertGoal, g.ID, g.Title, g.Description, g.TargetCents, g.CurrentCents, g.Deadline)
	return err
}

const listGoalParticipants = `SELECT goal_id, participant_id, name, contribution_cents
FROM goal_participants
ORDER BY goal_id, joined_at, rowid`

func (q *Queries) ListGoalParticipants(ctx context.Context) ([]GoalParticipant, error) {
	rows, err := q.db.QueryContext(ctx, listGoalParticipants)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GoalParticipant
	for rows.Next() {
		var p GoalParticipant
		if err := rows.Scan(&p.GoalID, &p.ParticipantID, &p.Name, &p.ContributionCents); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const deleteGoalParticipants = `DELETE FROM goal_participants WHERE goal_id = ?`

func (q *Queries) DeleteGoalParticipants(ctx context.Context, goalID string) error {
	_, err := q.db.ExecContext(ctx, deleteGoalParticipants, goalID)
	return err
}

const insertGoalParticipant = `INSERT INTO goal_participants (goal_id, participant_id, name, contribution_cents)
VALUES (?, ?, ?, ?)`

func (q *Queries) InsertGoalParticipant(ctx context.Context, p GoalParticipant) error {
	_, err := q.db.ExecContext(ctx, insertGoalParticipant, p.GoalID, p.ParticipantID, p.Name, p.ContributionCents)
	return err
}

const getValue = `SELECT value FROM kv WHERE key = ?`

func (q *Queries) GetValue(ctx context.Context, key string) (string, error) {
	var v string
	err := q.db.QueryRowContext(ctx, getValue, key).Scan(&v)
	return v, err
}

const setValue = `INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value`

func (q *Queries) SetValue(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx, setValue, key, value)
	return err
}

const deleteValue = `DELETE FROM kv WHERE key = ?`

func (q *Queries) DeleteValue(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deleteValue, key)
	return err
}
