package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"finboard/internal/core"
	"finboard/internal/ledger"
)

var (
	_ ledger.TransactionWriter  = (*Store)(nil)
	_ ledger.TransactionLister  = (*Store)(nil)
	_ ledger.TransactionDeleter = (*Store)(nil)
	_ ledger.CategoryStore      = (*Store)(nil)
	_ ledger.GoalStore          = (*Store)(nil)
)

// Store keeps the whole ledger in process memory.
type Store struct {
	mu    sync.Mutex
	items []core.Transaction
	cats  []core.Category
	goals []core.Goal
}

func New(txs []core.Transaction, cats []core.Category, goals []core.Goal) *Store {
	s := &Store{
		items: slices.Clone(txs),
		cats:  dedupeCategories(cats),
		goals: cloneGoals(goals),
	}
	for i := range s.items {
		if s.items[i].ID == "" {
			s.items[i].ID = uuid.NewString()
		}
	}
	return s
}

// NewSeeded returns a store holding the demo transactions, default categories
// and default goals.
func NewSeeded(now time.Time) *Store {
	return New(DemoTransactions(now), core.DefaultCategories(), core.DefaultGoals())
}

// NewFromFiles seeds categories from base/seed_categories.txt when present.
// Each line is "Label #RRGGBB"; blank lines and # comments are skipped.
func NewFromFiles(base string, now time.Time) *Store {
	cats := readCategories(filepath.Join(base, "seed_categories.txt"))
	if len(cats) == 0 {
		cats = core.DefaultCategories()
	}
	return New(DemoTransactions(now), cats, core.DefaultGoals())
}

// DemoTransactions is the sample ledger shown before anything is recorded.
func DemoTransactions(now time.Time) []core.Transaction {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return []core.Transaction{
		{ID: "1", Description: "Grocery Shopping", Category: "Food", Amount: 150.5, Type: core.Expense, Date: day},
		{ID: "2", Description: "Salary", Category: "Income", Amount: 5000, Type: core.Income, Date: day},
		{ID: "3", Description: "Internet Bill", Category: "Utilities", Amount: 79.99, Type: core.Expense, Date: day},
	}
}

// Append stores the transaction and returns its id.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return tx.ID, nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items), nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.items, func(tx core.Transaction) bool { return tx.ID == id })
	if i < 0 {
		return fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cats), nil
}

func (s *Store) SaveCategory(_ context.Context, c core.Category) (core.Category, error) {
	c.Label = strings.TrimSpace(c.Label)
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
		s.cats = append(s.cats, c)
		return c, nil
	}
	i := slices.IndexFunc(s.cats, func(x core.Category) bool { return x.ID == c.ID })
	if i < 0 {
		s.cats = append(s.cats, c)
	} else {
		s.cats[i] = c
	}
	return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.cats, func(x core.Category) bool { return x.ID == id })
	if i < 0 {
		return fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	s.cats = slices.Delete(s.cats, i, i+1)
	return nil
}

func (s *Store) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneGoals(s.goals), nil
}

func (s *Store) GetGoal(_ context.Context, id string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.goalIndex(id)
	if i < 0 {
		return core.Goal{}, fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
	}
	return cloneGoal(s.goals[i]), nil
}

func (s *Store) SaveGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g = cloneGoal(g)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.goalIndex(g.ID); i >= 0 {
		s.goals[i] = g
	} else {
		s.goals = append(s.goals, g)
	}
	return cloneGoal(g), nil
}

func (s *Store) JoinGoal(_ context.Context, goalID string, p core.Participant) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.goalIndex(goalID)
	if i < 0 {
		return core.Goal{}, fmt.Errorf("goal %s: %w", goalID, core.ErrNotFound)
	}
	g := cloneGoal(s.goals[i])
	if err := g.Join(p); err != nil {
		return core.Goal{}, err
	}
	s.goals[i] = g
	return cloneGoal(g), nil
}

func (s *Store) goalIndex(id string) int {
	return slices.IndexFunc(s.goals, func(g core.Goal) bool { return g.ID == id })
}

func cloneGoal(g core.Goal) core.Goal {
	g.Participants = slices.Clone(g.Participants)
	return g
}

func cloneGoals(in []core.Goal) []core.Goal {
	out := make([]core.Goal, len(in))
	for i, g := range in {
		out[i] = cloneGoal(g)
	}
	return out
}

func readCategories(path string) []core.Category {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []core.Category
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		label, color := line, "#CCCCCC"
		if i := strings.LastIndex(line, " #"); i > 0 {
			label, color = strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
		}
		c := core.Category{ID: fmt.Sprint(len(out) + 1), Label: label, Color: color}
		if c.Validate() != nil {
			continue
		}
		out = append(out, c)
	}
	return dedupeCategories(out)
}

// dedupeCategories drops repeated labels, keeping the first occurrence.
func dedupeCategories(in []core.Category) []core.Category {
	seen := map[string]struct{}{}
	out := make([]core.Category, 0, len(in))
	for _, c := range in {
		key := strings.ToLower(strings.TrimSpace(c.Label))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
