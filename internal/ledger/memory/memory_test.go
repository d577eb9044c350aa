package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"finboard/internal/core"
)

var now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestStoreAppendListDelete(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded(now)

	txs, err := s.ListTransactions(ctx)
	if err != nil || len(txs) != 3 {
		t.Fatalf("unexpected seed: %v err=%v", txs, err)
	}

	id, err := s.Append(ctx, core.Transaction{Category: "Travel", Amount: 10, Type: core.Expense, Date: now})
	if err != nil || id == "" {
		t.Fatalf("unexpected append: id=%q err=%v", id, err)
	}
	if _, err := s.Append(ctx, core.Transaction{Category: "Travel", Amount: -1, Type: core.Expense, Date: now}); !errors.Is(err, core.ErrInvalidTransaction) {
		t.Fatalf("expected invalid transaction, got %v", err)
	}

	if err := s.DeleteTransaction(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTransaction(ctx, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	txs, _ = s.ListTransactions(ctx)
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions after delete, got %d", len(txs))
	}
}

func TestListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded(now)
	txs, _ := s.ListTransactions(ctx)
	txs[0].Amount = 999
	again, _ := s.ListTransactions(ctx)
	if again[0].Amount == 999 {
		t.Fatalf("list leaked internal slice")
	}

	goals, _ := s.ListGoals(ctx)
	goals[0].Participants[0].Name = "Mallory"
	g, _ := s.GetGoal(ctx, goals[0].ID)
	if g.Participants[0].Name == "Mallory" {
		t.Fatalf("goal participants leaked")
	}
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded(now)

	c, err := s.SaveCategory(ctx, core.Category{Label: "Pets", Color: "#123ABC"})
	if err != nil || c.ID == "" {
		t.Fatalf("save: %+v err=%v", c, err)
	}
	c.Color = "#000000"
	if _, err := s.SaveCategory(ctx, c); err != nil {
		t.Fatalf("update: %v", err)
	}
	cats, _ := s.ListCategories(ctx)
	if len(cats) != 5 || cats[4].Color != "#000000" {
		t.Fatalf("unexpected categories: %+v", cats)
	}
	if _, err := s.SaveCategory(ctx, core.Category{Label: "Bad", Color: "blue"}); !errors.Is(err, core.ErrInvalidCategory) {
		t.Fatalf("expected invalid category, got %v", err)
	}
	if err := s.DeleteCategory(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteCategory(ctx, c.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestJoinGoal(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded(now)

	g, err := s.JoinGoal(ctx, "1", core.Participant{ID: "7", Name: "Zoe", Contribution: 100})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if g.CurrentAmount != 1300 || len(g.Participants) != 4 {
		t.Fatalf("unexpected goal after join: %+v", g)
	}
	if _, err := s.JoinGoal(ctx, "1", core.Participant{ID: "7", Name: "Zoe"}); !errors.Is(err, core.ErrAlreadyJoined) {
		t.Fatalf("expected already joined, got %v", err)
	}
	if _, err := s.JoinGoal(ctx, "404", core.Participant{ID: "7", Name: "Zoe"}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNewFromFilesSeedsAndDedupe(t *testing.T) {
	dir := t.TempDir()
	s := NewFromFiles(dir, now)
	cats, _ := s.ListCategories(context.Background())
	if len(cats) != len(core.DefaultCategories()) {
		t.Fatalf("expected defaults when file missing, got %v", cats)
	}

	content := "# header\nRent #AA0000\nRent #BB0000\n\nPets\nBroken #zz\n"
	if err := os.WriteFile(filepath.Join(dir, "seed_categories.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	s = NewFromFiles(dir, now)
	cats, _ = s.ListCategories(context.Background())
	if len(cats) != 2 || cats[0].Label != "Rent" || cats[0].Color != "#AA0000" || cats[1].Label != "Pets" {
		t.Fatalf("unexpected categories: %+v", cats)
	}
}
