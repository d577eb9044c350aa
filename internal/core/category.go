package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrNotFound        = errors.New("not found")
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Category is a user-defined spending label with a display color.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

func (c Category) Validate() error {
	label := strings.TrimSpace(c.Label)
	if label == "" {
		return fmt.Errorf("%w: empty label", ErrInvalidCategory)
	}
	if utf8.RuneCountInString(label) > 40 {
		return fmt.Errorf("%w: label too long (max 40 characters)", ErrInvalidCategory)
	}
	if !hexColor.MatchString(c.Color) {
		return fmt.Errorf("%w: color %q is not #RRGGBB", ErrInvalidCategory, c.Color)
	}
	return nil
}

// DefaultCategories are seeded into empty stores.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Label: "Food & Dining", Color: "#FF6B6B"},
		{ID: "2", Label: "Transportation", Color: "#4ECDC4"},
		{ID: "3", Label: "Shopping", Color: "#45B7D1"},
		{ID: "4", Label: "Bills & Utilities", Color: "#96CEB4"},
	}
}

// TransactionCategories is the fixed choice list offered when recording a
// transaction.
var TransactionCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Bills & Utilities",
	"Entertainment",
	"Health & Fitness",
	"Travel",
	"Other",
}
