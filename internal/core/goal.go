package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrInvalidGoal   = errors.New("invalid goal")
	ErrAlreadyJoined = errors.New("already joined")
)

type (
	// Goal is a community savings target several people contribute to.
	Goal struct {
		ID            string        `json:"id"`
		Title         string        `json:"title"`
		Description   string        `json:"description,omitempty"`
		TargetAmount  float64       `json:"targetAmount"`
		CurrentAmount float64       `json:"currentAmount"`
		Deadline      time.Time     `json:"deadline"`
		Participants  []Participant `json:"participants"`
	}

	Participant struct {
		ID           string  `json:"id"`
		Name         string  `json:"name"`
		Contribution float64 `json:"contribution"`
	}
)

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidGoal)
	}
	if !isFiniteNonNegative(g.TargetAmount) || !isFiniteNonNegative(g.CurrentAmount) {
		return fmt.Errorf("%w: amounts must be non-negative numbers", ErrInvalidGoal)
	}
	return nil
}

// Progress is the share of the target already collected, in percent.
func (g Goal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	return g.CurrentAmount / g.TargetAmount * 100
}

func (g Goal) Completed() bool {
	return g.CurrentAmount >= g.TargetAmount
}

// Join adds p to the goal and credits its contribution.
func (g *Goal) Join(p Participant) error {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: participant needs id and name", ErrInvalidGoal)
	}
	if !isFiniteNonNegative(p.Contribution) {
		return fmt.Errorf("%w: contribution must be a non-negative number", ErrInvalidGoal)
	}
	for _, existing := range g.Participants {
		if existing.ID == p.ID {
			return ErrAlreadyJoined
		}
	}
	g.Participants = append(g.Participants, p)
	g.CurrentAmount += p.Contribution
	return nil
}

func isFiniteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// DefaultGoals are the community goals shown on a fresh dashboard.
func DefaultGoals() []Goal {
	return []Goal{
		{
			ID:            "1",
			Title:         "Group Vacation Fund",
			TargetAmount:  2000,
			CurrentAmount: 1200,
			Deadline:      NewDate(2024, 8, 1),
			Participants: []Participant{
				{ID: "1", Name: "John", Contribution: 400},
				{ID: "2", Name: "Sarah", Contribution: 500},
				{ID: "3", Name: "Mike", Contribution: 300},
			},
		},
		{
			ID:            "2",
			Title:         "Emergency Fund Challenge",
			TargetAmount:  5000,
			CurrentAmount: 2500,
			Deadline:      NewDate(2024, 12, 31),
			Participants: []Participant{
				{ID: "1", Name: "John", Contribution: 1000},
				{ID: "4", Name: "Emma", Contribution: 1500},
			},
		},
	}
}
