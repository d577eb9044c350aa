package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalProgress(t *testing.T) {
	g := Goal{Title: "Trip", TargetAmount: 2000, CurrentAmount: 1200}
	assert.InDelta(t, 60.0, g.Progress(), 1e-9)
	assert.False(t, g.Completed())

	g.CurrentAmount = 2000
	assert.True(t, g.Completed())

	zero := Goal{Title: "Nothing"}
	assert.Equal(t, 0.0, zero.Progress())
	assert.True(t, zero.Completed())
}

func TestGoalJoin(t *testing.T) {
	g := DefaultGoals()[1]
	before := g.CurrentAmount

	require.NoError(t, g.Join(Participant{ID: "9", Name: "Zoe", Contribution: 250}))
	assert.Len(t, g.Participants, 3)
	assert.Equal(t, before+250, g.CurrentAmount)

	err := g.Join(Participant{ID: "9", Name: "Zoe", Contribution: 10})
	assert.ErrorIs(t, err, ErrAlreadyJoined)
	assert.Equal(t, before+250, g.CurrentAmount)

	err = g.Join(Participant{ID: "10", Name: "", Contribution: 10})
	assert.ErrorIs(t, err, ErrInvalidGoal)

	err = g.Join(Participant{ID: "11", Name: "Neg", Contribution: -1})
	assert.ErrorIs(t, err, ErrInvalidGoal)
}

func TestCategoryValidate(t *testing.T) {
	for _, c := range DefaultCategories() {
		assert.NoError(t, c.Validate(), c.Label)
	}
	cases := []Category{
		{Label: "", Color: "#FFFFFF"},
		{Label: "Rent", Color: "red"},
		{Label: "Rent", Color: "#FFF"},
		{Label: "This label is definitely longer than forty chars", Color: "#000000"},
	}
	for _, c := range cases {
		assert.ErrorIs(t, c.Validate(), ErrInvalidCategory, c.Label)
	}
}
