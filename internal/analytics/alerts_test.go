package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/core"
)

// June 2025: the 14th is a Saturday.
var (
	sat = core.NewDate(2025, 6, 14)
	sun = core.NewDate(2025, 6, 15)
	mon = core.NewDate(2025, 6, 16)
	tue = core.NewDate(2025, 6, 17)
)

func TestGenerateAlerts(t *testing.T) {
	alerts, err := GenerateAlerts([]core.Transaction{
		tx("Salary", 240, core.Income, mon),
		tx("Food", 60, core.Expense, sat),
		tx("Food", 60, core.Expense, sun),
		tx("Food", 40, core.Expense, mon),
		tx("Phone Bill", 40, core.Expense, tue),
	}, tue)
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	assert.Equal(t, core.AlertBehavior, alerts[0].Type)
	assert.Equal(t, "Weekend spending is 50% higher than weekdays. Consider setting a weekend budget.", alerts[0].Message)
	assert.Equal(t, "Set Weekend Budget", alerts[0].Action)

	assert.Equal(t, core.AlertSpending, alerts[1].Type)
	assert.Equal(t, "You're approaching your budget limit: 83% of your income is spent.", alerts[1].Message)

	assert.Equal(t, core.AlertEco, alerts[2].Type)
	assert.Equal(t, "Go Paperless", alerts[2].Action)

	for _, a := range alerts {
		assert.Equal(t, tue, a.Timestamp)
		assert.NotEmpty(t, a.ID)
	}
}

func TestGenerateAlertsOverBudget(t *testing.T) {
	alerts, err := GenerateAlerts([]core.Transaction{
		tx("Salary", 100, core.Income, mon),
		tx("Rent", 150, core.Expense, mon),
	}, mon)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, core.AlertSpending, alerts[0].Type)
	assert.Contains(t, alerts[0].Message, "150%")
}

func TestGenerateAlertsQuiet(t *testing.T) {
	tests := []struct {
		name string
		txs  []core.Transaction
	}{
		{"empty ledger", nil},
		{"weekend only", []core.Transaction{tx("Food", 90, core.Expense, sat)}},
		{"weekend below threshold", []core.Transaction{
			tx("Food", 55, core.Expense, sat),
			tx("Food", 50, core.Expense, mon),
		}},
		{"expenses without income", []core.Transaction{tx("Food", 500, core.Expense, mon)}},
		{"bill category as income", []core.Transaction{tx("Utilities", 10, core.Income, mon)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts, err := GenerateAlerts(tt.txs, mon)
			require.NoError(t, err)
			assert.NotNil(t, alerts)
			assert.Empty(t, alerts)
		})
	}
}

func TestGenerateAlertsRejectsInvalid(t *testing.T) {
	_, err := GenerateAlerts([]core.Transaction{tx("", 1, core.Expense, mon)}, mon)
	assert.ErrorIs(t, err, core.ErrInvalidTransaction)
}

func TestEcoImpact(t *testing.T) {
	m, err := EcoImpact([]core.Transaction{
		tx("Utilities", 50, core.Expense, core.NewDate(2025, 1, 10)),
		tx("Utilities", 50, core.Expense, core.NewDate(2025, 2, 10)),
		tx("utilities", 30, core.Expense, core.NewDate(2025, 2, 20)),
		tx("Public Transit", 20, core.Expense, jan),
		tx("Bike Repair", 10, core.Expense, jan),
		tx("Travel", 40, core.Expense, jan),
		tx("Salary", 5000, core.Income, jan),
	})
	require.NoError(t, err)

	assert.InDelta(t, 4, m.PaperlessSavings, 1e-9, "two billed months")
	assert.Equal(t, 2, m.SustainableChoices)
	assert.InDelta(t, 20, m.CarbonFootprint, 1e-9)
	assert.InDelta(t, 50, m.EcoScore, 1e-9)
}

func TestEcoImpactEmpty(t *testing.T) {
	m, err := EcoImpact(nil)
	require.NoError(t, err)
	assert.Equal(t, core.EcoMetrics{EcoScore: 50}, m)
}

func TestEcoScoreBounds(t *testing.T) {
	var txs []core.Transaction
	for range 15 {
		txs = append(txs, tx("Bus", 1, core.Expense, jan))
	}
	m, err := EcoImpact(txs)
	require.NoError(t, err)
	assert.Equal(t, 15, m.SustainableChoices)
	assert.InDelta(t, 100, m.EcoScore, 1e-9)

	m, err = EcoImpact([]core.Transaction{tx("Fuel", 80, core.Expense, jan)})
	require.NoError(t, err)
	assert.InDelta(t, 100, m.CarbonFootprint, 1e-9)
	assert.Zero(t, m.EcoScore)
}
