package core

// CategoryAnalysis is the expense share of one category.
type CategoryAnalysis struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// MonthlyPrediction is a naive projection of next month's expenses.
// MonthlyTotals is keyed by month index 0-11; the year is ignored.
type MonthlyPrediction struct {
	AverageMonthly float64         `json:"averageMonthly"`
	PredictedNext  float64         `json:"predictedNext"`
	MonthlyTotals  map[int]float64 `json:"monthlyTotals"`
}

// Overview backs the balance, income and expense cards of the dashboard.
type Overview struct {
	Income         float64 `json:"income"`
	Expenses       float64 `json:"expenses"`
	Balance        float64 `json:"balance"`
	SavingsRate    float64 `json:"savingsRate"`
	BudgetProgress float64 `json:"budgetProgress"`
	MonthProgress  float64 `json:"monthProgress"`
}
