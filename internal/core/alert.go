package core

import "time"

type AlertType string

const (
	AlertBehavior AlertType = "behavior"
	AlertSpending AlertType = "spending"
	AlertEco      AlertType = "eco"
)

// Alert is a notice derived from the ledger. Action labels the follow-up the
// client may offer and is empty when there is none.
type Alert struct {
	ID        string    `json:"id"`
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	Action    string    `json:"action,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EcoMetrics backs the sustainability card.
//
// PaperlessSavings is in currency units. CarbonFootprint is the share of
// spending, in percent, that went to carbon-intensive categories. EcoScore
// runs from 0 to 100.
type EcoMetrics struct {
	PaperlessSavings   float64 `json:"paperlessSavings"`
	SustainableChoices int     `json:"sustainableChoices"`
	CarbonFootprint    float64 `json:"carbonFootprint"`
	EcoScore           float64 `json:"ecoScore"`
}
