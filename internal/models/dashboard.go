package models

import "time"

// ImpactStats is the dashboard summary for one user.
type ImpactStats struct {
	UserName               string  `json:"user_name"`
	Role                   Role    `json:"role"`
	TotalWasteManagedKg    float64 `json:"total_waste_managed_kg"`
	CO2PreventedKg         float64 `json:"co2_emissions_prevented_kg"`
	TreesEquivalent        int     `json:"trees_equivalent"`
	AvailableWastes        int64   `json:"available_wastes"`
	BookedWastes           int64   `json:"booked_wastes"`
	CompletedWastes        int64   `json:"completed_wastes"`
	PendingTransactions    int64   `json:"pending_transactions"`
	ProcessingTransactions int64   `json:"processing_transactions"`
	CompletedTransactions  int64   `json:"completed_transactions"`
	CancelledTransactions  int64   `json:"cancelled_transactions"`
	Message                string  `json:"message"`
}

type MonthlyImpact struct {
	Month  string  `json:"month"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
	CO2    float64 `json:"co2"`
	Count  int     `json:"count"`
}

type CategoryWeight struct {
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
}

type ImpactChart struct {
	Monthly    []MonthlyImpact  `json:"monthly"`
	Categories []CategoryWeight `json:"categories"`
}

// CompletedRecord is one completed transaction reduced to what the
// impact charts need.
type CompletedRecord struct {
	Weight      float64
	Category    string
	CompletedAt *time.Time
	CreatedAt   time.Time
}
