package entity

import "time"

// Trend is the direction a market condition pushes prices.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// IsValid checks if the Trend is a valid value.
func (t Trend) IsValid() bool {
	switch t {
	case TrendUp, TrendDown, TrendStable:
		return true
	default:
		return false
	}
}

// MarketCondition is a named external factor, optionally bounded in time.
type MarketCondition struct {
	ConditionID  int64        `json:"condition_id"`
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	Trend        Trend        `json:"trend"`
	ImpactFactor Amount       `json:"impact_factor"`
	Description  string       `json:"description,omitempty"`
	StartDate    string       `json:"start_date"`
	EndDate      *string      `json:"end_date,omitempty"`
	CreatedBy    *UserSummary `json:"created_by,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ActiveOn reports whether the condition applies on the given day.
func (m *MarketCondition) ActiveOn(day time.Time) bool {
	const layout = "2006-01-02"
	d := day.Format(layout)
	if m.StartDate > d {
		return false
	}

	return m.EndDate == nil || *m.EndDate >= d
}

// MarketConditionInput is the payload for creating or replacing a market condition.
type MarketConditionInput struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Category     string  `json:"category" validate:"required,max=100"`
	Trend        Trend   `json:"trend" validate:"required,oneof=up down stable"`
	ImpactFactor float64 `json:"impact_factor"`
	Description  string  `json:"description,omitempty"`
	StartDate    string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
