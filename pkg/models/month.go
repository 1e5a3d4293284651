package models

import (
	"time"

	"github.com/envelope-ledger/backend/internal/types"
	"github.com/shopspring/decimal"
)

// CurrentMonth marks the month the budget is in.
type CurrentMonth struct {
	Year     int    `json:"year" example:"2024"`
	Month    int    `json:"month" example:"3"`
	MonthKey string `json:"monthKey" example:"2024-03"`
}

// NewCurrentMonth returns the marker for the given month.
func NewCurrentMonth(m types.Month) CurrentMonth {
	return CurrentMonth{
		Year:     m.Year(),
		Month:    int(m.Month()),
		MonthKey: m.String(),
	}
}

// Value returns the month the marker points to.
func (c CurrentMonth) Value() types.Month {
	return types.NewMonth(c.Year, time.Month(c.Month))
}

// MonthArchive is the write-once snapshot of a finished month.
type MonthArchive struct {
	ID                string             `json:"id"`
	MonthKey          string             `json:"monthKey" example:"2024-02"`
	Year              int                `json:"year" example:"2024"`
	Month             int                `json:"month" example:"2"`
	MonthName         string             `json:"monthName" example:"February"`
	ArchivedDate      time.Time          `json:"archivedDate"`
	Summary           ArchiveSummary     `json:"summary"`
	EnvelopeSnapshots []EnvelopeSnapshot `json:"envelopeSnapshots"`
}

type ArchiveSummary struct {
	TotalPlanned decimal.Decimal `json:"totalPlanned"`
	TotalFunded  decimal.Decimal `json:"totalFunded"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
}

type EnvelopeSnapshot struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Planned  decimal.Decimal `json:"planned"`
	Funded   decimal.Decimal `json:"funded"`
	Spent    decimal.Decimal `json:"spent"`
	Balance  decimal.Decimal `json:"balance"`
}
