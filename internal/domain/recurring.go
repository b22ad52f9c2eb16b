package domain

import (
	"time"
)

// RecurringPeriod is the detected cadence of a recurring charge.
type RecurringPeriod string

const (
	PeriodMonthly RecurringPeriod = "monthly"
)

// RecurringConfidence grades how sure the detector is about a match.
type RecurringConfidence string

const (
	RecurringConfidenceHigh RecurringConfidence = "high"
)

// RecurringTransaction is a derived, ephemeral view of a charge that repeats
// at a stable cadence. It is recomputed on every analysis pass and never
// persisted as authoritative.
type RecurringTransaction struct {
	Name       string              `json:"name"`
	Amount     float64             `json:"amount"`
	LastDate   time.Time           `json:"last_date"`
	NextDate   time.Time           `json:"next_date"`
	Confidence RecurringConfidence `json:"confidence"`
	Period     RecurringPeriod     `json:"period"`
}
