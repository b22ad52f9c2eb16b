package domain

import (
	"time"
)

// InsightType names the signal an insight was derived from.
type InsightType string

const (
	InsightSpendingPattern InsightType = "spending_pattern"
	InsightAnomaly         InsightType = "anomaly"
	InsightRecurring       InsightType = "recurring"
	InsightGoalFeasibility InsightType = "goal_feasibility"
	InsightEmergencyFund   InsightType = "emergency_fund"
	InsightSubcategory     InsightType = "subcategory"
	InsightPositive        InsightType = "positive"
)

// InsightConfidenceFloor is the minimum confidence an insight needs before
// it is surfaced to callers.
const InsightConfidenceFloor = 0.6

// PersonalizedInsight is one human-readable, ranked observation with
// actionable advice. Insights are created fresh on every analysis run;
// dismissal is a best-effort UI flag.
type PersonalizedInsight struct {
	ID               string      `json:"id"`
	Type             InsightType `json:"type"`
	Title            string      `json:"title"`
	Message          string      `json:"message"`
	ActionableAdvice []string    `json:"actionable_advice"`
	ConfidenceScore  float64     `json:"confidence_score"`
	Dismissed        bool        `json:"dismissed"`
	CreatedAt        time.Time   `json:"created_at"`
}
