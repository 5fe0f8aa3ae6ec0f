package model

import (
	"time"

	"realty-subscription/internal/domain"
)

// Plan is a subscription pricing tier with a fixed duration and price.
type Plan string

const (
	PlanMonthly   Plan = "monthly"
	PlanQuarterly Plan = "quarterly"
	PlanYearly    Plan = "yearly"
)

// The pricing table is authoritative and always re-derived server-side.
// Caller-supplied amounts are never trusted.
var planTable = map[Plan]struct {
	Price    int64
	Duration time.Duration
}{
	PlanMonthly:   {Price: 15, Duration: 30 * 24 * time.Hour},
	PlanQuarterly: {Price: 35, Duration: 90 * 24 * time.Hour},
	PlanYearly:    {Price: 99, Duration: 365 * 24 * time.Hour},
}

// ParsePlan validates and normalizes a plan name.
func ParsePlan(s string) (Plan, error) {
	p := Plan(s)
	if _, ok := planTable[p]; !ok {
		return "", domain.ErrUnknownPlan
	}
	return p, nil
}

// Price returns the authoritative price of the plan in currency units.
func (p Plan) Price() int64 { return planTable[p].Price }

// Duration returns the paid period the plan buys.
func (p Plan) Duration() time.Duration { return planTable[p].Duration }

func (p Plan) Valid() bool {
	_, ok := planTable[p]
	return ok
}
