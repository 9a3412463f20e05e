package services

import (
	"math"

	dbm "telecore/internal/models/db_models"
	"telecore/pkg/utils"
)

// PlanScorer holds the per-plan heuristics used by plan performance reports.
type PlanScorer interface {
	// Satisfaction returns a score in [0, 5].
	Satisfaction(plan dbm.Plan, activeSubscribers int64) float64
	// Growth compares activations in two consecutive windows.
	Growth(previous, recent int64) float64
}

const (
	baseSatisfaction = 3.0
	maxSatisfaction  = 5.0
)

type heuristicScorer struct{}

func NewHeuristicScorer() PlanScorer {
	return heuristicScorer{}
}

func (heuristicScorer) Satisfaction(plan dbm.Plan, activeSubscribers int64) float64 {
	score := baseSatisfaction

	if gb, ok := plan.DataAllowanceGB(); ok {
		switch {
		case gb >= 100:
			score += 1.5
		case gb >= 50:
			score += 1.0
		case gb >= 10:
			score += 0.5
		}
	}

	switch {
	case activeSubscribers > 100:
		score += 0.5
	case activeSubscribers > 50:
		score += 0.3
	}

	switch {
	case plan.CallMinutes > 1000:
		score += 0.3
	case plan.CallMinutes > 500:
		score += 0.2
	}

	return utils.Round2(math.Min(score, maxSatisfaction))
}

func (heuristicScorer) Growth(previous, recent int64) float64 {
	return utils.GrowthRate(previous, recent)
}
