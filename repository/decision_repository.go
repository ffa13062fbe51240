package repository

import (
	"time"

	"car-advisor/domain"
)

// EvaluationRecord is one evaluated request kept for audit.
type EvaluationRecord struct {
	User        domain.UserProfile
	Buy         domain.BuyScenario
	Lease       domain.LeaseScenario
	Result      domain.DecisionResult
	EvaluatedAt time.Time
}

// DecisionRepository records evaluations. Saves are best-effort: the engine
// logs failures and still returns the result.
type DecisionRepository interface {
	Save(rec EvaluationRecord) error
}
