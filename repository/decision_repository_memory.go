package repository

import "sync"

// DecisionRepositoryMemory is an in-memory implementation of
// DecisionRepository.
type DecisionRepositoryMemory struct {
	mu   sync.Mutex
	data []EvaluationRecord
}

// NewDecisionRepositoryMemory creates a new in-memory decision repository.
func NewDecisionRepositoryMemory() *DecisionRepositoryMemory {
	return &DecisionRepositoryMemory{
		data: []EvaluationRecord{},
	}
}

// Save stores the evaluation record in memory.
func (r *DecisionRepositoryMemory) Save(rec EvaluationRecord) error {
	r.mu.Lock()
	r.data = append(r.data, rec)
	r.mu.Unlock()
	return nil
}

// Len reports how many evaluations have been recorded.
func (r *DecisionRepositoryMemory) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data)
}
