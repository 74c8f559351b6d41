package memory

import (
	"context"
	"sync"

	"shipgate/internal/rules"
)

// Store is an in-memory rule store for tests and single-process deployments.
// It implements rules.Store.
type Store struct {
	mu          sync.RWMutex
	rules       []rules.Rule
	constraints map[string][]rules.Constraint
}

// New creates an empty in-memory rule store.
func New() *Store {
	return &Store{constraints: make(map[string][]rules.Constraint)}
}

// Put inserts or replaces a rule and its constraints.
func (s *Store) Put(rule rules.Rule, constraints ...rules.Constraint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rules {
		if r.ID == rule.ID {
			s.rules[i] = rule
			s.constraints[rule.ID] = constraints
			return
		}
	}
	s.rules = append(s.rules, rule)
	s.constraints[rule.ID] = constraints
}

// ActiveRules returns every active rule.
func (s *Store) ActiveRules(ctx context.Context) ([]rules.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]rules.Rule, 0, len(s.rules))
	for _, r := range s.rules {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

// ConstraintsByRuleID returns the constraints owned by a rule.
func (s *Store) ConstraintsByRuleID(ctx context.Context, ruleID string) ([]rules.Constraint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cons := s.constraints[ruleID]
	out := make([]rules.Constraint, len(cons))
	copy(out, cons)
	return out, nil
}
