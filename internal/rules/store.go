package rules

import "context"

// Store is the external rule persistence collaborator. The engine only reads
// from it: once at initialization and again on explicit refresh.
type Store interface {
	// ActiveRules returns every rule with IsActive set. Inactive rules must
	// not be returned; the catalog never filters them a second time.
	ActiveRules(ctx context.Context) ([]Rule, error)
	// ConstraintsByRuleID returns all constraints owned by a rule, enabled or
	// not, in catalog order.
	ConstraintsByRuleID(ctx context.Context, ruleID string) ([]Constraint, error)
}
