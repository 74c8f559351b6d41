package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"shipgate/internal/rules"
	"shipgate/pkg/platform/sentinel"
)

// Store reads compliance rules and constraints from PostgreSQL. The engine
// never writes to these tables; rule lifecycle is owned elsewhere.
type Store struct {
	db *sql.DB
}

// New constructs a PostgreSQL-backed rule store over an existing connection.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open dials the database and verifies the connection.
func Open(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w: %w", sentinel.ErrUnavailable, err)
	}
	return db, nil
}

// ActiveRules returns every rule with is_active set, ordered by priority so
// lower-wins tie-breaking in the catalog is deterministic.
func (s *Store) ActiveRules(ctx context.Context) ([]rules.Rule, error) {
	query := `
		SELECT id, category_id, field_key, display_name, description,
		       field_type, is_required, COALESCE(validation_pattern, ''),
		       COALESCE(validation_message, ''), COALESCE(example_value, ''),
		       is_active, priority, created_at, updated_at
		FROM compliance_rules
		WHERE is_active = TRUE
		ORDER BY priority ASC, field_key ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query active rules: %w", err)
	}
	defer rows.Close()

	var out []rules.Rule
	for rows.Next() {
		var r rules.Rule
		if err := rows.Scan(
			&r.ID, &r.CategoryID, &r.FieldKey, &r.DisplayName, &r.Description,
			&r.FieldType, &r.IsRequired, &r.ValidationPattern,
			&r.ValidationMessage, &r.ExampleValue,
			&r.IsActive, &r.Priority, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}
	return out, nil
}

// ConstraintsByRuleID returns all constraints owned by a rule in catalog order.
func (s *Store) ConstraintsByRuleID(ctx context.Context, ruleID string) ([]rules.Constraint, error) {
	query := `
		SELECT rule_id, type, COALESCE(pattern, ''),
		       COALESCE(min_length, 0), COALESCE(max_length, 0),
		       severity, COALESCE(message, ''), is_enabled
		FROM validation_constraints
		WHERE rule_id = $1
		ORDER BY id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, ruleID)
	if err != nil {
		return nil, fmt.Errorf("query constraints: %w", err)
	}
	defer rows.Close()

	var out []rules.Constraint
	for rows.Next() {
		var c rules.Constraint
		if err := rows.Scan(
			&c.RuleID, &c.Type, &c.Pattern,
			&c.MinLength, &c.MaxLength,
			&c.Severity, &c.Message, &c.IsEnabled,
		); err != nil {
			return nil, fmt.Errorf("scan constraint: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate constraints: %w", err)
	}
	return out, nil
}
