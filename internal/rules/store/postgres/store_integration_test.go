//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"shipgate/internal/rules"
	"shipgate/pkg/testutil/containers"
)

const schema = `
CREATE TABLE compliance_rules (
	id TEXT PRIMARY KEY,
	category_id TEXT NOT NULL,
	field_key TEXT NOT NULL,
	display_name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	field_type TEXT NOT NULL,
	is_required BOOLEAN NOT NULL DEFAULT FALSE,
	validation_pattern TEXT,
	validation_message TEXT,
	example_value TEXT,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	priority INT NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE validation_constraints (
	id SERIAL PRIMARY KEY,
	rule_id TEXT NOT NULL REFERENCES compliance_rules(id),
	type TEXT NOT NULL,
	pattern TEXT,
	min_length INT,
	max_length INT,
	severity TEXT NOT NULL,
	message TEXT,
	is_enabled BOOLEAN NOT NULL DEFAULT TRUE
);`

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()
	pg := containers.NewPostgresContainer(t)

	_, err := pg.DB.ExecContext(ctx, schema)
	require.NoError(t, err)

	_, err = pg.DB.ExecContext(ctx, `
		INSERT INTO compliance_rules (id, category_id, field_key, display_name, field_type, is_required, validation_pattern, validation_message, priority, is_active) VALUES
		('rule-tracking', 'shipping', 'trackingNumber', 'Tracking Number', 'regex', TRUE, '^[A-Za-z0-9]{8,30}$', 'Tracking number format', 1, TRUE),
		('rule-weight', 'package', 'weight', 'Weight', 'number', FALSE, NULL, NULL, 2, TRUE),
		('rule-inactive', 'package', 'dimensions', 'Dimensions', 'text', FALSE, NULL, NULL, 1, FALSE)`)
	require.NoError(t, err)

	_, err = pg.DB.ExecContext(ctx, `
		INSERT INTO validation_constraints (rule_id, type, pattern, severity, message, is_enabled) VALUES
		('rule-tracking', 'required', NULL, 'non-compliant', 'Tracking number is required', TRUE),
		('rule-tracking', 'regex', '^[A-Za-z0-9]{8,30}$', 'non-compliant', 'Tracking number format', TRUE),
		('rule-weight', 'regex', '^\d+(\.\d+)?$', 'warning', NULL, FALSE)`)
	require.NoError(t, err)

	store := New(pg.DB)

	t.Run("ActiveRules excludes inactive and orders by priority", func(t *testing.T) {
		got, err := store.ActiveRules(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "rule-tracking", got[0].ID)
		require.Equal(t, "rule-weight", got[1].ID)
		require.True(t, got[0].IsRequired)
		require.Equal(t, `^[A-Za-z0-9]{8,30}$`, got[0].ValidationPattern)
		require.Empty(t, got[1].ValidationPattern)
	})

	t.Run("ConstraintsByRuleID returns constraints in insert order", func(t *testing.T) {
		got, err := store.ConstraintsByRuleID(ctx, "rule-tracking")
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, rules.ConstraintRequired, got[0].Type)
		require.Equal(t, rules.ConstraintRegex, got[1].Type)
	})

	t.Run("disabled constraints are returned with flag intact", func(t *testing.T) {
		got, err := store.ConstraintsByRuleID(ctx, "rule-weight")
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.False(t, got[0].IsEnabled)
	})

	t.Run("unknown rule yields no constraints", func(t *testing.T) {
		got, err := store.ConstraintsByRuleID(ctx, "no-such-rule")
		require.NoError(t, err)
		require.Empty(t, got)
	})
}
