package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"shipgate/internal/compliance/metrics"
	"shipgate/internal/rules"
)

// Validator checks a FormattedData against the rule catalog and the
// shipment-level policy tables. It holds no per-request state.
type Validator struct {
	catalog *rules.Catalog
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewValidator constructs a validator over the shared catalog. logger and
// metrics may be nil in tests.
func NewValidator(catalog *rules.Catalog, logger *slog.Logger, m *metrics.Metrics) *Validator {
	return &Validator{catalog: catalog, logger: logger, metrics: m}
}

// ValidateCompliance produces one result row per extracted field plus the
// shipment-level findings. Validation never fails: fields without a matching
// rule get a temporary rule synthesized on the spot, and rule evaluation
// errors degrade to warnings.
func (v *Validator) ValidateCompliance(ctx context.Context, fd FormattedData) []Result {
	results, reported := v.validateFields(ctx, fd)

	checks := []func(FormattedData, map[string]bool) []Result{
		v.checkCriticalFields,
		v.checkRestrictedContents,
		v.checkDestination,
		v.checkCustomsCompleteness,
		v.checkConfidence,
		v.checkWarnings,
	}
	extra := make([][]Result, len(checks))
	g, _ := errgroup.WithContext(ctx)
	for i, check := range checks {
		g.Go(func() error {
			extra[i] = check(fd, reported)
			return nil
		})
	}
	_ = g.Wait() // checks never return errors; the group provides the join

	for _, rows := range extra {
		results = append(results, rows...)
	}
	for _, r := range results {
		v.metrics.IncVerdicts(string(r.Status))
	}
	return results
}

// validateFields produces one row per extracted field. Rows carry the rule's
// display name; the returned map records the canonical keys of failing fields
// so the shipment-level presence checks do not duplicate them.
func (v *Validator) validateFields(ctx context.Context, fd FormattedData) ([]Result, map[string]bool) {
	keys := make([]string, 0, len(fd.Fields))
	for k := range fd.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := make([]Result, 0, len(keys))
	reported := make(map[string]bool, len(keys))
	for _, key := range keys {
		value := fd.Fields[key]
		rule, ok := v.catalog.RuleByFieldKey(key)
		if !ok {
			// Unknown fields are never dropped: synthesize a rule so the
			// value is still validated against inferred expectations.
			rule = v.catalog.InsertIfAbsent(rules.SynthesizeRule(key))
			if v.logger != nil {
				v.logger.InfoContext(ctx, "synthesized temporary rule", "fieldKey", key, "ruleID", rule.ID)
			}
		}
		status, message := v.validateField(ctx, rule, value)
		if status != StatusCompliant {
			reported[key] = true
		}
		results = append(results, Result{
			ID:      resultID(fd.ID, key),
			Field:   rule.DisplayName,
			Value:   value,
			Status:  status,
			Message: message,
		})
	}
	return results, reported
}

// validateField evaluates a value against the rule's enabled constraints in
// order; the first failing constraint decides status and message. A rule with
// no stored constraints falls back to defaults derived from the rule itself.
func (v *Validator) validateField(ctx context.Context, rule rules.Rule, value string) (Status, string) {
	trimmed := strings.TrimSpace(value)
	constraints := v.effectiveConstraints(rule)

	for _, c := range constraints {
		failed, msg := v.evaluate(ctx, rule, c, trimmed)
		if failed {
			return statusFromSeverity(c.Severity), msg
		}
	}
	if trimmed == "" {
		return StatusCompliant, fmt.Sprintf("%s not provided (optional)", rule.DisplayName)
	}
	return StatusCompliant, fmt.Sprintf("%s is valid", rule.DisplayName)
}

// effectiveConstraints returns the enabled stored constraints, or defaults
// built from the rule when none exist.
func (v *Validator) effectiveConstraints(rule rules.Rule) []rules.Constraint {
	stored := v.catalog.ConstraintsForRule(rule.ID)
	enabled := make([]rules.Constraint, 0, len(stored))
	for _, c := range stored {
		if c.IsEnabled {
			enabled = append(enabled, c)
		}
	}
	if len(enabled) > 0 {
		return enabled
	}

	var defaults []rules.Constraint
	if rule.IsRequired {
		defaults = append(defaults, rules.Constraint{
			RuleID:    rule.ID,
			Type:      rules.ConstraintRequired,
			Severity:  rules.SeverityNonCompliant,
			Message:   rule.DisplayName + " is required",
			IsEnabled: true,
		})
	}
	if rule.ValidationPattern != "" {
		defaults = append(defaults, rules.Constraint{
			RuleID:    rule.ID,
			Type:      rules.ConstraintRegex,
			Pattern:   rule.ValidationPattern,
			Severity:  rules.SeverityWarning,
			Message:   rule.ValidationMessage,
			IsEnabled: true,
		})
	}
	return defaults
}

// evaluate runs one constraint. Empty values only fail required constraints;
// pattern and length checks do not apply to absent values.
func (v *Validator) evaluate(ctx context.Context, rule rules.Rule, c rules.Constraint, trimmed string) (bool, string) {
	switch c.Type {
	case rules.ConstraintRequired:
		if trimmed == "" {
			return true, constraintMessage(rule, c, rule.DisplayName+" is required but missing")
		}
	case rules.ConstraintRegex:
		if trimmed == "" || c.Pattern == "" {
			return false, ""
		}
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			if v.logger != nil {
				v.logger.WarnContext(ctx, "invalid rule pattern, skipping constraint",
					"ruleID", rule.ID, "pattern", c.Pattern, "error", err)
			}
			return false, ""
		}
		if !re.MatchString(trimmed) {
			return true, constraintMessage(rule, c, rule.DisplayName+" does not match the expected format")
		}
	case rules.ConstraintLength:
		if trimmed == "" {
			return false, ""
		}
		if c.MinLength > 0 && len(trimmed) < c.MinLength {
			return true, constraintMessage(rule, c, fmt.Sprintf("%s must be at least %d characters", rule.DisplayName, c.MinLength))
		}
		if c.MaxLength > 0 && len(trimmed) > c.MaxLength {
			return true, constraintMessage(rule, c, fmt.Sprintf("%s must be at most %d characters", rule.DisplayName, c.MaxLength))
		}
	}
	return false, ""
}

func constraintMessage(rule rules.Rule, c rules.Constraint, fallback string) string {
	if c.Message != "" {
		return c.Message
	}
	if rule.ValidationMessage != "" {
		return rule.ValidationMessage
	}
	return fallback
}

func statusFromSeverity(s rules.Severity) Status {
	if s == rules.SeverityWarning {
		return StatusWarning
	}
	return StatusNonCompliant
}
