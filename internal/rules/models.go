package rules

import "time"

// Category groups rules by the part of the shipment they describe.
type Category string

const (
	CategoryShipping Category = "shipping"
	CategoryAddress  Category = "address"
	CategoryPackage  Category = "package"
	CategoryCustoms  Category = "customs"
)

// FieldType describes the value shape a rule expects.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeNumber FieldType = "number"
	FieldTypeDate   FieldType = "date"
	FieldTypeSelect FieldType = "select"
	FieldTypeRegex  FieldType = "regex"
)

// ConstraintType identifies how a constraint is evaluated.
type ConstraintType string

const (
	ConstraintRegex    ConstraintType = "regex"
	ConstraintLength   ConstraintType = "length"
	ConstraintRequired ConstraintType = "required"
)

// Severity is the verdict a failing constraint produces.
type Severity string

const (
	SeverityNonCompliant Severity = "non-compliant"
	SeverityWarning      Severity = "warning"
)

// Rule defines the compliance expectations for one canonical field.
// Invariant: FieldKey is unique among active rules; inactive rules are never
// consulted for validation.
type Rule struct {
	ID                string
	CategoryID        Category
	FieldKey          string
	DisplayName       string
	Description       string
	FieldType         FieldType
	IsRequired        bool
	ValidationPattern string
	ValidationMessage string
	ExampleValue      string
	IsActive          bool
	Priority          int
	Metadata          map[string]string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Constraint is one validation check attached to a rule.
// Invariant: disabled constraints are skipped; a rule with zero enabled
// constraints is vacuously compliant for any non-empty value.
type Constraint struct {
	RuleID    string
	Type      ConstraintType
	Pattern   string
	MinLength int
	MaxLength int
	Severity  Severity
	Message   string
	IsEnabled bool
}

// IsTemporary reports whether the rule was synthesized in memory rather than
// loaded from the rule store. Temporary rules are never persisted.
func (r Rule) IsTemporary() bool {
	return len(r.ID) > 5 && r.ID[:5] == "temp-"
}
