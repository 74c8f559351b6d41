package memory

import (
	"time"

	"shipgate/internal/rules"
)

// Seed fills the store with a small persisted-looking catalog for dev and
// demo runs. Production deployments load rules from Postgres instead.
func Seed(s *Store) {
	now := time.Now().UTC()

	tracking := rules.Rule{
		ID:                "rule-tracking-number",
		CategoryID:        rules.CategoryShipping,
		FieldKey:          "trackingNumber",
		DisplayName:       "Tracking Number",
		Description:       "Carrier tracking or consignment number",
		FieldType:         rules.FieldTypeRegex,
		IsRequired:        true,
		ValidationPattern: `^[A-Za-z0-9]{8,30}$`,
		ValidationMessage: "Tracking number must be 8-30 alphanumeric characters",
		ExampleValue:      "AB1234567890",
		IsActive:          true,
		Priority:          1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.Put(tracking,
		rules.Constraint{
			RuleID:    tracking.ID,
			Type:      rules.ConstraintRequired,
			Severity:  rules.SeverityNonCompliant,
			Message:   "Tracking number is required",
			IsEnabled: true,
		},
		rules.Constraint{
			RuleID:    tracking.ID,
			Type:      rules.ConstraintRegex,
			Pattern:   `^[A-Za-z0-9]{8,30}$`,
			Severity:  rules.SeverityNonCompliant,
			Message:   "Tracking number must be 8-30 alphanumeric characters",
			IsEnabled: true,
		},
	)

	weight := rules.Rule{
		ID:                "rule-weight",
		CategoryID:        rules.CategoryPackage,
		FieldKey:          "weight",
		DisplayName:       "Weight",
		Description:       "Package weight with unit",
		FieldType:         rules.FieldTypeNumber,
		ValidationPattern: `^\d+(\.\d+)?\s*(kg|g|lb|lbs|oz)?$`,
		ValidationMessage: "Weight must be a number with an optional unit",
		ExampleValue:      "3.2 kg",
		IsActive:          true,
		Priority:          1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.Put(weight,
		rules.Constraint{
			RuleID:    weight.ID,
			Type:      rules.ConstraintRegex,
			Pattern:   `^\d+(\.\d+)?\s*(kg|g|lb|lbs|oz)?$`,
			Severity:  rules.SeverityWarning,
			Message:   "Weight should be a number with an optional unit",
			IsEnabled: true,
		},
	)

	contents := rules.Rule{
		ID:                "rule-package-contents",
		CategoryID:        rules.CategoryPackage,
		FieldKey:          "packageContents",
		DisplayName:       "Package Contents",
		Description:       "Declared contents of the package",
		FieldType:         rules.FieldTypeText,
		ValidationMessage: "Contents description is too short",
		ExampleValue:      "books",
		IsActive:          true,
		Priority:          1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	s.Put(contents,
		rules.Constraint{
			RuleID:    contents.ID,
			Type:      rules.ConstraintLength,
			MinLength: 2,
			MaxLength: 250,
			Severity:  rules.SeverityWarning,
			Message:   "Contents description should be 2-250 characters",
			IsEnabled: true,
		},
	)
}
