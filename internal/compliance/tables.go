package compliance

import "shipgate/internal/rules"

// Policy tables. The warning/non-compliant boundaries below are operational
// policy, not derived logic; a production deployment should source them from
// configuration. Kept as package data so they can be tested and extended
// without touching control flow.

// criticalShipmentFields must be present on every shipment; absence is an
// aggregate non-compliant finding.
var criticalShipmentFields = []struct {
	fieldKey    string
	displayName string
}{
	{"trackingNumber", "Tracking Number"},
	{"shipperName", "Shipper Name"},
	{"recipientName", "Recipient Name"},
	{"recipientAddress", "Recipient Address"},
}

// contentsFieldKeys are the fields, in lookup order, that may hold the
// package-contents declaration.
var contentsFieldKeys = []string{
	"packageContents",
	"customsDescription",
	"contents",
	"description",
	"items",
	"goods",
}

// restrictedKeywords maps a lowercase contents keyword to the severity of
// shipping it. Matching is case-insensitive substring; each keyword yields at
// most one result row.
var restrictedKeywords = []struct {
	keyword  string
	severity rules.Severity
}{
	{"weapon", rules.SeverityNonCompliant},
	{"gun", rules.SeverityNonCompliant},
	{"firearm", rules.SeverityNonCompliant},
	{"ammunition", rules.SeverityNonCompliant},
	{"ammo", rules.SeverityNonCompliant},
	{"explosive", rules.SeverityNonCompliant},
	{"drug", rules.SeverityNonCompliant},
	{"narcotic", rules.SeverityNonCompliant},
	{"battery", rules.SeverityWarning},
	{"batteries", rules.SeverityWarning},
	{"lithium", rules.SeverityWarning},
	{"alcohol", rules.SeverityWarning},
	{"tobacco", rules.SeverityWarning},
	{"pharmaceutical", rules.SeverityWarning},
	{"flammable", rules.SeverityWarning},
}

// embargoedCountries lists destinations that may not be shipped to, by ISO
// code and name. Name matching is case-insensitive substring.
var embargoedCountries = []struct {
	code string
	name string
}{
	{"CU", "cuba"},
	{"IR", "iran"},
	{"KP", "north korea"},
	{"SY", "syria"},
	{"RU", "russia"},
}

// usOriginNames identify a United States origin for the export-restriction
// check.
var usOriginNames = []string{"us", "usa", "united states", "united states of america", "america"}

// customsFields are required paperwork for international shipments; each
// missing one yields a warning row.
var customsFields = []struct {
	fieldKey    string
	displayName string
}{
	{"declaredValue", "Declared Value"},
	{"harmonizedCode", "Harmonized Code"},
	{"customsDescription", "Customs Description"},
}

// internationalServiceHints suggest a cross-border shipment when origin and
// destination countries are not both present.
var internationalServiceHints = []string{"international", "export", "customs", "global", "worldwide", "cross-border"}
