package compliance

import (
	"fmt"
	"strings"
)

// Shipment-level checks. Each returns zero or more synthetic result rows;
// none can fail. They read only the FormattedData value and the package
// policy tables, so they are safe to run concurrently.

// checkCriticalFields reports critical shipment fields that are absent or
// empty, unless the per-field pass already reported them.
func (v *Validator) checkCriticalFields(fd FormattedData, reported map[string]bool) []Result {
	var out []Result
	for _, cf := range criticalShipmentFields {
		if strings.TrimSpace(fd.Fields[cf.fieldKey]) != "" || reported[cf.fieldKey] {
			continue
		}
		out = append(out, Result{
			ID:      resultID(fd.ID, "missing:"+cf.fieldKey),
			Field:   cf.displayName,
			Status:  StatusNonCompliant,
			Message: cf.displayName + " is missing; shipment cannot be processed without it",
		})
	}
	return out
}

// checkRestrictedContents scans the contents declaration for restricted
// keywords. Matching is case-insensitive substring and each keyword produces
// at most one row regardless of how many contents fields mention it.
func (v *Validator) checkRestrictedContents(fd FormattedData, _ map[string]bool) []Result {
	var declared []string
	for _, key := range contentsFieldKeys {
		if value := strings.TrimSpace(fd.Fields[key]); value != "" {
			declared = append(declared, value)
		}
	}
	if len(declared) == 0 {
		return nil
	}
	combined := strings.ToLower(strings.Join(declared, " "))

	var out []Result
	for _, rk := range restrictedKeywords {
		if !strings.Contains(combined, rk.keyword) {
			continue
		}
		out = append(out, Result{
			ID:      resultID(fd.ID, "restricted:"+rk.keyword),
			Field:   "Restricted Item",
			Value:   strings.Join(declared, "; "),
			Status:  statusFromSeverity(rk.severity),
			Message: fmt.Sprintf("package contents mention restricted item %q", rk.keyword),
		})
	}
	return out
}

// checkDestination flags embargoed destinations, and adds an export
// restriction row when the origin is the United States.
func (v *Validator) checkDestination(fd FormattedData, _ map[string]bool) []Result {
	dest := strings.TrimSpace(fd.Fields["destinationCountry"])
	if dest == "" {
		return nil
	}
	embargoed := false
	matched := ""
	for _, ec := range embargoedCountries {
		if strings.EqualFold(dest, ec.code) || strings.Contains(strings.ToLower(dest), ec.name) {
			embargoed = true
			matched = ec.name
			break
		}
	}
	if !embargoed {
		return nil
	}

	out := []Result{{
		ID:      resultID(fd.ID, "embargo:destination"),
		Field:   "Destination Restriction",
		Value:   dest,
		Status:  StatusNonCompliant,
		Message: fmt.Sprintf("destination %q is an embargoed country (%s)", dest, matched),
	}}

	origin := strings.ToLower(strings.TrimSpace(fd.Fields["originCountry"]))
	for _, name := range usOriginNames {
		if origin == name {
			out = append(out, Result{
				ID:      resultID(fd.ID, "embargo:export"),
				Field:   "Export Restriction",
				Value:   fd.Fields["originCountry"],
				Status:  StatusNonCompliant,
				Message: "United States export restrictions prohibit shipping to this destination",
			})
			break
		}
	}
	return out
}

// checkCustomsCompleteness warns about missing customs paperwork on shipments
// that look international.
func (v *Validator) checkCustomsCompleteness(fd FormattedData, _ map[string]bool) []Result {
	if !looksInternational(fd.Fields) {
		return nil
	}
	var out []Result
	for _, cf := range customsFields {
		if strings.TrimSpace(fd.Fields[cf.fieldKey]) != "" {
			continue
		}
		out = append(out, Result{
			ID:      resultID(fd.ID, "customs:"+cf.fieldKey),
			Field:   cf.displayName,
			Status:  StatusWarning,
			Message: cf.displayName + " is required for international shipments",
		})
	}
	return out
}

// looksInternational reports a cross-border shipment: differing origin and
// destination countries, or a carrier/service naming an international tier.
func looksInternational(fields map[string]string) bool {
	origin := strings.TrimSpace(fields["originCountry"])
	dest := strings.TrimSpace(fields["destinationCountry"])
	if origin != "" && dest != "" {
		return !strings.EqualFold(origin, dest)
	}
	service := strings.ToLower(fields["serviceType"] + " " + fields["carrier"])
	for _, hint := range internationalServiceHints {
		if strings.Contains(service, hint) {
			return true
		}
	}
	return false
}

// checkConfidence grades the extraction confidence itself as a compliance
// signal: high confidence passes, middling confidence asks for review, low
// confidence blocks.
func (v *Validator) checkConfidence(fd FormattedData, _ map[string]bool) []Result {
	conf := fd.Metadata.Confidence
	status := StatusNonCompliant
	message := fmt.Sprintf("extraction confidence %.2f is too low; manual re-entry recommended", conf)
	switch {
	case conf > 0.8:
		status = StatusCompliant
		message = fmt.Sprintf("extraction confidence %.2f", conf)
	case conf > 0.5:
		status = StatusWarning
		message = fmt.Sprintf("extraction confidence %.2f; manual review recommended", conf)
	}
	return []Result{{
		ID:      resultID(fd.ID, "meta:confidence"),
		Field:   "Extraction Confidence",
		Value:   fmt.Sprintf("%.2f", conf),
		Status:  status,
		Message: message,
	}}
}

// checkWarnings surfaces extraction warnings as a single warning row so they
// reach the compliance report.
func (v *Validator) checkWarnings(fd FormattedData, _ map[string]bool) []Result {
	if len(fd.Metadata.Warnings) == 0 {
		return nil
	}
	return []Result{{
		ID:      resultID(fd.ID, "meta:warnings"),
		Field:   "Extraction Warnings",
		Status:  StatusWarning,
		Message: fmt.Sprintf("extraction reported %d warning(s): %s", len(fd.Metadata.Warnings), strings.Join(fd.Metadata.Warnings, "; ")),
	}}
}
