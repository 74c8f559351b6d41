package extraction

import (
	"regexp"
	"sort"
	"strings"
)

// headerSynonyms maps free-text labels (lowercased, whitespace-collapsed) to
// canonical field keys. Checked before the mechanical camelCase fallback so
// common logistics labels land on the right key. Static policy data; extend
// here rather than in control flow.
var headerSynonyms = map[string]string{
	"sender":               "shipperName",
	"sender name":          "shipperName",
	"from":                 "shipperName",
	"shipper":              "shipperName",
	"ship from":            "shipperName",
	"sent by":              "shipperName",
	"sender address":       "shipperAddress",
	"from address":         "shipperAddress",
	"shipper address":      "shipperAddress",
	"origin":               "shipperAddress",
	"origin address":       "shipperAddress",
	"return address":       "shipperAddress",
	"recipient":            "recipientName",
	"recipient name":       "recipientName",
	"receiver":             "recipientName",
	"to":                   "recipientName",
	"ship to":              "recipientName",
	"deliver to":           "recipientName",
	"consignee":            "recipientName",
	"addressee":            "recipientName",
	"recipient address":    "recipientAddress",
	"receiver address":     "recipientAddress",
	"delivery address":     "recipientAddress",
	"destination":          "recipientAddress",
	"destination address":  "recipientAddress",
	"ship to address":      "recipientAddress",
	"shipping address":     "recipientAddress",
	"tracking":             "trackingNumber",
	"tracking #":           "trackingNumber",
	"tracking no":          "trackingNumber",
	"tracking no.":         "trackingNumber",
	"tracking number":      "trackingNumber",
	"tracking id":          "trackingNumber",
	"consignment":          "trackingNumber",
	"consignment no":       "trackingNumber",
	"awb":                  "trackingNumber",
	"waybill":              "trackingNumber",
	"order":                "orderNumber",
	"order #":              "orderNumber",
	"order no":             "orderNumber",
	"order no.":            "orderNumber",
	"order number":         "orderNumber",
	"order id":             "orderNumber",
	"reference":            "orderNumber",
	"ref":                  "orderNumber",
	"wt":                   "weight",
	"gross weight":         "weight",
	"net weight":           "weight",
	"dims":                 "dimensions",
	"size":                 "dimensions",
	"measurements":         "dimensions",
	"contents":             "packageContents",
	"content":              "packageContents",
	"description":          "packageContents",
	"item":                 "packageContents",
	"items":                "packageContents",
	"goods":                "packageContents",
	"commodity":            "packageContents",
	"description of goods": "packageContents",
	"package contents":     "packageContents",
	"courier":              "carrier",
	"shipping company":     "carrier",
	"service":              "serviceType",
	"service type":         "serviceType",
	"service level":        "serviceType",
	"shipping method":      "serviceType",
	"date":                 "shipDate",
	"ship date":            "shipDate",
	"shipping date":        "shipDate",
	"dispatch date":        "shipDate",
	"delivery date":        "deliveryDate",
	"eta":                  "deliveryDate",
	"expected delivery":    "deliveryDate",
	"value":                "declaredValue",
	"declared value":       "declaredValue",
	"customs value":        "declaredValue",
	"invoice value":        "declaredValue",
	"hs code":              "harmonizedCode",
	"hts code":             "harmonizedCode",
	"harmonized code":      "harmonizedCode",
	"tariff code":          "harmonizedCode",
	"customs description":  "customsDescription",
	"customs contents":     "customsDescription",
	"country":              "destinationCountry",
	"destination country":  "destinationCountry",
	"to country":           "destinationCountry",
	"origin country":       "originCountry",
	"from country":         "originCountry",
	"country of origin":    "originCountry",
	"zip":                  "postalCode",
	"zip code":             "postalCode",
	"postal code":          "postalCode",
	"postcode":             "postalCode",
	"phone":                "phoneNumber",
	"phone number":         "phoneNumber",
	"tel":                  "phoneNumber",
	"telephone":            "phoneNumber",
	"contact number":       "phoneNumber",
	"e-mail":               "email",
	"email address":        "email",
}

// fieldKeySynonyms maps already-camelCased keys that extraction strategies or
// upstream systems produce onto canonical keys. Applied as a final merge pass.
var fieldKeySynonyms = map[string]string{
	"sender":           "shipperName",
	"from":             "shipperName",
	"shipFrom":         "shipperName",
	"shipperFullName":  "shipperName",
	"senderAddress":    "shipperAddress",
	"fromAddress":      "shipperAddress",
	"returnAddress":    "shipperAddress",
	"receiver":         "recipientName",
	"recipient":        "recipientName",
	"shipTo":           "recipientName",
	"deliverTo":        "recipientName",
	"consignee":        "recipientName",
	"receiverAddress":  "recipientAddress",
	"deliveryAddress":  "recipientAddress",
	"destination":      "recipientAddress",
	"shippingAddress":  "recipientAddress",
	"tracking":         "trackingNumber",
	"trackingId":       "trackingNumber",
	"trackingNo":       "trackingNumber",
	"consignmentNo":    "trackingNumber",
	"awb":              "trackingNumber",
	"order":            "orderNumber",
	"orderId":          "orderNumber",
	"orderNo":          "orderNumber",
	"reference":        "orderNumber",
	"contents":         "packageContents",
	"content":          "packageContents",
	"description":      "packageContents",
	"items":            "packageContents",
	"goods":            "packageContents",
	"value":            "declaredValue",
	"customsValue":     "declaredValue",
	"hsCode":           "harmonizedCode",
	"htsCode":          "harmonizedCode",
	"country":          "destinationCountry",
	"toCountry":        "destinationCountry",
	"fromCountry":      "originCountry",
	"countryOfOrigin":  "originCountry",
	"zip":              "postalCode",
	"zipCode":          "postalCode",
	"postcode":         "postalCode",
	"phone":            "phoneNumber",
	"telephone":        "phoneNumber",
	"wt":               "weight",
	"grossWeight":      "weight",
	"service":          "serviceType",
	"shippingMethod":   "serviceType",
	"courier":          "carrier",
	"shippingCompany":  "carrier",
	"customsContents":  "customsDescription",
	"expectedDelivery": "deliveryDate",
	"eta":              "deliveryDate",
	"date":             "shipDate",
	"shippingDate":     "shipDate",
}

var (
	nonAlnumRe     = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	streetSuffixRe = regexp.MustCompile(`(?i)\b(st|street|ave|avenue|rd|road|blvd|boulevard|ln|lane|dr|drive|ct|court|way|pl|place|hwy|highway|sq|square|ter|terrace)\b`)
	nameShapedRe   = regexp.MustCompile(`^[A-Za-z][A-Za-z .,'&\-]{1,80}$`)
)

// StandardizeFieldKey maps an arbitrary free-text header onto a canonical
// camelCase field key. Known synonyms win; otherwise non-alphanumerics are
// stripped and the remaining words camelCased. Idempotent: applying it to its
// own output returns the same string.
func StandardizeFieldKey(header string) string {
	trimmed := strings.TrimSpace(header)
	trimmed = strings.Trim(trimmed, ":=")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return ""
	}

	lookup := whitespaceRe.ReplaceAllString(strings.ToLower(trimmed), " ")
	if canonical, ok := headerSynonyms[lookup]; ok {
		return canonical
	}

	words := nonAlnumRe.Split(trimmed, -1)
	var parts []string
	for _, w := range words {
		if w == "" {
			continue
		}
		// All-caps labels ("SHIP TO") read as words, not acronyms.
		if w == strings.ToUpper(w) && len(w) > 1 {
			w = strings.ToLower(w)
		}
		parts = append(parts, w)
	}
	if len(parts) == 0 {
		return ""
	}

	var b strings.Builder
	for i, w := range parts {
		if i == 0 {
			b.WriteString(strings.ToLower(w[:1]) + w[1:])
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	return b.String()
}

// NormalizeFieldNames folds synonym keys into their canonical keys in place.
// A canonical key already present is never overwritten; the synonym key is
// deleted only after a successful merge.
func NormalizeFieldNames(fields map[string]string) {
	synonyms := make([]string, 0, len(fieldKeySynonyms))
	for synonym := range fieldKeySynonyms {
		synonyms = append(synonyms, synonym)
	}
	sort.Strings(synonyms)

	for _, synonym := range synonyms {
		canonical := fieldKeySynonyms[synonym]
		value, ok := fields[synonym]
		if !ok {
			continue
		}
		if existing, present := fields[canonical]; present && strings.TrimSpace(existing) != "" {
			// Canonical value wins; the synonym key stays since nothing merged.
			continue
		}
		fields[canonical] = value
		delete(fields, synonym)
	}
}

// combinedNameFields lists name fields whose value may carry a trailing
// address, and the address field the split should land in.
var combinedNameFields = map[string]string{
	"shipperName":   "shipperAddress",
	"recipientName": "recipientAddress",
}

// ExtractNameAndAddressComponents splits combined "Name, street address"
// values into separate name and address fields. The split only happens when
// both a name-shaped prefix and an address-shaped suffix are found; otherwise
// the combined value is preserved untouched.
func ExtractNameAndAddressComponents(fields map[string]string) {
	for nameKey, addressKey := range combinedNameFields {
		value, ok := fields[nameKey]
		if !ok {
			continue
		}
		if existing, present := fields[addressKey]; present && strings.TrimSpace(existing) != "" {
			continue
		}
		name, address, ok := splitNameAddress(value)
		if !ok {
			continue
		}
		fields[nameKey] = name
		fields[addressKey] = address
	}
}

// splitNameAddress attempts to separate a combined value into a name prefix
// and an address suffix. Returns ok=false when either half fails its shape
// check, so callers never guess destructively.
func splitNameAddress(value string) (name, address string, ok bool) {
	value = strings.TrimSpace(value)

	// An embedded newline is the strongest signal: first line is the name.
	if idx := strings.IndexAny(value, "\n\r"); idx > 0 {
		name = strings.TrimSpace(value[:idx])
		address = strings.TrimSpace(strings.Trim(value[idx:], "\r\n"))
		address = whitespaceRe.ReplaceAllString(strings.ReplaceAll(address, "\n", ", "), " ")
		if looksLikeName(name) && looksLikeAddress(address) {
			return name, address, true
		}
		return "", "", false
	}

	idx := strings.Index(value, ",")
	if idx <= 0 || idx == len(value)-1 {
		return "", "", false
	}
	name = strings.TrimSpace(value[:idx])
	address = strings.TrimSpace(value[idx+1:])
	if looksLikeName(name) && looksLikeAddress(address) {
		return name, address, true
	}
	return "", "", false
}

func looksLikeName(s string) bool {
	return s != "" && !strings.ContainsAny(s, "0123456789") && nameShapedRe.MatchString(s)
}

func looksLikeAddress(s string) bool {
	if len(s) < 5 {
		return false
	}
	hasDigit := strings.ContainsAny(s, "0123456789")
	return hasDigit || streetSuffixRe.MatchString(s)
}
