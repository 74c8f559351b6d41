package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// commonFieldDef seeds a temporary rule for a universally expected logistics
// field when the backing store has no definition for it.
type commonFieldDef struct {
	fieldKey    string
	displayName string
	description string
	category    Category
	fieldType   FieldType
	pattern     string
	example     string
}

// commonFieldDefs is the fixed table of logistics fields every catalog must be
// able to validate, store-backed or not. Order matters only for readability.
var commonFieldDefs = []commonFieldDef{
	{"trackingNumber", "Tracking Number", "Carrier tracking or consignment number", CategoryShipping, FieldTypeRegex, `^[A-Za-z0-9]{8,30}$`, "1Z999AA10123456784"},
	{"orderNumber", "Order Number", "Merchant order or reference number", CategoryShipping, FieldTypeRegex, `^[A-Za-z0-9\-]{4,25}$`, "ORD-2024-0042"},
	{"carrier", "Carrier", "Carrier or courier company name", CategoryShipping, FieldTypeText, `^[A-Za-z0-9 .&\-]{2,50}$`, "FedEx"},
	{"serviceType", "Service Type", "Shipping service level", CategoryShipping, FieldTypeText, `^[A-Za-z0-9 \-]{2,50}$`, "International Priority"},
	{"shipDate", "Ship Date", "Date the shipment was dispatched", CategoryShipping, FieldTypeDate, `^\d{1,4}[\/\-\.]\d{1,2}[\/\-\.]\d{1,4}$`, "12/03/2024"},
	{"deliveryDate", "Delivery Date", "Expected or actual delivery date", CategoryShipping, FieldTypeDate, `^\d{1,4}[\/\-\.]\d{1,2}[\/\-\.]\d{1,4}$`, "15/03/2024"},
	{"shipperName", "Shipper Name", "Name of the sending party", CategoryAddress, FieldTypeText, `^.{2,100}$`, "Acme Corp"},
	{"shipperAddress", "Shipper Address", "Full address of the sending party", CategoryAddress, FieldTypeText, `^.{5,250}$`, "1 Main St, Springfield"},
	{"recipientName", "Recipient Name", "Name of the receiving party", CategoryAddress, FieldTypeText, `^.{2,100}$`, "Jane Doe"},
	{"recipientAddress", "Recipient Address", "Full address of the receiving party", CategoryAddress, FieldTypeText, `^.{5,250}$`, "2 Oak Ave, Columbus"},
	{"originCountry", "Origin Country", "Country the shipment departs from", CategoryAddress, FieldTypeText, `^[A-Za-z .\-]{2,60}$`, "United States"},
	{"destinationCountry", "Destination Country", "Country the shipment is delivered to", CategoryAddress, FieldTypeText, `^[A-Za-z .\-]{2,60}$`, "Germany"},
	{"postalCode", "Postal Code", "Postal or ZIP code of the destination", CategoryAddress, FieldTypeRegex, `^[A-Za-z0-9 \-]{3,12}$`, "43004"},
	{"phoneNumber", "Phone Number", "Contact phone number", CategoryAddress, FieldTypeRegex, `^[+0-9 ()\-]{7,20}$`, "+1 614 555 0147"},
	{"email", "Email", "Contact email address", CategoryAddress, FieldTypeRegex, `^[^@\s]+@[^@\s]+\.[^@\s]+$`, "ops@acme.example"},
	{"weight", "Weight", "Package weight with unit", CategoryPackage, FieldTypeNumber, `^\d+(\.\d+)?\s*(kg|g|lb|lbs|oz)?$`, "3.2 kg"},
	{"dimensions", "Dimensions", "Package dimensions (LxWxH)", CategoryPackage, FieldTypeText, `^[\dxX .*cmin]{3,40}$`, "30x20x10 cm"},
	{"packageContents", "Package Contents", "Declared contents of the package", CategoryPackage, FieldTypeText, `^.{2,250}$`, "books"},
	{"declaredValue", "Declared Value", "Declared customs value of the goods", CategoryCustoms, FieldTypeNumber, `^[A-Z]{0,3}\s*\$?\d+(\.\d+)?$`, "USD 120.00"},
	{"harmonizedCode", "Harmonized Code", "HS tariff classification code", CategoryCustoms, FieldTypeRegex, `^\d{4}[.\d]{0,8}$`, "4901.99"},
	{"customsDescription", "Customs Description", "Contents description for customs", CategoryCustoms, FieldTypeText, `^.{2,250}$`, "printed books"},
}

// SynthesizeRule builds a temporary in-memory rule for a field the catalog
// does not know. The rule carries a generated identifier and is otherwise
// indistinguishable from a persisted rule; it must never be written back to
// the store.
func SynthesizeRule(fieldKey string) Rule {
	now := time.Now().UTC()
	def, known := lookupCommonField(fieldKey)
	if !known {
		def = commonFieldDef{
			fieldKey:    fieldKey,
			displayName: displayNameFromKey(fieldKey),
			description: "Auto-detected field " + displayNameFromKey(fieldKey),
			category:    inferCategory(fieldKey),
			fieldType:   inferFieldType(fieldKey),
			pattern:     inferPattern(fieldKey),
		}
	}
	return Rule{
		ID:                fmt.Sprintf("temp-%s-%s", def.fieldKey, uuid.NewString()),
		CategoryID:        def.category,
		FieldKey:          def.fieldKey,
		DisplayName:       def.displayName,
		Description:       def.description,
		FieldType:         def.fieldType,
		IsRequired:        false,
		ValidationPattern: def.pattern,
		ValidationMessage: def.displayName + " has an unexpected format",
		ExampleValue:      def.example,
		IsActive:          true,
		Priority:          1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func lookupCommonField(fieldKey string) (commonFieldDef, bool) {
	for _, def := range commonFieldDefs {
		if strings.EqualFold(def.fieldKey, fieldKey) {
			return def, true
		}
	}
	return commonFieldDef{}, false
}

// inferCategory guesses the rule category from substrings of the field name.
func inferCategory(fieldKey string) Category {
	k := strings.ToLower(fieldKey)
	switch {
	case containsAny(k, "address", "country", "city", "postal", "zip", "state"):
		return CategoryAddress
	case containsAny(k, "customs", "harmonized", "tariff", "duty", "declared"):
		return CategoryCustoms
	case containsAny(k, "weight", "dimension", "content", "package", "quantity", "item"):
		return CategoryPackage
	default:
		return CategoryShipping
	}
}

// inferFieldType guesses the value shape from substrings of the field name.
func inferFieldType(fieldKey string) FieldType {
	k := strings.ToLower(fieldKey)
	switch {
	case containsAny(k, "date", "time"):
		return FieldTypeDate
	case containsAny(k, "weight", "value", "amount", "count", "quantity", "price"):
		return FieldTypeNumber
	case containsAny(k, "number", "code", "id"):
		return FieldTypeRegex
	default:
		return FieldTypeText
	}
}

// inferPattern provides a lenient default regex matching the inferred type.
func inferPattern(fieldKey string) string {
	switch inferFieldType(fieldKey) {
	case FieldTypeDate:
		return `^\d{1,4}[\/\-\.]\d{1,2}[\/\-\.]\d{1,4}$`
	case FieldTypeNumber:
		return `^[A-Z]{0,3}\s*\$?\d+(\.\d+)?\s*[A-Za-z]{0,4}$`
	case FieldTypeRegex:
		return `^[A-Za-z0-9\-\.]{2,40}$`
	default:
		return `^.{1,250}$`
	}
}

// displayNameFromKey renders a camelCase key as a spaced title
// ("recipientAddress" → "Recipient Address").
func displayNameFromKey(fieldKey string) string {
	if fieldKey == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range fieldKey {
		switch {
		case i == 0 && r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		case i > 0 && r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
