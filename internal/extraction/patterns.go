package extraction

import "regexp"

// fieldPattern pairs a canonical field key with a labeled-text regex. The
// first capture group is the extracted value. Order matters: patterns run in
// table order and never overwrite a field populated earlier.
type fieldPattern struct {
	fieldKey string
	re       *regexp.Regexp
}

// fieldPatterns is the labeled regex sweep used when line parsing found
// nothing usable. Static policy data.
var fieldPatterns = []fieldPattern{
	{"trackingNumber", regexp.MustCompile(`(?i)\b(?:tracking|consignment|awb|waybill)\s*(?:#|no\.?|number|id)?\s*[:=\-]?\s*([A-Z0-9]{8,30})\b`)},
	{"orderNumber", regexp.MustCompile(`(?i)\border\s*(?:#|no\.?|number|id)?\s*[:=\-]?\s*([A-Z0-9][A-Z0-9\-]{3,24})\b`)},
	{"shipDate", regexp.MustCompile(`(?i)\b(?:ship(?:ping)?|dispatch)\s*date\s*[:=\-]?\s*(\d{1,4}[\/\-.]\d{1,2}[\/\-.]\d{1,4})`)},
	{"deliveryDate", regexp.MustCompile(`(?i)\b(?:delivery|arrival)\s*date\s*[:=\-]?\s*(\d{1,4}[\/\-.]\d{1,2}[\/\-.]\d{1,4})`)},
	{"weight", regexp.MustCompile(`(?i)\b(?:weight|wt)\s*[:=\-]?\s*(\d+(?:\.\d+)?\s*(?:kg|g|lbs?|oz)?)\b`)},
	{"dimensions", regexp.MustCompile(`(?i)\b(?:dimensions?|dims|size)\s*[:=\-]?\s*(\d+\s*[xX]\s*\d+\s*[xX]\s*\d+\s*(?:cm|mm|in)?)`)},
	{"shipperName", regexp.MustCompile(`(?i)\b(?:from|sender|shipper)\s*[:=\-]\s*([A-Za-z][A-Za-z .,'&\-]{1,80})`)},
	{"recipientName", regexp.MustCompile(`(?i)\b(?:to|recipient|receiver|consignee)\s*[:=\-]\s*([A-Za-z][A-Za-z .,'&\-]{1,80})`)},
	{"shipperAddress", regexp.MustCompile(`(?i)\b(?:sender|shipper|return)\s*address\s*[:=\-]\s*(.{5,120})`)},
	{"recipientAddress", regexp.MustCompile(`(?i)\b(?:recipient|receiver|delivery|shipping)\s*address\s*[:=\-]\s*(.{5,120})`)},
	{"packageContents", regexp.MustCompile(`(?i)\b(?:contents?|goods|items?|commodity)\s*[:=\-]\s*(.{2,120})`)},
	{"carrier", regexp.MustCompile(`(?i)\b(ups|fedex|dhl|usps|tnt|aramex|royal mail|canada post|dpd|gls|hermes)\b`)},
	{"serviceType", regexp.MustCompile(`(?i)\b(overnight|next day|2nd day|express|ground|priority|economy|standard|international priority|international economy)\b`)},
	{"declaredValue", regexp.MustCompile(`(?i)\b(?:declared|customs|invoice)\s*value\s*[:=\-]?\s*([A-Z]{0,3}\s*\$?\d+(?:\.\d+)?)`)},
	{"harmonizedCode", regexp.MustCompile(`(?i)\b(?:hs|hts|harmonized|tariff)\s*code\s*[:=\-]?\s*(\d{4}[.\d]{0,8})`)},
}

// unlabeledPatterns match bare values with no label at all. Used only as a
// final sweep for fields still missing after every other strategy.
var unlabeledPatterns = []fieldPattern{
	{"trackingNumber", regexp.MustCompile(`\b([A-Z]{1,4}\d{8,26}|\d{4,8}[A-Z]{2,4}\d{4,12})\b`)},
	{"shipDate", regexp.MustCompile(`\b(\d{1,2}[\/\-.]\d{1,2}[\/\-.]\d{2,4})\b`)},
	{"weight", regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?\s*(?:kg|lbs?|oz|g))\b`)},
	{"postalCode", regexp.MustCompile(`\b(\d{5}(?:-\d{4})?|[A-Z]\d[A-Z]\s?\d[A-Z]\d|[A-Z]{1,2}\d[A-Z\d]?\s?\d[A-Z]{2})\b`)},
}

// keyValueLineRe matches one "label: value" line. Separators are a colon,
// equals sign, or dash; the label may not contain any of them.
var keyValueLineRe = regexp.MustCompile(`^([^:=\-]+)[:=\-]\s*(.+)$`)

// addressBlockLabels marks the start of a label-then-indented-lines address
// block and names the fields the block fills.
type addressBlockLabel struct {
	re         *regexp.Regexp
	nameKey    string
	addressKey string
}

var addressBlockLabels = []addressBlockLabel{
	{regexp.MustCompile(`(?i)^\s*(?:ship\s*to|deliver\s*to|to)\s*:?\s*$`), "recipientName", "recipientAddress"},
	{regexp.MustCompile(`(?i)^\s*(?:ship\s*from|return\s*to|from)\s*:?\s*$`), "shipperName", "shipperAddress"},
}
