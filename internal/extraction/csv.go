package extraction

import (
	"log/slog"
	"strings"

	"shipgate/internal/rules"
)

// CSVExtractor maps CSV exports onto canonical fields. Parsing is a
// character scan, not a naive split: quoted cells may contain commas and
// both `""` and `\"` escapes.
type CSVExtractor struct {
	catalog *rules.Catalog
	logger  *slog.Logger
}

// NewCSV constructs a CSV extractor over the shared rule catalog.
func NewCSV(catalog *rules.Catalog, logger *slog.Logger) *CSVExtractor {
	return &CSVExtractor{catalog: catalog, logger: logger}
}

// ParseCSV parses a single logical record from the first data row. An empty
// map means the text is not usable as CSV and the caller should fall back to
// free-text extraction.
func (c *CSVExtractor) ParseCSV(text string) map[string]string {
	records := c.parse(text)
	if len(records) == 0 {
		return map[string]string{}
	}
	return records[0]
}

// ParseMultipleRowsCSV parses every data row into its own field map.
func (c *CSVExtractor) ParseMultipleRowsCSV(text string) []map[string]string {
	return c.parse(text)
}

func (c *CSVExtractor) parse(text string) []map[string]string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimRight(line, "\r"))
		}
	}
	if len(lines) < 2 {
		return nil
	}

	headers := parseCSVLine(lines[0])
	dataRows := lines[1:]

	// Mixed-format recovery: a first cell that itself reads as a re-quoted
	// multi-field line means the "table" is really key/value lines exported
	// through one more layer of quoting.
	firstData := parseCSVLine(dataRows[0])
	if c.looksLikeRequotedHeader(headers[0]) ||
		(len(firstData) > 0 && c.looksLikeRequotedHeader(firstData[0])) {
		fields := c.parseAdHocKeyValue(lines)
		if len(fields) == 0 {
			return nil
		}
		return []map[string]string{fields}
	}

	// A single-column table is not usable as CSV; let the caller fall back
	// to free-text extraction.
	if len(headers) < 2 {
		return nil
	}

	var out []map[string]string
	for _, row := range dataRows {
		values := redistributeFirstValue(headers, parseCSVLine(row))
		for len(values) < len(headers) {
			// Short rows pad with empty values, never an error.
			values = append(values, "")
		}

		fields := make(map[string]string, len(headers))
		for i, header := range headers {
			key := c.mapHeader(header)
			if key == "" {
				continue
			}
			if existing, ok := fields[key]; ok && existing != "" {
				continue
			}
			fields[key] = values[i]
		}
		if len(fields) == 0 {
			continue
		}
		ExtractNameAndAddressComponents(fields)
		NormalizeFieldNames(fields)
		out = append(out, fields)
	}
	return out
}

// parseCSVLine splits one line into cells. Inside quotes, `""` and `\"` both
// produce a literal quote; commas only split outside quotes.
func parseCSVLine(line string) []string {
	var cells []string
	var b strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '\\' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			b.WriteByte('"')
			i++
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				b.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			cells = append(cells, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteByte(ch)
		}
	}
	cells = append(cells, strings.TrimSpace(b.String()))
	return cells
}

// redistributeFirstValue repairs rows where a quoted first cell swallowed the
// leading columns. When a row is short and its first value re-parses into
// enough tokens to cover the deficit, the leading tokens become their own
// columns and the remainder stays joined.
func redistributeFirstValue(headers, values []string) []string {
	if len(values) == 0 || len(values) >= len(headers) {
		return values
	}
	tokens := parseCSVLine(values[0])
	deficit := len(headers) - len(values)
	if len(tokens) < deficit+1 {
		return values
	}
	repaired := make([]string, 0, len(headers))
	repaired = append(repaired, tokens[:deficit]...)
	repaired = append(repaired, strings.Join(tokens[deficit:], ", "))
	repaired = append(repaired, values[1:]...)
	return repaired
}

// mapHeader resolves a header cell to a canonical field key: rule display
// names first, then the synonym table, then the mechanical fallback.
func (c *CSVExtractor) mapHeader(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if c.catalog != nil {
		for _, r := range c.catalog.AllRules() {
			if strings.EqualFold(r.DisplayName, header) {
				return r.FieldKey
			}
		}
	}
	lookup := whitespaceRe.ReplaceAllString(strings.ToLower(header), " ")
	if canonical, ok := headerSynonyms[lookup]; ok {
		return canonical
	}
	return StandardizeFieldKey(header)
}

// looksLikeRequotedHeader reports whether a single cell re-parses into
// multiple comma-separated tokens where at least half resolve to known field
// labels. "label,value" lines hit exactly half, so the test is at-least-half
// rather than strict majority.
func (c *CSVExtractor) looksLikeRequotedHeader(cell string) bool {
	tokens := parseCSVLine(cell)
	if len(tokens) < 2 {
		return false
	}
	known := 0
	for _, tok := range tokens {
		lookup := whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(tok)), " ")
		if _, ok := headerSynonyms[lookup]; ok {
			known++
		}
	}
	return known > 0 && known*2 >= len(tokens)
}

// parseAdHocKeyValue treats every line as one "label, value" pair, unwrapping
// one layer of quoting when a line collapsed into a single cell.
func (c *CSVExtractor) parseAdHocKeyValue(lines []string) map[string]string {
	fields := make(map[string]string)
	for _, line := range lines {
		cells := parseCSVLine(line)
		if len(cells) == 1 {
			if sub := parseCSVLine(cells[0]); len(sub) >= 2 {
				cells = sub
			}
		}
		if len(cells) < 2 {
			continue
		}
		key := c.mapHeader(cells[0])
		value := strings.TrimSpace(strings.Join(cells[1:], ", "))
		if key == "" || value == "" {
			continue
		}
		if _, ok := fields[key]; ok {
			continue
		}
		fields[key] = value
	}
	ExtractNameAndAddressComponents(fields)
	NormalizeFieldNames(fields)
	return fields
}
