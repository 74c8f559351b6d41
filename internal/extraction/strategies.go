package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Strategy is one extraction attempt over raw text. A nil or empty field map
// means the strategy produced nothing and the cascade moves on; strategies
// must not fail loudly — recoverable problems surface as warnings.
type Strategy struct {
	Name    string
	Extract func(ctx context.Context, text string) (map[string]string, []string)
}

// runCascade applies strategies in order and returns the first non-empty
// result along with the name of the strategy that produced it. Warnings from
// failed attempts are accumulated across the whole cascade.
func runCascade(ctx context.Context, text string, strategies []Strategy) (map[string]string, string, []string) {
	var warnings []string
	for _, s := range strategies {
		fields, w := s.Extract(ctx, text)
		warnings = append(warnings, w...)
		if len(fields) > 0 {
			return fields, s.Name, warnings
		}
	}
	return map[string]string{}, "", warnings
}

// jsonStrategy decodes text that is already a JSON document. Arrays use only
// the first element. Keys pass through StandardizeFieldKey.
func jsonStrategy(_ context.Context, text string) (map[string]string, []string) {
	trimmed := strings.TrimSpace(text)
	isObject := strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")
	isArray := strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")
	if !isObject && !isArray {
		return nil, nil
	}

	var raw map[string]any
	if isArray {
		var list []map[string]any
		if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
			return nil, []string{"input looked like JSON but failed to parse: " + err.Error()}
		}
		if len(list) == 0 {
			return nil, nil
		}
		raw = list[0]
	} else {
		if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
			return nil, []string{"input looked like JSON but failed to parse: " + err.Error()}
		}
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		key := StandardizeFieldKey(k)
		if key == "" || v == nil {
			continue
		}
		fields[key] = stringifyJSONValue(v)
	}
	return fields, nil
}

func stringifyJSONValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// Render integers without the trailing ".000000".
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(data)
	}
}

// keyValueLineStrategy parses "label: value" lines, one field per line.
func keyValueLineStrategy(_ context.Context, text string) (map[string]string, []string) {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := keyValueLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := StandardizeFieldKey(m[1])
		value := strings.TrimSpace(m[2])
		if key == "" || value == "" {
			continue
		}
		if _, ok := fields[key]; ok {
			continue
		}
		fields[key] = value
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

// regexSweepStrategy applies the labeled field-pattern table independently;
// a field already found by an earlier pattern is not overwritten.
func regexSweepStrategy(_ context.Context, text string) (map[string]string, []string) {
	fields := make(map[string]string)
	for _, p := range fieldPatterns {
		if _, ok := fields[p.fieldKey]; ok {
			continue
		}
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if value != "" {
			fields[p.fieldKey] = value
		}
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

// applyAddressBlocks scans for "To:"/"From:" style labels followed by 2-6
// short lines and fills the matching name/address fields. Additive only:
// fields already present are left alone.
func applyAddressBlocks(text string, fields map[string]string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		for _, label := range addressBlockLabels {
			if !label.re.MatchString(line) {
				continue
			}
			var block []string
			for j := i + 1; j < len(lines) && len(block) < 6; j++ {
				candidate := strings.TrimSpace(lines[j])
				if candidate == "" || keyValueLineRe.MatchString(candidate) {
					break
				}
				block = append(block, candidate)
			}
			if len(block) < 2 {
				continue
			}
			if _, ok := fields[label.nameKey]; !ok {
				fields[label.nameKey] = block[0]
			}
			if _, ok := fields[label.addressKey]; !ok {
				fields[label.addressKey] = strings.Join(block[1:], ", ")
			}
		}
	}
}

// applyUnlabeledSweep fills still-missing fields from bare unlabeled values.
// Additive only.
func applyUnlabeledSweep(text string, fields map[string]string) {
	for _, p := range unlabeledPatterns {
		if existing, ok := fields[p.fieldKey]; ok && strings.TrimSpace(existing) != "" {
			continue
		}
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if value != "" {
			fields[p.fieldKey] = value
		}
	}
}
