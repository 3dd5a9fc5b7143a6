package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
)

// parseWhitepaperDelta keeps string values under known section keys.
// Anything else in the object is dropped.
func parseWhitepaperDelta(raw string, isSection func(string) bool) (map[string]string, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, err
	}
	delta := make(map[string]string, len(obj))
	for k, v := range obj {
		s, ok := v.(string)
		if !ok || !isSection(k) {
			continue
		}
		delta[k] = s
	}
	return delta, nil
}

// parseNewRules returns the well-formed entries to persist and every entry
// as the model sent it.
func parseNewRules(raw string, isCategory func(string) bool) (valid, all []RuleEntry, err error) {
	var items []map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, nil, err
	}
	all = make([]RuleEntry, 0, len(items))
	for _, item := range items {
		category, _ := item["category"].(string)
		text, _ := item["rule_text"].(string)
		all = append(all, RuleEntry{Category: category, RuleText: text})

		category = strings.TrimSpace(category)
		text = strings.TrimSpace(text)
		if category == "" || text == "" || !isCategory(category) {
			continue
		}
		valid = append(valid, RuleEntry{Category: category, RuleText: text})
	}
	return valid, all, nil
}

// parsePhaseInfo decodes the phase object and its integer phase. A missing
// current_phase means phase 1.
func parsePhaseInfo(raw string) (PhaseInfoPayload, int, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		return nil, 0, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, 0, fmt.Errorf("phase_info has trailing data")
	}
	if obj == nil {
		return nil, 0, fmt.Errorf("phase_info is not an object")
	}

	v, ok := obj["current_phase"]
	if !ok {
		return obj, 1, nil
	}
	num, ok := v.(json.Number)
	if !ok {
		return nil, 0, fmt.Errorf("current_phase is not a number")
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) {
		return nil, 0, fmt.Errorf("current_phase %q is not an integer", num)
	}
	if f < 1 || f > math.MaxInt32 {
		return nil, 0, fmt.Errorf("current_phase %q is out of range", num)
	}
	return obj, int(f), nil
}
