package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Outcome tags how far down the recovery cascade a provider response had to
// travel before it parsed.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"            // parsed directly after fence stripping
	OutcomeRepaired      Outcome = "repaired"      // needed span location and/or comma repair
	OutcomeUnrecoverable Outcome = "unrecoverable" // nothing parsed
)

var trailingCommas = regexp.MustCompile(`,\s*([}\]])`)

// DecodeArray recovers a JSON transaction array from near-JSON provider
// output. The cascade is tried in order until one step parses:
//  1. strip code fences, parse directly;
//  2. locate the first '[' .. last ']' span and parse that substring;
//  3. strip trailing commas before '}' / ']' inside the span and parse again.
//
// The raw content is never evaluated, only parsed.
func DecodeArray(raw string) ([]json.RawMessage, Outcome, error) {
	stripped := stripCodeFences(raw)

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(stripped), &elements); err == nil {
		return elements, OutcomeOK, nil
	}

	start := strings.Index(stripped, "[")
	end := strings.LastIndex(stripped, "]")
	if start == -1 || end <= start {
		return nil, OutcomeUnrecoverable, fmt.Errorf("no JSON array found in response")
	}
	span := stripped[start : end+1]

	if err := json.Unmarshal([]byte(span), &elements); err == nil {
		return elements, OutcomeRepaired, nil
	}

	repaired := trailingCommas.ReplaceAllString(span, "$1")
	if err := json.Unmarshal([]byte(repaired), &elements); err != nil {
		return nil, OutcomeUnrecoverable, fmt.Errorf("parse repaired array: %w", err)
	}
	return elements, OutcomeRepaired, nil
}

// stripCodeFences removes markdown ``` wrappers the model sometimes adds
// despite instructions.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
