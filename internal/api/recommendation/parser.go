package recommendation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/d8app/d8-backend/internal/types"
	"github.com/google/uuid"
)

var (
	fencedArrayRe = regexp.MustCompile("(?s)```json\\s*(\\[.*?\\])\\s*```")
	bareArrayRe   = regexp.MustCompile(`(?s)(\[.*?\])`)
	firstObjectRe = regexp.MustCompile(`\{[^{}]*\}`)
)

// extractRecommendationObjects recovers a JSON array from free-form model
// text. Strategies are applied in order until one yields parseable JSON:
// a fenced code block, the first bracket-delimited substring, a
// line-by-line bracket-balanced scan, and finally the first
// brace-delimited object treated as a one-element array.
func extractRecommendationObjects(text string) ([]map[string]any, error) {
	if m := fencedArrayRe.FindStringSubmatch(text); m != nil {
		if objs, err := parseObjectArray(m[1]); err == nil {
			return objs, nil
		}
	}

	if m := bareArrayRe.FindStringSubmatch(text); m != nil {
		if objs, err := parseObjectArray(m[1]); err == nil {
			return objs, nil
		}
		if candidate := accumulateArrayLines(text); candidate != "" {
			if objs, err := parseObjectArray(candidate); err == nil {
				return objs, nil
			}
		}
		if m := firstObjectRe.FindString(text); m != "" {
			if objs, err := parseObjectArray("[" + m + "]"); err == nil {
				return objs, nil
			}
		}
		return nil, fmt.Errorf("no valid JSON found in completion response")
	}

	if m := firstObjectRe.FindString(text); m != "" {
		if objs, err := parseObjectArray("[" + m + "]"); err == nil {
			return objs, nil
		}
	}
	return nil, fmt.Errorf("no valid JSON found in completion response")
}

func parseObjectArray(s string) ([]map[string]any, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, err
	}
	objs := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		var obj map[string]any
		if err := json.Unmarshal(r, &obj); err != nil {
			// Non-object array elements are skipped, not fatal.
			continue
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

// accumulateArrayLines collects lines from the first '['-prefixed line
// until brackets balance again, to recover an array the greedy substring
// match mangled.
func accumulateArrayLines(text string) string {
	var lines []string
	inArray := false
	depth := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !inArray && strings.HasPrefix(line, "[") {
			inArray = true
		}
		if !inArray {
			continue
		}
		lines = append(lines, line)
		depth += strings.Count(line, "[") - strings.Count(line, "]")
		if depth == 0 && strings.HasSuffix(line, "]") {
			break
		}
	}
	return strings.Join(lines, "\n")
}

// Field defaults applied when the model omits or mistypes a value.
const (
	defaultName       = "Unknown Restaurant"
	defaultPriceLevel = types.PriceMedium
	defaultRating     = 4.0
)

// recommendationFromObject coerces one parsed JSON object into a typed
// Recommendation, substituting defaults for missing fields.
func recommendationFromObject(obj map[string]any) types.Recommendation {
	return types.Recommendation{
		ID:             uuid.New(),
		Name:           stringField(obj, "name", defaultName),
		Description:    stringField(obj, "description", ""),
		Location:       stringField(obj, "location", ""),
		Address:        stringField(obj, "address", ""),
		Latitude:       floatField(obj, "latitude", 0),
		Longitude:      floatField(obj, "longitude", 0),
		CuisineType:    stringField(obj, "cuisine_type", ""),
		PriceLevel:     stringField(obj, "price_level", defaultPriceLevel),
		IsOpen:         boolField(obj, "is_open", true),
		OpenHours:      stringField(obj, "open_hours", ""),
		Rating:         floatField(obj, "rating", defaultRating),
		WhyRecommended: stringField(obj, "why_recommended", ""),
		EstimatedCost:  stringField(obj, "estimated_cost", ""),
		BestTime:       stringField(obj, "best_time", ""),
		Duration:       stringField(obj, "duration", ""),
		Pros:           stringSliceField(obj, "pros"),
		Cons:           stringSliceField(obj, "cons"),
	}
}

func stringField(obj map[string]any, key, fallback string) string {
	if v, ok := obj[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func floatField(obj map[string]any, key string, fallback float64) float64 {
	switch v := obj[key].(type) {
	case float64:
		return v
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return fallback
}

func boolField(obj map[string]any, key string, fallback bool) bool {
	if v, ok := obj[key].(bool); ok {
		return v
	}
	return fallback
}

func stringSliceField(obj map[string]any, key string) []string {
	raw, ok := obj[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
