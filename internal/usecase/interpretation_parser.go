package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shanto268/DishCord/internal/domain"
)

var (
	// interpretationSplitPattern splits a comma-separated ingredient string.
	// "and" is left alone so "mac and cheese" stays one ingredient.
	interpretationSplitPattern = regexp.MustCompile(`\s*[,;]\s*`)
	// listConjunctionPattern is the "and" opening the last item of "a, b, and c"
	listConjunctionPattern = regexp.MustCompile(`(?i)^(?:and|&)\s+`)
)

// Accepted keys for each filter field, in priority order
var (
	ingredientKeys = []string{"ingredients", "requested_ingredients", "ingredient"}
	cuisineKeys    = []string{"cuisine", "type", "cuisine_type", "cuisines"}
	difficultyKeys = []string{"difficulty", "difficulty_level"}
	maxTimeKeys    = []string{"max_time_minutes", "max_time", "max_minutes", "time_minutes", "time"}
	countKeys      = []string{"result_count", "limit", "count", "number"}
	mandatoryKeys  = []string{"ingredients_mandatory", "require_all", "mandatory"}
	// ignoredKeys are recognized but carry nothing the filter uses
	ignoredKeys = []string{"action", "filters", "query", "intent"}
)

// parsedInterpretation is the outcome of decoding one interpreter response
type parsedInterpretation struct {
	Filter   domain.StructuredFilter
	Warnings []string
}

// parseInterpretation decodes interpreter text into a filter. Text around the
// outermost JSON object is ignored. Fields that cannot be used are dropped and
// reported as warnings. The error wraps ErrInterpreterMalformed when no JSON
// object with at least one recognized key can be found.
func parseInterpretation(text string) (parsedInterpretation, error) {
	var out parsedInterpretation

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return out, fmt.Errorf("%w: no JSON object in response", domain.ErrInterpreterMalformed)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return out, fmt.Errorf("%w: %v", domain.ErrInterpreterMalformed, err)
	}

	// The nested {"action", "filters": {...}, "limit"} shape is flattened,
	// with nested filter fields taking precedence
	fields := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		fields[strings.ToLower(k)] = v
	}
	if nested, ok := fields["filters"].(map[string]interface{}); ok {
		for k, v := range nested {
			fields[strings.ToLower(k)] = v
		}
	}

	known := make(map[string]bool)
	for _, group := range [][]string{ingredientKeys, cuisineKeys, difficultyKeys, maxTimeKeys, countKeys, mandatoryKeys, ignoredKeys} {
		for _, k := range group {
			known[k] = true
		}
	}

	recognized := false
	var unknownKeys []string
	for k := range fields {
		if known[k] {
			recognized = true
		} else {
			unknownKeys = append(unknownKeys, k)
		}
	}
	if !recognized {
		return out, fmt.Errorf("%w: no filter fields in response", domain.ErrInterpreterMalformed)
	}
	sort.Strings(unknownKeys)
	for _, k := range unknownKeys {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%s: unknown field dropped", k))
	}

	warn := func(format string, args ...interface{}) {
		out.Warnings = append(out.Warnings, fmt.Sprintf(format, args...))
	}

	if key, v, ok := firstPresent(fields, ingredientKeys); ok {
		ingredients, dropped := parseIngredientList(v)
		out.Filter.RequestedIngredients = ingredients
		if dropped > 0 {
			warn("%s: %d non-text entries dropped", key, dropped)
		}
	}

	if key, v, ok := firstPresent(fields, cuisineKeys); ok {
		if cuisine, ok := parseCuisine(v); ok {
			out.Filter.Cuisine = cuisine
		} else {
			warn("%s: unusable value %v dropped", key, v)
		}
	}

	if key, v, ok := firstPresent(fields, difficultyKeys); ok {
		if r, ok := parseDifficultyValue(v); ok {
			out.Filter.Difficulty = r
		} else {
			warn("%s: unusable value %v dropped", key, v)
		}
	}

	if key, v, ok := firstPresent(fields, maxTimeKeys); ok {
		if minutes, ok := parseMinutesValue(v); ok {
			out.Filter.MaxTimeMinutes = &minutes
		} else {
			warn("%s: unusable value %v dropped", key, v)
		}
	}

	if key, v, ok := firstPresent(fields, countKeys); ok {
		if n, ok := parseIntValue(v); ok {
			out.Filter.ResultCount = n
		} else {
			warn("%s: unusable value %v dropped", key, v)
		}
	}

	if key, v, ok := firstPresent(fields, mandatoryKeys); ok {
		if b, ok := v.(bool); ok {
			out.Filter.IngredientsMandatory = b
		} else {
			warn("%s: unusable value %v dropped", key, v)
		}
	}

	return out, nil
}

// firstPresent returns the first key with a non-null value
func firstPresent(fields map[string]interface{}, keys []string) (string, interface{}, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok && v != nil {
			return k, v, true
		}
	}
	return "", nil, false
}

// parseIngredientList accepts a list of strings or a comma-separated string
func parseIngredientList(v interface{}) ([]string, int) {
	var out []string
	dropped := 0
	add := func(s string) {
		for _, part := range interpretationSplitPattern.Split(s, -1) {
			part = listConjunctionPattern.ReplaceAllString(strings.TrimSpace(part), "")
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	switch val := v.(type) {
	case string:
		add(val)
	case []interface{}:
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				dropped++
				continue
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	default:
		dropped++
	}
	return out, dropped
}

// parseCuisine accepts a string or a list whose first string is used
func parseCuisine(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return normalizeCuisine(val), true
	case []interface{}:
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return normalizeCuisine(s), true
			}
		}
		return "", len(val) == 0
	}
	return "", false
}

func normalizeCuisine(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "any", "none", "unknown", "null", "all":
		return ""
	}
	return strings.TrimSuffix(s, " food")
}

// parseDifficultyValue accepts a name, a list of names or a {min, max} object
func parseDifficultyValue(v interface{}) (*domain.DifficultyRange, bool) {
	switch val := v.(type) {
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		switch s {
		case "", "any", "none", "null":
			return nil, true
		case "quick":
			return domain.ExactDifficulty(domain.DifficultyEasy), true
		}
		d, ok := domain.ParseDifficulty(s)
		if !ok {
			return nil, false
		}
		if !d.Known() {
			return nil, true
		}
		return domain.ExactDifficulty(d), true
	case []interface{}:
		var r *domain.DifficultyRange
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			d, ok := domain.ParseDifficulty(s)
			if !ok || !d.Known() {
				return nil, false
			}
			if r == nil {
				r = domain.ExactDifficulty(d)
				continue
			}
			r.Min = min(r.Min, d)
			r.Max = max(r.Max, d)
		}
		return r, true
	case map[string]interface{}:
		data, err := json.Marshal(val)
		if err != nil {
			return nil, false
		}
		var r domain.DifficultyRange
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, false
		}
		return &r, true
	}
	return nil, false
}

// parseMinutesValue accepts a number of minutes or a duration string
func parseMinutesValue(v interface{}) (int, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return int(math.Round(val)), true
	case string:
		return domain.ParseMinutes(val)
	}
	return 0, false
}

// parseIntValue accepts a JSON number or a numeric string
func parseIntValue(v interface{}) (int, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) || math.Abs(val) > math.MaxInt32 {
			return 0, false
		}
		return int(math.Round(val)), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
