package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DifficultyRange is an inclusive range of acceptable difficulties
type DifficultyRange struct {
	Min Difficulty `json:"min"`
	Max Difficulty `json:"max"`
}

// ExactDifficulty returns a range matching only d
func ExactDifficulty(d Difficulty) *DifficultyRange {
	return &DifficultyRange{Min: d, Max: d}
}

// Contains reports whether d falls inside the range
func (r DifficultyRange) Contains(d Difficulty) bool {
	return d >= r.Min && d <= r.Max
}

// UnmarshalJSON accepts either a single difficulty name or a {min, max} object
func (r *DifficultyRange) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		d, ok := ParseDifficulty(single)
		if !ok || !d.Known() {
			return fmt.Errorf("unknown difficulty %q", single)
		}
		*r = DifficultyRange{Min: d, Max: d}
		return nil
	}

	var obj struct {
		Min Difficulty `json:"min"`
		Max Difficulty `json:"max"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("difficulty must be a name or a {min,max} object: %w", err)
	}
	*r = DifficultyRange{Min: obj.Min, Max: obj.Max}
	return nil
}

// StructuredFilter is the validated form of one query's intent.
// A filter with every field unset means "any recipe, default count".
type StructuredFilter struct {
	RequestedIngredients []string         `json:"requested_ingredients"`
	Cuisine              string           `json:"cuisine,omitempty"`
	Difficulty           *DifficultyRange `json:"difficulty,omitempty"`
	MaxTimeMinutes       *int             `json:"max_time_minutes,omitempty"`
	ResultCount          int              `json:"result_count"`
	IngredientsMandatory bool             `json:"ingredients_mandatory,omitempty"`
}

// HasAttributeConstraints reports whether any non-ingredient constraint is set
func (f *StructuredFilter) HasAttributeConstraints() bool {
	return f.Cuisine != "" || f.Difficulty != nil || f.MaxTimeMinutes != nil
}

// ResultLimits bounds the number of results a query may ask for
type ResultLimits struct {
	Default int
	Min     int
	Max     int
}

// DefaultResultLimits are used when no limits are configured
var DefaultResultLimits = ResultLimits{Default: 5, Min: 1, Max: 10}

// normalized fills unset or inconsistent limits from the defaults
func (l ResultLimits) normalized() ResultLimits {
	if l.Min <= 0 {
		l.Min = DefaultResultLimits.Min
	}
	if l.Max <= 0 {
		l.Max = DefaultResultLimits.Max
	}
	if l.Max < l.Min {
		l.Max = l.Min
	}
	if l.Default <= 0 {
		l.Default = DefaultResultLimits.Default
	}
	if l.Default < l.Min {
		l.Default = l.Min
	}
	if l.Default > l.Max {
		l.Default = l.Max
	}
	return l
}

// Clamp returns a copy of the filter with every field forced into its valid
// range. Out-of-range values are clamped or dropped, never rejected; each
// adjustment is described in the returned warnings.
func (f StructuredFilter) Clamp(limits ResultLimits) (StructuredFilter, []string) {
	limits = limits.normalized()
	var warnings []string

	out := StructuredFilter{IngredientsMandatory: f.IngredientsMandatory}

	seen := make(map[string]bool, len(f.RequestedIngredients))
	for _, ing := range f.RequestedIngredients {
		ing = strings.TrimSpace(ing)
		key := strings.ToLower(ing)
		if ing == "" || seen[key] {
			continue
		}
		seen[key] = true
		out.RequestedIngredients = append(out.RequestedIngredients, ing)
	}
	if out.RequestedIngredients == nil {
		out.RequestedIngredients = []string{}
	}

	cuisine := strings.ToLower(strings.TrimSpace(f.Cuisine))
	switch cuisine {
	case "", "unknown", "any", "none":
	default:
		out.Cuisine = cuisine
	}

	if f.Difficulty != nil {
		r := *f.Difficulty
		switch {
		case !r.Min.Known() && !r.Max.Known():
			warnings = append(warnings, "difficulty: no known level, constraint dropped")
		default:
			if !r.Min.Known() {
				r.Min = DifficultyEasy
			}
			if !r.Max.Known() {
				r.Max = DifficultyHard
			}
			if r.Min > r.Max {
				warnings = append(warnings, fmt.Sprintf("difficulty: range %s..%s reversed", r.Min, r.Max))
				r.Min, r.Max = r.Max, r.Min
			}
			out.Difficulty = &r
		}
	}

	if f.MaxTimeMinutes != nil {
		if *f.MaxTimeMinutes < 0 {
			warnings = append(warnings, fmt.Sprintf("max_time_minutes: %d is negative, constraint dropped", *f.MaxTimeMinutes))
		} else {
			v := *f.MaxTimeMinutes
			out.MaxTimeMinutes = &v
		}
	}

	switch {
	case f.ResultCount == 0:
		out.ResultCount = limits.Default
	case f.ResultCount < limits.Min:
		warnings = append(warnings, fmt.Sprintf("result_count: %d clamped to %d", f.ResultCount, limits.Min))
		out.ResultCount = limits.Min
	case f.ResultCount > limits.Max:
		warnings = append(warnings, fmt.Sprintf("result_count: %d clamped to %d", f.ResultCount, limits.Max))
		out.ResultCount = limits.Max
	default:
		out.ResultCount = f.ResultCount
	}

	return out, warnings
}
