package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Difficulty is an ordinal preparation difficulty. The zero value means unknown.
type Difficulty int

const (
	DifficultyUnknown Difficulty = iota
	DifficultyEasy
	DifficultyMedium
	DifficultyHard
)

// difficultyNames maps accepted spellings to a difficulty level
var difficultyNames = map[string]Difficulty{
	"":             DifficultyUnknown,
	"unknown":      DifficultyUnknown,
	"easy":         DifficultyEasy,
	"simple":       DifficultyEasy,
	"beginner":     DifficultyEasy,
	"medium":       DifficultyMedium,
	"moderate":     DifficultyMedium,
	"intermediate": DifficultyMedium,
	"hard":         DifficultyHard,
	"tough":        DifficultyHard,
	"difficult":    DifficultyHard,
	"advanced":     DifficultyHard,
}

// DifficultyVocabulary lists the canonical difficulty names, lowest first
var DifficultyVocabulary = []string{"easy", "medium", "hard"}

// ParseDifficulty maps a free-text difficulty to a level.
// ok is false when the text is not a recognized difficulty.
func ParseDifficulty(s string) (Difficulty, bool) {
	d, ok := difficultyNames[strings.ToLower(strings.TrimSpace(s))]
	return d, ok
}

// String returns the canonical name of the difficulty
func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "unknown"
	}
}

// Known reports whether the difficulty is set
func (d Difficulty) Known() bool {
	return d >= DifficultyEasy && d <= DifficultyHard
}

// MarshalJSON encodes the difficulty as its canonical name
func (d Difficulty) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a difficulty name. Unrecognized names decode as unknown.
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("difficulty must be a string: %w", err)
	}
	parsed, _ := ParseDifficulty(s)
	*d = parsed
	return nil
}

// Recipe is a single corpus entry. Recipes are immutable once loaded.
type Recipe struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	ImageRef    string     `json:"image_ref,omitempty"`
	SourceURL   string     `json:"source_url,omitempty"`
	Ingredients []string   `json:"ingredients"`
	Cuisine     string     `json:"cuisine,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	TimeMinutes *int       `json:"time_minutes,omitempty"`
}

// HasCuisine reports whether the recipe carries any cuisine classification
func (r *Recipe) HasCuisine() bool {
	return len(r.CuisineTags()) > 0
}

// CuisineTags returns the lowercased cuisine and tags, skipping unknown values
func (r *Recipe) CuisineTags() []string {
	var tags []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || s == "unknown" {
			return
		}
		for _, t := range tags {
			if t == s {
				return
			}
		}
		tags = append(tags, s)
	}
	add(r.Cuisine)
	for _, t := range r.Tags {
		add(t)
	}
	return tags
}

// DisplayTitle returns the title, falling back to the source site's domain
func (r *Recipe) DisplayTitle() string {
	if title := strings.TrimSpace(r.Title); title != "" {
		return title
	}
	if domain := registrableDomain(r.SourceURL); domain != "" {
		return domain
	}
	return "Untitled Recipe"
}

func registrableDomain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return strings.TrimPrefix(host, "www.")
	}
	return domain
}

var (
	// durationPartRegex matches "1.5 hours", "15 min", "2h" and similar fragments
	durationPartRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|minutes?|mins?|m)?\b`)
	// durationRangeRegex matches "30-45", "1 - 2" and "20 to 30"
	durationRangeRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:-|\x{2013}|\bto\b)\s*(\d+(?:\.\d+)?)`)
)

// ParseMinutes converts a scraped time string such as "30 minutes",
// "1.5 hours" or "1 hour 15 minutes" into whole minutes. A range such as
// "30-45 minutes" counts as its upper bound, and a number without a unit
// takes the unit of the fragment after it ("1 to 2 hours"), else minutes.
// ok is false for "unknown", empty or unparseable input.
func ParseMinutes(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "unknown" {
		return 0, false
	}
	s = durationRangeRegex.ReplaceAllString(s, "$2")

	parts := durationPartRegex.FindAllStringSubmatch(s, -1)
	if len(parts) == 0 {
		return 0, false
	}

	total := 0.0
	unit := ""
	for i := len(parts) - 1; i >= 0; i-- {
		value, err := strconv.ParseFloat(parts[i][1], 64)
		if err != nil {
			return 0, false
		}
		if parts[i][2] != "" {
			unit = parts[i][2]
		}
		if strings.HasPrefix(unit, "h") {
			value *= 60
		}
		total += value
	}
	return int(total + 0.5), true
}
