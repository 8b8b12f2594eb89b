// Package corpus loads recipe corpora and publishes them as atomic snapshots.
package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shanto268/DishCord/internal/domain"
)

// Skip reasons reported by the loader
const (
	SkipMalformed     = "malformed"
	SkipNoIngredients = "no_ingredients"
	SkipDuplicateID   = "duplicate_id"
)

// maxSkipDetails caps how many individual skips a report lists
const maxSkipDetails = 50

// SkippedRecord describes one record excluded at load time
type SkippedRecord struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// LoadReport summarizes a corpus load
type LoadReport struct {
	Source  string          `json:"source"`
	Total   int             `json:"total"`
	Loaded  int             `json:"loaded"`
	Skipped int             `json:"skipped"`
	Reasons map[string]int  `json:"reasons,omitempty"`
	Skips   []SkippedRecord `json:"skips,omitempty"`
}

func (r *LoadReport) skip(index int, reason, detail string) {
	r.Skipped++
	if r.Reasons == nil {
		r.Reasons = make(map[string]int)
	}
	r.Reasons[reason]++
	if len(r.Skips) < maxSkipDetails {
		r.Skips = append(r.Skips, SkippedRecord{Index: index, Reason: reason, Detail: detail})
	}
}

// record accepts both the flat recipe layout and the scraper's nested
// {pinterest_url, source_url, recipe_data{...}} layout
type record struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	ImageRef     string        `json:"image_ref"`
	ImageURL     string        `json:"image_url"`
	SourceURL    string        `json:"source_url"`
	PinterestURL string        `json:"pinterest_url"`
	Ingredients  []string      `json:"ingredients"`
	Cuisine      string        `json:"cuisine"`
	Tags         []string      `json:"tags"`
	Difficulty   string        `json:"difficulty"`
	TimeMinutes  *float64      `json:"time_minutes"`
	Time         string        `json:"time"`
	RecipeData   *nestedRecipe `json:"recipe_data"`
	Extra        *recipeExtra  `json:"extra"`
}

type nestedRecipe struct {
	Title       string       `json:"title"`
	ImageURL    string       `json:"image_url"`
	Ingredients []string     `json:"ingredients"`
	Extra       *recipeExtra `json:"extra"`
}

type recipeExtra struct {
	Cuisines   []string `json:"cuisines"`
	Difficulty string   `json:"difficulty"`
	Time       string   `json:"time"`
}

// Parse decodes a corpus document. The document must be a JSON array of
// records, or an object with a "recipes" array. Individual records that are
// malformed, have no ingredients or repeat an id are skipped and reported.
func Parse(data []byte, source string) (*domain.Corpus, *LoadReport, error) {
	items, err := splitRecords(data)
	if err != nil {
		return nil, nil, &domain.CorpusLoadError{Source: source, Err: err}
	}

	report := &LoadReport{Source: source, Total: len(items)}
	recipes := make([]domain.Recipe, 0, len(items))
	seen := make(map[string]bool, len(items))

	for i, raw := range items {
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			report.skip(i, SkipMalformed, err.Error())
			continue
		}

		recipe := rec.toRecipe()
		if len(recipe.Ingredients) == 0 {
			report.skip(i, SkipNoIngredients, recipe.ID)
			continue
		}
		if seen[recipe.ID] {
			report.skip(i, SkipDuplicateID, recipe.ID)
			continue
		}
		seen[recipe.ID] = true
		recipes = append(recipes, recipe)
	}

	report.Loaded = len(recipes)
	return domain.NewCorpus(recipes, source), report, nil
}

// Load fetches and parses a corpus from src
func Load(ctx context.Context, src domain.CorpusSource) (*domain.Corpus, *LoadReport, error) {
	data, err := src.Fetch(ctx)
	if err != nil {
		var loadErr *domain.CorpusLoadError
		if errors.As(err, &loadErr) {
			return nil, nil, err
		}
		return nil, nil, &domain.CorpusLoadError{Source: src.Name(), Err: err}
	}
	return Parse(data, src.Name())
}

// splitRecords returns the raw record list of a corpus document
func splitRecords(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty document")
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("invalid record array: %w", err)
		}
		return items, nil
	case '{':
		var wrapper struct {
			Recipes *[]json.RawMessage `json:"recipes"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("invalid document: %w", err)
		}
		if wrapper.Recipes == nil {
			return nil, errors.New(`object document has no "recipes" array`)
		}
		return *wrapper.Recipes, nil
	}
	return nil, errors.New("document is not a collection of recipe records")
}

// toRecipe maps a decoded record to a Recipe, preferring flat fields over nested ones
func (r *record) toRecipe() domain.Recipe {
	recipe := domain.Recipe{
		ID:        strings.TrimSpace(r.ID),
		Title:     strings.TrimSpace(r.Title),
		ImageRef:  firstNonEmpty(r.ImageRef, r.ImageURL),
		SourceURL: strings.TrimSpace(r.SourceURL),
		Cuisine:   strings.TrimSpace(r.Cuisine),
		Tags:      cleanList(r.Tags),
	}

	ingredients := r.Ingredients
	extra := r.Extra
	if n := r.RecipeData; n != nil {
		if recipe.Title == "" {
			recipe.Title = strings.TrimSpace(n.Title)
		}
		if recipe.ImageRef == "" {
			recipe.ImageRef = strings.TrimSpace(n.ImageURL)
		}
		if len(ingredients) == 0 {
			ingredients = n.Ingredients
		}
		if extra == nil {
			extra = n.Extra
		}
	}
	recipe.Ingredients = cleanList(ingredients)

	difficulty := r.Difficulty
	timeText := r.Time
	if extra != nil {
		cuisines := cleanList(extra.Cuisines)
		if recipe.Cuisine == "" && len(cuisines) > 0 {
			recipe.Cuisine = cuisines[0]
		}
		if len(recipe.Tags) == 0 {
			recipe.Tags = cuisines
		}
		if difficulty == "" {
			difficulty = extra.Difficulty
		}
		if timeText == "" {
			timeText = extra.Time
		}
	}

	if d, ok := domain.ParseDifficulty(difficulty); ok {
		recipe.Difficulty = d
	}

	switch {
	case r.TimeMinutes != nil && *r.TimeMinutes >= 0:
		minutes := int(*r.TimeMinutes + 0.5)
		recipe.TimeMinutes = &minutes
	case timeText != "":
		if minutes, ok := domain.ParseMinutes(timeText); ok {
			recipe.TimeMinutes = &minutes
		}
	}

	if recipe.ID == "" {
		recipe.ID = deriveID(r.SourceURL, r.PinterestURL, recipe.Title, recipe.Ingredients)
	}
	return recipe
}

// deriveID builds a stable id for records that do not carry one
func deriveID(sourceURL, pinterestURL, title string, ingredients []string) string {
	key := firstNonEmpty(sourceURL, pinterestURL)
	if key == "" {
		key = strings.ToLower(title) + "|" + strings.ToLower(strings.Join(ingredients, "|"))
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// cleanList trims every entry and drops blanks
func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
