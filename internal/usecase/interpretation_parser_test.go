package usecase

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shanto268/DishCord/internal/domain"
)

func TestParseInterpretation(t *testing.T) {
	t.Run("flat shape", func(t *testing.T) {
		got, err := parseInterpretation(`{"ingredients":["shrimp","garlic"],"cuisine":"Italian","difficulty":"easy","max_time_minutes":30,"result_count":3}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		f := got.Filter
		if !reflect.DeepEqual(f.RequestedIngredients, []string{"shrimp", "garlic"}) {
			t.Errorf("ingredients = %v", f.RequestedIngredients)
		}
		if f.Cuisine != "italian" {
			t.Errorf("cuisine = %q, want italian", f.Cuisine)
		}
		if f.Difficulty == nil || f.Difficulty.Min != domain.DifficultyEasy || f.Difficulty.Max != domain.DifficultyEasy {
			t.Errorf("difficulty = %+v, want easy", f.Difficulty)
		}
		if f.MaxTimeMinutes == nil || *f.MaxTimeMinutes != 30 {
			t.Errorf("max time = %v, want 30", f.MaxTimeMinutes)
		}
		if f.ResultCount != 3 {
			t.Errorf("result count = %d, want 3", f.ResultCount)
		}
		if len(got.Warnings) != 0 {
			t.Errorf("warnings = %v, want none", got.Warnings)
		}
	})

	t.Run("nested action shape with surrounding prose", func(t *testing.T) {
		text := "Sure! Here you go:\n```json\n{\"action\": \"show\", \"filters\": {\"type\": \"Mexican\", \"ingredients\": \"chicken, lime, and cilantro\", \"difficulty\": \"tough\"}, \"limit\": 4}\n```"
		got, err := parseInterpretation(text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		f := got.Filter
		if !reflect.DeepEqual(f.RequestedIngredients, []string{"chicken", "lime", "cilantro"}) {
			t.Errorf("ingredients = %v", f.RequestedIngredients)
		}
		if f.Cuisine != "mexican" || f.ResultCount != 4 {
			t.Errorf("cuisine = %q count = %d", f.Cuisine, f.ResultCount)
		}
		if f.Difficulty == nil || f.Difficulty.Max != domain.DifficultyHard {
			t.Errorf("difficulty = %+v, want hard", f.Difficulty)
		}
	})

	t.Run("drops unusable fields with warnings", func(t *testing.T) {
		got, err := parseInterpretation(`{"ingredients":["tofu", 7],"difficulty":"impossible","result_count":"lots","mood":"hungry"}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(got.Filter.RequestedIngredients, []string{"tofu"}) {
			t.Errorf("ingredients = %v", got.Filter.RequestedIngredients)
		}
		if got.Filter.Difficulty != nil || got.Filter.ResultCount != 0 {
			t.Errorf("filter = %+v, want difficulty and count dropped", got.Filter)
		}
		if len(got.Warnings) != 4 {
			t.Errorf("warnings = %v, want 4", got.Warnings)
		}
	})

	t.Run("null fields are unset", func(t *testing.T) {
		got, err := parseInterpretation(`{"ingredients":null,"cuisine":null,"difficulty":null,"max_time_minutes":null,"result_count":null}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Filter.HasAttributeConstraints() || len(got.Filter.RequestedIngredients) != 0 {
			t.Errorf("filter = %+v, want empty", got.Filter)
		}
	})

	t.Run("time as duration string", func(t *testing.T) {
		got, err := parseInterpretation(`{"max_time":"1.5 hours"}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Filter.MaxTimeMinutes == nil || *got.Filter.MaxTimeMinutes != 90 {
			t.Errorf("max time = %v, want 90", got.Filter.MaxTimeMinutes)
		}
	})

	t.Run("difficulty list becomes range", func(t *testing.T) {
		got, err := parseInterpretation(`{"difficulty":["medium","easy"]}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		d := got.Filter.Difficulty
		if d == nil || d.Min != domain.DifficultyEasy || d.Max != domain.DifficultyMedium {
			t.Errorf("difficulty = %+v, want easy..medium", d)
		}
	})

	malformed := []struct {
		name string
		text string
	}{
		{"prose only", "I think you should make pasta."},
		{"broken json", `{"ingredients": ["shrimp"`},
		{"no recognized keys", `{"recipe": "pasta"}`},
		{"array not object", `["shrimp"]`},
	}
	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseInterpretation(tt.text)
			if !errors.Is(err, domain.ErrInterpreterMalformed) {
				t.Errorf("error = %v, want ErrInterpreterMalformed", err)
			}
		})
	}
}

func TestParseIngredientList(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  []string
	}{
		{"comma string", "shrimp, garlic; lemon", []string{"shrimp", "garlic", "lemon"}},
		{"serial and", "salt, pepper, and thyme", []string{"salt", "pepper", "thyme"}},
		{"keeps dish names with and", "mac and cheese, salt and pepper", []string{"mac and cheese", "salt and pepper"}},
		{"ampersand item", "rice, & beans", []string{"rice", "beans"}},
		{"list kept as is", []interface{}{"mac and cheese", " tofu "}, []string{"mac and cheese", "tofu"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped := parseIngredientList(tt.input)
			if dropped != 0 {
				t.Errorf("dropped = %d, want 0", dropped)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseIngredientList(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
