package usecase

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Shrimp", "shrimp"},
		{"strips quantity and unit", "2 cups low-sodium chicken broth", "chicken broth"},
		{"cuts preparation note after comma", "3 cloves garlic, minced", "garlic"},
		{"drops parenthetical and container", "1 (14.5 oz) can diced tomatoes, drained", "tomato"},
		{"cuts multi-word note", "1 lb shrimp, peeled and deveined", "shrimp"},
		{"cuts cutting note", "2 chicken breasts, cut into 1-inch pieces", "chicken breast"},
		{"keeps ingredients after comma", "Salt, black pepper, and garlic powder", "salt black pepper garlic powder"},
		{"handles unicode fraction", "½ tsp red pepper flakes", "red pepper flake"},
		{"handles ranges", "2-3 tbsp olive oil", "olive oil"},
		{"irregular plural", "Fresh Basil Leaves", "basil leaf"},
		{"drops filler phrase", "salt and pepper to taste", "salt pepper"},
		{"singularizes eggs", "2 large eggs", "egg"},
		{"ies plural", "1 cup blueberries", "blueberry"},
		{"ches plural", "4 peaches", "peach"},
		{"non plural s", "1 bunch asparagus", "asparagus"},
		{"keeps lone container word", "whole cloves", "clove"},
		{"keeps all-filler input", "fresh", "fresh"},
		{"collapses whitespace", "  red    onion  ", "red onion"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.input)
			if got.Text != tt.want {
				t.Errorf("Normalize(%q).Text = %q, want %q", tt.input, got.Text, tt.want)
			}
		})
	}
}

func TestNormalizeTokensPreserveOrder(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{})
	got := n.Normalize("1 lb boneless skinless chicken thighs")
	want := []string{"chicken", "thigh"}
	if !reflect.DeepEqual(got.Tokens, want) {
		t.Errorf("Tokens = %v, want %v", got.Tokens, want)
	}
}

func TestNormalizeParts(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{})

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single ingredient", "2 cups cooked rice", []string{"cooked rice"}},
		{"note after comma", "3 cloves garlic, minced", []string{"garlic"}},
		{"two ingredients", "salt, pepper", []string{"salt", "pepper"}},
		{"list with trailing and", "Salt, black pepper, and garlic powder", []string{"salt", "black pepper", "garlic powder"}},
		{"ingredient then note", "1 onion, diced, and 2 carrots, peeled", []string{"onion", "carrot"}},
		{"only punctuation", ",", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := n.NormalizeParts(tt.input)
			got := make([]string, len(parts))
			for i, p := range parts {
				got[i] = p.Text
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeParts(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeKeepFillers(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{KeepFillers: true})
	got := n.Normalize("2 tbsp fresh basil, chopped")
	if got.Text != "fresh basil" {
		t.Errorf("Text = %q, want %q", got.Text, "fresh basil")
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{})
	input := "1/2 cup freshly grated Parmesan cheese (optional)"
	first := n.Normalize(input)
	for i := 0; i < 5; i++ {
		if got := n.Normalize(input); !reflect.DeepEqual(got, first) {
			t.Fatalf("Normalize not deterministic: %v vs %v", got, first)
		}
	}
	if first.Text != "parmesan cheese" {
		t.Errorf("Text = %q, want %q", first.Text, "parmesan cheese")
	}
}

func TestSingularize(t *testing.T) {
	tests := map[string]string{
		"tomatoes": "tomato",
		"cherries": "cherry",
		"radishes": "radish",
		"boxes":    "box",
		"glasses":  "glass",
		"onions":   "onion",
		"hummus":   "hummus",
		"cookies":  "cookie",
		"peas":     "pea",
		"gas":      "gas",
	}
	for input, want := range tests {
		if got := singularize(input); got != want {
			t.Errorf("singularize(%q) = %q, want %q", input, got, want)
		}
	}
}
