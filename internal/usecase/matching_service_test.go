package usecase

import (
	"testing"

	"github.com/shanto268/DishCord/internal/domain"
)

func newTestMatcher(t *testing.T, config MatchConfig) (*MatchingService, *Normalizer) {
	t.Helper()
	n := NewNormalizer(NormalizerConfig{})
	table, err := DefaultSynonymTable(n)
	if err != nil {
		t.Fatalf("failed to load synonyms: %v", err)
	}
	return NewMatchingService(config, table), n
}

func TestNewMatchingService(t *testing.T) {
	t.Run("uses defaults when zero", func(t *testing.T) {
		svc := NewMatchingService(MatchConfig{}, nil)
		if svc.fuzzyThreshold != 0.6 {
			t.Errorf("fuzzyThreshold = %v, want 0.6 (default)", svc.fuzzyThreshold)
		}
		if svc.minContainmentChars != 3 {
			t.Errorf("minContainmentChars = %v, want 3 (default)", svc.minContainmentChars)
		}
		if svc.fuzzyEditDistance != 1 {
			t.Errorf("fuzzyEditDistance = %v, want 1 (default)", svc.fuzzyEditDistance)
		}
	})

	t.Run("rejects threshold above one", func(t *testing.T) {
		svc := NewMatchingService(MatchConfig{FuzzyThreshold: 1.5}, nil)
		if svc.fuzzyThreshold != 0.6 {
			t.Errorf("fuzzyThreshold = %v, want 0.6 (default)", svc.fuzzyThreshold)
		}
	})
}

func TestMatch(t *testing.T) {
	svc, n := newTestMatcher(t, MatchConfig{})

	tests := []struct {
		name       string
		requested  string
		ingredient string
		wantMode   domain.MatchMode
		wantConf   float64
	}{
		{"exact after normalization", "Shrimp", "1 lb shrimp, peeled and deveined", domain.MatchExact, 1.0},
		{"containment requested in ingredient", "pepper flakes", "red pepper flakes", domain.MatchContainment, 0.85},
		{"containment ingredient in requested", "homemade chicken broth", "chicken broth", domain.MatchContainment, 0.85},
		{"synonym", "prawns", "1 lb shrimp", domain.MatchSynonym, 0.75},
		{"synonym across phrasing", "crushed red pepper", "1 tsp red pepper flakes", domain.MatchSynonym, 0.75},
		{"no containment inside a word", "egg", "eggplant", domain.MatchNone, 0},
		{"unrelated", "lemon", "melon", domain.MatchNone, 0},
		{"one letter apart on a short word", "beef", "2 lb beets", domain.MatchNone, 0},
		{"one letter apart on pork", "pork", "park", domain.MatchNone, 0},
		{"empty requested", "", "garlic", domain.MatchNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, conf := svc.Match(n.Normalize(tt.requested), n.Normalize(tt.ingredient))
			if mode != tt.wantMode {
				t.Errorf("mode = %q, want %q", mode, tt.wantMode)
			}
			if conf != tt.wantConf {
				t.Errorf("confidence = %v, want %v", conf, tt.wantConf)
			}
		})
	}
}

func TestMatchFuzzy(t *testing.T) {
	svc, n := newTestMatcher(t, MatchConfig{})

	tests := []struct {
		requested  string
		ingredient string
	}{
		{"chiken", "chicken"},
		{"parmesean", "parmesan"},
		{"garlik", "4 cloves garlic"},
		{"onion red", "red onion"},
	}

	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			mode, conf := svc.Match(n.Normalize(tt.requested), n.Normalize(tt.ingredient))
			if mode != domain.MatchFuzzy {
				t.Fatalf("mode = %q, want fuzzy", mode)
			}
			if conf < 0.6 || conf >= 1.0 {
				t.Errorf("confidence = %v, want in [0.6, 1)", conf)
			}
		})
	}
}

func TestMatchMinContainmentChars(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{})

	loose := NewMatchingService(MatchConfig{}, nil)
	if mode, _ := loose.Match(n.Normalize("oil"), n.Normalize("olive oil")); mode != domain.MatchContainment {
		t.Errorf("default mode = %q, want containment", mode)
	}

	strict := NewMatchingService(MatchConfig{MinContainmentChars: 4}, nil)
	if mode, conf := strict.Match(n.Normalize("oil"), n.Normalize("olive oil")); mode != domain.MatchNone || conf != 0 {
		t.Errorf("strict = (%q, %v), want no match", mode, conf)
	}
}

func TestMatchWithoutSynonymTable(t *testing.T) {
	n := NewNormalizer(NormalizerConfig{})
	svc := NewMatchingService(MatchConfig{}, nil)
	if mode, _ := svc.Match(n.Normalize("prawn"), n.Normalize("shrimp")); mode != domain.MatchNone {
		t.Errorf("mode = %q, want none without synonym table", mode)
	}
}

func TestBestMatch(t *testing.T) {
	svc, n := newTestMatcher(t, MatchConfig{})
	ingredients := n.NormalizeAll([]string{"2 cloves garlic", "1 lb shrimp", "red pepper flakes"})

	t.Run("prefers exact", func(t *testing.T) {
		idx, mode, conf := svc.BestMatch(n.Normalize("shrimp"), ingredients)
		if idx != 1 || mode != domain.MatchExact || conf != 1.0 {
			t.Errorf("BestMatch = (%d, %q, %v), want (1, exact, 1)", idx, mode, conf)
		}
	})

	t.Run("no match", func(t *testing.T) {
		idx, mode, conf := svc.BestMatch(n.Normalize("saffron"), ingredients)
		if idx != -1 || mode != domain.MatchNone || conf != 0 {
			t.Errorf("BestMatch = (%d, %q, %v), want (-1, none, 0)", idx, mode, conf)
		}
	})
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"chicken", "chiken", 1},
		{"jalapeño", "jalapeno", 1},
	}

	for _, tt := range tests {
		t.Run(tt.s1+"_"+tt.s2, func(t *testing.T) {
			if got := levenshteinDistance(tt.s1, tt.s2); got != tt.want {
				t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
			}
		})
	}
}

func TestFuzzyTokenMatch(t *testing.T) {
	tests := []struct {
		t1, t2 string
		want   bool
	}{
		{"tomato", "tomatoe", true},
		{"rice", "ice", false},
		{"basil", "basis", true},
		{"basil", "bayleaf", false},
		{"beef", "beet", false},
		{"pork", "park", false},
		{"garlik", "garlic", true},
	}

	for _, tt := range tests {
		t.Run(tt.t1+"_"+tt.t2, func(t *testing.T) {
			if got := fuzzyTokenMatch(tt.t1, tt.t2, 1); got != tt.want {
				t.Errorf("fuzzyTokenMatch(%q, %q) = %v, want %v", tt.t1, tt.t2, got, tt.want)
			}
		})
	}
}
