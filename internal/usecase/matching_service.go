package usecase

import (
	"go.uber.org/zap"

	"github.com/shanto268/DishCord/internal/domain"
)

// Confidence assigned to each matching mode
const (
	confidenceExact       = 1.0
	confidenceContainment = 0.85
	confidenceSynonym     = 0.75
	maxFuzzyConfidence    = 0.99 // fuzzy never ties an exact match
	fuzzyWeightFactor     = 0.8  // Fuzzy token matches get 80% of normal weight
	minFuzzyChars         = 5    // Shorter strings are too noisy for edit distance
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	FuzzyThreshold      float64
	MinContainmentChars int
	FuzzyEditDistance   int
	EnableDebugLogging  bool
	Logger              *zap.Logger
}

// MatchingService decides whether a requested ingredient matches a recipe
// ingredient and with what confidence
type MatchingService struct {
	fuzzyThreshold      float64
	minContainmentChars int
	fuzzyEditDistance   int
	synonyms            *SynonymTable
	enableDebugLogging  bool
	logger              *zap.Logger
}

// NewMatchingService creates a new matching service with the given configuration.
// A nil synonym table disables synonym matching.
func NewMatchingService(config MatchConfig, synonyms *SynonymTable) *MatchingService {
	threshold := config.FuzzyThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = 0.6 // Default 60% overlap
	}

	minChars := config.MinContainmentChars
	if minChars <= 0 {
		minChars = 3
	}

	fuzzyDist := config.FuzzyEditDistance
	if fuzzyDist <= 0 {
		fuzzyDist = 1 // Default edit distance of 1
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MatchingService{
		fuzzyThreshold:      threshold,
		minContainmentChars: minChars,
		fuzzyEditDistance:   fuzzyDist,
		synonyms:            synonyms,
		enableDebugLogging:  config.EnableDebugLogging,
		logger:              logger,
	}
}

// Match compares one requested term with one recipe ingredient, both normalized.
// Modes are tried in precedence order: exact, containment, synonym, fuzzy.
// The first success wins. No match returns MatchNone with confidence 0.
func (s *MatchingService) Match(requested, ingredient NormalizedIngredient) (domain.MatchMode, float64) {
	if requested.Empty() || ingredient.Empty() {
		return domain.MatchNone, 0
	}

	if requested.Text == ingredient.Text {
		return domain.MatchExact, confidenceExact
	}

	if s.contains(requested, ingredient) {
		return domain.MatchContainment, confidenceContainment
	}

	if s.synonyms != nil {
		a, okA := s.synonyms.ClassOf(requested)
		b, okB := s.synonyms.ClassOf(ingredient)
		if okA && okB && a == b {
			return domain.MatchSynonym, confidenceSynonym
		}
	}

	if score := s.fuzzyScore(requested, ingredient); score >= s.fuzzyThreshold {
		return domain.MatchFuzzy, min(score, maxFuzzyConfidence)
	}

	return domain.MatchNone, 0
}

// BestMatch finds the recipe ingredient that best matches the requested term.
// It returns the index of that ingredient, or -1 when nothing matches.
func (s *MatchingService) BestMatch(requested NormalizedIngredient, ingredients []NormalizedIngredient) (int, domain.MatchMode, float64) {
	bestIdx, bestMode, bestConf := -1, domain.MatchNone, 0.0

	for i, ing := range ingredients {
		mode, conf := s.Match(requested, ing)
		if conf > bestConf {
			bestIdx, bestMode, bestConf = i, mode, conf
			if conf == confidenceExact {
				break
			}
		}
	}

	if s.enableDebugLogging && bestIdx >= 0 {
		s.logger.Debug("[MATCH] best ingredient",
			zap.String("requested", requested.Text),
			zap.String("ingredient", ingredients[bestIdx].Text),
			zap.String("mode", string(bestMode)),
			zap.Float64("confidence", bestConf))
	}

	return bestIdx, bestMode, bestConf
}

// contains reports whether the shorter token sequence appears contiguously in
// the longer one. Alignment on token boundaries keeps "egg" out of "eggplant".
func (s *MatchingService) contains(a, b NormalizedIngredient) bool {
	short, long := a, b
	if len(short.Tokens) > len(long.Tokens) {
		short, long = long, short
	}
	if len(short.Text) < s.minContainmentChars {
		return false
	}
	return indexTokens(long.Tokens, short.Tokens) >= 0
}

// indexTokens returns the start of needle inside haystack, or -1
func indexTokens(haystack, needle []string) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(haystack); i++ {
		for j, tok := range needle {
			if haystack[i+j] != tok {
				continue outer
			}
		}
		return i
	}
	return -1
}

// fuzzyScore is the better of a fuzzy token Jaccard and a whole-string
// edit-distance similarity, in [0,1]
func (s *MatchingService) fuzzyScore(a, b NormalizedIngredient) float64 {
	tokenScore := s.fuzzyJaccard(a.Tokens, b.Tokens)

	lenA, lenB := len([]rune(a.Text)), len([]rune(b.Text))
	charScore := 0.0
	if min(lenA, lenB) >= minFuzzyChars {
		maxLen := max(lenA, lenB)
		// Edits allowed grow with length: 1 up to 7 runes, then one per 4 runes
		if dist := levenshteinDistance(a.Text, b.Text); dist <= max(1, maxLen/4) {
			charScore = 1 - float64(dist)/float64(maxLen)
		}
	}

	return max(tokenScore, charScore)
}

// fuzzyJaccard computes token Jaccard similarity where near-identical tokens
// count at a reduced weight
func (s *MatchingService) fuzzyJaccard(tokens1, tokens2 []string) float64 {
	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0
	}

	exact, _ := findIntersection(tokens1, tokens2)

	set1 := uniqueTokens(tokens1)
	set2 := uniqueTokens(tokens2)
	used := make(map[string]bool)
	fuzzy := 0
	for _, t1 := range set1 {
		if containsToken(set2, t1) {
			continue
		}
		for _, t2 := range set2 {
			if used[t2] || containsToken(set1, t2) {
				continue
			}
			if fuzzyTokenMatch(t1, t2, s.fuzzyEditDistance) {
				used[t2] = true
				fuzzy++
				break
			}
		}
	}

	// Each fuzzy pair collapses two union entries into one
	union := findUnion(tokens1, tokens2) - fuzzy
	if union <= 0 {
		return 0
	}
	return (float64(exact) + float64(fuzzy)*fuzzyWeightFactor) / float64(union)
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func containsToken(tokens []string, t string) bool {
	for _, x := range tokens {
		if x == t {
			return true
		}
	}
	return false
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	// One edit on a 4-letter word is a different food ("beef", "beet"),
	// so short tokens never match fuzzily
	len1, len2 := len([]rune(token1)), len([]rune(token2))
	if len1 < minFuzzyChars || len2 < minFuzzyChars {
		return false
	}

	// Quick length check - if lengths differ by more than threshold, can't match
	lenDiff := len1 - len2
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

// findIntersection returns the count of common tokens and the list of matched tokens
func findIntersection(tokens1, tokens2 []string) (int, []string) {
	set := make(map[string]bool)
	for _, t := range tokens1 {
		set[t] = true
	}

	var matched []string
	seen := make(map[string]bool)
	for _, t := range tokens2 {
		if set[t] && !seen[t] {
			matched = append(matched, t)
			seen[t] = true
		}
	}

	return len(matched), matched
}

// findUnion returns the count of unique tokens across both sets
func findUnion(tokens1, tokens2 []string) int {
	set := make(map[string]bool)
	for _, t := range tokens1 {
		set[t] = true
	}
	for _, t := range tokens2 {
		set[t] = true
	}
	return len(set)
}
