package usecase

import (
	"regexp"
	"strings"
)

// Compiled regex patterns for keyword extraction
var (
	// Separators between ingredient phrases
	keywordSeparatorPattern = regexp.MustCompile(`\s*(?:,|;|/|&|\+|\band\b|\bor\b|\bplus\b|\bwith\b|\busing\b)\s*`)

	// Anything that is not a letter, whitespace or separator punctuation
	keywordNoisePattern = regexp.MustCompile(`[^\p{L}\s,;/&+-]+`)
)

// queryWords are request phrasing that never names an ingredient
var queryWords = map[string]bool{
	"i": true, "i'm": true, "im": true, "me": true, "my": true, "we": true, "you": true,
	"have": true, "got": true, "get": true, "some": true, "any": true, "a": true, "an": true,
	"the": true, "what": true, "which": true, "can": true, "could": true, "should": true,
	"make": true, "cook": true, "prepare": true, "bake": true, "do": true, "is": true,
	"are": true, "there": true, "that": true, "this": true, "these": true, "those": true,
	"recipe": true, "recipes": true, "dish": true, "dishes": true, "meal": true, "meals": true,
	"food": true, "something": true, "anything": true, "idea": true, "ideas": true,
	"want": true, "need": true, "like": true, "would": true, "give": true, "show": true,
	"find": true, "suggest": true, "recommend": true, "please": true, "for": true,
	"to": true, "of": true, "in": true, "on": true, "from": true, "use": true, "uses": true,
	"leftover": true, "leftovers": true, "left": true, "over": true, "fridge": true,
	"tonight": true, "today": true, "dinner": true, "supper": true, "lunch": true,
	"breakfast": true, "under": true, "less": true, "than": true, "within": true,
	"minute": true, "minutes": true, "min": true, "mins": true, "hour": true, "hours": true,
	"quick": true, "quickly": true, "fast": true, "easy": true, "simple": true,
	"medium": true, "hard": true, "tough": true, "difficult": true, "time": true,
	"one": true, "two": true, "three": true, "four": true, "five": true, "few": true,
	"couple": true, "all": true, "only": true, "just": true, "also": true, "style": true,
	"type": true, "kind": true, "dishcord": true, "hey": true, "hi": true,
}

// KeywordExtractor derives requested ingredients from raw text without the
// interpreter. It is the permissive fallback and never fails.
type KeywordExtractor struct {
	cuisines map[string]bool
}

// NewKeywordExtractor creates a keyword extractor that also ignores the given
// cuisine vocabulary
func NewKeywordExtractor(cuisines []string) *KeywordExtractor {
	set := make(map[string]bool)
	for _, c := range cuisines {
		for _, w := range strings.Fields(strings.ToLower(c)) {
			set[w] = true
		}
	}
	return &KeywordExtractor{cuisines: set}
}

// Extract returns the ingredient phrases found in raw, in order of appearance
func (e *KeywordExtractor) Extract(raw string) []string {
	text := keywordNoisePattern.ReplaceAllString(strings.ToLower(raw), " ")

	var terms []string
	seen := make(map[string]bool)
	for _, segment := range keywordSeparatorPattern.Split(text, -1) {
		var kept []string
		for _, word := range strings.Fields(segment) {
			word = strings.Trim(word, "-")
			if len([]rune(word)) < 2 || queryWords[word] || e.cuisines[word] {
				continue
			}
			kept = append(kept, word)
		}
		if len(kept) == 0 {
			continue
		}
		term := strings.Join(kept, " ")
		if !seen[term] {
			seen[term] = true
			terms = append(terms, term)
		}
	}
	return terms
}
