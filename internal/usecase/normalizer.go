package usecase

import (
	"regexp"
	"strings"
)

// Compiled regex patterns for ingredient normalization
var (
	// Parenthetical and bracketed notes, e.g. "(about 2 cups)", "[optional]"
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)

	// Quantities: integers, decimals, ranges and fractions including unicode vulgar fractions
	quantityPattern = regexp.MustCompile(`[\d½¼¾⅓⅔⅛⅜⅝⅞]+(?:\s*[./\-–]\s*[\d½¼¾⅓⅔⅛⅜⅝⅞]+)*`)

	// Multi-word filler phrases that are noise for matching
	fillerPhrasePattern = regexp.MustCompile(`\b(?:to taste|for (?:garnish|serving|frying|the pan)|at room temperature|room temperature|plus more|or more|as needed|if desired|(?:low|reduced|no)[\s-](?:sodium|fat|salt|sugar))\b`)

	// Anything that is not a letter, whitespace or hyphen
	nonLetterPattern = regexp.MustCompile(`[^\p{L}\s-]+`)
)

// measureWords are units and measurement tokens, always dropped
var measureWords = map[string]bool{
	"c": true, "cup": true, "cups": true,
	"tbsp": true, "tbs": true, "tbl": true, "tablespoon": true, "tablespoons": true,
	"tsp": true, "teaspoon": true, "teaspoons": true,
	"lb": true, "lbs": true, "pound": true, "pounds": true,
	"oz": true, "ounce": true, "ounces": true, "fl": true,
	"g": true, "gram": true, "grams": true, "kg": true, "kilogram": true, "kilograms": true,
	"ml": true, "l": true, "liter": true, "liters": true, "litre": true, "litres": true,
	"quart": true, "quarts": true, "qt": true, "pint": true, "pints": true, "pt": true,
	"gallon": true, "gallons": true,
	"pinch": true, "pinches": true, "dash": true, "dashes": true,
	"inch": true, "inches": true, "x": true,
}

// containerWords name a countable portion ("2 cloves garlic", "1 can beans").
// They are dropped unless they are the only token left.
var containerWords = map[string]bool{
	"clove": true, "cloves": true, "can": true, "cans": true,
	"package": true, "packages": true, "pkg": true, "jar": true, "jars": true,
	"bottle": true, "bottles": true, "box": true, "bag": true, "container": true,
	"stick": true, "sticks": true, "slice": true, "slices": true,
	"piece": true, "pieces": true, "bunch": true, "bunches": true,
	"sprig": true, "sprigs": true, "head": true, "heads": true,
	"handful": true, "handfuls": true, "stalk": true, "stalks": true,
	"fillet": true, "fillets": true, "knob": true,
}

// fillerWords are preparation and marketing descriptors that are noise for matching
var fillerWords = map[string]bool{
	"fresh": true, "freshly": true, "chopped": true, "finely": true, "roughly": true,
	"coarsely": true, "diced": true, "minced": true, "sliced": true, "thinly": true,
	"grated": true, "shredded": true, "peeled": true, "seeded": true, "deveined": true,
	"trimmed": true, "halved": true, "quartered": true, "cubed": true, "julienned": true,
	"optional": true, "divided": true, "packed": true, "softened": true, "melted": true,
	"beaten": true, "rinsed": true, "drained": true, "thawed": true, "uncooked": true,
	"large": true, "medium": true, "small": true, "extra": true, "virgin": true,
	"organic": true, "heaping": true, "level": true, "about": true, "approximately": true,
	"low-sodium": true, "reduced-sodium": true, "low-fat": true, "boneless": true,
	"skinless": true, "good": true, "quality": true, "whole": true,
}

// noteWords only appear in preparation notes after a comma
var noteWords = map[string]bool{
	"cut": true, "cubes": true, "cube": true, "strips": true, "strip": true,
	"bite": true, "sized": true, "size": true, "removed": true, "stems": true,
	"reserved": true, "lightly": true, "well": true, "at": true, "if": true,
	"needed": true, "desired": true, "separated": true, "crushed": true,
	"torn": true, "squeezed": true, "juiced": true, "zested": true, "patted": true,
	"dry": true, "dried": true, "cooled": true, "warmed": true, "chilled": true,
	"cooked": true, "smashed": true, "mashed": true, "pitted": true, "cored": true,
	"stemmed": true, "crumbled": true, "broken": true, "toasted": true, "sifted": true,
	"room": true, "temperature": true, "taste": true, "garnish": true, "serving": true,
	"thin": true, "thick": true, "rounds": true, "wedges": true, "chunks": true,
	"lengthwise": true, "crosswise": true, "half": true, "halves": true, "cold": true,
	"warm": true, "hot": true, "tops": true, "ends": true, "ribs": true, "fat": true,
	"excess": true, "off": true, "on": true, "side": true, "kept": true, "separate": true,
	"seeds": true, "skin": true, "skins": true, "bones": true, "shells": true,
	"tails": true, "pits": true, "leaves": true, "picked": true,
}

// ingredientStopWords are connective words with no ingredient meaning
var ingredientStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "and": true, "or": true,
	"for": true, "with": true, "into": true, "in": true, "to": true, "plus": true,
	"some": true, "more": true, "each": true,
}

// singularExceptions are words that end in "s" but are not plurals,
// or whose plural form does not follow the suffix rules
var singularExceptions = map[string]string{
	"asparagus": "asparagus", "hummus": "hummus", "couscous": "couscous",
	"molasses": "molasses", "swiss": "swiss", "grits": "grits", "citrus": "citrus",
	"brussels": "brussels", "jus": "jus", "series": "series", "species": "species",
	"cookies": "cookie", "brownies": "brownie", "veggies": "veggie", "pies": "pie",
	"smoothies": "smoothie", "calories": "calorie", "movies": "movie",
	"leaves": "leaf", "loaves": "loaf", "halves": "half", "knives": "knife",
	"shelves": "shelf", "wolves": "wolf",
}

// NormalizedIngredient is the canonical comparable form of an ingredient string
type NormalizedIngredient struct {
	Tokens []string
	Text   string
}

// Empty reports whether normalization left nothing to compare
func (n NormalizedIngredient) Empty() bool {
	return len(n.Tokens) == 0
}

// NormalizerConfig holds configuration for the ingredient normalizer
type NormalizerConfig struct {
	// KeepFillers disables filler-word stripping
	KeepFillers bool
}

// Normalizer canonicalizes ingredient text for comparison. It is stateless
// after construction and safe for concurrent use.
type Normalizer struct {
	stripFillers bool
}

// NewNormalizer creates a new ingredient normalizer
func NewNormalizer(config NormalizerConfig) *Normalizer {
	return &Normalizer{stripFillers: !config.KeepFillers}
}

// Normalize maps a raw ingredient string to its normalized token sequence.
// A line naming several ingredients ("salt, pepper") yields all of their tokens;
// use NormalizeParts to keep them apart.
func (n *Normalizer) Normalize(raw string) NormalizedIngredient {
	parts := n.NormalizeParts(raw)
	if len(parts) == 1 {
		return parts[0]
	}
	var tokens []string
	for _, p := range parts {
		tokens = append(tokens, p.Tokens...)
	}
	return NormalizedIngredient{Tokens: tokens, Text: strings.Join(tokens, " ")}
}

// NormalizeParts normalizes a raw ingredient line into one entry per
// ingredient it names. Pipeline: lower-case, drop parentheticals, split on
// commas, drop segments that are only preparation notes ("minced",
// "peeled and deveined"), then per segment drop quantities, units and
// fillers and singularize. The result always has at least one entry.
func (n *Normalizer) NormalizeParts(raw string) []NormalizedIngredient {
	s := strings.ToLower(raw)

	// Step 1: Remove parenthetical notes
	s = parentheticalPattern.ReplaceAllString(s, " ")

	// Step 2: Split on commas, keeping the head and any tail that names an ingredient
	var parts []NormalizedIngredient
	for i, segment := range strings.Split(s, ",") {
		if i > 0 && isPreparationNote(segment) {
			continue
		}
		if part := n.normalizeSegment(segment); !part.Empty() {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, n.normalizeSegment(strings.ReplaceAll(s, ",", " ")))
	}
	return parts
}

func (n *Normalizer) normalizeSegment(s string) NormalizedIngredient {
	// Step 3: Remove quantities, ranges and fractions
	s = quantityPattern.ReplaceAllString(s, " ")

	tokens := n.tokens(s)
	if len(tokens) == 0 && n.stripFillers {
		// Everything was filler, e.g. "fresh". Keep the words rather than nothing.
		tokens = (&Normalizer{stripFillers: false}).tokens(s)
	}

	// Step 4: Singularize
	for i, tok := range tokens {
		tokens[i] = singularize(tok)
	}

	return NormalizedIngredient{
		Tokens: tokens,
		Text:   strings.Join(tokens, " "),
	}
}

// isPreparationNote reports whether a comma tail only describes how to
// prepare the ingredient before it
func isPreparationNote(segment string) bool {
	segment = fillerPhrasePattern.ReplaceAllString(segment, " ")
	segment = quantityPattern.ReplaceAllString(segment, " ")
	segment = nonLetterPattern.ReplaceAllString(segment, " ")
	for _, word := range strings.Fields(segment) {
		for _, part := range strings.Split(word, "-") {
			if part == "" || fillerWords[part] || noteWords[part] || measureWords[part] ||
				containerWords[part] || ingredientStopWords[part] {
				continue
			}
			return false
		}
	}
	return true
}

// NormalizeAll normalizes every entry, keeping order
func (n *Normalizer) NormalizeAll(raw []string) []NormalizedIngredient {
	out := make([]NormalizedIngredient, len(raw))
	for i, r := range raw {
		out[i] = n.Normalize(r)
	}
	return out
}

// tokens splits lower-cased text into words, dropping units, stop words and fillers
func (n *Normalizer) tokens(s string) []string {
	if n.stripFillers {
		s = fillerPhrasePattern.ReplaceAllString(s, " ")
	}
	s = nonLetterPattern.ReplaceAllString(s, " ")

	var words []string
	for _, field := range strings.Fields(s) {
		if n.stripFillers && fillerWords[field] {
			continue
		}
		for _, part := range strings.Split(field, "-") {
			if len([]rune(part)) < 2 || measureWords[part] || ingredientStopWords[part] {
				continue
			}
			if n.stripFillers && fillerWords[part] {
				continue
			}
			words = append(words, part)
		}
	}

	var kept []string
	for _, w := range words {
		if containerWords[w] && len(words) > 1 {
			continue
		}
		kept = append(kept, w)
	}
	return kept
}

// singularize reduces a plural word to its singular form with simple suffix rules
func singularize(word string) string {
	if s, ok := singularExceptions[word]; ok {
		return s
	}
	if len(word) < 4 {
		return word
	}

	switch {
	case strings.HasSuffix(word, "ies"):
		return strings.TrimSuffix(word, "ies") + "y"
	case strings.HasSuffix(word, "oes"):
		return strings.TrimSuffix(word, "es")
	case strings.HasSuffix(word, "ches"), strings.HasSuffix(word, "shes"),
		strings.HasSuffix(word, "sses"), strings.HasSuffix(word, "xes"):
		return strings.TrimSuffix(word, "es")
	case strings.HasSuffix(word, "ss"), strings.HasSuffix(word, "us"), strings.HasSuffix(word, "is"):
		return word
	case strings.HasSuffix(word, "s"):
		return strings.TrimSuffix(word, "s")
	}
	return word
}
