package usecase

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/shanto268/DishCord/internal/domain"
)

// RecipeIndex is a corpus snapshot with every recipe ingredient normalized once
type RecipeIndex struct {
	corpus  *domain.Corpus
	entries []indexedRecipe
}

// indexedRecipe holds the normalized ingredients of one recipe. A raw line
// naming several ingredients contributes several entries; owners maps each
// entry back to its raw line.
type indexedRecipe struct {
	ingredients []NormalizedIngredient
	owners      []int
}

// NewRecipeIndex normalizes the ingredients of every recipe in the corpus
func NewRecipeIndex(corpus *domain.Corpus, normalizer *Normalizer) *RecipeIndex {
	recipes := corpus.All()
	idx := &RecipeIndex{
		corpus:  corpus,
		entries: make([]indexedRecipe, len(recipes)),
	}
	for i, r := range recipes {
		var entry indexedRecipe
		for line, raw := range r.Ingredients {
			for _, part := range normalizer.NormalizeParts(raw) {
				entry.ingredients = append(entry.ingredients, part)
				entry.owners = append(entry.owners, line)
			}
		}
		idx.entries[i] = entry
	}
	return idx
}

// Corpus returns the snapshot the index was built from
func (idx *RecipeIndex) Corpus() *domain.Corpus {
	return idx.corpus
}

// RankerConfig holds configuration for the recipe ranker
type RankerConfig struct {
	// MinScore is the floor a candidate's score must exceed
	MinScore float64
	// MandatoryIngredients applies the strict policy to every query
	MandatoryIngredients bool
	EnableDebugLogging   bool
	Logger               *zap.Logger
}

// Ranker scores recipes against a structured filter
type Ranker struct {
	matcher            *MatchingService
	normalizer         *Normalizer
	minScore           float64
	mandatory          bool
	enableDebugLogging bool
	logger             *zap.Logger
}

// NewRanker creates a new recipe ranker
func NewRanker(matcher *MatchingService, normalizer *Normalizer, config RankerConfig) *Ranker {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	minScore := config.MinScore
	if minScore < 0 {
		minScore = 0
	}
	return &Ranker{
		matcher:            matcher,
		normalizer:         normalizer,
		minScore:           minScore,
		mandatory:          config.MandatoryIngredients,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger,
	}
}

// Rank scores every recipe in the index against the filter and returns the
// ordered, truncated candidates. The result is deterministic for identical
// inputs and empty, not nil, when nothing clears the floor.
func (r *Ranker) Rank(index *RecipeIndex, filter domain.StructuredFilter) []domain.ScoredCandidate {
	requested := make([]NormalizedIngredient, 0, len(filter.RequestedIngredients))
	labels := make([]string, 0, len(filter.RequestedIngredients))
	for _, term := range filter.RequestedIngredients {
		norm := r.normalizer.Normalize(term)
		if norm.Empty() {
			continue
		}
		requested = append(requested, norm)
		labels = append(labels, term)
	}
	mandatory := r.mandatory || filter.IngredientsMandatory

	candidates := make([]domain.ScoredCandidate, 0)
	for i, recipe := range index.corpus.All() {
		excluded, unknown := r.checkAttributes(&recipe, &filter)
		if excluded {
			continue
		}

		score, matches := r.ingredientScore(requested, labels, recipe.Ingredients, index.entries[i], mandatory)
		if score <= r.minScore {
			continue
		}

		candidates = append(candidates, domain.ScoredCandidate{
			Recipe:            recipe,
			Score:             score,
			Matches:           matches,
			UnknownAttributes: unknown,
			LoadIndex:         i,
		})
	}

	sortCandidates(candidates, filter.MaxTimeMinutes != nil)

	if filter.ResultCount > 0 && len(candidates) > filter.ResultCount {
		candidates = candidates[:filter.ResultCount]
	}

	if r.enableDebugLogging {
		for _, c := range candidates {
			r.logger.Debug("[RANK] candidate",
				zap.String("id", c.Recipe.ID),
				zap.Float64("score", c.Score),
				zap.Int("unknown_attributes", c.UnknownAttributes))
		}
	}

	return candidates
}

// checkAttributes applies the hard filters. A constraint on a field the recipe
// does not know passes and is counted in unknown.
func (r *Ranker) checkAttributes(recipe *domain.Recipe, filter *domain.StructuredFilter) (excluded bool, unknown int) {
	if filter.Cuisine != "" {
		tags := recipe.CuisineTags()
		if len(tags) == 0 {
			unknown++
		} else if !cuisineMatches(filter.Cuisine, tags) {
			return true, 0
		}
	}

	if filter.Difficulty != nil {
		if !recipe.Difficulty.Known() {
			unknown++
		} else if !filter.Difficulty.Contains(recipe.Difficulty) {
			return true, 0
		}
	}

	if filter.MaxTimeMinutes != nil {
		if recipe.TimeMinutes == nil {
			unknown++
		} else if *recipe.TimeMinutes > *filter.MaxTimeMinutes {
			return true, 0
		}
	}

	return false, unknown
}

// cuisineMatches compares a cuisine constraint to a recipe's tags,
// ignoring case and a trailing plural ("noodles" vs "noodle")
func cuisineMatches(want string, tags []string) bool {
	want = singularize(strings.ToLower(strings.TrimSpace(want)))
	for _, tag := range tags {
		if singularize(tag) == want {
			return true
		}
	}
	return false
}

// ingredientScore averages the best match confidence of every requested term.
// Unmatched terms contribute 0; under the mandatory policy any unmatched term zeroes the score.
func (r *Ranker) ingredientScore(
	requested []NormalizedIngredient,
	labels []string,
	raw []string,
	entry indexedRecipe,
	mandatory bool,
) (float64, []domain.IngredientMatch) {
	if len(requested) == 0 {
		return 1.0, []domain.IngredientMatch{}
	}

	matches := make([]domain.IngredientMatch, len(requested))
	total := 0.0
	missing := false
	for i, term := range requested {
		idx, mode, conf := r.matcher.BestMatch(term, entry.ingredients)
		matches[i] = domain.IngredientMatch{Requested: labels[i], Confidence: conf}
		if idx < 0 {
			missing = true
			continue
		}
		matches[i].RecipeIngredient = raw[entry.owners[idx]]
		matches[i].Mode = mode
		total += conf
	}

	if mandatory && missing {
		return 0, matches
	}
	return total / float64(len(requested)), matches
}

// sortCandidates orders by score, then exact attribute satisfaction, then
// shorter time when a time limit was asked for, then load order
func sortCandidates(c []domain.ScoredCandidate, byTime bool) {
	sort.Slice(c, func(i, j int) bool {
		a, b := c[i], c[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.UnknownAttributes != b.UnknownAttributes {
			return a.UnknownAttributes < b.UnknownAttributes
		}
		if byTime {
			ta, tb := a.Recipe.TimeMinutes, b.Recipe.TimeMinutes
			switch {
			case ta != nil && tb == nil:
				return true
			case ta == nil && tb != nil:
				return false
			case ta != nil && tb != nil && *ta != *tb:
				return *ta < *tb
			}
		}
		return a.LoadIndex < b.LoadIndex
	})
}
