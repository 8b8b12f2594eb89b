package domain

// MatchMode names how a requested ingredient matched a recipe ingredient
type MatchMode string

const (
	MatchNone        MatchMode = ""
	MatchExact       MatchMode = "exact"
	MatchContainment MatchMode = "containment"
	MatchSynonym     MatchMode = "synonym"
	MatchFuzzy       MatchMode = "fuzzy"
)

// IngredientMatch explains the best match found for one requested ingredient
type IngredientMatch struct {
	Requested        string    `json:"requested"`
	RecipeIngredient string    `json:"recipe_ingredient,omitempty"`
	Mode             MatchMode `json:"mode,omitempty"`
	Confidence       float64   `json:"confidence"`
}

// Matched reports whether any recipe ingredient matched
func (m IngredientMatch) Matched() bool {
	return m.Confidence > 0
}

// ScoredCandidate pairs a recipe with its score for one query
type ScoredCandidate struct {
	Recipe  Recipe            `json:"recipe"`
	Score   float64           `json:"score"`
	Matches []IngredientMatch `json:"match_explanation"`
	// UnknownAttributes counts constraints passed only because the recipe
	// field was unknown.
	UnknownAttributes int `json:"unknown_attributes"`
	LoadIndex         int `json:"-"`
}

// InterpretationSource records where a query's filter came from
type InterpretationSource string

const (
	SourceInterpreter InterpretationSource = "interpreter"
	SourceCache       InterpretationSource = "cache"
	SourceFallback    InterpretationSource = "fallback"
	SourceStructured  InterpretationSource = "structured"
)

// QueryResult is the answer to a single query
type QueryResult struct {
	QueryID    string               `json:"query_id"`
	RequestID  string               `json:"request_id,omitempty"`
	Query      string               `json:"query,omitempty"`
	FilterUsed StructuredFilter     `json:"filter_used"`
	Source     InterpretationSource `json:"source"`
	Candidates []ScoredCandidate    `json:"candidates"`
	Warnings   []string             `json:"warnings,omitempty"`
}
