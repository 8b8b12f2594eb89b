package usecase

import (
	"fmt"
	"strings"

	"github.com/shanto268/DishCord/internal/domain"
)

// CuisineVocabulary lists the cuisine tags the corpus classifier assigns
var CuisineVocabulary = []string{
	"american", "italian", "mexican", "chinese", "sichuan", "japanese", "korean",
	"thai", "vietnamese", "indian", "french", "greek", "mediterranean", "spanish",
	"middle eastern", "asian", "cajun", "southern", "caribbean", "seafood",
	"noodles", "breakfast", "lunch", "dessert", "vegetarian", "vegan",
}

// filterShape documents the JSON object the interpreter must produce
const filterShape = `{
  "ingredients": ["ingredient", ...],
  "cuisine": "cuisine or null",
  "difficulty": "easy|medium|hard or null",
  "max_time_minutes": number or null,
  "result_count": number or null
}`

// buildSystemPrompt returns the fixed instruction context. The strict variant
// is used for the single retry after malformed output.
func buildSystemPrompt(strict bool) string {
	var b strings.Builder
	b.WriteString("You turn a cooking request into a recipe search filter.\n")
	b.WriteString("Reply with exactly one JSON object of this shape:\n")
	b.WriteString(filterShape)
	b.WriteString("\n\nRules:\n")
	b.WriteString("1) ingredients: only the ingredient words the user literally mentions. Never add synonyms or guesses. If the user says \"cod\", do NOT add \"fish\".\n")
	fmt.Fprintf(&b, "2) cuisine: one of %s, or null.\n", strings.Join(CuisineVocabulary, ", "))
	fmt.Fprintf(&b, "3) difficulty: one of %s, or null. \"easy\" or \"simple\" means easy.\n", strings.Join(domain.DifficultyVocabulary, ", "))
	b.WriteString("4) max_time_minutes: the time limit in minutes. \"quick\" means 30.\n")
	b.WriteString("5) result_count: how many recipes the user asked for, or null.\n")
	b.WriteString("Use null for anything the user did not ask for.\n")
	if strict {
		b.WriteString("\nYour previous reply could not be parsed. Output ONLY the JSON object. ")
		b.WriteString("No prose, no markdown, no code fences, no comments. Every key above must be present.\n")
	}
	return b.String()
}

// buildUserPrompt wraps the raw request text
func buildUserPrompt(raw string) string {
	return fmt.Sprintf("User: %s\nAssistant:", strings.TrimSpace(raw))
}
