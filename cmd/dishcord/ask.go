package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shanto268/DishCord/internal/app"
	"github.com/shanto268/DishCord/internal/domain"
)

var (
	askOutput      string
	askCorpus      string
	askInterpreter string
)

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Find recipes for a plain-language request",
	Example: `  dishcord ask "I have chicken, rice and broccoli"
  dishcord ask "easy italian pasta under 30 minutes" --output json
  dishcord ask "tofu stir fry" --interpreter none --corpus ./recipes.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return fmt.Errorf("%w: query text is empty", domain.ErrInvalidRequest)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if askCorpus != "" {
			cfg.Corpus.Source = "file"
			cfg.Corpus.Path = askCorpus
		}
		if askInterpreter != "" {
			cfg.Interpreter.Provider = askInterpreter
		}

		ctx := cmd.Context()
		application, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer application.Close()

		if _, err := application.Store.Reload(ctx); err != nil {
			return err
		}

		result, err := application.Engine.Answer(ctx, query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if askOutput == "json" {
			return writeJSON(out, result)
		}
		renderResult(out, result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVarP(&askOutput, "output", "o", "text", "Output format (text, json)")
	askCmd.Flags().StringVar(&askCorpus, "corpus", "", "corpus file, overrides the configured source")
	askCmd.Flags().StringVar(&askInterpreter, "interpreter", "", "interpreter provider override (ollama, openrouter, none)")
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderResult prints a ranked table followed by each candidate's matches
func renderResult(w io.Writer, result *domain.QueryResult) {
	fmt.Fprintf(w, "Query: %s (%s)\n", result.Query, result.Source)
	fmt.Fprintf(w, "Filter: %s\n", describeFilter(result.FilterUsed))
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}

	if len(result.Candidates) == 0 {
		fmt.Fprintln(w, "\nNo matching recipes.")
		return
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tSCORE\tCUISINE\tDIFFICULTY\tTIME")
	for i, c := range result.Candidates {
		recipe := c.Recipe
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%s\t%s\n",
			i+1, recipe.DisplayTitle(), c.Score, orDash(recipe.Cuisine), recipe.Difficulty, formatMinutes(recipe.TimeMinutes))
	}
	tw.Flush()

	for i, c := range result.Candidates {
		var parts []string
		for _, m := range c.Matches {
			if !m.Matched() {
				parts = append(parts, m.Requested+": missing")
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %s via %s (%.2f)", m.Requested, m.RecipeIngredient, m.Mode, m.Confidence))
		}
		if len(parts) > 0 {
			fmt.Fprintf(w, "  %d. %s\n", i+1, strings.Join(parts, "; "))
		}
	}
}

func describeFilter(f domain.StructuredFilter) string {
	parts := []string{}
	if len(f.RequestedIngredients) > 0 {
		parts = append(parts, "ingredients="+strings.Join(f.RequestedIngredients, ","))
	}
	if f.Cuisine != "" {
		parts = append(parts, "cuisine="+f.Cuisine)
	}
	if f.Difficulty != nil {
		if f.Difficulty.Min == f.Difficulty.Max {
			parts = append(parts, "difficulty="+f.Difficulty.Min.String())
		} else {
			parts = append(parts, fmt.Sprintf("difficulty=%s..%s", f.Difficulty.Min, f.Difficulty.Max))
		}
	}
	if f.MaxTimeMinutes != nil {
		parts = append(parts, fmt.Sprintf("max_time=%dm", *f.MaxTimeMinutes))
	}
	if f.IngredientsMandatory {
		parts = append(parts, "all ingredients required")
	}
	parts = append(parts, fmt.Sprintf("count=%d", f.ResultCount))
	return strings.Join(parts, " ")
}

func formatMinutes(m *int) string {
	if m == nil {
		return "-"
	}
	return fmt.Sprintf("%d min", *m)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
