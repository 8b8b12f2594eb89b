package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shanto268/DishCord/internal/app"
	"github.com/shanto268/DishCord/internal/domain"
	"github.com/shanto268/DishCord/internal/infrastructure/corpus"
)

var corpusOutput string

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect recipe corpora",
}

var corpusValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Load a corpus file and report skipped records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, report, err := corpus.Load(cmd.Context(), corpus.NewFileSource(args[0]))
		if err != nil {
			return err
		}
		if corpusOutput == "json" {
			return writeJSON(cmd.OutOrStdout(), report)
		}
		renderReport(cmd.OutOrStdout(), report)
		return nil
	},
}

var corpusStatsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Summarize a corpus by cuisine and difficulty",
	Long:  "Summarize a corpus file, or the configured corpus source when no file is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var src domain.CorpusSource
		if len(args) == 1 {
			src = corpus.NewFileSource(args[0])
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if src, err = app.NewCorpusSource(cmd.Context(), cfg.Corpus); err != nil {
				return err
			}
		}

		c, _, err := corpus.Load(cmd.Context(), src)
		if err != nil {
			return err
		}
		stats := computeStats(c)
		if corpusOutput == "json" {
			return writeJSON(cmd.OutOrStdout(), stats)
		}
		renderStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(corpusCmd)
	corpusCmd.AddCommand(corpusValidateCmd, corpusStatsCmd)
	corpusCmd.PersistentFlags().StringVarP(&corpusOutput, "output", "o", "text", "Output format (text, json)")
}

func renderReport(w io.Writer, report *corpus.LoadReport) {
	fmt.Fprintf(w, "Source:  %s\n", report.Source)
	fmt.Fprintf(w, "Records: %d\n", report.Total)
	fmt.Fprintf(w, "Loaded:  %d\n", report.Loaded)
	fmt.Fprintf(w, "Skipped: %d\n", report.Skipped)

	if len(report.Reasons) > 0 {
		reasons := make([]string, 0, len(report.Reasons))
		for r := range report.Reasons {
			reasons = append(reasons, r)
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			fmt.Fprintf(w, "  %-16s %d\n", r, report.Reasons[r])
		}
	}
	for _, s := range report.Skips {
		fmt.Fprintf(w, "  record %d: %s %s\n", s.Index, s.Reason, s.Detail)
	}
}

type countEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type corpusStats struct {
	Source       string       `json:"source"`
	Recipes      int          `json:"recipes"`
	WithTime     int          `json:"with_time"`
	Cuisines     []countEntry `json:"cuisines"`
	Difficulties []countEntry `json:"difficulties"`
}

func computeStats(c *domain.Corpus) corpusStats {
	title := cases.Title(language.English)
	cuisines := map[string]int{}
	difficulties := map[string]int{}
	stats := corpusStats{Source: c.Source(), Recipes: c.Len()}

	for _, r := range c.All() {
		name := strings.TrimSpace(r.Cuisine)
		if name == "" {
			name = "unknown"
		}
		cuisines[title.String(strings.ToLower(name))]++
		difficulties[r.Difficulty.String()]++
		if r.TimeMinutes != nil {
			stats.WithTime++
		}
	}

	stats.Cuisines = sortedCounts(cuisines)
	stats.Difficulties = sortedCounts(difficulties)
	return stats
}

// sortedCounts orders by count descending, then name
func sortedCounts(m map[string]int) []countEntry {
	out := make([]countEntry, 0, len(m))
	for name, n := range m {
		out = append(out, countEntry{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func renderStats(w io.Writer, stats corpusStats) {
	fmt.Fprintf(w, "Source:  %s\n", stats.Source)
	fmt.Fprintf(w, "Recipes: %d (%d with a cooking time)\n\n", stats.Recipes, stats.WithTime)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CUISINE\tRECIPES")
	for _, e := range stats.Cuisines {
		fmt.Fprintf(tw, "%s\t%d\n", e.Name, e.Count)
	}
	fmt.Fprintln(tw, "\t")
	fmt.Fprintln(tw, "DIFFICULTY\tRECIPES")
	for _, e := range stats.Difficulties {
		fmt.Fprintf(tw, "%s\t%d\n", e.Name, e.Count)
	}
	tw.Flush()
}
