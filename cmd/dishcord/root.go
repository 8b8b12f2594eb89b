package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shanto268/DishCord/config"
	"github.com/shanto268/DishCord/internal/logger"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	log       *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dishcord",
	Short: "DishCord - ask for recipes in plain language",
	Long: `DishCord matches a plain-language request against a recipe corpus.

Examples:
  # Ask for recipes
  dishcord ask "spicy shrimp with garlic, under 30 minutes"

  # Check a corpus file before deploying it
  dishcord corpus validate ./data/recipes.json

  # Summarize the configured corpus
  dishcord corpus stats`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		log, err = logger.NewWithWriter(os.Stderr, logLevel, logFormat)
		return err
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ./config.yaml, ./config/, /etc/dishcord/)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
}

// loadConfig reads configuration for commands that need the full stack
func loadConfig() (*config.Config, error) {
	return config.LoadFile(cfgFile)
}
