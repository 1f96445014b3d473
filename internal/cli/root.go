package cli

import (
	"context"

	"tailorkit/internal/config"
	"tailorkit/internal/engine"
	"tailorkit/internal/errors"
	"tailorkit/internal/lexicon"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "tailorkit",
	Short: "A deterministic resume-to-job tailoring engine",
	Long: `Tailorkit analyzes a resume against a job posting without any AI or
network calls. It extracts the posting's requirements, matches them against
the resume, computes an ATS-style score and proposes concrete resume edits.
The same inputs always produce the same output.`,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// newLexiconStore builds a lexicon store from config: an external file when
// one is configured, the compiled-in tables otherwise.
func newLexiconStore(cfg *config.Config, logger *errors.Logger) (*lexicon.Store, error) {
	if cfg.Lexicon.Path == "" {
		return lexicon.NewStore(logger), nil
	}
	return lexicon.NewStoreFromFile(cfg.Lexicon.Path, logger)
}

// engineConfig maps the loaded configuration onto engine parameters
func engineConfig(cfg *config.Config) engine.Config {
	return engine.Config{
		MatchWorkers: cfg.Engine.MatchWorkers,
		Thresholds: engine.MatchThresholds{
			Fuzzy:   cfg.Engine.Thresholds.Fuzzy,
			Partial: cfg.Engine.Thresholds.Partial,
			Synonym: cfg.Engine.Thresholds.Synonym,
			Strong:  cfg.Engine.Thresholds.Strong,
		},
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(tailorCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
