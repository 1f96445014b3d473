package cli

import (
	"context"
	"fmt"
	"os"

	"tailorkit/internal/common"
	"tailorkit/internal/engine"
	"tailorkit/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file] [job-posting-file]",
	Short: "Analyze a resume against a job posting",
	Long: `Analyze a resume against a job posting and report how well it covers
the posting's requirements.

The analysis includes:
- Extracted requirements with required/preferred weighting
- Matched, partially matched and unmatched requirements with evidence
- An ATS-style score from 0 to 100 and the projected score after edits
- Concrete enhancement suggestions ordered by score impact
- A tailored copy of the resume with all suggestions applied

Resume files are structured JSON or YAML; the posting can be plain text
or a structured file with title and company fields.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig
var analyzeProgress bool

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().BoolVar(&analyzeProgress, "progress", false, "Print pipeline stages to stderr as they run")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	store, err := newLexiconStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load lexicon tables: %w", err)
	}
	eng := engine.New(engineConfig(cfg), store, logger)

	var opts []engine.Option
	if analyzeProgress {
		opts = append(opts, engine.WithProgress(func(stage engine.Stage) {
			fmt.Fprintf(os.Stderr, "... %s\n", stage)
		}))
	}

	analyzeOperation := func(ctx context.Context, resume *types.ResumeDocument, posting types.JobPosting) (*types.AnalysisResult, error) {
		return eng.Analyze(ctx, resume, posting, opts...)
	}

	logDetails := func(resume *types.ResumeDocument, posting types.JobPosting, cfg common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"resume_sections", len(resume.Sections),
			"posting_chars", len(posting.Text),
			"output_format", cfg.OutputFormat)
	}

	analyzeConfig.MaxFileSize = cfg.App.MaxFileSize
	err = common.RunEngineCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args[0],
		args[1],
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}
