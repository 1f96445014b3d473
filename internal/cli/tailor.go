package cli

import (
	"context"
	"fmt"

	"tailorkit/internal/common"
	"tailorkit/internal/engine"
	"tailorkit/internal/types"

	"github.com/spf13/cobra"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor [resume-file] [job-posting-file]",
	Short: "Tailor a resume for a specific job posting",
	Long: `Tailor your resume for a specific job posting. The command runs the
full analysis pipeline and outputs only the tailored resume: the original
document with every enhancement suggestion applied. Rewritten and added
bullets carry the id of the requirement that motivated them.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if tailorConfig.OutputFormat == "" {
			tailorConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(tailorConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runTailor,
}

var tailorConfig common.CommandConfig

func init() {
	tailorCmd.Flags().StringVarP(&tailorConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	tailorCmd.Flags().StringVar(&tailorConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = tailorCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runTailor(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	store, err := newLexiconStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load lexicon tables: %w", err)
	}
	eng := engine.New(engineConfig(cfg), store, logger)

	tailorOperation := func(ctx context.Context, resume *types.ResumeDocument, posting types.JobPosting) (types.TailoredResume, error) {
		result, err := eng.Analyze(ctx, resume, posting)
		if err != nil {
			return types.TailoredResume{}, err
		}
		logger.Info("Tailoring applied",
			"analysis_id", result.AnalysisID,
			"score", result.Score,
			"projected_score", result.ProjectedScore,
			"suggestions", len(result.Suggestions))
		return result.Tailored, nil
	}

	logDetails := func(resume *types.ResumeDocument, posting types.JobPosting, cfg common.CommandConfig) {
		logger.Info("Starting resume tailoring",
			"resume_sections", len(resume.Sections),
			"posting_chars", len(posting.Text),
			"output_format", cfg.OutputFormat)
	}

	tailorConfig.MaxFileSize = cfg.App.MaxFileSize
	err = common.RunEngineCommand(
		cmd.Context(),
		logger,
		tailorConfig,
		args[0],
		args[1],
		tailorOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to tailor resume: %w", err)
	}
	logger.Info("Resume tailoring completed successfully")
	return nil
}
