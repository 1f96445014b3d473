package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"tailorkit/internal/errors"
	"tailorkit/internal/lexicon"
	"tailorkit/internal/types"
)

// Stage identifies one step of the analysis pipeline. Transitions run
// strictly forward; failed is reachable from validating only, since every
// later stage is a total function over already-validated data.
type Stage string

const (
	StageValidating  Stage = "validating"
	StageNormalizing Stage = "normalizing"
	StageExtracting  Stage = "extracting"
	StageIndexing    Stage = "indexing"
	StageMatching    Stage = "matching"
	StageScoring     Stage = "scoring"
	StageEnhancing   Stage = "enhancing"
	StageComplete    Stage = "complete"
	StageFailed      Stage = "failed"
)

// Config holds the tunable parameters of the engine
type Config struct {
	Thresholds   MatchThresholds
	MatchWorkers int
}

// DefaultConfig returns the documented threshold bands and a small worker
// pool for per-requirement matching.
func DefaultConfig() Config {
	return Config{
		Thresholds:   DefaultThresholds(),
		MatchWorkers: 4,
	}
}

// ProgressFunc receives each stage transition. Callers can surface these as
// incremental UI feedback; the engine itself has no timing or UI concern.
type ProgressFunc func(Stage)

// Option configures one Analyze call
type Option func(*analyzeOptions)

type analyzeOptions struct {
	progress ProgressFunc
}

// WithProgress registers a callback invoked on every stage transition
func WithProgress(fn ProgressFunc) Option {
	return func(o *analyzeOptions) { o.progress = fn }
}

// Engine is the tailoring orchestrator: it owns cross-component sequencing
// and assembles the final AnalysisResult. Components never call each other
// directly. The engine holds no cross-request state beyond the lexicon
// store; every analysis works on a fresh lexicon snapshot and
// request-scoped intermediates.
type Engine struct {
	cfg    Config
	store  *lexicon.Store
	logger *errors.Logger
	tracer oteltrace.Tracer
}

// New creates an engine over a lexicon store
func New(cfg Config, store *lexicon.Store, logger *errors.Logger) *Engine {
	if cfg.MatchWorkers < 1 {
		cfg.MatchWorkers = 1
	}
	return &Engine{
		cfg:    cfg,
		store:  store,
		logger: logger,
		tracer: otel.Tracer("tailorkit.engine"),
	}
}

// Analyze runs one full request/response cycle: requirements extraction,
// matching, scoring and enhancement generation over one resume and one job
// posting. The inputs are read-only; all intermediates are request-scoped.
// The only fatal path is input validation; everything downstream degrades
// to empty results instead of failing.
func (e *Engine) Analyze(ctx context.Context, resume *types.ResumeDocument, posting types.JobPosting, opts ...Option) (*types.AnalysisResult, error) {
	var options analyzeOptions
	for _, opt := range opts {
		opt(&options)
	}

	ctx, span := e.tracer.Start(ctx, "engine.analyze")
	defer span.End()

	lex := e.store.Snapshot()

	// validating: the sole stage that can fail the request.
	if err := e.runStage(ctx, StageValidating, options.progress, func() error {
		return validateInputs(resume, posting)
	}); err != nil {
		options.emit(StageFailed)
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		return nil, err
	}

	normalizer := NewNormalizer(lex)

	var lines []Line
	if err := e.runStage(ctx, StageNormalizing, options.progress, func() error {
		lines = normalizer.Normalize(posting.Text)
		return nil
	}); err != nil {
		return nil, err
	}

	var reqs []types.Requirement
	if err := e.runStage(ctx, StageExtracting, options.progress, func() error {
		reqs = NewExtractor(lex).Extract(lines)
		return nil
	}); err != nil {
		return nil, err
	}
	if len(reqs) == 0 && e.logger != nil {
		// Non-fatal: a zero-requirement posting scores 100 trivially.
		e.logger.Warn("No requirements extracted from job posting",
			"error_code", errors.ErrCodeAmbiguousExtraction,
			"posting_chars", len(posting.Text))
	}

	var index *ResumeIndex
	if err := e.runStage(ctx, StageIndexing, options.progress, func() error {
		index = NewIndexer(lex).Index(resume)
		return nil
	}); err != nil {
		return nil, err
	}

	var matches []types.MatchResult
	if err := e.runStage(ctx, StageMatching, options.progress, func() error {
		matches = NewMatcher(lex, e.cfg.Thresholds, e.cfg.MatchWorkers).Match(ctx, reqs, index)
		return ctx.Err()
	}); err != nil {
		return nil, err
	}

	scorer := NewScorer()
	var score int
	if err := e.runStage(ctx, StageScoring, options.progress, func() error {
		score = scorer.Score(matches)
		return nil
	}); err != nil {
		return nil, err
	}

	var suggestions []types.EnhancementSuggestion
	if err := e.runStage(ctx, StageEnhancing, options.progress, func() error {
		suggestions = NewEnhancer(lex, e.cfg.Thresholds.Strong).Suggest(matches, index)
		return nil
	}); err != nil {
		return nil, err
	}

	result := &types.AnalysisResult{
		AnalysisID:     analysisID(resume, posting),
		LexiconVersion: lex.Version,
		Score:          score,
		ProjectedScore: scorer.ProjectedScore(matches, suggestions),
		Suggestions:    suggestions,
		Tailored:       BuildTailored(resume, suggestions),
	}
	for _, m := range matches {
		if m.Status == types.StatusUnmatched {
			result.Unmatched = append(result.Unmatched, m)
		} else {
			result.Matched = append(result.Matched, m)
		}
	}

	span.SetAttributes(
		attribute.Int("analysis.requirements", len(reqs)),
		attribute.Int("analysis.score", score),
		attribute.Int("analysis.projected_score", result.ProjectedScore),
		attribute.Int("analysis.suggestions", len(suggestions)),
		attribute.String("analysis.lexicon_version", lex.Version),
	)
	options.emit(StageComplete)

	return result, nil
}

// runStage checks for caller cancellation at the stage boundary, emits the
// progress event and wraps the stage in a span.
func (e *Engine) runStage(ctx context.Context, stage Stage, progress ProgressFunc, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("analysis abandoned before %s: %w", stage, err)
	}
	if progress != nil {
		progress(stage)
	}

	_, span := e.tracer.Start(ctx, "engine."+string(stage))
	defer span.End()

	if err := fn(); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (o *analyzeOptions) emit(stage Stage) {
	if o.progress != nil {
		o.progress(stage)
	}
}

// validateInputs enforces the documented validation rules: postings under
// MinPostingLength characters and resumes with no content at all are
// rejected before any computation.
func validateInputs(resume *types.ResumeDocument, posting types.JobPosting) error {
	trimmed := strings.TrimSpace(posting.Text)
	if len(trimmed) < MinPostingLength {
		return errors.NewValidationError(errors.ErrCodeInsufficientInput,
			"job posting text is too short to analyze", nil).
			WithContext("length", len(trimmed)).
			WithContext("minimum", MinPostingLength)
	}
	if resume == nil || resumeIsEmpty(resume) {
		return errors.NewValidationError(errors.ErrCodeInsufficientInput,
			"resume has no analyzable content", nil)
	}
	return nil
}

func resumeIsEmpty(resume *types.ResumeDocument) bool {
	for _, section := range resume.Sections {
		for _, entry := range section.Entries {
			if strings.TrimSpace(entry) != "" {
				return false
			}
		}
		for _, exp := range section.Experiences {
			if strings.TrimSpace(exp.Title) != "" {
				return false
			}
			for _, b := range exp.Bullets {
				if strings.TrimSpace(b) != "" {
					return false
				}
			}
		}
	}
	return true
}

// analysisID derives a stable id from the inputs, so identical requests get
// identical results end to end and callers can cache by id.
func analysisID(resume *types.ResumeDocument, posting types.JobPosting) string {
	h := sha256.New()
	if data, err := json.Marshal(resume); err == nil {
		h.Write(data)
	}
	h.Write([]byte(posting.Text))
	h.Write([]byte(posting.Title))
	h.Write([]byte(posting.Company))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
