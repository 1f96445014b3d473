package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	tailorkitErrors "tailorkit/internal/errors"
	"tailorkit/internal/observability"
	"tailorkit/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createAnalyzeHandler wraps the analyze handler with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("tailorkit.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if err := validateEngineRequest(req.Resume, req.Posting); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_sections", len(req.Resume.Sections)),
			attribute.Int("request.posting_length", len(req.Posting.Text)),
			attribute.String("operation", "analyze"),
		)

		metrics := om.GetMetrics()
		var result *types.AnalysisResult
		err := metrics.TrackEngineOperation(ctx, "analyze", func(ctx context.Context) *observability.EngineOperationResult {
			analysis, engineErr := s.Engine.Analyze(ctx, req.Resume, req.Posting)
			result = analysis
			return &observability.EngineOperationResult{
				Error:    engineErr,
				Analysis: analysis,
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "resume_analyzed", false, om,
				attribute.String("error", err.Error()))
			writeEngineError(w, err, "Failed to analyze resume")
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_analyzed", true, om,
			attribute.Int("ats.score", result.Score),
			attribute.Int("suggestions", len(result.Suggestions)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("ats.score", result.Score),
			attribute.Int("ats.projected_score", result.ProjectedScore),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createTailorHandler wraps the tailor handler with observability
func (s *Server) createTailorHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("tailorkit.api")
		ctx, span := tracer.Start(ctx, "api.tailor")
		defer span.End()

		var req TailorRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if err := validateEngineRequest(req.Resume, req.Posting); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_sections", len(req.Resume.Sections)),
			attribute.Int("request.posting_length", len(req.Posting.Text)),
			attribute.String("operation", "tailor"),
		)

		metrics := om.GetMetrics()
		var result *types.AnalysisResult
		err := metrics.TrackEngineOperation(ctx, "tailor", func(ctx context.Context) *observability.EngineOperationResult {
			analysis, engineErr := s.Engine.Analyze(ctx, req.Resume, req.Posting)
			result = analysis
			return &observability.EngineOperationResult{
				Error:    engineErr,
				Analysis: analysis,
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "resume_tailored", false, om,
				attribute.String("error", err.Error()))
			writeEngineError(w, err, "Failed to tailor resume")
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_tailored", true, om,
			attribute.Int("ats.score", result.Score),
			attribute.Int("ats.projected_score", result.ProjectedScore))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("ats.projected_score", result.ProjectedScore),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result.Tailored); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// validateEngineRequest checks the shared request shape before handing off to
// the engine. The engine applies its own minimum-length rules on top.
func validateEngineRequest(resume *types.ResumeDocument, posting types.JobPosting) error {
	if resume == nil || len(resume.Sections) == 0 {
		return fmt.Errorf("resume field is required and must have sections")
	}
	if strings.TrimSpace(posting.Text) == "" {
		return fmt.Errorf("posting.text field is required")
	}
	return nil
}

// writeEngineError maps engine failures to HTTP status codes. Input
// validation failures are the caller's fault.
func writeEngineError(w http.ResponseWriter, err error, message string) {
	if tailorkitErrors.IsInsufficientInput(err) {
		writeErrorResponse(w, message, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeErrorResponse(w, message, err.Error(), http.StatusInternalServerError)
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
