package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailorkit/internal/config"
	"tailorkit/internal/engine"
	"tailorkit/internal/errors"
	"tailorkit/internal/lexicon"
	"tailorkit/internal/observability"
	"tailorkit/internal/types"
)

func newTestServer(t *testing.T, apiKeys []string) (*Server, *observability.ObservabilityManager) {
	t.Helper()

	logger, err := errors.New("error")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Engine.MatchWorkers = 2
	cfg.Engine.Thresholds = config.ThresholdsConfig{Fuzzy: 0.6, Partial: 0.3, Synonym: 0.9, Strong: 0.85}

	store := lexicon.NewStore(nil)
	s := NewServer(cfg, ServerConfig{
		Host:           "localhost",
		Port:           "0",
		Version:        "test",
		APIKeys:        apiKeys,
		MaxRequestSize: 1 << 20,
	}, logger)
	s.LexiconStore = store
	s.Engine = engine.New(engine.DefaultConfig(), store, logger)

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, cfg)
	require.NoError(t, err)

	return s, om
}

func analyzeBody(t *testing.T) []byte {
	t.Helper()
	req := AnalyzeRequest{
		Resume: &types.ResumeDocument{
			Sections: []types.Section{
				{
					Kind: types.SectionExperience,
					Experiences: []types.ExperienceEntry{
						{
							Title:        "Backend Engineer",
							Organization: "Acme",
							Bullets:      []string{"Developed backend services using Python for 6 years"},
						},
					},
				},
			},
		},
		Posting: types.JobPosting{
			Text: "About the Role\n" +
				"We are looking for an engineer to join our backend team.\n" +
				"Requirements:\n" +
				"5+ years of Python and strong communication skills\n",
			Title: "Backend Engineer",
		},
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return body
}

func TestAnalyzeEndpoint(t *testing.T) {
	s, om := newTestServer(t, nil)
	handler := s.createAnalyzeHandler(om)

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(analyzeBody(t)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result types.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.AnalysisID)
	assert.Greater(t, result.Score, 0)
	assert.NotEmpty(t, result.Matched)
}

func TestTailorEndpointReturnsTailoredResume(t *testing.T) {
	s, om := newTestServer(t, nil)
	handler := s.createTailorHandler(om)

	req := httptest.NewRequest(http.MethodPost, "/tailor", bytes.NewReader(analyzeBody(t)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var tailored types.TailoredResume
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tailored))
	assert.NotEmpty(t, tailored.Sections)
}

func TestAnalyzeEndpointRejectsMissingFields(t *testing.T) {
	s, om := newTestServer(t, nil)
	handler := s.createAnalyzeHandler(om)

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte(`{"posting":{"text":"short"}}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEndpointRejectsShortPosting(t *testing.T) {
	s, om := newTestServer(t, nil)
	handler := s.createAnalyzeHandler(om)

	body := []byte(`{
		"resume": {"sections": [{"kind": "skills", "entries": ["Python"]}]},
		"posting": {"text": "too short to analyze"}
	}`)
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnalyzeEndpointRequiresJSONContentType(t *testing.T) {
	s, om := newTestServer(t, nil)
	handler := s.createAnalyzeHandler(om)

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(analyzeBody(t)))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	s, _ := newTestServer(t, []string{"secret-key-12345"})

	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		apiKey     string
		authHeader string
		wantStatus int
	}{
		{"missing key", "", "", http.StatusUnauthorized},
		{"invalid key", "wrong", "", http.StatusUnauthorized},
		{"valid header key", "secret-key-12345", "", http.StatusOK},
		{"valid bearer token", "", "Bearer secret-key-12345", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAuthMiddlewareOpenWhenNoKeys(t *testing.T) {
	s, _ := newTestServer(t, nil)

	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	s, _ := newTestServer(t, nil)

	handler := s.requestIDMiddleware()(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("generates id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("echoes client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
		req.Header.Set("X-Request-ID", "client-id-1")
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, "client-id-1", rec.Header().Get("X-Request-ID"))
	})
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(60, time.Minute, 2, nil)
	defer limiter.Close()

	// Burst capacity of 2 allows two immediate requests
	assert.True(t, limiter.Allow("ip:10.0.0.1"))
	assert.True(t, limiter.Allow("ip:10.0.0.1"))
	assert.False(t, limiter.Allow("ip:10.0.0.1"))

	// Separate keys get separate buckets
	assert.True(t, limiter.Allow("ip:10.0.0.2"))

	stats := limiter.GetStats()
	assert.Equal(t, 2, stats["active_limiters"])
	assert.Equal(t, 2, stats["burst_capacity"])
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "192.168.1.5:1234", nil, "192.168.1.5"},
		{"x-forwarded-for", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"x-real-ip", "10.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.3"}, "198.51.100.3"},
		{"invalid forwarded falls through", "10.0.0.1:80", map[string]string{"X-Forwarded-For": "not-an-ip"}, "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh****", maskAPIKey("abcdefghijklmnop"))
}

func TestHealthHandler(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "tailorkit", response["service"])

	lex, ok := response["lexicon"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, lex["available"])
	assert.Equal(t, "builtin", lex["source"])
}

func TestHealthHandlerRejectsPost(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStatsHandler(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	s.statsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "tailorkit", response["service"])
	assert.NotEmpty(t, response["lexicon_version"])

	rl, ok := response["rate_limiting"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, rl["enabled"])
}
