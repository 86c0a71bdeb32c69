package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockscore/internal/api/handlers"
	"github.com/wonny/stockscore/internal/contracts"
	"github.com/wonny/stockscore/internal/scheduler"
	"github.com/wonny/stockscore/pkg/logger"
)

type stubScorer struct {
	score   int
	explode bool
}

func (s stubScorer) Score(_ context.Context, _ string) contracts.ScoreResult {
	if s.explode {
		panic("boom")
	}
	return contracts.NewScoreResult(s.score, "Weak Fundamentals")
}

type stubScanner struct{}

func (stubScanner) Scan(_ context.Context, symbol string) contracts.ScanResult {
	return contracts.ScanResult{
		Symbol:         symbol,
		Price:          101.5,
		Recommendation: "BUY",
		ScoreResult:    contracts.NewScoreResult(70, "Healthy Uptrend"),
	}
}

func newTestRouter(technical contracts.Scorer) http.Handler {
	return newTestRouterWithScheduler(technical, scheduler.New(logger.Nop()))
}

func newTestRouterWithScheduler(technical contracts.Scorer, s *scheduler.Scheduler) http.Handler {
	scoreHandler := handlers.NewScoreHandler(technical, stubScorer{score: 0}, stubScanner{}, logger.Nop())
	jobHandler := handlers.NewJobHandler(s)
	return NewRouter(scoreHandler, jobHandler, logger.Nop())
}

func TestRouter(t *testing.T) {
	router := newTestRouter(stubScorer{score: 60})

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"root", http.MethodGet, "/", "", http.StatusOK, `{"status":"Score Service Running"}`},
		{"health", http.MethodGet, "/health", "", http.StatusOK, `{"status":"ok","service":"stockscore-api"}`},
		{"technical", http.MethodPost, "/analyze/technical", `{"symbol":"TCS"}`, http.StatusOK,
			`{"symbol":"TCS","score":60,"reasoning":"Weak Fundamentals","recommendation":"HOLD"}`},
		{"fundamental", http.MethodPost, "/analyze/fundamental", `{"symbol":"TCS"}`, http.StatusOK,
			`{"symbol":"TCS","score":0,"reasoning":"Weak Fundamentals","recommendation":"SELL"}`},
		{"scan", http.MethodPost, "/analyze/scan", `{"symbol":"TCS"}`, http.StatusOK,
			`{"symbol":"TCS","price":101.5,"score":70,"reasoning":"Healthy Uptrend","recommendation":"BUY"}`},
		{"jobs", http.MethodGet, "/api/jobs", "", http.StatusOK, `{"jobs":[],"count":0}`},
		{"unknown job history", http.MethodGet, "/api/jobs/missing/history", "", http.StatusNotFound, `{"error":"job not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(stubScorer{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyze/technical", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_RecoversPanics(t *testing.T) {
	router := newTestRouter(stubScorer{explode: true})

	req := httptest.NewRequest(http.MethodPost, "/analyze/technical", strings.NewReader(`{"symbol":"TCS"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

type okJob struct{}

func (okJob) Name() string                { return "keep_alive" }
func (okJob) Schedule() string            { return "@hourly" }
func (okJob) Run(_ context.Context) error { return nil }

func TestRouter_JobHistory(t *testing.T) {
	s := scheduler.New(logger.Nop())
	require.NoError(t, s.AddJob(okJob{}))
	_, err := s.RunJob("keep_alive")
	require.NoError(t, err)

	router := newTestRouterWithScheduler(stubScorer{}, s)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/keep_alive/history", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"job":"keep_alive"`)
	assert.Contains(t, rec.Body.String(), `"count":1`)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}
