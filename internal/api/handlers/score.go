package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wonny/stockscore/internal/contracts"
	"github.com/wonny/stockscore/internal/scoring"
	"github.com/wonny/stockscore/pkg/logger"
)

const maxRequestBody = 1 << 20

// ScoreHandler handles the score endpoints
// ⭐ SSOT: 점수 API 핸들러는 이 구조체에서만
type ScoreHandler struct {
	technical   contracts.Scorer
	fundamental contracts.Scorer
	scanner     contracts.Scanner
	logger      *logger.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(technical, fundamental contracts.Scorer, scanner contracts.Scanner, log *logger.Logger) *ScoreHandler {
	return &ScoreHandler{
		technical:   technical,
		fundamental: fundamental,
		scanner:     scanner,
		logger:      log,
	}
}

// AnalyzeRequest is the body of the analyze endpoints
type AnalyzeRequest struct {
	Symbol string `json:"symbol"`
}

// AnalyzeResponse is returned by the analyze endpoints
type AnalyzeResponse struct {
	Symbol         string `json:"symbol"`
	Score          int    `json:"score"`
	Reasoning      string `json:"reasoning"`
	Recommendation string `json:"recommendation"`
}

// ScanResponse is returned by the scan endpoint
type ScanResponse struct {
	Symbol         string  `json:"symbol"`
	Price          float64 `json:"price"`
	Score          int     `json:"score"`
	Reasoning      string  `json:"reasoning"`
	Recommendation string  `json:"recommendation"`
}

// Technical scores trend and momentum
// POST /analyze/technical {"symbol": "RELIANCE"}
func (h *ScoreHandler) Technical(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, "technical", h.technical)
}

// Fundamental scores financial ratios
// POST /analyze/fundamental {"symbol": "RELIANCE"}
func (h *ScoreHandler) Fundamental(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, "fundamental", h.fundamental)
}

// Scan runs the composite trend, momentum and volume scan
// POST /analyze/scan {"symbol": "RELIANCE"}
func (h *ScoreHandler) Scan(w http.ResponseWriter, r *http.Request) {
	symbol, ok := decodeSymbol(w, r)
	if !ok {
		return
	}

	result := h.scanner.Scan(r.Context(), symbol)

	h.logger.WithFields(map[string]interface{}{
		"symbol":         symbol,
		"kind":           "scan",
		"score":          result.Score,
		"recommendation": result.Recommendation,
	}).Info("Scored symbol")

	respondJSON(w, http.StatusOK, ScanResponse{
		Symbol:         symbol,
		Price:          result.Price,
		Score:          result.Score,
		Reasoning:      result.Reasoning(),
		Recommendation: result.Recommendation,
	})
}

// decodeSymbol reads the request symbol, writing a 400 when it is missing
func decodeSymbol(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}

	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return "", false
	}
	return symbol, true
}

func (h *ScoreHandler) analyze(w http.ResponseWriter, r *http.Request, kind string, scorer contracts.Scorer) {
	symbol, ok := decodeSymbol(w, r)
	if !ok {
		return
	}

	result := scorer.Score(r.Context(), symbol)

	h.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"kind":   kind,
		"score":  result.Score,
	}).Info("Scored symbol")

	respondJSON(w, http.StatusOK, AnalyzeResponse{
		Symbol:         symbol,
		Score:          result.Score,
		Reasoning:      result.Reasoning(),
		Recommendation: scoring.Recommendation(result.Score),
	})
}
