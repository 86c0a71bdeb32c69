package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/stockscore/internal/scheduler"
)

const defaultHistoryLimit = 20

// JobSource exposes scheduler statistics and run history
type JobSource interface {
	GetJobStats() map[string]scheduler.JobStats
	GetJobHistory(jobName string, limit int) ([]scheduler.JobResult, error)
}

// JobHandler reports scheduled job status
type JobHandler struct {
	source JobSource
}

// NewJobHandler creates a new job handler
func NewJobHandler(source JobSource) *JobHandler {
	return &JobHandler{source: source}
}

// List returns statistics for every registered job
// GET /api/jobs
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	stats := h.source.GetJobStats()
	jobs := make([]scheduler.JobStats, 0, len(stats))
	for _, s := range stats {
		jobs = append(jobs, s)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].JobName < jobs[j].JobName
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// History returns the latest runs of one job, oldest first
// GET /api/jobs/{name}/history?limit=20
func (h *JobHandler) History(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	// Parse limit parameter (default: 20)
	limit := defaultHistoryLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	results, err := h.source.GetJobHistory(name, limit)
	if errors.Is(err, scheduler.ErrJobNotFound) {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read job history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"job":     name,
		"results": results,
		"count":   len(results),
	})
}
