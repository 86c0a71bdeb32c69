package jobs

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/wonny/stockscore/internal/scheduler"
	"github.com/wonny/stockscore/pkg/config"
	"github.com/wonny/stockscore/pkg/httputil"
	"github.com/wonny/stockscore/pkg/logger"
)

// KeepAliveJob pings the service's public URL so the host does not idle
// it out during market hours
type KeepAliveJob struct {
	client   *httputil.Client
	url      string
	schedule string
	logger   *logger.Logger
}

// NewKeepAliveJob creates a new keep-alive job
func NewKeepAliveJob(client *httputil.Client, url, schedule string, log *logger.Logger) *KeepAliveJob {
	return &KeepAliveJob{
		client:   client,
		url:      url,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *KeepAliveJob) Name() string {
	return "keep_alive"
}

// Schedule returns the cron schedule
func (j *KeepAliveJob) Schedule() string {
	return j.schedule
}

// Run pings the URL once
func (j *KeepAliveJob) Run(ctx context.Context) error {
	resp, err := j.client.Get(ctx, j.url)
	if err != nil {
		return fmt.Errorf("keep-alive ping to %s failed: %w", j.url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("keep-alive ping to %s returned status %d", j.url, resp.StatusCode)
	}

	j.logger.WithFields(map[string]interface{}{
		"url":    j.url,
		"status": resp.StatusCode,
	}).Info("Keep-alive ping successful")
	return nil
}

// RegisterKeepAlive adds the keep-alive job when a URL is configured.
// It reports whether the job was registered.
func RegisterKeepAlive(s *scheduler.Scheduler, cfg config.KeepAliveConfig, client *httputil.Client, log *logger.Logger) (bool, error) {
	if cfg.URL == "" {
		log.Info("KEEPALIVE_URL not set, keep-alive job disabled")
		return false, nil
	}

	job := NewKeepAliveJob(client, cfg.URL, cfg.Schedule, log)
	if err := s.AddJob(job); err != nil {
		return false, err
	}
	return true, nil
}
