package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/stockscore/internal/api"
	"github.com/wonny/stockscore/internal/api/handlers"
	"github.com/wonny/stockscore/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API server and the keep-alive scheduler.

Endpoints:
  GET  /                     - Service status
  GET  /health               - Health check
  POST /analyze/technical    - Technical score {"symbol": "RELIANCE"}
  POST /analyze/fundamental  - Fundamental score {"symbol": "RELIANCE"}
  POST /analyze/scan         - Composite scan {"symbol": "RELIANCE"}
  GET  /api/jobs             - Scheduled job status
  GET  /api/jobs/{name}/history?limit=20 - Recent runs of a job

Example:
  go run ./cmd/stockscore api
  go run ./cmd/stockscore api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default PORT or 8089)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Scoring stack
	svc := newServices(cmd.Context(), cfg, log)
	defer svc.Close()

	// 4. Scheduler
	sched, err := newScheduler(cfg, log)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()
	log.Infof("Scheduler started with %d job(s)", len(sched.GetAllJobs()))

	// 5. Router and server
	scoreHandler := handlers.NewScoreHandler(svc.technical, svc.fundamental, svc.scan, log)
	jobHandler := handlers.NewJobHandler(sched)
	router := api.NewRouter(scoreHandler, jobHandler, log)
	server := api.New(cfg, log, router)

	// 6. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-quit:
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
