package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/stockscore/internal/scheduler"
	"github.com/wonny/stockscore/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Inspect and run scheduled jobs",
	Long: `Lists the jobs the api command schedules and runs them on demand.

Subcommands:
  list  - registered jobs and their schedules
  run   - run a job now and wait for the result

Example:
  go run ./cmd/stockscore scheduler list
  go run ./cmd/stockscore scheduler run keep_alive`,
}

var (
	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "Registered jobs",
		Args:  cobra.NoArgs,
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	printJobs(cmd.OutOrStdout(), sched)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	result, err := sched.RunJob(jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	w := cmd.OutOrStdout()
	if !result.Success {
		fmt.Fprintf(w, "%s failed after %s: %s\n", jobName, result.Duration, result.Error)
		return fmt.Errorf("job %s failed", jobName)
	}

	fmt.Fprintf(w, "%s succeeded in %s\n", jobName, result.Duration)
	return nil
}

func printJobs(w io.Writer, sched *scheduler.Scheduler) {
	names := sched.GetAllJobs()
	if len(names) == 0 {
		fmt.Fprintln(w, "No jobs registered (set KEEPALIVE_URL to enable keep_alive)")
		return
	}

	stats := sched.GetJobStats()
	fmt.Fprintln(w, "Registered jobs:")
	for _, name := range names {
		fmt.Fprintf(w, "  - %s (%s)\n", name, stats[name].Schedule)
	}
}

func initScheduler() (*scheduler.Scheduler, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// stdout carries the result; logs go to stderr
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel)

	return newScheduler(cfg, log)
}
