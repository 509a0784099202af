package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect background jobs",
	Long:  `List, inspect, or cancel background jobs such as clustering runs.`,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent jobs",
	RunE:  runJobsList,
}

var jobsGetCmd = &cobra.Command{
	Use:   "get [job-id]",
	Short: "Show job status",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsGet,
}

var jobsCancelCmd = &cobra.Command{
	Use:   "cancel [job-id]",
	Short: "Cancel a pending or running job",
	Long: `Requests cancellation of a job. Running jobs observe the request
between processing stages, so cancellation may take a moment.`,
	Args: cobra.ExactArgs(1),
	RunE: runJobsCancel,
}

func init() {
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsGetCmd)
	jobsCmd.AddCommand(jobsCancelCmd)
	rootCmd.AddCommand(jobsCmd)
}

func runJobsList(cmd *cobra.Command, _ []string) error {
	if jobService == nil {
		return errors.New("job service not configured")
	}

	jobs, err := jobService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing jobs: %w", err)
	}

	if len(jobs) == 0 {
		cmd.Println("No jobs.")
		return nil
	}

	for i := range jobs {
		cmd.Printf("  %s  %-10s  %-9s  %3d%%  %s\n",
			jobs[i].ID, jobs[i].Type, jobs[i].Status, jobs[i].Progress,
			formatTime(jobs[i].CreatedAt))
	}
	return nil
}

func runJobsGet(cmd *cobra.Command, args []string) error {
	if jobService == nil {
		return errors.New("job service not configured")
	}

	job, err := jobService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting job: %w", err)
	}

	cmd.Printf("Job: %s\n\n", job.ID)
	cmd.Printf("  Type:     %s\n", job.Type)
	cmd.Printf("  Status:   %s\n", job.Status)
	cmd.Printf("  Progress: %d%%\n", job.Progress)
	cmd.Printf("  Created:  %s\n", formatTime(job.CreatedAt))
	cmd.Printf("  Updated:  %s\n", formatTime(job.UpdatedAt))
	if job.Error != "" {
		cmd.Printf("  Error:    %s\n", job.Error)
	}
	if job.Result != nil {
		cmd.Println()
		printClusterResult(cmd, job.Result)
	}
	return nil
}

func runJobsCancel(cmd *cobra.Command, args []string) error {
	if jobService == nil {
		return errors.New("job service not configured")
	}

	if err := jobService.Cancel(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("cancelling job: %w", err)
	}
	cmd.Printf("Cancellation requested for job %s\n", args[0])
	return nil
}
