package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

var clusterWait bool

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Organise the knowledge base into clusters",
	Long: `Runs density-based clustering over all stored chunks and names each
cluster from its own content. The run executes as a background job;
use --wait to follow it to completion, or 'corpora jobs get' later.`,
	RunE: runCluster,
}

func init() {
	clusterCmd.Flags().BoolVarP(&clusterWait, "wait", "w", false, "wait for the clustering job to finish")
	rootCmd.AddCommand(clusterCmd)
}

func runCluster(cmd *cobra.Command, _ []string) error {
	if clusterService == nil {
		return errors.New("cluster service not configured")
	}

	ctx := cmd.Context()

	jobID, err := clusterService.ClusterAllAsync(ctx)
	if err != nil {
		return fmt.Errorf("starting clustering: %w", err)
	}
	cmd.Printf("Clustering started: job %s\n", jobID)

	if !clusterWait {
		cmd.Printf("Check progress with: corpora jobs get %s\n", jobID)
		return nil
	}

	job, err := waitForJob(ctx, jobID)
	if err != nil {
		return err
	}

	switch job.Status {
	case domain.JobFailed:
		return fmt.Errorf("clustering failed: %s", job.Error)
	case domain.JobCancelled:
		cmd.Println("Clustering was cancelled.")
		return nil
	}

	printClusterResult(cmd, job.Result)
	return nil
}

// jobWaitTimeout bounds how long --wait follows a job before giving up.
// The job itself keeps running; only the polling stops.
var jobWaitTimeout = 5 * time.Minute

// waitForJob polls the job until it reaches a terminal state or the wait
// deadline passes.
func waitForJob(ctx context.Context, jobID string) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, jobWaitTimeout)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		job, err := jobService.Get(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("checking job: %w", err)
		}
		if job.Status.Terminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("timed out waiting for job %s after %s; check it with: corpora jobs get %s",
					jobID, jobWaitTimeout, jobID)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func printClusterResult(cmd *cobra.Command, result *domain.ClusterResult) {
	if result == nil {
		cmd.Println("Clustering finished.")
		return
	}
	if result.ChunksClustered == 0 {
		cmd.Println("Nothing to cluster yet; ingest at least two documents first.")
		return
	}

	cmd.Printf("Clustering finished: %d clusters over %d chunks (%d uncategorized, cohesion %.3f)\n\n",
		result.ClusterCount, result.ChunksClustered, result.NoiseCount, result.Cohesion)

	ids := make([]int, 0, len(result.Names))
	for id := range result.Names {
		if id != domain.NoiseCluster {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	sizes := make(map[int]int)
	for _, cluster := range result.Assignments {
		sizes[cluster]++
	}

	for _, id := range ids {
		cmd.Printf("  [%d] %s (%d chunks)\n", id, result.Names[id], sizes[id])
	}
	if result.NoiseCount > 0 {
		cmd.Printf("  [%d] %s (%d chunks)\n", domain.NoiseCluster, domain.NoiseClusterName, result.NoiseCount)
	}
}
