package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

func TestClusterCmd_Use(t *testing.T) {
	assert.Equal(t, "cluster", clusterCmd.Use)
}

func TestClusterCmd_HasWaitFlag(t *testing.T) {
	flag := clusterCmd.Flags().Lookup("wait")
	assert.NotNil(t, flag)
	assert.Equal(t, "w", flag.Shorthand)
}

func TestClusterCmd_StartsJob(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"cluster"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Clustering started: job job-123")
	assert.Contains(t, buf.String(), "corpora jobs get job-123")
}

func TestClusterCmd_WaitFollowsJob(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"cluster", "--wait"})
	defer func() {
		rootCmd.SetArgs(nil)
		clusterWait = false // Reset flag
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	// Mock job completes immediately with no result payload.
	assert.Contains(t, buf.String(), "Clustering finished.")
}

func TestClusterCmd_WaitTimesOut(t *testing.T) {
	oldJob := jobService
	oldTimeout := jobWaitTimeout
	jobService = &mockJobServiceRunning{}
	jobWaitTimeout = 50 * time.Millisecond
	defer func() {
		jobService = oldJob
		jobWaitTimeout = oldTimeout
		clusterWait = false
		rootCmd.SetArgs(nil)
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"cluster", "--wait"})

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "timed out waiting for job job-123")
}

func TestClusterCmd_ServiceNotConfigured(t *testing.T) {
	oldService := clusterService
	clusterService = nil
	defer func() {
		clusterService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"cluster"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cluster service not configured")
}

func TestPrintClusterResult_NilResult(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	printClusterResult(rootCmd, nil)

	assert.Contains(t, buf.String(), "Clustering finished.")
}

func TestPrintClusterResult_EmptyCorpus(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	printClusterResult(rootCmd, &domain.ClusterResult{})

	assert.Contains(t, buf.String(), "Nothing to cluster yet")
}

func TestPrintClusterResult_ListsClustersWithNoiseLast(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	printClusterResult(rootCmd, &domain.ClusterResult{
		ClusterCount:    2,
		NoiseCount:      1,
		ChunksClustered: 7,
		Cohesion:        0.81,
		Assignments: map[string]int{
			"a:0": 0, "a:1": 0, "a:2": 0,
			"b:0": 1, "b:1": 1, "b:2": 1,
			"c:0": domain.NoiseCluster,
		},
		Names: map[int]string{
			0:                   "Engine & Rocket",
			1:                   "Salsa & Tomato",
			domain.NoiseCluster: domain.NoiseClusterName,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "2 clusters over 7 chunks")
	assert.Contains(t, out, "[0] Engine & Rocket (3 chunks)")
	assert.Contains(t, out, "[1] Salsa & Tomato (3 chunks)")
	assert.Contains(t, out, "[-1] Uncategorized (1 chunks)")
	assert.Greater(t, strings.Index(out, "Uncategorized"), strings.Index(out, "Salsa & Tomato"))
}
