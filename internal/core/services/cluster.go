package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/corpora-labs/corpora-cli/internal/clustering"
	"github.com/corpora-labs/corpora-cli/internal/core/domain"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driven"
	"github.com/corpora-labs/corpora-cli/internal/core/ports/driving"
	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// Ensure ClusterService implements the interface.
var _ driving.ClusterService = (*ClusterService)(nil)

// ClusterService runs density-based clustering over the full corpus and
// writes assignments back to the vector store and the registry.
type ClusterService struct {
	vectors     driven.VectorStore
	registry    driven.DocumentRegistry
	jobs        *JobManager
	eps         float64
	minPts      int
	nameTerms   int
	invalidator cacheInvalidator
}

// NewClusterService creates a new cluster service.
func NewClusterService(vectors driven.VectorStore, registry driven.DocumentRegistry, jobs *JobManager) *ClusterService {
	return &ClusterService{
		vectors:   vectors,
		registry:  registry,
		jobs:      jobs,
		eps:       clustering.DefaultEps,
		minPts:    clustering.DefaultMinPts,
		nameTerms: clustering.DefaultNameTerms,
	}
}

// SetParameters overrides the DBSCAN parameters. Non-positive values keep
// the current setting.
func (s *ClusterService) SetParameters(eps float64, minPts int) {
	if eps > 0 {
		s.eps = eps
	}
	if minPts > 0 {
		s.minPts = minPts
	}
}

// SetInvalidator registers a cache to invalidate when clustering finishes.
func (s *ClusterService) SetInvalidator(inv cacheInvalidator) {
	s.invalidator = inv
}

// ClusterAllAsync dispatches a clustering run as a background job.
func (s *ClusterService) ClusterAllAsync(ctx context.Context) (string, error) {
	jobID := s.jobs.Create(domain.JobTypeClustering)

	go func() {
		// The job outlives the dispatching call.
		runCtx := context.WithoutCancel(ctx)

		s.jobs.Start(jobID)
		result, err := s.run(runCtx, jobID)
		switch {
		case errors.Is(err, domain.ErrJobCancelled):
			s.jobs.MarkCancelled(jobID)
		case err != nil:
			logger.Error("Clustering job %s failed: %v", jobID, err)
			s.jobs.Fail(jobID, err.Error())
		default:
			s.jobs.Complete(jobID, result)
		}
	}()

	return jobID, nil
}

// ClusterAll runs clustering synchronously.
func (s *ClusterService) ClusterAll(ctx context.Context) (*domain.ClusterResult, error) {
	return s.run(ctx, "")
}

// checkpoint reports progress and observes cancellation between stages.
func (s *ClusterService) checkpoint(jobID string, progress int) error {
	if jobID == "" {
		return nil
	}
	if s.jobs.Cancelled(jobID) {
		return domain.ErrJobCancelled
	}
	s.jobs.SetProgress(jobID, progress)
	return nil
}

// run executes one full clustering pass. jobID is empty for synchronous
// runs.
func (s *ClusterService) run(ctx context.Context, jobID string) (*domain.ClusterResult, error) {
	logger.Section("Clustering")

	// With fewer than two documents there is nothing to organise; the
	// algorithm is skipped entirely.
	docCount, err := s.registry.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}
	if docCount < 2 {
		logger.Info("Only %d document(s), skipping clustering", docCount)
		return &domain.ClusterResult{
			Assignments: map[string]int{},
			Names:       map[int]string{},
		}, nil
	}

	if err := s.checkpoint(jobID, 5); err != nil {
		return nil, err
	}

	// Stage 1: load every chunk with its vector.
	var (
		ids     []string
		vectors [][]float32
		texts   []string
		docIDs  []string
	)
	err = s.vectors.ScrollAll(ctx, true, func(p driven.Point) error {
		ids = append(ids, p.ID)
		vectors = append(vectors, p.Vector)
		text, _ := p.Payload["text"].(string)
		texts = append(texts, text)
		docID, _ := p.Payload["document_id"].(string)
		docIDs = append(docIDs, docID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading vectors: %w", err)
	}
	logger.Debug("Loaded %d chunks", len(ids))

	if err := s.checkpoint(jobID, 30); err != nil {
		return nil, err
	}

	// Stage 2: cluster.
	labels := clustering.DBSCAN(vectors, s.eps, s.minPts)
	cohesion := clustering.Silhouette(vectors, labels)

	if err := s.checkpoint(jobID, 60); err != nil {
		return nil, err
	}

	// Stage 3: name clusters from their own text.
	clusterTexts := make(map[int]string)
	var textBuilders = make(map[int]*strings.Builder)
	for i, label := range labels {
		if label == clustering.Noise {
			continue
		}
		b, ok := textBuilders[label]
		if !ok {
			b = &strings.Builder{}
			textBuilders[label] = b
		}
		b.WriteString(texts[i])
		b.WriteString(" ")
	}
	for label, b := range textBuilders {
		clusterTexts[label] = b.String()
	}

	names := clustering.NameClusters(clusterTexts, s.nameTerms)
	names[domain.NoiseCluster] = domain.NoiseClusterName

	if err := s.checkpoint(jobID, 75); err != nil {
		return nil, err
	}

	// Stage 4: write assignments back to the vector store.
	byCluster := make(map[int][]string)
	assignments := make(map[string]int, len(ids))
	noiseCount := 0
	for i, label := range labels {
		cluster := label
		if label == clustering.Noise {
			cluster = domain.NoiseCluster
			noiseCount++
		}
		assignments[ids[i]] = cluster
		byCluster[cluster] = append(byCluster[cluster], ids[i])
	}

	clusterIDs := make([]int, 0, len(byCluster))
	for id := range byCluster {
		clusterIDs = append(clusterIDs, id)
	}
	sort.Ints(clusterIDs)

	for _, clusterID := range clusterIDs {
		payload := map[string]any{
			"cluster_id":   clusterID,
			"cluster_name": names[clusterID],
		}
		if err := s.vectors.SetPayload(ctx, byCluster[clusterID], payload); err != nil {
			return nil, fmt.Errorf("writing cluster %d: %w", clusterID, err)
		}
	}

	if err := s.checkpoint(jobID, 90); err != nil {
		return nil, err
	}

	// Stage 5: roll chunk assignments up to documents by majority vote.
	if err := s.assignDocuments(ctx, docIDs, labels, names); err != nil {
		return nil, err
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}

	result := &domain.ClusterResult{
		Assignments:     assignments,
		Names:           names,
		ClusterCount:    len(clusterTexts),
		NoiseCount:      noiseCount,
		Cohesion:        cohesion,
		ChunksClustered: len(ids),
	}
	logger.Info("Clustering done: %d clusters, %d noise of %d chunks (cohesion %.3f)",
		result.ClusterCount, result.NoiseCount, result.ChunksClustered, result.Cohesion)
	return result, nil
}

// assignDocuments gives each document the cluster most of its chunks
// landed in. Ties break toward the smaller cluster id; noise only wins
// when every chunk is noise.
func (s *ClusterService) assignDocuments(ctx context.Context, docIDs []string, labels []int, names map[int]string) error {
	votes := make(map[string]map[int]int)
	for i, docID := range docIDs {
		if docID == "" {
			continue
		}
		if votes[docID] == nil {
			votes[docID] = make(map[int]int)
		}
		votes[docID][labels[i]]++
	}

	for docID, tally := range votes {
		best := domain.NoiseCluster
		bestVotes := -1

		clusterIDs := make([]int, 0, len(tally))
		for id := range tally {
			clusterIDs = append(clusterIDs, id)
		}
		sort.Ints(clusterIDs)

		for _, id := range clusterIDs {
			if id == domain.NoiseCluster {
				continue
			}
			if tally[id] > bestVotes {
				best = id
				bestVotes = tally[id]
			}
		}

		name := names[best]
		if name == "" {
			name = fmt.Sprintf("Cluster %d", best)
		}
		if err := s.registry.SetCluster(ctx, docID, best, name); err != nil {
			// A document deleted mid-run is not an error worth failing
			// the whole pass for.
			logger.Warn("Cluster write-back for %s: %v", docID, err)
		}
	}
	return nil
}
