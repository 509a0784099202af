package domain

// NoiseCluster is the distinguished cluster id for chunks the density-based
// algorithm could not confidently assign to any group.
const NoiseCluster = -1

// NoiseClusterName labels the noise cluster in user-facing output.
const NoiseClusterName = "Uncategorized"

// ClusterResult is the output of one full clustering run.
// Cluster ids are recomputed wholesale on each run and are not stable across
// reruns; names are content-derived to offset this.
type ClusterResult struct {
	// Assignments maps chunk id to cluster id.
	Assignments map[string]int

	// Names maps cluster id to a human-readable label.
	Names map[int]string

	// ClusterCount is the number of non-noise clusters found.
	ClusterCount int

	// NoiseCount is the number of chunks labelled noise.
	NoiseCount int

	// Cohesion is the silhouette score of the partition, in [-1, 1].
	// Zero when fewer than two clusters were found.
	Cohesion float64

	// ChunksClustered is the total number of chunks examined.
	ChunksClustered int
}

// ProjectedPoint is one chunk embedding reduced to three dimensions for
// visualisation, carrying its current cluster assignment.
type ProjectedPoint struct {
	ChunkID     string
	DocumentID  string
	X, Y, Z     float64
	ClusterID   int
	ClusterName string
}
