package clustering

import "math"

// Noise is the label for points not assigned to any cluster.
const Noise = -1

// Default DBSCAN parameters, tuned for L2-normalised embeddings where
// euclidean distance is a monotone function of cosine distance.
const (
	DefaultEps    = 0.75
	DefaultMinPts = 3
)

// DBSCAN assigns a cluster label to every vector, or Noise.
// Labels are contiguous from 0 and deterministic: clusters are discovered
// in input order, and neighbourhoods expand in input order.
func DBSCAN(vectors [][]float32, eps float64, minPts int) []int {
	if eps <= 0 {
		eps = DefaultEps
	}
	if minPts <= 0 {
		minPts = DefaultMinPts
	}

	n := len(vectors)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = Noise
	}
	if n == 0 {
		return labels
	}

	visited := make([]bool, n)
	next := 0

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbours := regionQuery(vectors, i, eps)
		if len(neighbours) < minPts {
			continue // stays noise unless later absorbed by a cluster
		}

		labels[i] = next
		expand(vectors, neighbours, labels, visited, next, eps, minPts)
		next++
	}

	return labels
}

// expand grows a cluster from a seed neighbourhood. Border points already
// labelled noise are absorbed; unvisited core points extend the frontier.
func expand(vectors [][]float32, seeds []int, labels []int, visited []bool, cluster int, eps float64, minPts int) {
	for q := 0; q < len(seeds); q++ {
		p := seeds[q]

		if !visited[p] {
			visited[p] = true
			neighbours := regionQuery(vectors, p, eps)
			if len(neighbours) >= minPts {
				seeds = append(seeds, neighbours...)
			}
		}

		if labels[p] == Noise {
			labels[p] = cluster
		}
	}
}

// regionQuery returns the indices within eps of vectors[i], including i.
func regionQuery(vectors [][]float32, i int, eps float64) []int {
	var neighbours []int
	for j := range vectors {
		if euclidean(vectors[i], vectors[j]) <= eps {
			neighbours = append(neighbours, j)
		}
	}
	return neighbours
}

// euclidean computes L2 distance. Mismatched lengths compare over the
// shorter prefix, which only happens on malformed input.
func euclidean(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
