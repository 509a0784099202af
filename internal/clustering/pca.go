package clustering

import "math"

// projection iteration controls. Power iteration converges quickly for the
// well-separated leading components embeddings tend to have.
const (
	pcaIterations = 100
	pcaTolerance  = 1e-7
)

// Project reduces vectors to the given number of principal components
// using power iteration with deflation. The output preserves input order.
// When the corpus has fewer vectors than components, missing axes are zero.
func Project(vectors [][]float32, components int) [][]float64 {
	n := len(vectors)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, components)
	}
	if n == 0 || components <= 0 {
		return out
	}

	dims := len(vectors[0])
	if dims == 0 {
		return out
	}

	// Centre the data.
	mean := make([]float64, dims)
	for _, v := range vectors {
		for d := 0; d < dims && d < len(v); d++ {
			mean[d] += float64(v[d])
		}
	}
	for d := range mean {
		mean[d] /= float64(n)
	}

	centred := make([][]float64, n)
	for i, v := range vectors {
		row := make([]float64, dims)
		for d := 0; d < dims && d < len(v); d++ {
			row[d] = float64(v[d]) - mean[d]
		}
		centred[i] = row
	}

	for c := 0; c < components; c++ {
		axis := powerIteration(centred, c)
		if axis == nil {
			break
		}

		// Project onto the axis, then deflate so the next component is
		// orthogonal to this one.
		for i, row := range centred {
			var score float64
			for d := range row {
				score += row[d] * axis[d]
			}
			out[i][c] = score
			for d := range row {
				row[d] -= score * axis[d]
			}
		}
	}

	return out
}

// powerIteration finds the dominant axis of the centred data.
// The seed varies with the component index so deflated axes do not start
// parallel to an earlier one.
func powerIteration(centred [][]float64, seed int) []float64 {
	if len(centred) == 0 {
		return nil
	}
	dims := len(centred[0])

	axis := make([]float64, dims)
	for d := range axis {
		axis[d] = math.Cos(float64(d + seed + 1))
	}
	normalise(axis)

	next := make([]float64, dims)
	for iter := 0; iter < pcaIterations; iter++ {
		// next = Covariance * axis, computed as X^T (X axis) without
		// materialising the covariance matrix.
		for d := range next {
			next[d] = 0
		}
		for _, row := range centred {
			var score float64
			for d := range row {
				score += row[d] * axis[d]
			}
			for d := range row {
				next[d] += score * row[d]
			}
		}

		if !normalise(next) {
			return nil // all variance exhausted
		}

		var diff float64
		for d := range axis {
			diff += math.Abs(next[d] - axis[d])
		}
		copy(axis, next)
		if diff < pcaTolerance {
			break
		}
	}
	return axis
}

// normalise scales v to unit length, reporting false for a zero vector.
func normalise(v []float64) bool {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return false
	}
	for i := range v {
		v[i] /= norm
	}
	return true
}
