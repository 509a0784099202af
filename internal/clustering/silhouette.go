package clustering

// Silhouette computes the mean silhouette coefficient of a labelled
// partition, ignoring noise points. Returns zero when fewer than two
// proper clusters exist, since cohesion is undefined there.
func Silhouette(vectors [][]float32, labels []int) float64 {
	clusters := make(map[int][]int)
	for i, label := range labels {
		if label == Noise {
			continue
		}
		clusters[label] = append(clusters[label], i)
	}
	if len(clusters) < 2 {
		return 0
	}

	var total float64
	var counted int

	for label, members := range clusters {
		for _, i := range members {
			a := meanDistance(vectors, i, members)

			b := -1.0
			for other, otherMembers := range clusters {
				if other == label {
					continue
				}
				d := meanDistance(vectors, i, otherMembers)
				if b < 0 || d < b {
					b = d
				}
			}

			max := a
			if b > max {
				max = b
			}
			if max > 0 {
				total += (b - a) / max
			}
			counted++
		}
	}

	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// meanDistance averages the distance from vectors[i] to each member,
// excluding i itself. A singleton cluster yields zero.
func meanDistance(vectors [][]float32, i int, members []int) float64 {
	var sum float64
	var count int
	for _, j := range members {
		if j == i {
			continue
		}
		sum += euclidean(vectors[i], vectors[j])
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
