package vector

import (
	"context"
	"math"
)

// MaxIterations bounds a KMeans run.
const MaxIterations = 25

// ClusterCount picks k for n cards: max(2, min(4, ceil(sqrt(n/2)))).
func ClusterCount(n int) int {
	k := int(math.Ceil(math.Sqrt(float64(n) / 2)))
	if k > 4 {
		k = 4
	}
	if k < 2 {
		k = 2
	}
	return k
}

// KMeans groups vectors into k clusters by cosine similarity and returns the
// cluster index of every vector. Centers start round-robin from the input,
// and the loop stops after MaxIterations or once no assignment changes.
// An empty input or k <= 0 yields nil.
func KMeans(ctx context.Context, vectors [][]float32, k int) ([]int, error) {
	n := len(vectors)
	if n == 0 || k <= 0 {
		return nil, nil
	}
	dim := len(vectors[0])
	centers := make([][]float32, k)
	for c := range centers {
		centers[c] = append([]float32(nil), vectors[c%n]...)
	}
	assign := make([]int, n)

	for iter := 0; iter < MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		changed := false
		for i, v := range vectors {
			best, bestSim := 0, math.Inf(-1)
			for c, center := range centers {
				if sim := Cosine(v, center); sim > bestSim {
					best, bestSim = c, sim
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, v := range vectors {
			c := assign[i]
			counts[c]++
			for d := 0; d < dim && d < len(v); d++ {
				sums[c][d] += float64(v[d])
			}
		}
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			for d := range centers[c] {
				centers[c][d] = float32(sums[c][d] / float64(counts[c]))
			}
		}
		if !changed {
			break
		}
	}
	return assign, nil
}
