package text

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// CosineSimilarity computes the cosine similarity of two embedding
// vectors, rounded to two decimals. Zero-length or zero-norm vectors
// score 0. Symmetric by construction.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	av := make([]float64, len(a))
	bv := make([]float64, len(b))
	for i := range a {
		av[i] = float64(a[i])
		bv[i] = float64(b[i])
	}

	na := floats.Norm(av, 2)
	nb := floats.Norm(bv, 2)
	if na == 0 || nb == 0 {
		return 0
	}

	sim := floats.Dot(av, bv) / (na * nb)
	return math.Round(sim*100) / 100
}
