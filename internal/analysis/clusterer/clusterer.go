// Package clusterer groups same-language discussion texts of a workspace
// by embedding similarity. Each model reduces embedding dimensionality,
// fits a medoid-based clustering whose cluster count is chosen by an
// elbow heuristic, and records one representative (medoid) text per
// cluster label.
package clusterer

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// MinSamples is the smallest training set a model accepts; callers gate
// this externally.
const MinSamples = 3

const maxIterations = 100

// ErrTooFewSamples is returned by Fit for fewer than MinSamples inputs.
var ErrTooFewSamples = errors.New("clustering requires at least 3 samples")

// Clusterer is a workspace- and language-scoped unsupervised model. Fit
// once, then Predict and MedoidText are read-only.
type Clusterer struct {
	seed int64

	projection *mat.Dense  // feature-space basis, nil when PCA degenerates
	points     [][]float64 // reduced training samples
	labels     []int       // cluster assignment per training sample
	medoids    []int       // training-sample index per cluster label
	medoidText map[int]string
}

func New(seed int64) *Clusterer {
	return &Clusterer{seed: seed, medoidText: make(map[int]string)}
}

// Fit reduces the embeddings to min(sampleCount, featureCount) components
// and fits a k-medoids clustering, with k chosen by an elbow search over
// [1, sampleCount] and a k=1 fallback when no elbow is found. Medoid
// selection and the elbow search run off a fixed seed, so identical input
// yields identical assignments.
func (c *Clusterer) Fit(texts []string, embeddings [][]float32) error {
	if len(texts) < MinSamples || len(texts) != len(embeddings) {
		return ErrTooFewSamples
	}

	points, projection, err := reduce(embeddings)
	if err != nil {
		return err
	}
	c.projection = projection
	c.points = points

	dist := distanceMatrix(points)
	k := elbowK(dist, len(points), c.seed)

	medoids, labels := kmedoids(dist, k, rand.New(rand.NewSource(c.seed)))
	c.medoids = medoids
	c.labels = labels

	c.medoidText = make(map[int]string, len(medoids))
	for label, sampleIdx := range medoids {
		c.medoidText[label] = texts[sampleIdx]
	}
	return nil
}

// Predict assigns an embedding to the nearest medoid's cluster label.
func (c *Clusterer) Predict(embedding []float32) int {
	point := c.project(embedding)
	best, bestDist := 0, math.Inf(1)
	for label, sampleIdx := range c.medoids {
		if d := euclidean(point, c.points[sampleIdx]); d < bestDist {
			best, bestDist = label, d
		}
	}
	return best
}

// MedoidText returns the original text of the sample nearest the
// cluster's medoid, recorded at fit time.
func (c *Clusterer) MedoidText(label int) string {
	return c.medoidText[label]
}

// Labels returns the cluster assignment of every training sample.
func (c *Clusterer) Labels() []int {
	return c.labels
}

// reduce projects the embeddings onto their principal components. The
// component count is min(sampleCount, featureCount) by construction of
// the decomposition.
func reduce(embeddings [][]float32) ([][]float64, *mat.Dense, error) {
	n := len(embeddings)
	d := len(embeddings[0])
	for _, e := range embeddings {
		if len(e) != d {
			return nil, nil, fmt.Errorf("inconsistent embedding dimensions: %d != %d", len(e), d)
		}
	}

	x := mat.NewDense(n, d, nil)
	for i, e := range embeddings {
		for j, v := range e {
			x.Set(i, j, float64(v))
		}
	}

	var pc stat.PC
	if !pc.PrincipalComponents(x, nil) {
		// Degenerate input (e.g. identical rows); cluster in raw space.
		points := make([][]float64, n)
		for i := range points {
			points[i] = mat.Row(nil, i, x)
		}
		return points, nil, nil
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	var proj mat.Dense
	proj.Mul(x, &vecs)

	points := make([][]float64, n)
	for i := range points {
		points[i] = mat.Row(nil, i, &proj)
	}
	return points, &vecs, nil
}

func (c *Clusterer) project(embedding []float32) []float64 {
	raw := make([]float64, len(embedding))
	for i, v := range embedding {
		raw[i] = float64(v)
	}
	if c.projection == nil {
		return raw
	}

	var out mat.Dense
	out.Mul(mat.NewDense(1, len(raw), raw), c.projection)
	return mat.Row(nil, 0, &out)
}

func distanceMatrix(points [][]float64) [][]float64 {
	n := len(points)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := euclidean(points[i], points[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}

func euclidean(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// kmedoids runs Voronoi-iteration k-medoids over a precomputed distance
// matrix. Initialization samples from rng; ties always break towards the
// lowest index, so a fixed seed fixes the whole run.
func kmedoids(dist [][]float64, k int, rng *rand.Rand) (medoids []int, labels []int) {
	n := len(dist)
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}

	medoids = initialMedoids(dist, k, rng)
	labels = make([]int, n)

	for iter := 0; iter < maxIterations; iter++ {
		assign(dist, medoids, labels)

		changed := false
		for label := range medoids {
			best, bestCost := medoids[label], math.Inf(1)
			for i := 0; i < n; i++ {
				if labels[i] != label {
					continue
				}
				var cost float64
				for j := 0; j < n; j++ {
					if labels[j] == label {
						cost += dist[i][j]
					}
				}
				if cost < bestCost {
					best, bestCost = i, cost
				}
			}
			if best != medoids[label] {
				medoids[label] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	assign(dist, medoids, labels)
	return medoids, labels
}

// initialMedoids seeds clustering k-means++ style: the first medoid is
// drawn from rng, each further medoid is the point farthest from the
// chosen set.
func initialMedoids(dist [][]float64, k int, rng *rand.Rand) []int {
	n := len(dist)
	medoids := []int{rng.Intn(n)}
	chosen := map[int]bool{medoids[0]: true}

	for len(medoids) < k {
		next, nextDist := -1, -1.0
		for i := 0; i < n; i++ {
			if chosen[i] {
				continue
			}
			nearest := math.Inf(1)
			for _, m := range medoids {
				if dist[i][m] < nearest {
					nearest = dist[i][m]
				}
			}
			if nearest > nextDist {
				next, nextDist = i, nearest
			}
		}
		medoids = append(medoids, next)
		chosen[next] = true
	}
	return medoids
}

func assign(dist [][]float64, medoids []int, labels []int) {
	for i := range labels {
		best, bestDist := 0, math.Inf(1)
		for label, m := range medoids {
			if dist[i][m] < bestDist {
				best, bestDist = label, dist[i][m]
			}
		}
		labels[i] = best
	}
}

// totalCost is the clustering distortion: the summed distance of every
// point to its medoid.
func totalCost(dist [][]float64, medoids []int, labels []int) float64 {
	var cost float64
	for i, label := range labels {
		cost += dist[i][medoids[label]]
	}
	return cost
}

// elbowK searches k over [1, maxK] and picks the point of diminishing
// distortion reduction: the k whose cost falls furthest below the chord
// between the k=1 and k=maxK costs. When no k improves on the chord, it
// falls back to 1.
func elbowK(dist [][]float64, maxK int, seed int64) int {
	if maxK <= 1 {
		return 1
	}

	costs := make([]float64, maxK+1)
	for k := 1; k <= maxK; k++ {
		medoids, labels := kmedoids(dist, k, rand.New(rand.NewSource(seed)))
		costs[k] = totalCost(dist, medoids, labels)
	}

	first, last := costs[1], costs[maxK]
	if first == last {
		return 1
	}

	bestK, bestDrop := 1, 0.0
	for k := 2; k < maxK; k++ {
		chord := first + (last-first)*float64(k-1)/float64(maxK-1)
		if drop := chord - costs[k]; drop > bestDrop {
			bestK, bestDrop = k, drop
		}
	}
	return bestK
}
