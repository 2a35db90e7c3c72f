package flowerhue

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// ErrNotEnoughPixels is returned when an image has fewer pixels than the
// requested number of clusters.
var ErrNotEnoughPixels = errors.New("fewer pixels than clusters")

// Engine partitions standardized points into k clusters and returns the
// cluster label of every point, in input order. Labels are in [0, k).
type Engine interface {
	Partition(points [][3]float64, k int) ([]int, error)
}

// Lloyd is a k-means engine using k-means++ seeding followed by Lloyd
// iterations. Runs are reproducible when Seed is non-zero; a zero Seed
// draws a time based seed, so repeated runs may number clusters
// differently.
type Lloyd struct {
	Seed      int64
	MaxIter   int
	Tolerance float64
	NInit     int
}

// NewLloyd returns a Lloyd engine with scikit-learn's default iteration
// limit and tolerance.
func NewLloyd(seed int64) *Lloyd {
	return &Lloyd{
		Seed:      seed,
		MaxIter:   300,
		Tolerance: 1e-4,
		NInit:     1,
	}
}

// Partition implements Engine. With NInit above one the clustering with
// the lowest inertia is kept.
func (l *Lloyd) Partition(points [][3]float64, k int) ([]int, error) {
	if k < 1 {
		return nil, fmt.Errorf("cluster count must be at least 1, got %d", k)
	}
	if len(points) < k {
		return nil, fmt.Errorf("%w: %d pixels, %d clusters",
			ErrNotEnoughPixels, len(points), k)
	}

	seed := l.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	runs := max(l.NInit, 1)
	var best []int
	bestInertia := math.MaxFloat64
	for run := 0; run < runs; run++ {
		labels, inertia := l.run(points, k, rng)
		if best == nil || inertia < bestInertia {
			best, bestInertia = labels, inertia
		}
	}
	return best, nil
}

// run performs one seeded k-means pass and returns the labels together
// with the inertia (sum of squared distances to the assigned centers).
func (l *Lloyd) run(points [][3]float64, k int, rng *rand.Rand) ([]int, float64) {
	centers := seedPlusPlus(points, k, rng)
	labels := make([]int, len(points))
	maxIter := l.MaxIter
	if maxIter < 1 {
		maxIter = 300
	}

	for iter := 0; iter < maxIter; iter++ {
		assign(points, centers, labels)
		next, counts := recenter(points, labels, k)
		relocateEmpty(points, centers, labels, next, counts)

		var shift float64
		for c := range centers {
			shift += sqDist(centers[c], next[c])
		}
		centers = next
		if shift <= l.Tolerance {
			break
		}
	}

	inertia := assign(points, centers, labels)
	return labels, inertia
}

// seedPlusPlus picks k initial centers: the first uniformly at random, each
// following one with probability proportional to its squared distance
// from the nearest center chosen so far.
func seedPlusPlus(points [][3]float64, k int, rng *rand.Rand) [][3]float64 {
	centers := make([][3]float64, 0, k)
	centers = append(centers, points[rng.Intn(len(points))])

	dist := make([]float64, len(points))
	for i, p := range points {
		dist[i] = sqDist(p, centers[0])
	}

	for len(centers) < k {
		var total float64
		for _, d := range dist {
			total += d
		}

		idx := rng.Intn(len(points))
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range dist {
				target -= d
				if target < 0 {
					idx = i
					break
				}
			}
		}

		center := points[idx]
		centers = append(centers, center)
		for i, p := range points {
			if d := sqDist(p, center); d < dist[i] {
				dist[i] = d
			}
		}
	}
	return centers
}

// assign labels every point with its nearest center and returns the
// inertia. Ties go to the lowest center index.
func assign(points, centers [][3]float64, labels []int) float64 {
	var inertia float64
	for i, p := range points {
		best, bestDist := 0, math.MaxFloat64
		for c, center := range centers {
			if d := sqDist(p, center); d < bestDist {
				best, bestDist = c, d
			}
		}
		labels[i] = best
		inertia += bestDist
	}
	return inertia
}

// recenter computes the mean of every cluster. Empty clusters keep a zero
// center and a zero count.
func recenter(points [][3]float64, labels []int, k int) ([][3]float64, []int) {
	sums := make([][3]float64, k)
	counts := make([]int, k)
	for i, p := range points {
		c := labels[i]
		counts[c]++
		for d := 0; d < 3; d++ {
			sums[c][d] += p[d]
		}
	}
	for c := range sums {
		if counts[c] == 0 {
			continue
		}
		for d := 0; d < 3; d++ {
			sums[c][d] /= float64(counts[c])
		}
	}
	return sums, counts
}

// relocateEmpty moves the center of every empty cluster onto the point
// farthest from its current center. When every point sits exactly on its
// center the empty cluster keeps its previous position.
func relocateEmpty(points, centers [][3]float64, labels []int, next [][3]float64, counts []int) {
	var used map[int]bool
	for c, n := range counts {
		if n > 0 {
			continue
		}
		if used == nil {
			used = make(map[int]bool)
		}
		far, farDist := -1, 0.0
		for i, p := range points {
			if used[i] {
				continue
			}
			if d := sqDist(p, centers[labels[i]]); d > farDist {
				far, farDist = i, d
			}
		}
		if far < 0 {
			next[c] = centers[c]
			continue
		}
		used[far] = true
		next[c] = points[far]
	}
}

func sqDist(a, b [3]float64) float64 {
	d0, d1, d2 := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return d0*d0 + d1*d1 + d2*d2
}
