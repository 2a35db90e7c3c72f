package flowerhue

import (
	"fmt"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Muesli is a k-means engine backed by github.com/muesli/kmeans. The
// library seeds its centers from the wall clock, so results are never
// reproducible; use Lloyd with a fixed seed when determinism matters.
type Muesli struct{}

type indexedPoint struct {
	index  int
	coords clusters.Coordinates
}

func (p indexedPoint) Coordinates() clusters.Coordinates {
	return p.coords
}

func (p indexedPoint) Distance(point clusters.Coordinates) float64 {
	return p.coords.Distance(point)
}

// Partition implements Engine.
func (Muesli) Partition(points [][3]float64, k int) ([]int, error) {
	if k < 1 {
		return nil, fmt.Errorf("cluster count must be at least 1, got %d", k)
	}
	if len(points) < k {
		return nil, fmt.Errorf("%w: %d pixels, %d clusters",
			ErrNotEnoughPixels, len(points), k)
	}

	obs := make(clusters.Observations, len(points))
	for i, p := range points {
		obs[i] = indexedPoint{
			index:  i,
			coords: clusters.Coordinates{p[0], p[1], p[2]},
		}
	}

	cc, err := kmeans.New().Partition(obs, k)
	if err != nil {
		return nil, fmt.Errorf("kmeans partition: %w", err)
	}

	labels := make([]int, len(points))
	for ci, c := range cc {
		for _, o := range c.Observations {
			labels[o.(indexedPoint).index] = ci
		}
	}
	return labels, nil
}

// EngineByName returns the engine registered under name: "lloyd" (seeded
// by seed) or "muesli".
func EngineByName(name string, seed int64) (Engine, error) {
	switch name {
	case "", "lloyd":
		return NewLloyd(seed), nil
	case "muesli":
		return Muesli{}, nil
	}
	return nil, fmt.Errorf("unknown clustering engine %q (options are lloyd, muesli)", name)
}
