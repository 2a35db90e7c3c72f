package flowerhue

import (
	"fmt"

	"github.com/wbrown/flowerhue/imageutil"
)

// Cluster is one group of pixels found by Summarize. Mean is in
// unstandardized HSV units and is zero for an empty cluster.
type Cluster struct {
	Index  int
	Mean   HSVMean
	Pixels int
}

// Empty reports whether no pixel was assigned to the cluster.
func (c Cluster) Empty() bool {
	return c.Pixels == 0
}

// Clustering is the result of clustering one image's pixels by colour.
// Labels holds the cluster index of every pixel in row-major order.
type Clustering struct {
	Width, Height int
	Labels        []int
	Clusters      []Cluster
	samples       []imageutil.HSV
}

// Summarize standardizes the pixels of img, partitions them into k
// clusters with engine and returns the per-cluster mean colours. A nil
// engine uses an unseeded Lloyd engine.
func Summarize(img *imageutil.HSVImage, k int, engine Engine) (*Clustering, error) {
	if img == nil || img.Len() == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}
	if engine == nil {
		engine = NewLloyd(0)
	}

	points := FitScaler(img.Pix).Transform(img.Pix)
	labels, err := engine.Partition(points, k)
	if err != nil {
		return nil, err
	}
	if len(labels) != len(points) {
		return nil, fmt.Errorf("engine returned %d labels for %d pixels",
			len(labels), len(points))
	}

	sums := make([][3]float64, k)
	result := &Clustering{
		Width:    img.Width,
		Height:   img.Height,
		Labels:   labels,
		Clusters: make([]Cluster, k),
		samples:  img.Pix,
	}
	for i, p := range img.Pix {
		c := labels[i]
		if c < 0 || c >= k {
			return nil, fmt.Errorf("engine returned label %d outside [0, %d)", c, k)
		}
		sums[c][0] += float64(p.H)
		sums[c][1] += float64(p.S)
		sums[c][2] += float64(p.V)
		result.Clusters[c].Pixels++
	}
	for c := range result.Clusters {
		cl := &result.Clusters[c]
		cl.Index = c
		if cl.Pixels == 0 {
			continue
		}
		n := float64(cl.Pixels)
		cl.Mean = HSVMean{H: sums[c][0] / n, S: sums[c][1] / n, V: sums[c][2] / n}
	}
	return result, nil
}

// Qualifying returns the indices of the non-empty clusters whose mean lies
// within bounds, in ascending order.
func (c *Clustering) Qualifying(bounds Bounds) []int {
	var out []int
	for _, cl := range c.Clusters {
		if cl.Empty() {
			continue
		}
		if bounds.Contains(cl.Mean) {
			out = append(out, cl.Index)
		}
	}
	return out
}

// Pooled returns the mean colour over every pixel belonging to one of the
// given clusters, together with the number of such pixels. The mean is
// weighted by pixel count, not an average of the cluster means.
func (c *Clustering) Pooled(indices []int) (HSVMean, int) {
	keep := make(map[int]bool, len(indices))
	for _, idx := range indices {
		keep[idx] = true
	}
	var h, s, v float64
	var n int
	for i, p := range c.samples {
		if !keep[c.Labels[i]] {
			continue
		}
		h += float64(p.H)
		s += float64(p.S)
		v += float64(p.V)
		n++
	}
	if n == 0 {
		return HSVMean{}, 0
	}
	return HSVMean{H: h / float64(n), S: s / float64(n), V: v / float64(n)}, n
}

// Select applies the bounds to the clustering: it returns NoFlowers when
// no cluster qualifies, and otherwise the pooled mean of all qualifying
// clusters.
func (c *Clustering) Select(bounds Bounds) Summary {
	qualifying := c.Qualifying(bounds)
	if len(qualifying) == 0 {
		return NoFlowers()
	}
	mean, n := c.Pooled(qualifying)
	return Summary{
		Status:     StatusOK,
		Hue:        mean.H,
		Saturation: mean.S,
		Value:      mean.V,
		Pixels:     n,
		Coverage:   PercentPixels(n, c.Width, c.Height),
	}
}
