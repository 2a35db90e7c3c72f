package flowerhue

import (
	"errors"
	"math"
	"testing"

	"github.com/wbrown/flowerhue/imageutil"
)

var (
	magenta = imageutil.RGB{R: 255, G: 0, B: 255} // HSV (150, 255, 255)
	violet  = imageutil.RGB{R: 128, G: 0, B: 255} // HSV (135, 255, 255)
	red     = imageutil.RGB{R: 255, G: 0, B: 0}   // HSV (0, 255, 255)
	green   = imageutil.RGB{R: 0, G: 255, B: 0}   // HSV (60, 255, 255)
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarizeUniformImage(t *testing.T) {
	img := imageutil.ToHSV(imageutil.CreateSolidImage(8, 6, magenta))

	clustering, err := Summarize(img, 1, NewLloyd(1))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if len(clustering.Clusters) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(clustering.Clusters))
	}
	cl := clustering.Clusters[0]
	if cl.Pixels != 48 {
		t.Errorf("Expected 48 pixels, got %d", cl.Pixels)
	}
	want := HSVMean{H: 150, S: 255, V: 255}
	if cl.Mean != want {
		t.Errorf("Expected mean %v, got %v", want, cl.Mean)
	}
}

func TestSummarizeUniformImageInsideAndOutsideBounds(t *testing.T) {
	inside := imageutil.ToHSV(imageutil.CreateSolidImage(8, 6, magenta))
	clustering, err := Summarize(inside, 1, NewLloyd(1))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if got := FormatKMeansData(clustering.Select(DefaultBounds)); got != "[150.0, 255.0, 255.0]" {
		t.Errorf("Expected the uniform colour, got %q", got)
	}

	outside := imageutil.ToHSV(imageutil.CreateSolidImage(8, 6, red))
	clustering, err = Summarize(outside, 1, NewLloyd(1))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if got := FormatKMeansData(clustering.Select(DefaultBounds)); got != "no flowers" {
		t.Errorf("Expected no flowers, got %q", got)
	}
}

func TestSummarizeTwoColours(t *testing.T) {
	img := imageutil.ToHSV(imageutil.CreateSplitImage(10, 4, red, green))

	clustering, err := Summarize(img, 2, NewLloyd(42))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	seen := map[float64]int{}
	for _, cl := range clustering.Clusters {
		if cl.Pixels != 20 {
			t.Errorf("Expected 20 pixels per cluster, got %d", cl.Pixels)
		}
		seen[cl.Mean.H] = cl.Pixels
	}
	if _, ok := seen[0]; !ok {
		t.Errorf("Expected a red cluster with hue 0, got %+v", clustering.Clusters)
	}
	if _, ok := seen[60]; !ok {
		t.Errorf("Expected a green cluster with hue 60, got %+v", clustering.Clusters)
	}

	// Pixels on the same half share a label.
	if clustering.Labels[0] == clustering.Labels[9] {
		t.Error("Left and right halves should be in different clusters")
	}
}

func TestSelectPoolsByPixelCount(t *testing.T) {
	// Three columns of magenta, one of violet: both qualify.
	rgba := imageutil.NewRGBAImage(4, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 4; x++ {
			if x < 3 {
				rgba.SetRGB(x, y, magenta)
			} else {
				rgba.SetRGB(x, y, violet)
			}
		}
	}
	clustering, err := Summarize(imageutil.ToHSV(rgba), 2, NewLloyd(7))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if q := clustering.Qualifying(DefaultBounds); len(q) != 2 {
		t.Fatalf("Expected both clusters to qualify, got %v", q)
	}

	sum := clustering.Select(DefaultBounds)
	if sum.Status != StatusOK {
		t.Fatalf("Expected ok status, got %v", sum.Status)
	}
	// Weighted: (15*150 + 5*135) / 20 = 146.25, not (150+135)/2.
	if !almostEqual(sum.Hue, 146.25) {
		t.Errorf("Expected pooled hue 146.25, got %v", sum.Hue)
	}
	if sum.Pixels != 20 || !almostEqual(sum.Coverage, 1) {
		t.Errorf("Expected 20 pixels and full coverage, got %d and %v", sum.Pixels, sum.Coverage)
	}
}

func TestSelectKeepsOnlyQualifyingClusters(t *testing.T) {
	img := imageutil.ToHSV(imageutil.CreateSplitImage(6, 4, magenta, green))
	clustering, err := Summarize(img, 2, NewLloyd(3))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	sum := clustering.Select(DefaultBounds)
	if sum.Hue != 150 || sum.Saturation != 255 || sum.Value != 255 {
		t.Errorf("Expected only magenta pixels, got %+v", sum)
	}
	if sum.Pixels != 12 || !almostEqual(sum.Coverage, 0.5) {
		t.Errorf("Expected 12 pixels covering half the image, got %d and %v",
			sum.Pixels, sum.Coverage)
	}
}

func TestBoundsCheckOrder(t *testing.T) {
	b := Bounds{Lower: HSVMean{10, 20, 30}, Upper: HSVMean{20, 30, 40}}
	tests := []struct {
		c    HSVMean
		want bool
	}{
		{HSVMean{15, 25, 35}, true},
		{HSVMean{10, 20, 30}, true},
		{HSVMean{20, 30, 40}, true},
		{HSVMean{9.99, 25, 35}, false},
		{HSVMean{15, 30.01, 35}, false},
		{HSVMean{15, 25, 29}, false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.c); got != tt.want {
			t.Errorf("Contains(%v): expected %v, got %v", tt.c, tt.want, got)
		}
	}
}

func TestSeededSummariesAreIdempotent(t *testing.T) {
	img := imageutil.ToHSV(imageutil.CreateColorBarsImage(64, 8))

	first, err := Summarize(img, 4, NewLloyd(99))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	second, err := Summarize(img, 4, NewLloyd(99))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	for i := range first.Labels {
		if first.Labels[i] != second.Labels[i] {
			t.Fatalf("Label %d differs between seeded runs", i)
		}
	}
	if first.Select(DefaultBounds) != second.Select(DefaultBounds) {
		t.Error("Seeded runs should select the same pooled summary")
	}
}

func TestLloydMoreClustersThanColours(t *testing.T) {
	img := imageutil.ToHSV(imageutil.CreateSolidImage(4, 4, magenta))
	clustering, err := Summarize(img, 5, NewLloyd(5))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	var total int
	for _, cl := range clustering.Clusters {
		total += cl.Pixels
		if !cl.Empty() && cl.Mean.H != 150 {
			t.Errorf("Non-empty cluster should have hue 150, got %v", cl.Mean.H)
		}
	}
	if total != 16 {
		t.Errorf("Expected all 16 pixels assigned, got %d", total)
	}
	if got := clustering.Select(DefaultBounds); got.Pixels != 16 {
		t.Errorf("Expected pooled 16 pixels, got %+v", got)
	}
}

func TestPartitionErrors(t *testing.T) {
	points := [][3]float64{{0, 0, 0}, {1, 1, 1}}
	for _, engine := range []Engine{NewLloyd(1), Muesli{}} {
		if _, err := engine.Partition(points, 3); !errors.Is(err, ErrNotEnoughPixels) {
			t.Errorf("%T: expected ErrNotEnoughPixels, got %v", engine, err)
		}
		if _, err := engine.Partition(points, 0); err == nil {
			t.Errorf("%T: expected error for k=0", engine)
		}
	}
}

func TestMuesliSingleCluster(t *testing.T) {
	img := imageutil.ToHSV(imageutil.CreateSplitImage(6, 2, magenta, violet))
	clustering, err := Summarize(img, 1, Muesli{})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	cl := clustering.Clusters[0]
	if cl.Pixels != 12 || !almostEqual(cl.Mean.H, 142.5) {
		t.Errorf("Expected 12 pixels with hue 142.5, got %+v", cl)
	}
}

func TestEngineByName(t *testing.T) {
	if e, err := EngineByName("lloyd", 4); err != nil || e.(*Lloyd).Seed != 4 {
		t.Errorf("Expected seeded Lloyd engine, got %v (%v)", e, err)
	}
	if _, err := EngineByName("muesli", 0); err != nil {
		t.Errorf("Expected muesli engine, got %v", err)
	}
	if _, err := EngineByName("dbscan", 0); err == nil {
		t.Error("Expected error for unknown engine")
	}
}

func TestFitScalerConstantChannel(t *testing.T) {
	samples := []imageutil.HSV{{H: 10, S: 200, V: 50}, {H: 30, S: 200, V: 50}}
	s := FitScaler(samples)
	if s.Mean[0] != 20 || s.Scale[0] != 10 {
		t.Errorf("Expected hue mean 20 and scale 10, got %v and %v", s.Mean[0], s.Scale[0])
	}
	if s.Scale[1] != 1 || s.Scale[2] != 1 {
		t.Errorf("Constant channels should have scale 1, got %v", s.Scale)
	}
	points := s.Transform(samples)
	if points[0] != [3]float64{-1, 0, 0} || points[1] != [3]float64{1, 0, 0} {
		t.Errorf("Unexpected standardized points %v", points)
	}
}
