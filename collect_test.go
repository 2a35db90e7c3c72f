package flowerhue

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/wbrown/flowerhue/dataset"
	"github.com/wbrown/flowerhue/imageutil"
)

type memoryStore struct {
	entries map[string]Summary
	gets    int
}

func (m *memoryStore) Get(key string) (Summary, bool, error) {
	m.gets++
	s, ok := m.entries[key]
	return s, ok, nil
}

func (m *memoryStore) Put(key string, s Summary) error {
	m.entries[key] = s
	return nil
}

type panicLoader struct{}

func (panicLoader) Load(string) (*imageutil.HSVImage, error) {
	panic("decoder exploded")
}

func saveTestImage(t *testing.T, dir, name string, img *imageutil.RGBAImage) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := imageutil.SaveImage(img.RGBA, path); err != nil {
		t.Fatalf("Failed to save %s: %v", path, err)
	}
	return path
}

func collectFixture(t *testing.T) (dir, input string) {
	t.Helper()
	dir = t.TempDir()
	flower := saveTestImage(t, dir, "flower.png", imageutil.CreateSolidImage(12, 10, magenta))
	leaf := saveTestImage(t, dir, "leaf.png", imageutil.CreateSolidImage(12, 10, green))
	missing := filepath.Join(dir, "missing.jpg")

	input = writeCSV(t, dir, "data.csv", strings.Join([]string{
		"id,path",
		"1," + flower,
		"2," + leaf,
		"3," + missing,
	}, "\n")+"\n")
	return dir, input
}

func TestCollect(t *testing.T) {
	dir, input := collectFixture(t)
	output := filepath.Join(dir, "out.csv")
	logger, _ := test.NewNullLogger()

	cfg := DefaultCollectConfig()
	cfg.Input, cfg.Output = input, output
	cfg.K = 1
	cfg.Seed = 1

	report, err := Collect(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if report.Total != 3 || report.OK != 1 || report.NoFlowers != 1 || report.Failed != 1 {
		t.Errorf("Unexpected report %+v", report)
	}
	if len(report.Failures) != 1 || report.Failures[0].Row != 2 {
		t.Errorf("Expected the missing image to be reported, got %+v", report.Failures)
	}

	tbl, err := dataset.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	want := []string{"[150.0, 255.0, 255.0]", "no flowers", "An error occured"}
	for i, w := range want {
		if got, _ := tbl.Get(i, DataColumn); got != w {
			t.Errorf("row %d: expected %q, got %q", i, w, got)
		}
	}

	record, _ := tbl.Get(0, RecordColumn)
	sum, err := ParseRecord(record)
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}
	if sum.Pixels != 120 || sum.Coverage != 1 {
		t.Errorf("Expected 120 pixels with full coverage, got %+v", sum)
	}
	if id, _ := tbl.Get(2, "id"); id != "3" {
		t.Errorf("Input columns should be preserved, got id %q", id)
	}
}

func TestCollectResumesFromStore(t *testing.T) {
	dir, input := collectFixture(t)
	logger, _ := test.NewNullLogger()
	store := &memoryStore{entries: map[string]Summary{}}

	cfg := DefaultCollectConfig()
	cfg.Input = input
	cfg.Output = filepath.Join(dir, "first.csv")
	cfg.K = 1
	cfg.Seed = 1
	cfg.Store = store

	if _, err := Collect(context.Background(), cfg, logger); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(store.entries) != 2 {
		t.Fatalf("Expected 2 checkpointed summaries (failures excluded), got %d", len(store.entries))
	}

	cfg.Output = filepath.Join(dir, "second.csv")
	report, err := Collect(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if report.Resumed != 2 || report.Failed != 1 {
		t.Errorf("Expected 2 resumed rows and 1 retried failure, got %+v", report)
	}
}

func TestCollectCancelled(t *testing.T) {
	_, input := collectFixture(t)
	logger, _ := test.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultCollectConfig()
	cfg.Input = input
	cfg.Output = filepath.Join(t.TempDir(), "out.csv")
	if _, err := Collect(ctx, cfg, logger); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestCollectMissingPathColumn(t *testing.T) {
	dir := t.TempDir()
	input := writeCSV(t, dir, "data.csv", "id,image_url\n1,http://example.com/1.jpg\n")
	logger, _ := test.NewNullLogger()

	cfg := DefaultCollectConfig()
	cfg.Input = input
	cfg.Output = filepath.Join(dir, "out.csv")
	if _, err := Collect(context.Background(), cfg, logger); !errors.Is(err, dataset.ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
}

func TestSummarizeFileRecoversPanic(t *testing.T) {
	sum := SummarizeFile(panicLoader{}, "x.jpg", 3, DefaultBounds, NewLloyd(1))
	if sum.Status != StatusFailed || !strings.Contains(sum.Reason, "decoder exploded") {
		t.Errorf("Expected a failed summary mentioning the panic, got %+v", sum)
	}
	if FormatKMeansData(sum) != ErrorText {
		t.Errorf("Expected the error sentinel, got %q", FormatKMeansData(sum))
	}
}

func TestSummarizeFileTooFewPixels(t *testing.T) {
	dir := t.TempDir()
	path := saveTestImage(t, dir, "tiny.png", imageutil.CreateSolidImage(2, 1, magenta))
	sum := SummarizeFile(NewImageLoader(DefaultLoadOptions()), path, 5, DefaultBounds, NewLloyd(1))
	if sum.Status != StatusFailed {
		t.Errorf("Expected failure for 2 pixels and 5 clusters, got %+v", sum)
	}
}

func TestImageLoaderDownscalesAndBlurs(t *testing.T) {
	dir := t.TempDir()
	path := saveTestImage(t, dir, "tall.png", imageutil.CreateSolidImage(40, 80, magenta))

	loader := NewImageLoader(LoadOptions{DownscaleThreshold: 60, DownscaleFactor: 4, BlurSigma: 1})
	img, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Width != 10 || img.Height != 20 {
		t.Errorf("Expected 10x20, got %dx%d", img.Width, img.Height)
	}
	if got := img.At(5, 10); got != (imageutil.HSV{H: 150, S: 255, V: 255}) {
		t.Errorf("Blurring a solid image should keep its colour, got %v", got)
	}
}
