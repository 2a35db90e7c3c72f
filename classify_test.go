package flowerhue

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/wbrown/flowerhue/dataset"
)

func TestTernaryBins(t *testing.T) {
	bins := GeraniumBins
	tests := []struct {
		in   float64
		want Label
	}{
		{85, Medium},
		{60, Light},
		{100, Dark},
		{70.5828523, Medium},
		{92.75856618, Medium},
		{70.58, Light},
		{92.76, Dark},
		{-5, Light},
		{0, NoFlowerLabel},
	}
	for _, tt := range tests {
		if got := bins.Classify(tt.in); got != tt.want {
			t.Errorf("Classify(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestTernaryBinsZeroIgnoresThresholds(t *testing.T) {
	for _, b := range []TernaryBins{{-10, -5}, {5, 10}, {-1, 1}} {
		if got := b.Classify(0); got != NoFlowerLabel {
			t.Errorf("%+v: expected %q for 0, got %q", b, NoFlowerLabel, got)
		}
	}
}

func TestBinaryThreshold(t *testing.T) {
	tests := []struct {
		in   float64
		want Label
	}{
		{0, White},
		{2999.9, White},
		{3000, White},
		{3000.1, Blue},
		{1e6, Blue},
		{-1, White},
	}
	for _, tt := range tests {
		if got := SandblossomThreshold.Classify(tt.in); got != tt.want {
			t.Errorf("Classify(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func TestClassifyPipeline(t *testing.T) {
	dir := t.TempDir()
	in := writeCSV(t, dir, "in.csv", strings.Join([]string{
		"id,KMeansData",
		`1,"[140.0, 85.0, 200.0]"`,
		`2,"[140.0, 60.0, 200.0]"`,
		`3,no flowers`,
		`4,An error occured`,
		`5,"[140.0, 100.0, 200.0]"`,
	}, "\n")+"\n")
	out := filepath.Join(dir, "out.csv")
	logger, _ := test.NewNullLogger()

	report, err := Classify(context.Background(), ClassifyConfig{
		Input:   in,
		Output:  out,
		Variant: Geranium,
	}, logger)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if report.Classified != 4 || len(report.Failures) != 1 || report.Failures[0].Row != 3 {
		t.Errorf("Unexpected report %+v", report)
	}

	tbl, err := dataset.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	wantLabels := []string{"medium", "light", "0", "", "dark"}
	wantSat := []string{"85.0", "60.0", "0.0", "", "100.0"}
	for i := range wantLabels {
		label, _ := tbl.Get(i, ClassificationColumn)
		sat, _ := tbl.Get(i, "Saturation")
		if label != wantLabels[i] || sat != wantSat[i] {
			t.Errorf("row %d: expected (%q, %q), got (%q, %q)",
				i, wantSat[i], wantLabels[i], sat, label)
		}
	}
}

func TestClassifyStrictAborts(t *testing.T) {
	dir := t.TempDir()
	in := writeCSV(t, dir, "in.csv", "KMeansData\nAn error occured\n")
	out := filepath.Join(dir, "out.csv")
	logger, _ := test.NewNullLogger()

	_, err := Classify(context.Background(), ClassifyConfig{
		Input:   in,
		Output:  out,
		Variant: Sandblossom,
		Strict:  true,
	}, logger)
	if err == nil {
		t.Fatal("Expected strict classification to fail")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("No output should be written when the run aborts")
	}
}

func TestClassifyPrefersRecord(t *testing.T) {
	dir := t.TempDir()
	record := `"{""status"":""ok"",""hue"":140,""saturation"":50,""value"":4200,""pixels"":10,""coverage"":0.1}"`
	in := writeCSV(t, dir, "in.csv",
		"KMeansData,KMeansRecord\n\"[140.0, 50.0, 10.0]\","+record+"\n")
	out := filepath.Join(dir, "out.csv")
	logger, _ := test.NewNullLogger()

	if _, err := Classify(context.Background(), ClassifyConfig{
		Input:   in,
		Output:  out,
		Variant: Sandblossom,
	}, logger); err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	tbl, _ := dataset.ReadFile(out)
	if got, _ := tbl.Get(0, ClassificationColumn); got != "Blue" {
		t.Errorf("Expected the record value 4200 to classify as Blue, got %q", got)
	}
	if got, _ := tbl.Get(0, "pixels"); got != "4200.0" {
		t.Errorf("Expected pixels 4200.0, got %q", got)
	}
}
