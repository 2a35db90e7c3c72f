package flowerhue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wbrown/flowerhue/dataset"
)

// Column names shared by the Collector and the Classifier.
const (
	PathColumn   = "path"
	DataColumn   = "KMeansData"
	RecordColumn = "KMeansRecord"
)

// SummaryStore persists finished summaries between runs.
type SummaryStore interface {
	Get(key string) (Summary, bool, error)
	Put(key string, s Summary) error
}

// CollectConfig configures a collection run.
type CollectConfig struct {
	Input      string
	Output     string
	PathColumn string

	K      int
	Bounds Bounds
	// Seed fixes the clustering seed. Zero means unseeded, in which case
	// results may differ between runs.
	Seed   int64
	Engine string
	Load   LoadOptions

	// Loader overrides the default pure Go loader built from Load.
	Loader Loader
	// Store, when set, is consulted before and updated after every image.
	Store SummaryStore
}

// DefaultCollectConfig returns the Geranium collection settings: five
// clusters, DefaultBounds and the default downscale heuristic.
func DefaultCollectConfig() CollectConfig {
	return CollectConfig{
		Output:     "YourSaveFile.csv",
		PathColumn: PathColumn,
		K:          5,
		Bounds:     DefaultBounds,
		Engine:     "lloyd",
		Load:       DefaultLoadOptions(),
	}
}

// RowFailure records why one row did not produce a normal result.
type RowFailure struct {
	Row    int
	Key    string
	Reason string
}

// CollectReport summarizes a collection run.
type CollectReport struct {
	RunID     string
	Total     int
	OK        int
	NoFlowers int
	Failed    int
	Resumed   int
	Failures  []RowFailure
}

// SummarizeFile loads the image at path, clusters it into k colour
// clusters and pools the clusters whose mean lies within bounds. Every
// failure, including a panic in the loader or engine, is reported as a
// StatusFailed summary instead of an error.
func SummarizeFile(loader Loader, path string, k int, bounds Bounds, engine Engine) (sum Summary) {
	defer func() {
		if r := recover(); r != nil {
			sum = Failed(fmt.Errorf("panic while summarizing %s: %v", path, r))
		}
	}()

	img, err := loader.Load(path)
	if err != nil {
		return Failed(err)
	}
	clustering, err := Summarize(img, k, engine)
	if err != nil {
		return Failed(err)
	}
	return clustering.Select(bounds)
}

// checkpointKey identifies a summary by image and by every parameter that
// affects it.
func (cfg CollectConfig) checkpointKey(path string) string {
	return fmt.Sprintf("%s|k=%d|lo=%s|hi=%s|seed=%d|engine=%s|ds=%d/%d|blur=%g",
		path, cfg.K, cfg.Bounds.Lower, cfg.Bounds.Upper, cfg.Seed, cfg.Engine,
		cfg.Load.DownscaleThreshold, cfg.Load.DownscaleFactor, cfg.Load.BlurSigma)
}

// Collect summarizes the image of every row of the input table and writes
// the table with KMeansData and KMeansRecord columns to the output path.
// Per-image failures are recorded in the report and in the columns; only
// table I/O errors and cancellation abort the run.
func Collect(ctx context.Context, cfg CollectConfig, log logrus.FieldLogger) (*CollectReport, error) {
	if cfg.K < 1 {
		return nil, fmt.Errorf("cluster count must be at least 1, got %d", cfg.K)
	}
	if cfg.PathColumn == "" {
		cfg.PathColumn = PathColumn
	}
	engine, err := EngineByName(cfg.Engine, cfg.Seed)
	if err != nil {
		return nil, err
	}
	loader := cfg.Loader
	if loader == nil {
		loader = NewImageLoader(cfg.Load)
	}

	table, err := dataset.ReadFile(cfg.Input)
	if err != nil {
		return nil, err
	}
	pathCol, err := table.Column(cfg.PathColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Input, err)
	}

	report := &CollectReport{RunID: uuid.NewString(), Total: table.Len()}
	log = log.WithField("run", report.RunID)
	log.WithFields(logrus.Fields{
		"input":  cfg.Input,
		"rows":   table.Len(),
		"k":      cfg.K,
		"engine": cfg.Engine,
		"seed":   cfg.Seed,
	}).Info("collecting colour summaries")

	data := make([]string, table.Len())
	records := make([]string, table.Len())
	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("collection stopped at row %d: %w", i, err)
		}
		path := row[pathCol]
		rowLog := log.WithFields(logrus.Fields{"row": i, "path": path})

		sum, resumed, err := collectOne(cfg, loader, engine, path)
		if err != nil {
			return report, err
		}
		if resumed {
			report.Resumed++
		}

		switch sum.Status {
		case StatusOK:
			report.OK++
		case StatusNoFlowers:
			report.NoFlowers++
		case StatusFailed:
			report.Failed++
			report.Failures = append(report.Failures,
				RowFailure{Row: i, Key: path, Reason: sum.Reason})
			rowLog.WithField("reason", sum.Reason).Warn("image failed")
		}

		data[i] = FormatKMeansData(sum)
		if records[i], err = sum.MarshalRecord(); err != nil {
			return report, fmt.Errorf("row %d: %w", i, err)
		}
		rowLog.WithField("status", sum.Status).Debugf("%d/%d", i+1, table.Len())
	}

	if err := table.SetColumn(DataColumn, data); err != nil {
		return report, err
	}
	if err := table.SetColumn(RecordColumn, records); err != nil {
		return report, err
	}
	if err := table.WriteFile(cfg.Output); err != nil {
		return report, err
	}

	log.WithFields(logrus.Fields{
		"output":     cfg.Output,
		"ok":         report.OK,
		"no_flowers": report.NoFlowers,
		"failed":     report.Failed,
		"resumed":    report.Resumed,
	}).Info("done")
	return report, nil
}

// collectOne returns the summary for path, from the store when possible.
// Failed summaries are not stored so they are retried on the next run.
func collectOne(cfg CollectConfig, loader Loader, engine Engine, path string) (Summary, bool, error) {
	key := cfg.checkpointKey(path)
	if cfg.Store != nil {
		sum, found, err := cfg.Store.Get(key)
		if err != nil {
			return Summary{}, false, err
		}
		if found {
			return sum, true, nil
		}
	}

	sum := SummarizeFile(loader, path, cfg.K, cfg.Bounds, engine)
	if cfg.Store != nil && sum.Status != StatusFailed {
		if err := cfg.Store.Put(key, sum); err != nil {
			return Summary{}, false, fmt.Errorf("failed to checkpoint %s: %w", path, err)
		}
	}
	return sum, false, nil
}
