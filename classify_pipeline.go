package flowerhue

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wbrown/flowerhue/dataset"
)

// ClassificationColumn holds the label written by Classify.
const ClassificationColumn = "Classification"

// ClassifyConfig configures a classification run.
type ClassifyConfig struct {
	Input   string
	Output  string
	Variant Variant
	// Strict aborts the run on the first unparsable summary instead of
	// leaving the row unclassified.
	Strict bool
}

// ClassifyReport summarizes a classification run.
type ClassifyReport struct {
	RunID      string
	Total      int
	Classified int
	Counts     map[Label]int
	Failures   []RowFailure
}

// ExtractChannel returns the requested channel of a row. The structured
// record is preferred; the legacy KMeansData string is parsed when no
// record is present.
func ExtractChannel(data, record string, channel int) (float64, error) {
	if record != "" {
		sum, err := ParseRecord(record)
		if err != nil {
			return 0, err
		}
		return sum.Channel(channel)
	}
	return ParseChannel(data, channel)
}

// Classify extracts the variant's channel from every row, classifies it
// and writes the table with the extracted column and a Classification
// column to the output path.
func Classify(ctx context.Context, cfg ClassifyConfig, log logrus.FieldLogger) (*ClassifyReport, error) {
	if cfg.Variant.Classifier == nil {
		return nil, fmt.Errorf("no classifier configured")
	}
	table, err := dataset.ReadFile(cfg.Input)
	if err != nil {
		return nil, err
	}
	dataCol, err := table.Column(DataColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Input, err)
	}
	recordCol := -1
	if table.HasColumn(RecordColumn) {
		recordCol, _ = table.Column(RecordColumn)
	}

	report := &ClassifyReport{
		RunID:  uuid.NewString(),
		Total:  table.Len(),
		Counts: make(map[Label]int),
	}
	log = log.WithFields(logrus.Fields{"run": report.RunID, "variant": cfg.Variant.Name})
	log.WithFields(logrus.Fields{"input": cfg.Input, "rows": table.Len()}).Info("classifying")

	extracted := make([]string, table.Len())
	labels := make([]string, table.Len())
	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("classification stopped at row %d: %w", i, err)
		}
		var record string
		if recordCol >= 0 {
			record = row[recordCol]
		}

		v, err := ExtractChannel(row[dataCol], record, cfg.Variant.Channel)
		if err != nil {
			if cfg.Strict {
				return report, fmt.Errorf("row %d: %w", i, err)
			}
			report.Failures = append(report.Failures,
				RowFailure{Row: i, Key: row[dataCol], Reason: err.Error()})
			log.WithFields(logrus.Fields{"row": i, "error": err}).Warn("row not classified")
			continue
		}

		label := cfg.Variant.Classifier.Classify(v)
		extracted[i] = formatFloat(v)
		labels[i] = string(label)
		report.Counts[label]++
		report.Classified++
	}

	if err := table.SetColumn(cfg.Variant.Column, extracted); err != nil {
		return report, err
	}
	if err := table.SetColumn(ClassificationColumn, labels); err != nil {
		return report, err
	}
	if err := table.WriteFile(cfg.Output); err != nil {
		return report, err
	}

	log.WithFields(logrus.Fields{
		"output":     cfg.Output,
		"classified": report.Classified,
		"skipped":    len(report.Failures),
	}).Info("done")
	return report, nil
}
