// Package download fetches the observation photographs listed in a
// spreadsheet to local disk, one file per record id.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wbrown/flowerhue/dataset"
)

// Config configures a download run.
type Config struct {
	Input     string
	Dest      string
	IDColumn  string
	URLColumn string
	// Extension is appended to the record id to form the file name.
	Extension string
	// Timeout bounds each individual fetch. Zero means no limit.
	Timeout time.Duration
	// Client overrides http.DefaultClient.
	Client *http.Client
}

// DefaultConfig returns the column names and extension used by the
// observation spreadsheets.
func DefaultConfig() Config {
	return Config{
		IDColumn:  "id",
		URLColumn: "image_url",
		Extension: ".jpg",
		Timeout:   30 * time.Second,
	}
}

// Failure records one record that was skipped.
type Failure struct {
	Row    int
	ID     string
	URL    string
	Reason string
}

// Report summarizes a download run. Every record is either counted in
// Downloaded or listed in Failures.
type Report struct {
	RunID      string
	Total      int
	Downloaded int
	Failures   []Failure
}

// Downloader fetches single images.
type Downloader struct {
	client  *http.Client
	timeout time.Duration
}

// New returns a Downloader using client, or http.DefaultClient when nil.
func New(client *http.Client, timeout time.Duration) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Downloader{client: client, timeout: timeout}
}

// Fetch downloads rawURL to dst. The body is streamed to a temporary
// file in the destination directory and renamed into place only after a
// complete, successful response, so dst either holds the whole image or
// is left untouched.
func (d *Downloader) Fetch(ctx context.Context, rawURL, dst string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url %q", rawURL)
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to read body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

// FileName returns the file name for a record id, rejecting ids that
// would escape the destination directory.
func FileName(id, ext string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("unusable record id %q", id)
	}
	return id + ext, nil
}

// Run downloads the image of every record of the input table. Records
// that fail for any reason are skipped without retry and listed in the
// report. Progress is logged for every record, so the counter always
// reaches the record count.
func Run(ctx context.Context, cfg Config, log logrus.FieldLogger) (*Report, error) {
	table, err := dataset.ReadFile(cfg.Input)
	if err != nil {
		return nil, err
	}
	idCol, err := table.Column(cfg.IDColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Input, err)
	}
	urlCol, err := table.Column(cfg.URLColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Input, err)
	}
	if err := os.MkdirAll(cfg.Dest, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", cfg.Dest, err)
	}

	d := New(cfg.Client, cfg.Timeout)
	report := &Report{RunID: uuid.NewString(), Total: table.Len()}
	log = log.WithField("run", report.RunID)
	log.WithFields(logrus.Fields{
		"input": cfg.Input,
		"dest":  cfg.Dest,
		"rows":  table.Len(),
	}).Info("downloading images")

	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("download stopped at row %d: %w", i, err)
		}
		id, rawURL := row[idCol], row[urlCol]
		progress := fmt.Sprintf("%d/%d", i+1, table.Len())

		err := fetchRecord(ctx, d, cfg, id, rawURL)
		if err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return report, fmt.Errorf("download stopped at row %d: %w", i, err)
			}
			report.Failures = append(report.Failures, Failure{
				Row: i, ID: id, URL: rawURL, Reason: err.Error(),
			})
			log.WithFields(logrus.Fields{"id": id, "error": err}).Warn(progress + " skipped")
			continue
		}
		report.Downloaded++
		log.WithField("id", id).Info(progress)
	}

	log.WithFields(logrus.Fields{
		"downloaded": report.Downloaded,
		"skipped":    len(report.Failures),
	}).Info("done")
	return report, nil
}

func fetchRecord(ctx context.Context, d *Downloader, cfg Config, id, rawURL string) error {
	name, err := FileName(id, cfg.Extension)
	if err != nil {
		return err
	}
	return d.Fetch(ctx, rawURL, filepath.Join(cfg.Dest, name))
}
