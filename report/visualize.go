package report

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/sirupsen/logrus"

	"github.com/wbrown/flowerhue"
	"github.com/wbrown/flowerhue/imageutil"
)

// Output file names, relative to Config.OutDir.
const (
	SummaryFile = "image_summary.html"
	PaletteFile = "image_palette.png"
)

// MaskName returns the file name of the masked image of cluster i.
func MaskName(i int) string {
	return fmt.Sprintf("image_cluster_%d.jpg", i)
}

// ThumbnailName returns the file name of the thumbnail of cluster i.
func ThumbnailName(i int) string {
	return fmt.Sprintf("image_cluster_%d_thumb.jpg", i)
}

// ClusterLabel returns the display label of cluster i.
func ClusterLabel(i int) string {
	return fmt.Sprintf("cluster %d", i)
}

// Config configures a visualization run.
type Config struct {
	Image  string
	K      int
	OutDir string
	Seed   int64
	Engine string
	Load   flowerhue.LoadOptions
	Loader flowerhue.Loader
	// ThumbnailWidth writes a thumbnail of each mask at this width.
	// Zero disables thumbnails.
	ThumbnailWidth int
	// Reference adds a palette computed independently of the clustering.
	Reference bool
	// Open shows the summary page in the default browser when done.
	Open bool
	// Opener overrides OpenBrowser.
	Opener func(path string) error
}

// DefaultConfig clusters into 5 groups, writes into the working
// directory and opens the browser. Images are not downscaled.
func DefaultConfig() Config {
	return Config{
		K:      5,
		OutDir: ".",
		Engine: "lloyd",
		Open:   true,
	}
}

// Result lists what a visualization run produced. All paths are
// absolute.
type Result struct {
	RunID      string
	Clusters   []flowerhue.Cluster
	Summary    string
	Palette    string
	Masks      []string
	Thumbnails []string
	Reference  []Swatch
}

// Visualize clusters a single image and writes one masked image per
// cluster, a palette PNG and an HTML summary page into cfg.OutDir.
func Visualize(ctx context.Context, cfg Config, log logrus.FieldLogger) (*Result, error) {
	if cfg.K < 1 {
		return nil, fmt.Errorf("cluster count must be at least 1, got %d", cfg.K)
	}
	engine, err := flowerhue.EngineByName(cfg.Engine, cfg.Seed)
	if err != nil {
		return nil, err
	}
	loader := cfg.Loader
	if loader == nil {
		loader = flowerhue.NewImageLoader(cfg.Load)
	}
	outDir, err := filepath.Abs(cfg.OutDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outDir, err)
	}

	result := &Result{RunID: uuid.NewString()}
	log = log.WithFields(logrus.Fields{"run": result.RunID, "image": cfg.Image})

	img, err := loader.Load(cfg.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", cfg.Image, err)
	}
	log.WithFields(logrus.Fields{
		"width":  img.Width,
		"height": img.Height,
		"k":      cfg.K,
	}).Info("clustering image")

	clustering, err := flowerhue.Summarize(img, cfg.K, engine)
	if err != nil {
		return nil, err
	}
	result.Clusters = clustering.Clusters

	views := make([]ClusterView, len(clustering.Clusters))
	for i, cl := range clustering.Clusters {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		views[i] = NewClusterView(cl)

		mask := img.MaskLabel(clustering.Labels, cl.Index)
		maskPath := filepath.Join(outDir, MaskName(cl.Index))
		if err := imageutil.SaveImage(mask.RGBA, maskPath); err != nil {
			return result, err
		}
		result.Masks = append(result.Masks, maskPath)

		if cfg.ThumbnailWidth > 0 {
			thumbPath := filepath.Join(outDir, ThumbnailName(cl.Index))
			if err := imageutil.SaveImage(Thumbnail(mask.RGBA, cfg.ThumbnailWidth), thumbPath); err != nil {
				return result, err
			}
			views[i].Thumbnail = ThumbnailName(cl.Index)
			result.Thumbnails = append(result.Thumbnails, thumbPath)
		}
		log.WithFields(logrus.Fields{
			"cluster": cl.Index,
			"pixels":  cl.Pixels,
			"mean":    cl.Mean,
		}).Debug("cluster written")
	}

	palette, err := DrawPalette(views)
	if err != nil {
		return result, err
	}
	result.Palette = filepath.Join(outDir, PaletteFile)
	if err := imageutil.SaveImage(palette, result.Palette); err != nil {
		return result, err
	}

	if cfg.Reference {
		ref, err := ReferencePalette(img.ToRGBA().RGBA)
		if err != nil {
			log.WithError(err).Warn("reference palette unavailable")
		}
		result.Reference = ref
	}

	page := Page{
		Title:     "Image Summary",
		Source:    filepath.Base(cfg.Image),
		Clusters:  views,
		Palette:   PaletteFile,
		Reference: result.Reference,
	}
	result.Summary = filepath.Join(outDir, SummaryFile)
	if err := writePage(result.Summary, page); err != nil {
		return result, err
	}
	log.WithField("summary", result.Summary).Info("summary written")

	if cfg.Open {
		open := cfg.Opener
		if open == nil {
			open = OpenBrowser
		}
		if err := open(result.Summary); err != nil {
			log.WithError(err).Warn("could not open browser")
		}
	}
	return result, nil
}

func writePage(path string, page Page) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(f, page); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return f.Close()
}

// Thumbnail scales img to the given width, keeping its aspect ratio.
func Thumbnail(img image.Image, width int) image.Image {
	return resize.Resize(uint(width), 0, img, resize.Lanczos3)
}

// ReferencePalette returns the dominant colours of img found by
// prominentcolor, independently of the HSV clustering. Images that are
// mostly background may yield an error.
func ReferencePalette(img image.Image) ([]Swatch, error) {
	items, err := prominentcolor.KmeansWithArgs(prominentcolor.ArgumentNoCropping, img)
	if err != nil {
		return nil, err
	}
	swatches := make([]Swatch, len(items))
	for i, item := range items {
		swatches[i] = Swatch{
			Color: imageutil.RGB{
				R: uint8(item.Color.R),
				G: uint8(item.Color.G),
				B: uint8(item.Color.B),
			},
			Count: item.Cnt,
		}
	}
	return swatches, nil
}

// OpenBrowser opens path with the platform's default handler.
func OpenBrowser(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", abs)
	case "darwin":
		cmd = exec.Command("open", abs)
	default:
		cmd = exec.Command("xdg-open", abs)
	}
	return cmd.Start()
}
