package flowerhue

import (
	"fmt"
	"image"

	"github.com/disintegration/gift"

	"github.com/wbrown/flowerhue/imageutil"
)

// Loader reads an image file and returns its pixels in HSV.
type Loader interface {
	Load(path string) (*imageutil.HSVImage, error)
}

// LoadOptions control image preprocessing before clustering.
type LoadOptions struct {
	// DownscaleThreshold is the image height above which the image is
	// reduced. Zero disables downscaling.
	DownscaleThreshold int
	// DownscaleFactor divides both dimensions when downscaling applies.
	DownscaleFactor int
	// BlurSigma applies a Gaussian blur of this sigma before conversion.
	// Zero disables blurring.
	BlurSigma float32
}

// DefaultLoadOptions reduces images taller than 1500 pixels to a quarter
// of their size and does not blur.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		DownscaleThreshold: 1500,
		DownscaleFactor:    4,
	}
}

// ImageLoader is the pure Go Loader.
type ImageLoader struct {
	Options LoadOptions
}

// NewImageLoader returns an ImageLoader with the given options.
func NewImageLoader(opts LoadOptions) *ImageLoader {
	return &ImageLoader{Options: opts}
}

// Load implements Loader.
func (l *ImageLoader) Load(path string) (*imageutil.HSVImage, error) {
	src, err := imageutil.DecodeImage(path)
	if err != nil {
		return nil, err
	}
	return l.Prepare(src)
}

// Prepare blurs, downscales and converts an already decoded image.
func (l *ImageLoader) Prepare(src image.Image) (*imageutil.HSVImage, error) {
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}

	img := imageutil.RGBAImageFromImage(src)
	if l.Options.BlurSigma > 0 {
		g := gift.New(gift.GaussianBlur(l.Options.BlurSigma))
		blurred := imageutil.NewRGBAImage(img.Width(), img.Height())
		g.Draw(blurred.RGBA, img.RGBA)
		img = blurred
	}
	img = imageutil.Downscale(img,
		l.Options.DownscaleThreshold, l.Options.DownscaleFactor)

	return imageutil.ToHSV(img), nil
}
