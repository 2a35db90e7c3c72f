//go:build opencv

// Package cvimage loads images through OpenCV. It produces the same HSV
// images as the pure Go loader and is only built with the opencv tag.
package cvimage

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/wbrown/flowerhue"
	"github.com/wbrown/flowerhue/imageutil"
)

// Loader is a flowerhue.Loader backed by gocv.
type Loader struct {
	Options flowerhue.LoadOptions
}

// NewLoader returns a Loader with the given options.
func NewLoader(opts flowerhue.LoadOptions) *Loader {
	return &Loader{Options: opts}
}

// Load implements flowerhue.Loader.
func (l *Loader) Load(path string) (*imageutil.HSVImage, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("failed to read image %s", path)
	}
	return l.Prepare(mat)
}

// Prepare blurs, downscales and converts a BGR matrix to HSV. src is not
// modified.
func (l *Loader) Prepare(src gocv.Mat) (*imageutil.HSVImage, error) {
	if src.Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}
	if src.Channels() != 3 {
		return nil, fmt.Errorf("expected 3 channel BGR image, got %d channels", src.Channels())
	}

	work := src.Clone()
	defer func() { work.Close() }()

	if sigma := float64(l.Options.BlurSigma); sigma > 0 {
		blurred := gocv.NewMat()
		gocv.GaussianBlur(work, &blurred, image.Point{}, sigma, sigma, gocv.BorderReflect101)
		work.Close()
		work = blurred
	}

	w, h := imageutil.DownscaleSize(work.Cols(), work.Rows(),
		l.Options.DownscaleThreshold, l.Options.DownscaleFactor)
	if w != work.Cols() || h != work.Rows() {
		resized := gocv.NewMat()
		gocv.Resize(work, &resized, image.Point{X: w, Y: h}, 0, 0, gocv.InterpolationLinear)
		work.Close()
		work = resized
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(work, &hsv, gocv.ColorBGRToHSV)
	if hsv.Empty() {
		return nil, fmt.Errorf("colour conversion failed")
	}
	return MatToHSV(hsv), nil
}

// MatToHSV copies a 3 channel 8-bit HSV matrix into an HSVImage.
func MatToHSV(mat gocv.Mat) *imageutil.HSVImage {
	height, width := mat.Rows(), mat.Cols()
	img := imageutil.NewHSVImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			vec := mat.GetVecbAt(y, x)
			img.Set(x, y, imageutil.HSV{H: vec[0], S: vec[1], V: vec[2]})
		}
	}
	return img
}

// RGBAToMat converts an RGBAImage to a BGR matrix.
func RGBAToMat(img *imageutil.RGBAImage) gocv.Mat {
	mat := gocv.NewMatWithSize(img.Height(), img.Width(), gocv.MatTypeCV8UC3)
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			c := img.GetRGB(x, y)
			mat.SetUCharAt(y, x*3, c.B)
			mat.SetUCharAt(y, x*3+1, c.G)
			mat.SetUCharAt(y, x*3+2, c.R)
		}
	}
	return mat
}
