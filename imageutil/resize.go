package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom for high-quality downscaling.
	// This is the closest equivalent to OpenCV's INTER_AREA.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	// Equivalent to OpenCV's INTER_LINEAR, the cv2.resize default.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest
)

// Resize resizes an RGBA image to the specified dimensions using the
// given interpolation method.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	dst := NewRGBAImage(width, height)
	dstRect := image.Rect(0, 0, width, height)

	var scaler draw.Scaler
	switch interp {
	case InterpolationArea:
		scaler = draw.CatmullRom
	case InterpolationLinear:
		scaler = draw.BiLinear
	case InterpolationNearest:
		scaler = draw.NearestNeighbor
	default:
		scaler = draw.CatmullRom
	}

	scaler.Scale(dst.RGBA, dstRect, img.RGBA, img.Bounds(), draw.Src, nil)
	return dst
}

// DownscaleSize returns the dimensions an image of the given size is
// reduced to. When height exceeds threshold both dimensions are divided by
// factor and truncated; otherwise the size is returned unchanged. A
// threshold or factor below one disables downscaling.
func DownscaleSize(width, height, threshold, factor int) (int, int) {
	if threshold < 1 || factor < 2 || height <= threshold {
		return width, height
	}
	w, h := width/factor, height/factor
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Downscale applies DownscaleSize to img using bilinear interpolation.
// The original image is returned when no reduction applies.
func Downscale(img *RGBAImage, threshold, factor int) *RGBAImage {
	w, h := DownscaleSize(img.Width(), img.Height(), threshold, factor)
	if w == img.Width() && h == img.Height() {
		return img
	}
	return Resize(img, w, h, InterpolationLinear)
}
