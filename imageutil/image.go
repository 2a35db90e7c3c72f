// Package imageutil provides pure Go image plumbing for the colour
// pipelines: RGB and HSV image containers, OpenCV-compatible colour
// conversion, resizing, decoding and encoding.
package imageutil

import (
	"image"
	"image/color"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to color.RGBA for use with standard library.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBFromColor converts a color.Color to RGB.
func RGBFromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// RGBAImage wraps image.RGBA with convenience methods for pixel access.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to RGBAImage.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return &RGBAImage{RGBA: rgba}
	}
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}
	return rgba
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y).
func (img *RGBAImage) GetRGB(x, y int) RGB {
	c := img.RGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// SetRGB sets the RGB value at (x, y).
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
}

// HSV is a pixel in OpenCV's 8-bit HSV convention: H in [0, 179],
// S and V in [0, 255].
type HSV struct {
	H, S, V uint8
}

// HSVImage is a row-major grid of HSV pixels. Pix[y*Width+x] holds the
// pixel at (x, y), so Pix doubles as the flattened sample list used for
// clustering.
type HSVImage struct {
	Width, Height int
	Pix           []HSV
}

// NewHSVImage creates a black HSVImage with the specified dimensions.
func NewHSVImage(width, height int) *HSVImage {
	return &HSVImage{
		Width:  width,
		Height: height,
		Pix:    make([]HSV, width*height),
	}
}

// At returns the HSV value at (x, y).
func (img *HSVImage) At(x, y int) HSV {
	return img.Pix[y*img.Width+x]
}

// Set sets the HSV value at (x, y).
func (img *HSVImage) Set(x, y int, c HSV) {
	img.Pix[y*img.Width+x] = c
}

// Len returns the number of pixels.
func (img *HSVImage) Len() int {
	return len(img.Pix)
}

// ToHSV converts an RGB image to HSV.
func ToHSV(img *RGBAImage) *HSVImage {
	width, height := img.Width(), img.Height()
	hsv := NewHSVImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			hsv.Pix[y*width+x] = RGBToHSV(img.GetRGB(x, y))
		}
	}
	return hsv
}

// ToRGBA converts an HSV image back to RGB.
func (img *HSVImage) ToRGBA() *RGBAImage {
	rgba := NewRGBAImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.Pix[y*img.Width+x]
			rgba.SetRGB(x, y, HSVToRGB(float64(c.H), float64(c.S), float64(c.V)))
		}
	}
	return rgba
}

// MaskLabel returns an RGB rendering of img in which only the pixels whose
// label equals keep are visible; every other pixel is black. labels must
// have one entry per pixel in row-major order.
func (img *HSVImage) MaskLabel(labels []int, keep int) *RGBAImage {
	rgba := NewRGBAImage(img.Width, img.Height)
	black := RGB{}
	for i, c := range img.Pix {
		x, y := i%img.Width, i/img.Width
		if labels[i] != keep {
			rgba.SetRGB(x, y, black)
			continue
		}
		rgba.SetRGB(x, y, HSVToRGB(float64(c.H), float64(c.S), float64(c.V)))
	}
	return rgba
}
