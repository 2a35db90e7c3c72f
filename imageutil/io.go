package imageutil

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// JPEGQuality is the quality used when writing JPEG files.
const JPEGQuality = 95

// DecodeImage decodes the image at path without converting it.
// Supports PNG, JPEG, GIF, BMP, TIFF and WebP formats.
func DecodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// LoadImage loads an image from the specified path as an RGBAImage.
func LoadImage(path string) (*RGBAImage, error) {
	img, err := DecodeImage(path)
	if err != nil {
		return nil, err
	}
	return RGBAImageFromImage(img), nil
}

// SaveImage saves an image to the specified path.
// Format is determined by file extension (png, jpg/jpeg, gif).
func SaveImage(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: JPEGQuality})
	case ".gif":
		err = gif.Encode(f, img, nil)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
