// Package imageproc turns uploaded bytes into pixels and prepares them for the pose detector.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kozaktomas/photo-analyzer/internal/constants"
)

// Decoded is an image ready for analysis.
type Decoded struct {
	Image  image.Image
	Format string
	Width  int
	Height int
}

// Decode decodes image bytes in any registered format and applies the EXIF orientation,
// so Width and Height are the dimensions the user actually sees.
func Decode(data []byte) (*Decoded, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	return &Decoded{
		Image:  img,
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// Prepare downscales img to fit within maxSize (width or height) keeping the aspect ratio
// and encodes it as JPEG. Images already within bounds are only re-encoded.
func Prepare(img image.Image, maxSize int) ([]byte, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	out := img
	if maxSize > 0 && (width > maxSize || height > maxSize) {
		newWidth, newHeight := fitWithin(width, height, maxSize)
		resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		out = resized
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: constants.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin returns the dimensions of a width x height box scaled so its longest side is maxSize.
func fitWithin(width, height, maxSize int) (int, int) {
	if width > height {
		return maxSize, max(1, int(float64(height)*float64(maxSize)/float64(width)))
	}
	return max(1, int(float64(width)*float64(maxSize)/float64(height))), maxSize
}
