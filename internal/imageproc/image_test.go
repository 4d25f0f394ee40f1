package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// Helper functions for creating test images

func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		for y := range height {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

// --- Decode tests ---

func TestDecode_JPEG(t *testing.T) {
	data := encodeJPEG(createTestImage(640, 480, color.White))

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded.Format != "jpeg" {
		t.Errorf("expected format jpeg, got %s", decoded.Format)
	}
	if decoded.Width != 640 || decoded.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", decoded.Width, decoded.Height)
	}
}

func TestDecode_PNG(t *testing.T) {
	data := encodePNG(createTestImage(100, 200, color.Black))

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded.Format != "png" {
		t.Errorf("expected format png, got %s", decoded.Format)
	}
	if decoded.Width != 100 || decoded.Height != 200 {
		t.Errorf("expected 100x200, got %dx%d", decoded.Width, decoded.Height)
	}
}

func TestDecode_InvalidData(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"text", []byte("not an image")},
		{"truncated jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.data); err == nil {
				t.Error("expected error for invalid data")
			}
		})
	}
}

func TestDecode_TinyImage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"1x1 png", encodePNG(createTestImage(1, 1, color.White))},
		{"12x12 jpeg", encodeJPEG(createTestImage(12, 12, color.White))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decoded, err := Decode(tc.data)
			if err != nil {
				t.Fatalf("expected tiny image to decode, got %v", err)
			}
			if decoded.Width == 0 || decoded.Height == 0 {
				t.Errorf("expected non-zero dimensions, got %dx%d", decoded.Width, decoded.Height)
			}
		})
	}
}

// --- Prepare tests ---

func TestPrepare_NoResizeNeeded(t *testing.T) {
	img := createTestImage(100, 100, color.White)

	out, err := Prepare(img, 200)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	decoded, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg format, got %s", format)
	}
	if decoded.Bounds().Dx() != 100 || decoded.Bounds().Dy() != 100 {
		t.Errorf("expected 100x100, got %dx%d", decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
}

func TestPrepare_Downscale(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		maxSize        int
		expectedWidth  int
		expectedHeight int
	}{
		{"landscape", 2000, 1000, 500, 500, 250},
		{"portrait", 1000, 2000, 500, 250, 500},
		{"square", 1000, 1000, 200, 200, 200},
		{"4:3", 1600, 1200, 400, 400, 300},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			img := createTestImage(tc.width, tc.height, color.White)

			out, err := Prepare(img, tc.maxSize)
			if err != nil {
				t.Fatalf("Prepare failed: %v", err)
			}

			decoded, _, err := image.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("failed to decode result: %v", err)
			}

			bounds := decoded.Bounds()
			if bounds.Dx() != tc.expectedWidth || bounds.Dy() != tc.expectedHeight {
				t.Errorf("expected %dx%d, got %dx%d", tc.expectedWidth, tc.expectedHeight, bounds.Dx(), bounds.Dy())
			}
		})
	}
}

func TestPrepare_ZeroMaxSizeKeepsDimensions(t *testing.T) {
	img := createTestImage(300, 150, color.White)

	out, err := Prepare(img, 0)
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	decoded, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if decoded.Bounds().Dx() != 300 || decoded.Bounds().Dy() != 150 {
		t.Errorf("expected 300x150, got %dx%d", decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
}

func TestFitWithin_ExtremeAspect(t *testing.T) {
	w, h := fitWithin(10000, 10, 100)
	if w != 100 || h != 1 {
		t.Errorf("expected 100x1, got %dx%d", w, h)
	}
}

// --- MIME tests ---

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}, "image/jpeg"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
		{"gif", []byte("GIF89a\x00\x00"), "image/gif"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBP"), "image/webp"},
		{"bmp", []byte("BM\x00\x00\x00\x00\x00\x00"), "image/bmp"},
		{"tiff little endian", []byte{0x49, 0x49, 0x2A, 0x00, 0, 0, 0, 0}, "image/tiff"},
		{"tiff big endian", []byte{0x4D, 0x4D, 0x00, 0x2A, 0, 0, 0, 0}, "image/tiff"},
		{"too short", []byte{0xFF, 0xD8}, "application/octet-stream"},
		{"text", []byte("hello world"), "application/octet-stream"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectMIMEType(tc.data); got != tc.expected {
				t.Errorf("DetectMIMEType() = %s; want %s", got, tc.expected)
			}
		})
	}
}

func TestDetectMIMEType_EncodedImages(t *testing.T) {
	img := createTestImage(20, 20, color.White)

	if got := DetectMIMEType(encodeJPEG(img)); got != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", got)
	}
	if got := DetectMIMEType(encodePNG(img)); got != "image/png" {
		t.Errorf("expected image/png, got %s", got)
	}
}

func TestIsImageContentType(t *testing.T) {
	tests := []struct {
		contentType string
		expected    bool
	}{
		{"image/jpeg", true},
		{"image/png", true},
		{"IMAGE/PNG", true},
		{" image/webp", true},
		{"text/plain", false},
		{"application/octet-stream", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.contentType, func(t *testing.T) {
			if got := IsImageContentType(tc.contentType); got != tc.expected {
				t.Errorf("IsImageContentType(%q) = %v; want %v", tc.contentType, got, tc.expected)
			}
		})
	}
}
