package analyzer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync"

	"github.com/kozaktomas/photo-analyzer/internal/pose"
)

func createTestImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		for y := range height {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
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

// fakeDetector returns canned results and records the images it received.
type fakeDetector struct {
	mu        sync.Mutex
	landmarks []pose.Landmark
	err       error
	calls     int
	lastImage []byte
}

func (f *fakeDetector) Name() string { return "fake" }

func (f *fakeDetector) Detect(_ context.Context, imageData []byte) (*pose.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastImage = imageData
	if f.err != nil {
		return nil, f.err
	}
	return &pose.Result{Landmarks: f.landmarks, Model: "fake"}, nil
}

// fakeFetcher serves a fixed payload for any URL.
type fakeFetcher struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

func shoulderLandmarks() []pose.Landmark {
	return []pose.Landmark{
		{ID: pose.LeftShoulder, X: 0.75, Y: 0.25, Visibility: 0.9},
		{ID: pose.RightShoulder, X: 0.25, Y: 0.25, Visibility: 0.7},
	}
}
