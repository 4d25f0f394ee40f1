package handlers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/kozaktomas/photo-analyzer/internal/analyzer"
	"github.com/kozaktomas/photo-analyzer/internal/logging"
	"github.com/kozaktomas/photo-analyzer/internal/pose"
)

// fakeDetector returns canned results
type fakeDetector struct {
	landmarks []pose.Landmark
	err       error
	healthErr error
	calls     int
}

func (f *fakeDetector) Name() string { return "fake-pose" }

func (f *fakeDetector) Detect(_ context.Context, _ []byte) (*pose.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &pose.Result{Landmarks: f.landmarks, Model: "fake-pose"}, nil
}

// healthyDetector adds a health probe to fakeDetector
type healthyDetector struct {
	*fakeDetector
}

func (h healthyDetector) CheckHealth(_ context.Context) error {
	return h.healthErr
}

// fakeFetcher serves fixed bytes for any URL
type fakeFetcher struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

// bodyLandmarks is a symmetric full-body pose
func bodyLandmarks() []pose.Landmark {
	return []pose.Landmark{
		{ID: pose.LeftShoulder, X: 0.6, Y: 0.2, Visibility: 0.9},
		{ID: pose.RightShoulder, X: 0.4, Y: 0.2, Visibility: 0.9},
		{ID: pose.LeftWrist, X: 0.7, Y: 0.5, Visibility: 0.8},
		{ID: pose.RightWrist, X: 0.3, Y: 0.5, Visibility: 0.8},
		{ID: pose.LeftHip, X: 0.55, Y: 0.5, Visibility: 0.7},
		{ID: pose.RightHip, X: 0.45, Y: 0.5, Visibility: 0.7},
		{ID: pose.LeftAnkle, X: 0.55, Y: 0.9, Visibility: 0.6},
		{ID: pose.RightAnkle, X: 0.45, Y: 0.9, Visibility: 0.6},
	}
}

// testJPEG returns a valid JPEG of the given size
func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		for y := range height {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(y % 256), B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

// newTestAnalyzeHandler wires a handler around a fake detector and fetcher
func newTestAnalyzeHandler(detector pose.Detector, fetcher analyzer.ImageFetcher) *AnalyzeHandler {
	logger := logging.Discard()
	return NewAnalyzeHandler(analyzer.New(detector, 1920, logger), fetcher, logger)
}

// jsonRequest creates a POST request with a JSON body
func jsonRequest(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// multipartRequest creates a multipart upload with a "file" part and optional form fields
func multipartRequest(t *testing.T, path, contentType string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}

	if data != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="photo.jpg"`)
		h.Set("Content-Type", contentType)
		part, err := writer.CreatePart(h)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected detail
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["detail"] != expectedMessage {
		t.Errorf("expected detail '%s', got '%s'", expectedMessage, result["detail"])
	}
}
