package pose

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/photo-analyzer/internal/imageproc"
)

const (
	defaultPoseURL   = "http://localhost:8500"
	defaultPoseModel = "mediapipe-pose-heavy" // model name for reference only
)

// HTTPDetector calls a pose server wrapping MediaPipe Pose.
//
// The server accepts a multipart POST on /pose with an image "file" part and an optional
// "min_detection_confidence" field, and answers with the landmarks in MediaPipe order.
type HTTPDetector struct {
	baseURL       string
	model         string
	minConfidence float64
	client        *http.Client
}

// NewHTTPDetector creates a pose server client
func NewHTTPDetector(baseURL, model string, minConfidence float64, timeout time.Duration) *HTTPDetector {
	if baseURL == "" {
		baseURL = defaultPoseURL
	}
	if model == "" {
		model = defaultPoseModel
	}
	return &HTTPDetector{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		model:         model,
		minConfidence: minConfidence,
		client:        &http.Client{Timeout: timeout},
	}
}

// poseResponse represents the response from the pose server
type poseResponse struct {
	Landmarks []struct {
		X          float64 `json:"x"`
		Y          float64 `json:"y"`
		Z          float64 `json:"z"`
		Visibility float64 `json:"visibility"`
	} `json:"landmarks"`
	Model string `json:"model"`
}

// Name returns the model name being used
func (d *HTTPDetector) Name() string {
	return d.model
}

// postMultipartImage posts the image and detection settings to the pose endpoint.
func (d *HTTPDetector) postMultipartImage(ctx context.Context, imageData []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="image.jpg"`)
	h.Set("Content-Type", imageproc.DetectMIMEType(imageData))
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}

	if d.minConfidence > 0 {
		conf := strconv.FormatFloat(d.minConfidence, 'f', -1, 64)
		if err := writer.WriteField("min_detection_confidence", conf); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/pose", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// Detect runs pose estimation on the image. An empty landmark list means no body was found.
func (d *HTTPDetector) Detect(ctx context.Context, imageData []byte) (*Result, error) {
	body, err := d.postMultipartImage(ctx, imageData)
	if err != nil {
		return nil, err
	}

	var poseResp poseResponse
	if err := json.Unmarshal(body, &poseResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(poseResp.Landmarks) == 0 {
		return nil, ErrNoPose
	}

	landmarks := make([]Landmark, 0, len(poseResp.Landmarks))
	for i, lm := range poseResp.Landmarks {
		landmarks = append(landmarks, Landmark{
			ID:         i,
			X:          lm.X,
			Y:          lm.Y,
			Z:          lm.Z,
			Visibility: lm.Visibility,
		})
	}

	model := poseResp.Model
	if model == "" {
		model = d.model
	}

	return &Result{Landmarks: landmarks, Model: model}, nil
}

// CheckHealth checks that the pose server is reachable
func (d *HTTPDetector) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("pose server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pose server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
