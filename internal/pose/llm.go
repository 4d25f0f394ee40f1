package pose

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed prompts/pose_landmarks.txt
var poseLandmarksPrompt string

// llmMaxRetries is how many times a vision model may answer with unparseable JSON.
const llmMaxRetries = 3

// llmPoseResponse is the JSON shape vision models are asked to produce.
type llmPoseResponse struct {
	PoseDetected *bool      `json:"pose_detected"`
	Landmarks    []Landmark `json:"landmarks"`
}

// extractJSON returns the first balanced JSON object in content.
// Models sometimes wrap the JSON in prose or code fences.
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	if start == -1 {
		return content
	}

	depth := 0
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}

	return content[start:]
}

// parseLLMResponse converts a model reply into a Result.
// Returns a wrapped JSON error for unparseable replies and ErrNoPose when the model found no body.
func parseLLMResponse(content, model string) (*Result, error) {
	var resp llmPoseResponse
	if err := json.Unmarshal([]byte(extractJSON(content)), &resp); err != nil {
		return nil, fmt.Errorf("invalid landmark JSON: %w", err)
	}

	if resp.PoseDetected != nil && !*resp.PoseDetected {
		return nil, ErrNoPose
	}

	landmarks := ValidLandmarks(resp.Landmarks)
	if len(landmarks) == 0 {
		return nil, ErrNoPose
	}

	for i := range landmarks {
		landmarks[i].X = clamp01(landmarks[i].X)
		landmarks[i].Y = clamp01(landmarks[i].Y)
		landmarks[i].Visibility = clamp01(landmarks[i].Visibility)
	}

	return &Result{Landmarks: landmarks, Model: model}, nil
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// retryFeedback is sent back to a model whose previous answer did not parse.
func retryFeedback(err error) string {
	return fmt.Sprintf("JSON parse error: %v. Please fix the JSON and try again. Output ONLY valid JSON, no other text.", err)
}
