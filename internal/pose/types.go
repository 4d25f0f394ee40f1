// Package pose wraps the external pose-estimation model behind a small Detector interface.
// The model is a black box: it gets an image and returns MediaPipe-style body landmarks.
package pose

import (
	"context"
	"errors"
)

// ErrNoPose is returned when the model ran successfully but found no body in the image.
var ErrNoPose = errors.New("no pose detected")

// Landmark is a single body point. X and Y are normalized to [0,1] of the image
// width and height, Z is relative depth and Visibility is the model's confidence.
type Landmark struct {
	ID         int     `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Result is the output of a single detection.
type Result struct {
	Landmarks []Landmark
	Model     string
}

// Detector runs the pose model over a JPEG image.
type Detector interface {
	Name() string
	Detect(ctx context.Context, imageData []byte) (*Result, error)
}

// HealthChecker is implemented by detectors that can probe their backend.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// NumLandmarks is the size of the MediaPipe Pose landmark set.
const NumLandmarks = 33

// MediaPipe Pose landmark indices used by the measurements.
const (
	LeftShoulder  = 11
	RightShoulder = 12
	LeftElbow     = 13
	RightElbow    = 14
	LeftWrist     = 15
	RightWrist    = 16
	LeftHip       = 23
	RightHip      = 24
	LeftKnee      = 25
	RightKnee     = 26
	LeftAnkle     = 27
	RightAnkle    = 28
)

var landmarkNames = [NumLandmarks]string{
	"nose",
	"left_eye_inner",
	"left_eye",
	"left_eye_outer",
	"right_eye_inner",
	"right_eye",
	"right_eye_outer",
	"left_ear",
	"right_ear",
	"mouth_left",
	"mouth_right",
	"left_shoulder",
	"right_shoulder",
	"left_elbow",
	"right_elbow",
	"left_wrist",
	"right_wrist",
	"left_pinky",
	"right_pinky",
	"left_index",
	"right_index",
	"left_thumb",
	"right_thumb",
	"left_hip",
	"right_hip",
	"left_knee",
	"right_knee",
	"left_ankle",
	"right_ankle",
	"left_heel",
	"right_heel",
	"left_foot_index",
	"right_foot_index",
}

// LandmarkName returns the MediaPipe name of a landmark index, or "" when out of range.
func LandmarkName(id int) string {
	if id < 0 || id >= NumLandmarks {
		return ""
	}
	return landmarkNames[id]
}

// ValidLandmarks drops landmarks with an out-of-range ID, keeping the first occurrence of each ID.
func ValidLandmarks(landmarks []Landmark) []Landmark {
	seen := make(map[int]bool, len(landmarks))
	out := make([]Landmark, 0, len(landmarks))
	for _, lm := range landmarks {
		if lm.ID < 0 || lm.ID >= NumLandmarks || seen[lm.ID] {
			continue
		}
		seen[lm.ID] = true
		out = append(out, lm)
	}
	return out
}
