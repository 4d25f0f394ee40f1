// Package measure derives pixel-space body measurements from pose landmarks.
// Measurements are uncalibrated: distances are in pixels of the analysed image.
package measure

import (
	"math"

	"github.com/kozaktomas/photo-analyzer/internal/pose"
)

// Measurement names
const (
	ShoulderWidth    = "shoulder_width"
	HipWidth         = "hip_width"
	LeftArmLength    = "left_arm_length"
	RightArmLength   = "right_arm_length"
	LeftLegLength    = "left_leg_length"
	RightLegLength   = "right_leg_length"
	TorsoLength      = "torso_length"
	ArmSymmetryRatio = "arm_symmetry_ratio"
	LegSymmetryRatio = "leg_symmetry_ratio"
)

// Point is a position in image pixels.
type Point struct {
	X, Y int
}

// segment is a measurement between two landmarks.
type segment struct {
	name     string
	from, to int
}

var segments = []segment{
	{ShoulderWidth, pose.LeftShoulder, pose.RightShoulder},
	{HipWidth, pose.LeftHip, pose.RightHip},
	{LeftArmLength, pose.LeftShoulder, pose.LeftWrist},
	{RightArmLength, pose.RightShoulder, pose.RightWrist},
	{LeftLegLength, pose.LeftHip, pose.LeftAnkle},
	{RightLegLength, pose.RightHip, pose.RightAnkle},
	{TorsoLength, pose.LeftShoulder, pose.LeftHip},
}

// ratio is a left/right symmetry measurement.
type ratio struct {
	name        string
	left, right string
}

var ratios = []ratio{
	{ArmSymmetryRatio, LeftArmLength, RightArmLength},
	{LegSymmetryRatio, LeftLegLength, RightLegLength},
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// ToPixels converts a normalized landmark to pixel coordinates, truncating toward zero.
func ToPixels(lm pose.Landmark, width, height int) Point {
	return Point{
		X: int(lm.X * float64(width)),
		Y: int(lm.Y * float64(height)),
	}
}

// Compute returns the measurement set for the landmarks of an image of the given size.
//
// A distance is present only when both of its landmarks are. A symmetry ratio is present only
// when both one-sided lengths are, and is omitted when the right side is zero.
func Compute(landmarks []pose.Landmark, width, height int) map[string]float64 {
	measurements := make(map[string]float64)
	if len(landmarks) == 0 {
		return measurements
	}

	points := make(map[int]Point, len(landmarks))
	for _, lm := range landmarks {
		points[lm.ID] = ToPixels(lm, width, height)
	}

	for _, s := range segments {
		from, ok := points[s.from]
		if !ok {
			continue
		}
		to, ok := points[s.to]
		if !ok {
			continue
		}
		measurements[s.name] = Distance(from, to)
	}

	for _, r := range ratios {
		left, ok := measurements[r.left]
		if !ok {
			continue
		}
		right, ok := measurements[r.right]
		if !ok || right == 0 {
			continue
		}
		measurements[r.name] = left / right
	}

	return measurements
}

// Keypoint is a landmark as reported to clients.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
	LandmarkID int     `json:"landmark_id"`
	Name       string  `json:"name,omitempty"`
}

// Keypoints converts landmarks to keypoints, keeping their order.
func Keypoints(landmarks []pose.Landmark) []Keypoint {
	keypoints := make([]Keypoint, 0, len(landmarks))
	for _, lm := range landmarks {
		keypoints = append(keypoints, Keypoint{
			X:          lm.X,
			Y:          lm.Y,
			Z:          lm.Z,
			Visibility: lm.Visibility,
			LandmarkID: lm.ID,
			Name:       pose.LandmarkName(lm.ID),
		})
	}
	return keypoints
}

// Confidence is the mean landmark visibility, or 0 without landmarks.
func Confidence(landmarks []pose.Landmark) float64 {
	if len(landmarks) == 0 {
		return 0
	}
	var sum float64
	for _, lm := range landmarks {
		sum += lm.Visibility
	}
	return sum / float64(len(landmarks))
}
