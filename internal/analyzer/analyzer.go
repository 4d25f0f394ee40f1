// Package analyzer runs the photo analysis pipeline: decode, detect pose, measure.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/photo-analyzer/internal/constants"
	"github.com/kozaktomas/photo-analyzer/internal/imageproc"
	"github.com/kozaktomas/photo-analyzer/internal/measure"
	"github.com/kozaktomas/photo-analyzer/internal/pose"
)

// Dimensions of the analysed image in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Analysis is the result of analysing one photo.
type Analysis struct {
	Measurements      map[string]float64 `json:"measurements"`
	Keypoints         []measure.Keypoint `json:"keypoints"`
	Confidence        float64            `json:"confidence"`
	View              string             `json:"view"`
	ImageDimensions   Dimensions         `json:"image_dimensions"`
	LandmarksDetected int                `json:"landmarks_detected"`
}

// Analyzer is safe for concurrent use; it holds only the shared detector.
type Analyzer struct {
	detector     pose.Detector
	maxImageSize int
	logger       logrus.FieldLogger
}

func New(detector pose.Detector, maxImageSize int, logger logrus.FieldLogger) *Analyzer {
	return &Analyzer{
		detector:     detector,
		maxImageSize: maxImageSize,
		logger:       logger,
	}
}

// Detector returns the pose detector used by the analyzer.
func (a *Analyzer) Detector() pose.Detector {
	return a.detector
}

// Analyze runs the pipeline over raw image bytes.
// Undecodable images produce an *InputError, an image without a person produces pose.ErrNoPose.
func (a *Analyzer) Analyze(ctx context.Context, data []byte, view string) (*Analysis, error) {
	if len(data) == 0 {
		return nil, &InputError{Message: constants.MsgNoImage}
	}
	if view == "" {
		view = constants.DefaultView
	}

	decoded, err := imageproc.Decode(data)
	if err != nil {
		return nil, &InputError{Message: constants.MsgInvalidImageData, Err: err}
	}

	prepared, err := imageproc.Prepare(decoded.Image, a.maxImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image: %w", err)
	}

	start := time.Now()
	result, err := a.detector.Detect(ctx, prepared)
	if errors.Is(err, pose.ErrNoPose) {
		a.logger.WithFields(logrus.Fields{
			"view":   view,
			"width":  decoded.Width,
			"height": decoded.Height,
		}).Info("no pose detected")
		return nil, pose.ErrNoPose
	}
	if err != nil {
		return nil, fmt.Errorf("pose detection failed: %w", err)
	}

	landmarks := pose.ValidLandmarks(result.Landmarks)
	if len(landmarks) == 0 {
		return nil, pose.ErrNoPose
	}

	analysis := &Analysis{
		Measurements:      measure.Compute(landmarks, decoded.Width, decoded.Height),
		Keypoints:         measure.Keypoints(landmarks),
		Confidence:        measure.Confidence(landmarks),
		View:              view,
		ImageDimensions:   Dimensions{Width: decoded.Width, Height: decoded.Height},
		LandmarksDetected: len(landmarks),
	}

	a.logger.WithFields(logrus.Fields{
		"view":         view,
		"format":       decoded.Format,
		"width":        decoded.Width,
		"height":       decoded.Height,
		"landmarks":    len(landmarks),
		"measurements": len(analysis.Measurements),
		"confidence":   analysis.Confidence,
		"model":        result.Model,
		"duration":     time.Since(start).String(),
	}).Info("photo analysed")

	return analysis, nil
}
