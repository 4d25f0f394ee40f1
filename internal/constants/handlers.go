// Package constants provides shared constants used across the codebase.
package constants

import "time"

// Request handling constants
const (
	// MaxUploadSize is the maximum multipart upload size in bytes (50MB)
	MaxUploadSize = 50 << 20

	// RequestTimeout bounds a single request including the detector call
	RequestTimeout = 2 * time.Minute
)

// Client-facing messages shared between the HTTP handlers and the CLI
const (
	MsgNoImage          = "No image data provided"
	MsgNotAnImage       = "File must be an image"
	MsgNoPose           = "No pose detected in image. Please ensure the person is clearly visible."
	MsgNoPoseShort      = "No pose detected in image"
	MsgAnalysisFailed   = "Analysis failed"
	MsgTooManyRequests  = "Too many requests"
	MsgInvalidImageData = "Invalid image data"
	MsgFetchFailed      = "Failed to fetch image from URL"
	MsgDetectorDown     = "Pose detector is unavailable"
)
