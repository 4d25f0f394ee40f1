// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Service identity reported by the liveness endpoints
const (
	// ServiceName is the short service name reported by /health
	ServiceName = "photo-analyzer"

	// APIName is the human readable API name reported by /
	APIName = "GymSage Photo Analyzer API"

	// APIVersion is the public API version, independent of the build version
	APIVersion = "1.0.0"
)

// View labels
const (
	// DefaultView is the view label used when a file upload does not name one
	DefaultView = "front"
)

// Image processing constants
const (
	// JPEGQuality is the quality used when re-encoding images for the detector
	JPEGQuality = 90
)
