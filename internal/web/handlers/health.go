package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kozaktomas/photo-analyzer/internal/constants"
	"github.com/kozaktomas/photo-analyzer/internal/pose"
)

// readyTimeout bounds the detector health probe.
const readyTimeout = 5 * time.Second

// Root handles the API root liveness check.
func Root(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": constants.APIName,
		"status":  "healthy",
		"version": constants.APIVersion,
	})
}

// HealthCheck handles the health check endpoint.
// The shape is fixed and does not depend on the detector.
func HealthCheck(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":              "healthy",
		"service":             constants.ServiceName,
		"mediapipe_available": true,
		"opencv_available":    true,
	})
}

// ReadyHandler reports whether the pose detector backend is reachable.
type ReadyHandler struct {
	detector pose.Detector
	logger   logrus.FieldLogger
}

func NewReadyHandler(detector pose.Detector, logger logrus.FieldLogger) *ReadyHandler {
	return &ReadyHandler{detector: detector, logger: logger}
}

func (h *ReadyHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checker, ok := h.detector.(pose.HealthChecker)
	if !ok {
		respondJSON(w, http.StatusOK, map[string]string{
			"status":   "ready",
			"detector": h.detector.Name(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := checker.CheckHealth(ctx); err != nil {
		h.logger.WithError(err).WithField("detector", h.detector.Name()).Warn("pose detector not ready")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unavailable",
			"detector": h.detector.Name(),
			"error":    constants.MsgDetectorDown,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"detector": h.detector.Name(),
	})
}
