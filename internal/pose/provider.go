package pose

import (
	"context"
	"fmt"

	"github.com/kozaktomas/photo-analyzer/internal/config"
)

// Provider names accepted in POSE_PROVIDER.
const (
	ProviderMediaPipe = "mediapipe"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
)

// NewDetector creates the detector selected by cfg.Pose.Provider.
func NewDetector(ctx context.Context, cfg *config.Config) (Detector, error) {
	switch cfg.Pose.Provider {
	case "", ProviderMediaPipe:
		return NewHTTPDetector(cfg.Pose.URL, cfg.Pose.Model, cfg.Pose.MinDetectionConfidence, cfg.Pose.Timeout), nil
	case ProviderGemini:
		return NewGeminiDetector(ctx, cfg.Gemini.APIKey, cfg.Pose.Model)
	case ProviderOpenAI:
		return NewOpenAIDetector(cfg.OpenAI.Token, cfg.Pose.Model)
	default:
		return nil, fmt.Errorf("unknown pose provider %q (expected %s, %s or %s)",
			cfg.Pose.Provider, ProviderMediaPipe, ProviderGemini, ProviderOpenAI)
	}
}
