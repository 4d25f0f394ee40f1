package pose

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiDetector asks a Gemini vision model for MediaPipe-style landmarks.
// It is a fallback for deployments without a pose server; coordinates are coarser.
type GeminiDetector struct {
	client *genai.Client
	model  string
}

func NewGeminiDetector(ctx context.Context, apiKey, model string) (*GeminiDetector, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required for the gemini pose provider")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	return newGeminiDetector(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

func newGeminiDetector(ctx context.Context, cfg *genai.ClientConfig, model string) (*GeminiDetector, error) {
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiDetector{client: client, model: model}, nil
}

func (d *GeminiDetector) Name() string {
	return d.model
}

func (d *GeminiDetector) Detect(ctx context.Context, imageData []byte) (*Result, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: poseLandmarksPrompt},
				{InlineData: &genai.Blob{Data: imageData, MIMEType: "image/jpeg"}},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	var lastError error
	var lastResponse string

	for range llmMaxRetries {
		result, err := d.client.Models.GenerateContent(ctx, d.model, contents, config)
		if err != nil {
			return nil, fmt.Errorf("gemini API error: %w", err)
		}

		content := result.Text()
		if content == "" {
			return nil, errors.New("no response from Gemini")
		}
		lastResponse = content

		res, err := parseLLMResponse(content, d.model)
		if errors.Is(err, ErrNoPose) {
			return nil, err
		}
		if err != nil {
			lastError = err

			// Add model response and error feedback to contents for retry
			contents = append(contents,
				&genai.Content{
					Role:  "model",
					Parts: []*genai.Part{{Text: content}},
				},
				&genai.Content{
					Role:  "user",
					Parts: []*genai.Part{{Text: retryFeedback(err)}},
				},
			)
			continue
		}

		return res, nil
	}

	return nil, fmt.Errorf("failed to parse landmarks after %d attempts: %w (last response: %s)", llmMaxRetries, lastError, lastResponse)
}
