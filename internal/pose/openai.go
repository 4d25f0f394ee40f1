package pose

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const defaultOpenAIModel = string(openai.ChatModelGPT4_1Mini)

// OpenAIDetector asks an OpenAI vision model for MediaPipe-style landmarks.
type OpenAIDetector struct {
	client *openai.Client
	model  string
}

// NewOpenAIDetector creates the detector. Extra options (base URL, HTTP client) are passed through
// to the OpenAI client.
func NewOpenAIDetector(apiKey, model string, opts ...option.RequestOption) (*OpenAIDetector, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_TOKEN is required for the openai pose provider")
	}
	if model == "" {
		model = defaultOpenAIModel
	}

	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIDetector{client: &client, model: model}, nil
}

func (d *OpenAIDetector) Name() string {
	return d.model
}

func (d *OpenAIDetector) Detect(ctx context.Context, imageData []byte) (*Result, error) {
	imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageData)

	messages := []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(poseLandmarksPrompt),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						openai.TextContentPart("Estimate the pose landmarks for this photo."),
						openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
							URL:    imageURL,
							Detail: "high",
						}),
					},
				},
			},
		},
	}

	var lastError error
	var lastResponse string

	for range llmMaxRetries {
		resp, err := d.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    openai.ChatModel(d.model),
			Messages: messages,
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			},
			MaxTokens: openai.Int(4000),
		})
		if err != nil {
			return nil, fmt.Errorf("OpenAI API error: %w", err)
		}

		if len(resp.Choices) == 0 {
			return nil, errors.New("no response from OpenAI")
		}

		content := resp.Choices[0].Message.Content
		lastResponse = content

		res, err := parseLLMResponse(content, d.model)
		if errors.Is(err, ErrNoPose) {
			return nil, err
		}
		if err != nil {
			lastError = err

			// Add assistant response and error feedback to messages for retry
			messages = append(messages,
				openai.ChatCompletionMessageParamUnion{
					OfAssistant: &openai.ChatCompletionAssistantMessageParam{
						Content: openai.ChatCompletionAssistantMessageParamContentUnion{
							OfString: openai.String(content),
						},
					},
				},
				openai.ChatCompletionMessageParamUnion{
					OfUser: &openai.ChatCompletionUserMessageParam{
						Content: openai.ChatCompletionUserMessageParamContentUnion{
							OfString: openai.String(retryFeedback(err)),
						},
					},
				},
			)
			continue
		}

		return res, nil
	}

	return nil, fmt.Errorf("failed to parse landmarks after %d attempts: %w (last response: %s)", llmMaxRetries, lastError, lastResponse)
}
