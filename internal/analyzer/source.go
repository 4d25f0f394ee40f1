package analyzer

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kozaktomas/photo-analyzer/internal/constants"
)

var errInvalidURL = errors.New("invalid image URL")

var urlValidator = validator.New()

// ImageSource is an image given either inline as base64 or by URL.
type ImageSource struct {
	Data string
	URL  string
}

// Resolve returns the raw image bytes. Inline data wins over the URL, which is only
// validated when it is used. With neither an InputError is returned.
func (s ImageSource) Resolve(ctx context.Context, fetcher ImageFetcher) ([]byte, error) {
	if data := strings.TrimSpace(s.Data); data != "" {
		decoded, err := decodeBase64(data)
		if err != nil {
			return nil, &InputError{Message: constants.MsgInvalidImageData, Err: err}
		}
		if len(decoded) == 0 {
			return nil, &InputError{Message: constants.MsgNoImage}
		}
		return decoded, nil
	}

	if imageURL := strings.TrimSpace(s.URL); imageURL != "" {
		if err := urlValidator.Var(imageURL, "http_url"); err != nil {
			return nil, &InputError{Message: constants.MsgFetchFailed, Err: errInvalidURL}
		}
		data, err := fetcher.Fetch(ctx, imageURL)
		if err != nil {
			return nil, &InputError{Message: constants.MsgFetchFailed, Err: err}
		}
		return data, nil
	}

	return nil, &InputError{Message: constants.MsgNoImage}
}

// decodeBase64 accepts standard base64 with or without padding, optionally as a data URL.
func decodeBase64(data string) ([]byte, error) {
	if strings.HasPrefix(data, "data:") {
		if i := strings.Index(data, ","); i != -1 {
			data = data[i+1:]
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "="))
	}
	return decoded, err
}
