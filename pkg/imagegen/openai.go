package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/diagramforge/diagramforge/pkg/errors"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// openAIClient generates images through the OpenAI images API (or any
// endpoint speaking the same protocol).
//
// The underlying http.Client carries no timeout: the generation call is the
// pipeline's one blocking operation and is allowed to run until the remote
// side answers or the transport fails. Cancellation happens via the request
// context.
type openAIClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func newOpenAIClient(cfg Config) *openAIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &openAIClient{
		http:    &http.Client{},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// apiRequest is the images/generations request body.
type apiRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
}

// apiResponse is the images/generations response body. Error is populated on
// non-2xx responses instead of Data.
type apiResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Generate issues one images/generations request and decodes the returned
// base64 payload to raw image bytes.
//
// The credential check happens first, before any network I/O, so a missing
// key can never cost a half-made request. Every remote-side deviation — a
// transport error, a non-OK status, a response without exactly the expected
// payload — is a SERVICE_ERROR; nothing is swallowed or retried.
func (c *openAIClient) Generate(ctx context.Context, req Request) ([]byte, error) {
	if c.apiKey == "" {
		return nil, errors.New(errors.ErrCodeConfigMissing, "OPENAI_API_KEY is not set").
			WithHint("Export OPENAI_API_KEY, or set api_key in the diagramforge config file.")
	}

	body, err := json.Marshal(apiRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		Size:   req.Size,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode generation request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build generation request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeService, err, "image generation request failed")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeService, err, "read image generation response")
	}

	var decoded apiResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, errors.Wrap(errors.ErrCodeService, err, "malformed image generation response (status %d)", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeService, "image service returned status %d: %s", resp.StatusCode, serviceMessage(decoded, payload))
	}

	if len(decoded.Data) == 0 {
		return nil, errors.New(errors.ErrCodeService, "image service returned no result items")
	}
	b64 := decoded.Data[0].B64JSON
	if b64 == "" {
		return nil, errors.New(errors.ErrCodeService, "image service result has no encoded payload")
	}

	img, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeService, err, "decode image payload")
	}
	return img, nil
}

// serviceMessage extracts a human-readable failure message from an error
// response, falling back to a truncated raw body.
func serviceMessage(decoded apiResponse, raw []byte) string {
	if decoded.Error != nil && decoded.Error.Message != "" {
		if decoded.Error.Type != "" {
			return fmt.Sprintf("%s (%s)", decoded.Error.Message, decoded.Error.Type)
		}
		return decoded.Error.Message
	}
	body := strings.TrimSpace(string(raw))
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return body
}
