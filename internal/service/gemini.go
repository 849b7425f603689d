package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/marvinkos/pawstore/internal/media"
)

// EnhanceInstruction is the fixed prompt sent with every product photo. It is
// deliberately not parameterized per call.
const EnhanceInstruction = "Remove the background from this product photo and replace it with pure white. " +
	"Improve the lighting and sharpness. Keep the product itself completely unchanged."

// Enhancer transforms a product image according to the fixed instruction.
// The API key is resolved per job and passed in by the caller.
type Enhancer interface {
	Transform(ctx context.Context, apiKey string, img *media.EncodedImage) (*media.EncodedImage, error)
}

// GeminiConfig holds configuration for the Gemini image model client.
type GeminiConfig struct {
	Model   string
	BaseURL string
}

// GeminiEnhancer calls the Gemini generateContent API to produce the
// enhanced image.
type GeminiEnhancer struct {
	client  *resty.Client
	model   string
	baseURL string
}

// NewGeminiEnhancer creates a Gemini image enhancement client.
func NewGeminiEnhancer(cfg *GeminiConfig) *GeminiEnhancer {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	// Image generation is slow; a single transform can take up to a minute
	client.SetTimeout(120 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	return &GeminiEnhancer{
		client:  client,
		model:   cfg.Model,
		baseURL: baseURL,
	}
}

// Gemini generateContent request/response structures
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Transform sends the encoded image plus the fixed instruction and returns
// the first inline image payload found in the response.
func (e *GeminiEnhancer) Transform(ctx context.Context, apiKey string, img *media.EncodedImage) (*media.EncodedImage, error) {
	req := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{Text: EnhanceInstruction},
					{InlineData: &geminiInlineData{
						MIMEType: img.MIMEType,
						Data:     img.Data,
					}},
				},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	var resp geminiResponse
	httpResp, err := e.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", apiKey).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(fmt.Sprintf("%s/v1beta/models/%s:generateContent", e.baseURL, e.model))
	if err != nil {
		return nil, fmt.Errorf("failed to call Gemini API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil {
			return nil, fmt.Errorf("Gemini API returned error: HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return nil, fmt.Errorf("Gemini API returned error: HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no enhanced image was returned: response has no candidates")
	}

	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return nil, fmt.Errorf("no enhanced image was returned: candidate has no content parts")
	}

	for _, part := range parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			return &media.EncodedImage{
				Data:     part.InlineData.Data,
				MIMEType: part.InlineData.MIMEType,
			}, nil
		}
	}

	return nil, fmt.Errorf("no enhanced image was returned: no part carries inline image data")
}
