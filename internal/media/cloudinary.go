package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// CloudinaryConfig holds credentials for the Cloudinary upload API.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	BaseURL   string
}

// CloudinaryStore implements Store against the Cloudinary REST upload API.
type CloudinaryStore struct {
	httpDownloader
	client    *resty.Client
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
}

// NewCloudinaryStore creates a Cloudinary-backed media store.
func NewCloudinaryStore(cfg *CloudinaryConfig) *CloudinaryStore {
	client := resty.New()
	client.SetTimeout(60 * time.Second)

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.cloudinary.com/v1_1"
	}

	return &CloudinaryStore{
		httpDownloader: newHTTPDownloader(),
		client:         client,
		cloudName:      cfg.CloudName,
		apiKey:         cfg.APIKey,
		apiSecret:      cfg.APISecret,
		baseURL:        baseURL,
	}
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Upload sends the encoded image as a data URI to the signed upload endpoint.
// The upload is a single call; Cloudinary never partially stores an asset.
func (s *CloudinaryStore) Upload(ctx context.Context, img *EncodedImage, folder, name string) (*UploadResult, error) {
	if img == nil || img.Data == "" {
		return nil, ErrEmptyPayload
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	params := map[string]string{
		"folder":    folder,
		"public_id": name,
		"timestamp": timestamp,
	}

	var result cloudinaryUploadResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"file":      fmt.Sprintf("data:%s;base64,%s", img.MIMEType, img.Data),
			"folder":    folder,
			"public_id": name,
			"timestamp": timestamp,
			"api_key":   s.apiKey,
			"signature": s.sign(params),
		}).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("%s/%s/image/upload", s.baseURL, s.cloudName))
	if err != nil {
		return nil, fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		if result.Error != nil {
			return nil, fmt.Errorf("Cloudinary upload failed: HTTP %d: %s", resp.StatusCode(), result.Error.Message)
		}
		return nil, fmt.Errorf("Cloudinary upload failed: HTTP %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	if result.SecureURL == "" || result.PublicID == "" {
		return nil, fmt.Errorf("Cloudinary upload returned no asset data")
	}

	return &UploadResult{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// sign computes the Cloudinary request signature: the sorted parameter string
// concatenated with the API secret, SHA-1 hashed.
func (s *CloudinaryStore) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	// Cloudinary requires parameters sorted alphabetically
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}
	sb.WriteString(s.apiSecret)

	sum := sha1.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
