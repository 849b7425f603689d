package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	_ "golang.org/x/image/webp"
)

// ErrEmptyPayload is returned when an upload is attempted with no image data.
var ErrEmptyPayload = errors.New("empty image payload")

// EncodedImage is an image payload encoded for transport to the enhancement
// engine and the media store.
type EncodedImage struct {
	Data     string // base64-encoded image bytes
	MIMEType string
}

// UploadResult identifies an uploaded asset on the media store.
type UploadResult struct {
	URL      string
	PublicID string
}

// Store defines the media store operations the enhancement pipeline depends
// on. Downloads fetch arbitrary source URLs; uploads place the enhanced asset
// under a tenant-scoped folder.
type Store interface {
	Download(ctx context.Context, rawURL string) (*EncodedImage, error)
	Upload(ctx context.Context, img *EncodedImage, folder, name string) (*UploadResult, error)
}

// DeriveName returns the filename stem of a media URL: path and extension
// stripped, query ignored. Falls back to "image" when the URL carries no
// usable filename.
func DeriveName(rawURL string) string {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		name = u.Path
	}
	name = path.Base(name)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	if name == "" || name == "." || name == "/" {
		return "image"
	}
	return name
}

// Dimensions decodes the image header and returns its width and height.
// Supports jpeg, png, gif, and webp.
func Dimensions(img *EncodedImage) (int, int, error) {
	raw, err := base64.StdEncoding.DecodeString(img.Data)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image payload: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// httpDownloader fetches source images over plain HTTP. Both store
// implementations embed it; source URLs point at arbitrary CDNs, not at the
// store itself.
type httpDownloader struct {
	client *resty.Client
}

func newHTTPDownloader() httpDownloader {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	return httpDownloader{client: client}
}

// Download fetches the content at rawURL and base64-encodes it.
func (d httpDownloader) Download(ctx context.Context, rawURL string) (*EncodedImage, error) {
	resp, err := d.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode())
	}

	mimeType := resp.Header().Get("Content-Type")
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = mimeType[:idx]
	}
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}

	return &EncodedImage{
		Data:     base64.StdEncoding.EncodeToString(resp.Body()),
		MIMEType: mimeType,
	}, nil
}

// extensionFor maps a MIME type to a file extension for storage keys.
func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}
