package media

import "fmt"

// Provider names accepted by NewStore.
const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

// Config selects and configures a media store implementation.
type Config struct {
	Provider   string
	Cloudinary CloudinaryConfig
	S3         S3Config
}

// NewStore creates a Store instance based on the configured provider.
func NewStore(cfg *Config) (Store, error) {
	switch cfg.Provider {
	case ProviderCloudinary, "":
		return NewCloudinaryStore(&cfg.Cloudinary), nil
	case ProviderS3:
		return NewS3Store(&cfg.S3)
	default:
		return nil, fmt.Errorf("unknown media provider: %q", cfg.Provider)
	}
}
