package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Media    MediaConfig    `mapstructure:"media"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Hosting  HostingConfig  `mapstructure:"hosting"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

type AppConfig struct {
	// Environment selects secret resolution: "production" uses the secret
	// vault with env fallback, anything else reads the env variable directly.
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	Path            string        `mapstructure:"path"` // sqlite file path
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}
	return c.Path
}

type MediaConfig struct {
	Provider   string           `mapstructure:"provider"` // cloudinary or s3
	Cloudinary CloudinaryConfig `mapstructure:"cloudinary"`
	S3         S3Config         `mapstructure:"s3"`
}

type CloudinaryConfig struct {
	CloudName string `mapstructure:"cloud_name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	BaseURL   string `mapstructure:"base_url"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

type GeminiConfig struct {
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base_url"`
	SecretName string `mapstructure:"secret_name"` // vault secret holding the API key
	Region     string `mapstructure:"region"`      // vault region
}

type HostingConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Token      string `mapstructure:"token"`
	ProjectID  string `mapstructure:"project_id"`
	BaseDomain string `mapstructure:"base_domain"`
}

type WorkerConfig struct {
	Concurrency  int           `mapstructure:"concurrency"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
	JobTimeout   time.Duration `mapstructure:"job_timeout"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("app.environment", "development")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/pawstore.db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("media.provider", "cloudinary")
	v.SetDefault("media.cloudinary.base_url", "https://api.cloudinary.com/v1_1")
	v.SetDefault("media.s3.use_ssl", true)
	v.SetDefault("media.s3.bucket", "pawstore-media")
	v.SetDefault("gemini.model", "gemini-2.5-flash-image-preview")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.secret_name", "gemini-api-key")
	v.SetDefault("gemini.region", "us-east-1")
	v.SetDefault("hosting.base_url", "https://api.vercel.com")
	v.SetDefault("worker.concurrency", 4)
	v.SetDefault("worker.poll_interval", 15*time.Second)
	v.SetDefault("worker.batch_size", 10)
	v.SetDefault("worker.job_timeout", 10*time.Minute)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("app.environment", "APP_ENV")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("media.cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("media.cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("media.cloudinary.api_secret", "CLOUDINARY_API_SECRET")
	v.BindEnv("media.s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("media.s3.access_key", "S3_ACCESS_KEY")
	v.BindEnv("media.s3.secret_key", "S3_SECRET_KEY")
	v.BindEnv("gemini.base_url", "GEMINI_BASE_URL")
	v.BindEnv("gemini.model", "GEMINI_MODEL")
	v.BindEnv("hosting.token", "HOSTING_API_TOKEN")
	v.BindEnv("hosting.project_id", "HOSTING_PROJECT_ID")
	v.BindEnv("hosting.base_domain", "HOSTING_BASE_DOMAIN")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
