// Package secrets resolves the enhancement engine's API credential. Two
// variants exist: a managed secret vault used in production, and a plain
// environment variable used in development and as the production fallback.
package secrets

import (
	"context"
	"errors"
	"os"
)

// DefaultEnvVar is the environment variable holding the Gemini API key.
const DefaultEnvVar = "GEMINI_API_KEY"

// ErrKeyNotConfigured is returned when no variant can produce a key. The
// message is surfaced verbatim on failed jobs.
var ErrKeyNotConfigured = errors.New("Gemini API key not configured")

// Provider supplies the enhancement engine's API key.
type Provider interface {
	APIKey(ctx context.Context) (string, error)
}

// EnvProvider reads the key from a fixed environment variable.
type EnvProvider struct {
	// Var overrides DefaultEnvVar when set.
	Var string
}

// APIKey returns the configured key or ErrKeyNotConfigured when the variable
// is unset or empty.
func (p *EnvProvider) APIKey(_ context.Context) (string, error) {
	name := p.Var
	if name == "" {
		name = DefaultEnvVar
	}
	key := os.Getenv(name)
	if key == "" {
		return "", ErrKeyNotConfigured
	}
	return key, nil
}

// Config selects the provider variant for the deployment environment.
type Config struct {
	Environment string // "production" selects the vault variant
	SecretName  string // vault secret name, e.g. "gemini-api-key"
	Region      string // vault region
	EnvVar      string // fallback environment variable
}

// New builds the Provider for the given environment. Production uses the
// vault with env fallback; everything else reads the env variable directly.
// A vault client that cannot even be constructed degrades to the env variant.
func New(ctx context.Context, cfg *Config) Provider {
	env := &EnvProvider{Var: cfg.EnvVar}
	if cfg.Environment != "production" {
		return env
	}

	vault, err := NewVaultProvider(ctx, cfg.SecretName, cfg.Region, env)
	if err != nil {
		return env
	}
	return vault
}
