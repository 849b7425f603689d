package secrets

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/marvinkos/pawstore/internal/logger"
)

// secretFetcher is the slice of the Secrets Manager client the provider uses.
type secretFetcher interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// VaultProvider fetches the latest version of a named secret from AWS Secrets
// Manager. Any failure falls back to the wrapped provider instead of failing
// the caller; the vault being unreachable must not take the pipeline down
// when the env variable is set.
type VaultProvider struct {
	client     secretFetcher
	secretName string
	fallback   Provider
}

// NewVaultProvider creates a vault-backed provider with the given fallback.
func NewVaultProvider(ctx context.Context, secretName, region string, fallback Provider) (*VaultProvider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &VaultProvider{
		client:     secretsmanager.NewFromConfig(awsCfg),
		secretName: secretName,
		fallback:   fallback,
	}, nil
}

// APIKey fetches the latest secret version, falling back to the env variant
// on any failure or empty value.
func (p *VaultProvider) APIKey(ctx context.Context) (string, error) {
	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &p.secretName,
	})
	if err != nil {
		logger.FromContext(ctx).WithError(err).
			WithField("secret_name", p.secretName).
			Warn("Secret vault lookup failed, falling back to environment variable")
		return p.fallback.APIKey(ctx)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return p.fallback.APIKey(ctx)
	}
	return *out.SecretString, nil
}
