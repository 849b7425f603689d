package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/marvinkos/pawstore/internal/domain"
	"github.com/marvinkos/pawstore/internal/logger"
	"github.com/marvinkos/pawstore/internal/repository"
)

// subdomainPattern matches lowercase DNS labels: alphanumeric with interior
// hyphens, 3 to 63 characters.
var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{1,61}[a-z0-9])$`)

// reservedSubdomains can never be claimed by a tenant.
var reservedSubdomains = map[string]bool{
	"www":     true,
	"api":     true,
	"app":     true,
	"admin":   true,
	"mail":    true,
	"cdn":     true,
	"staging": true,
}

// ValidateSubdomain checks the requested label against DNS rules and the
// reserved list.
func ValidateSubdomain(subdomain string) error {
	if !subdomainPattern.MatchString(subdomain) {
		return fmt.Errorf("invalid subdomain %q: must be 3-63 lowercase alphanumeric characters, hyphens allowed inside", subdomain)
	}
	if reservedSubdomains[subdomain] {
		return fmt.Errorf("subdomain %q is reserved", subdomain)
	}
	return nil
}

// HostingConfig holds credentials for the hosting provider's domains API.
type HostingConfig struct {
	BaseURL    string
	Token      string
	ProjectID  string
	BaseDomain string
}

// ProvisionService registers tenant subdomains with the hosting provider and
// records them on the store.
type ProvisionService struct {
	client     *resty.Client
	stores     *repository.StoreRepository
	baseURL    string
	projectID  string
	baseDomain string
	log        *logger.Logger
}

// NewProvisionService creates a subdomain provisioning service.
func NewProvisionService(cfg *HostingConfig, stores *repository.StoreRepository, log *logger.Logger) *ProvisionService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.Token)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(30 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.vercel.com"
	}

	return &ProvisionService{
		client:     client,
		stores:     stores,
		baseURL:    baseURL,
		projectID:  cfg.ProjectID,
		baseDomain: cfg.BaseDomain,
		log:        log,
	}
}

type addDomainRequest struct {
	Name string `json:"name"`
}

type addDomainResponse struct {
	Name  string `json:"name"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Provision validates the requested subdomain, registers it with the hosting
// provider, and persists it on the store.
func (s *ProvisionService) Provision(ctx context.Context, storeID, subdomain string) (*domain.Store, error) {
	if err := ValidateSubdomain(subdomain); err != nil {
		return nil, err
	}

	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	taken, err := s.stores.SubdomainTaken(ctx, subdomain)
	if err != nil {
		return nil, fmt.Errorf("failed to check subdomain availability: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("subdomain %q is already taken", subdomain)
	}

	fqdn := fmt.Sprintf("%s.%s", subdomain, s.baseDomain)

	var result addDomainResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(addDomainRequest{Name: fqdn}).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("%s/v10/projects/%s/domains", s.baseURL, s.projectID))
	if err != nil {
		return nil, fmt.Errorf("failed to call hosting API: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		if result.Error != nil {
			return nil, fmt.Errorf("hosting API rejected domain %s: %s (%s)", fqdn, result.Error.Message, result.Error.Code)
		}
		return nil, fmt.Errorf("hosting API rejected domain %s: HTTP %d", fqdn, resp.StatusCode())
	}

	if err := s.stores.UpdateSubdomain(ctx, storeID, subdomain); err != nil {
		return nil, fmt.Errorf("failed to save subdomain: %w", err)
	}

	s.log.WithFields(logger.Fields{
		logger.FieldStoreID: storeID,
		"subdomain":         subdomain,
	}).Info("Subdomain provisioned")

	store.Subdomain = subdomain
	return store, nil
}
