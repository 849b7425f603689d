package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/marvinkos/pawstore/internal/domain"
)

// ErrStoreNotFound is returned when the referenced store does not exist.
var ErrStoreNotFound = errors.New("store not found")

// StoreRepository handles storefront tenant persistence.
type StoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a new StoreRepository.
func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// Create inserts a new store record.
func (r *StoreRepository) Create(ctx context.Context, store *domain.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

// GetByID retrieves a store by its ID.
func (r *StoreRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	var store domain.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return &store, nil
}

// SubdomainTaken checks whether another store already claimed the subdomain.
func (r *StoreRepository) SubdomainTaken(ctx context.Context, subdomain string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Store{}).
		Where("subdomain = ?", subdomain).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateSubdomain persists the provisioned subdomain on the store row.
func (r *StoreRepository) UpdateSubdomain(ctx context.Context, id, subdomain string) error {
	return r.db.WithContext(ctx).Model(&domain.Store{}).
		Where("id = ?", id).
		Update("subdomain", subdomain).Error
}
