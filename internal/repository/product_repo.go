package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/marvinkos/pawstore/internal/domain"
)

// ErrProductNotFound is returned when the referenced product does not exist.
var ErrProductNotFound = errors.New("product not found")

// appendMediaRetries bounds the optimistic-concurrency retry loop.
const appendMediaRetries = 3

// ProductRepository handles product persistence.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product record.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetByID retrieves a product scoped to its store.
func (r *ProductRepository) GetByID(ctx context.Context, storeID, productID string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		First(&product, "id = ? AND store_id = ?", productID, storeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return nil, err
	}
	return &product, nil
}

// AppendMedia appends one media reference to the product's media list. The
// list column is replaced wholesale, so the read-modify-write is guarded by
// the product's version column and retried on conflict; two concurrent
// appends to the same product both land.
func (r *ProductRepository) AppendMedia(ctx context.Context, storeID, productID string, file domain.MediaFile) error {
	for attempt := 0; attempt < appendMediaRetries; attempt++ {
		product, err := r.GetByID(ctx, storeID, productID)
		if err != nil {
			return err
		}

		updated := make(domain.MediaFileList, 0, len(product.MediaFiles)+1)
		updated = append(updated, product.MediaFiles...)
		updated = append(updated, file)

		res := r.db.WithContext(ctx).Model(&domain.Product{}).
			Where("id = ? AND store_id = ? AND version = ?", productID, storeID, product.Version).
			Updates(map[string]interface{}{
				"media_files": updated,
				"version":     product.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			return nil
		}
		// Version moved under us; reload and retry
	}
	return fmt.Errorf("failed to append media to product %s: version conflict after %d attempts", productID, appendMediaRetries)
}
