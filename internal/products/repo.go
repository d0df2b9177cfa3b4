package products

import (
	"context"

	"github.com/parkmarket/marketplace-backend/internal/repo"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles product persistence. Lookups are always store scoped.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to product operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

// FindByReference returns the store's product for an external catalog reference.
func (r *Repository) FindByReference(ctx context.Context, storeID uint, productCode, parkCode string) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).
		Where("store_id = ? AND product_code = ? AND park_code = ?", storeID, productCode, parkCode).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindForStore loads a product only if it belongs to the store.
func (r *Repository) FindForStore(ctx context.Context, storeID, productID uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).Where("store_id = ? AND id = ?", storeID, productID).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
