package stores

import (
	"context"

	"github.com/parkmarket/marketplace-backend/internal/repo"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles store persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	return r.DB(ctx).Create(store).Error
}

// FindByID loads a store by id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Store, error) {
	var store models.Store
	if err := r.DB(ctx).First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindBySeller returns the store owned by the seller.
func (r *Repository) FindBySeller(ctx context.Context, sellerID uint) (*models.Store, error) {
	var store models.Store
	if err := r.DB(ctx).Where("seller_id = ?", sellerID).Order("id").First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByCredential resolves a store by exact credential match.
func (r *Repository) FindByCredential(ctx context.Context, credential string) (*models.Store, error) {
	var store models.Store
	if err := r.DB(ctx).Where("credential = ?", credential).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}
