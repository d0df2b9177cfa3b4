package customers

import (
	"context"

	"github.com/parkmarket/marketplace-backend/internal/repo"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes customer persistence operations. Every lookup is scoped to a store.
type Repository struct {
	repo.Base
}

// NewRepository constructs a customers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new customer.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.DB(ctx).Create(customer).Error
}

// FindByEmail retrieves a customer of the store by normalized email.
func (r *Repository) FindByEmail(ctx context.Context, storeID uint, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).Where("store_id = ? AND email = ?", storeID, email).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
