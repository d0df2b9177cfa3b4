package sellers

import (
	"context"

	"github.com/parkmarket/marketplace-backend/internal/repo"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes seller persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a sellers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new seller.
func (r *Repository) Create(ctx context.Context, seller *models.Seller) error {
	return r.DB(ctx).Create(seller).Error
}

// FindByEmail retrieves the seller matching the normalized email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Seller, error) {
	var seller models.Seller
	if err := r.DB(ctx).Where("email = ?", email).First(&seller).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}

// FindByID loads a seller by id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Seller, error) {
	var seller models.Seller
	if err := r.DB(ctx).First(&seller, id).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}
