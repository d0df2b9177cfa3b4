package auth

import (
	"context"

	"github.com/parkmarket/marketplace-backend/internal/repo"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"github.com/parkmarket/marketplace-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository persists seller and customer access tokens.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to token operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// RotateSellerToken invalidates every valid token of the seller and stores a new one.
// Callers run it inside a transaction.
func (r *Repository) RotateSellerToken(tx *gorm.DB, sellerID uint, token string) (*models.SellerAuth, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	if err := tx.Model(&models.SellerAuth{}).
		Where("seller_id = ? AND status = ?", sellerID, enums.AuthStatusValid).
		Update("status", enums.AuthStatusInvalidated).Error; err != nil {
		return nil, err
	}

	record := &models.SellerAuth{
		SellerID:    sellerID,
		Status:      enums.AuthStatusValid,
		AccessToken: token,
	}
	if err := tx.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// RotateCustomerToken is RotateSellerToken for customers.
func (r *Repository) RotateCustomerToken(tx *gorm.DB, customerID uint, token string) (*models.CustomerAuth, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	if err := tx.Model(&models.CustomerAuth{}).
		Where("customer_id = ? AND status = ?", customerID, enums.AuthStatusValid).
		Update("status", enums.AuthStatusInvalidated).Error; err != nil {
		return nil, err
	}

	record := &models.CustomerAuth{
		CustomerID:  customerID,
		Status:      enums.AuthStatusValid,
		AccessToken: token,
	}
	if err := tx.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindSellerByToken resolves the seller owning a valid token.
func (r *Repository) FindSellerByToken(ctx context.Context, token string) (*models.Seller, error) {
	var seller models.Seller
	err := r.DB(ctx).
		Joins("JOIN seller_auths ON seller_auths.seller_id = sellers.id").
		Where("seller_auths.access_token = ? AND seller_auths.status = ?", token, enums.AuthStatusValid).
		First(&seller).Error
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

// FindCustomerByToken resolves the customer owning a valid token.
func (r *Repository) FindCustomerByToken(ctx context.Context, token string) (*models.Customer, error) {
	var customer models.Customer
	err := r.DB(ctx).
		Joins("JOIN customer_auths ON customer_auths.customer_id = customers.id").
		Where("customer_auths.access_token = ? AND customer_auths.status = ?", token, enums.AuthStatusValid).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
