package cart

import (
	"context"
	"time"

	"github.com/parkmarket/marketplace-backend/internal/repo"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"github.com/parkmarket/marketplace-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository persists carts and their lines.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB (or transaction) to cart operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindActive returns the single active cart of a customer in a store.
func (r *Repository) FindActive(ctx context.Context, storeID, customerID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB(ctx).
		Where("store_id = ? AND customer_id = ? AND status = ?", storeID, customerID, enums.CartStatusActive).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// CreateCart inserts a new active cart.
func (r *Repository) CreateCart(ctx context.Context, cart *models.Cart) error {
	return r.DB(ctx).Create(cart).Error
}

// Items loads the lines of a cart in insertion order with their products.
func (r *Repository) Items(ctx context.Context, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.DB(ctx).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("id").
		Find(&items).Error
	return items, err
}

// FindProduct loads a product by id regardless of store.
func (r *Repository) FindProduct(ctx context.Context, productID uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// AddItem inserts a cart line.
func (r *Repository) AddItem(ctx context.Context, item *models.CartItem) error {
	return r.DB(ctx).Create(item).Error
}

// FindItem returns the first line of the cart for a product.
func (r *Repository) FindItem(ctx context.Context, cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Order("id").
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemAmount sets the amount of a line.
func (r *Repository) UpdateItemAmount(ctx context.Context, itemID uint, amount int) error {
	return r.DB(ctx).Model(&models.CartItem{}).Where("id = ?", itemID).Update("amount", amount).Error
}

// DeleteItem removes a line.
func (r *Repository) DeleteItem(ctx context.Context, itemID uint) error {
	return r.DB(ctx).Delete(&models.CartItem{}, itemID).Error
}

// CountItems counts the lines of a cart.
func (r *Repository) CountItems(ctx context.Context, cartID uint) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.CartItem{}).Where("cart_id = ?", cartID).Count(&count).Error
	return count, err
}

// DeleteCart removes a cart and, by cascade, its lines.
func (r *Repository) DeleteCart(ctx context.Context, cartID uint) error {
	if err := r.DB(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.DB(ctx).Delete(&models.Cart{}, cartID).Error
}

// Touch bumps updated_at so the abandonment sweep sees recent activity.
func (r *Repository) Touch(ctx context.Context, cartID uint, at time.Time) error {
	return r.DB(ctx).Model(&models.Cart{}).Where("id = ?", cartID).UpdateColumn("updated_at", at).Error
}

// MarkAbandoned retires an active cart.
func (r *Repository) MarkAbandoned(ctx context.Context, cartID uint) error {
	return r.DB(ctx).Model(&models.Cart{}).
		Where("id = ? AND status = ?", cartID, enums.CartStatusActive).
		Updates(map[string]any{"status": enums.CartStatusAbandoned, "updated_at": time.Now().UTC()}).Error
}

// AbandonStale retires every active cart untouched since cutoff and reports how many.
func (r *Repository) AbandonStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB(ctx).Model(&models.Cart{}).
		Where("status = ? AND updated_at < ?", enums.CartStatusActive, cutoff).
		Updates(map[string]any{"status": enums.CartStatusAbandoned, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}
