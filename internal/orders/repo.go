package orders

import (
	"context"
	"time"

	"github.com/parkmarket/marketplace-backend/internal/repo"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"github.com/parkmarket/marketplace-backend/pkg/enums"
	"github.com/parkmarket/marketplace-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists orders and their immutable lines.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB (or transaction) to order operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts the order header and then its lines.
func (r *Repository) Create(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	if err := r.DB(ctx).Omit("Items").Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&items).Error
}

func (r *Repository) withLines(ctx context.Context) *gorm.DB {
	return r.DB(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id")
	}).Preload("Items.Product")
}

// FindByID loads an order with its lines.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.withLines(ctx).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByCode loads an order by its public code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Order, error) {
	var order models.Order
	if err := r.withLines(ctx).Where("code = ?", code).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByCodeForStore loads an order only if it belongs to the store.
func (r *Repository) FindByCodeForStore(ctx context.Context, storeID uint, code string) (*models.Order, error) {
	var order models.Order
	if err := r.withLines(ctx).Where("store_id = ? AND code = ?", storeID, code).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves an order from one status to another. It reports false
// when the order was no longer in the expected status.
func (r *Repository) UpdateStatus(ctx context.Context, id uint, from, to enums.OrderStatus) (bool, error) {
	res := r.DB(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	return res.RowsAffected == 1, res.Error
}

// ListByStore returns the newest orders of a store, starting after cursor when set.
func (r *Repository) ListByStore(ctx context.Context, storeID uint, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	var orders []models.Order
	query := r.withLines(ctx).Where("store_id = ?", storeID)
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// PaidSince returns the paid orders of a store created at or after since.
func (r *Repository) PaidSince(ctx context.Context, storeID uint, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB(ctx).
		Preload("Items").
		Where("store_id = ? AND status = ? AND created_at >= ?", storeID, enums.OrderStatusPaid, since).
		Find(&orders).Error
	return orders, err
}

// CountPaidCustomers counts distinct customers with at least one paid order.
func (r *Repository) CountPaidCustomers(ctx context.Context, storeID uint) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Order{}).
		Where("store_id = ? AND status = ?", storeID, enums.OrderStatusPaid).
		Distinct("customer_id").
		Count(&count).Error
	return count, err
}
