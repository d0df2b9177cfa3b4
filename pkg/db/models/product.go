package models

import (
	"time"

	"github.com/parkmarket/marketplace-backend/pkg/enums"
)

// Product is a store-scoped ticket materialized from the external catalog.
// Price is in minor currency units and is never re-synced after creation.
type Product struct {
	ID          uint                `gorm:"column:id;primaryKey;autoIncrement"`
	StoreID     uint                `gorm:"column:store_id;not null;uniqueIndex:idx_products_store_reference,priority:1"`
	Status      enums.ProductStatus `gorm:"column:status;type:varchar(20);not null;default:'active'"`
	Name        string              `gorm:"column:name;type:varchar(255);not null"`
	Description string              `gorm:"column:description;type:text;not null;default:''"`
	Price       int64               `gorm:"column:price;not null"`
	ProductCode string              `gorm:"column:product_code;type:varchar(100);not null;uniqueIndex:idx_products_store_reference,priority:2"`
	ParkCode    string              `gorm:"column:park_code;type:varchar(50);not null;default:'';uniqueIndex:idx_products_store_reference,priority:3"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Store *Store `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string { return "products" }
