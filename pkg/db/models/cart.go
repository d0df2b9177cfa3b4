package models

import (
	"time"

	"github.com/parkmarket/marketplace-backend/pkg/enums"
	"github.com/parkmarket/marketplace-backend/pkg/types"
)

// Cart is the working basket of a customer inside one store.
// Only one active cart may exist per (store, customer).
type Cart struct {
	ID         uint             `gorm:"column:id;primaryKey;autoIncrement"`
	StoreID    uint             `gorm:"column:store_id;not null;uniqueIndex:idx_carts_single_active,priority:1,where:status = 'active'"`
	CustomerID uint             `gorm:"column:customer_id;not null;index:idx_carts_customer;uniqueIndex:idx_carts_single_active,priority:2,where:status = 'active'"`
	Status     enums.CartStatus `gorm:"column:status;type:varchar(20);not null;default:'active'"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`

	Store    *Store     `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	Customer *Customer  `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Items    []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

func (Cart) TableName() string { return "carts" }

// CartItem stores the product price captured when the line was added.
type CartItem struct {
	ID         uint             `gorm:"column:id;primaryKey;autoIncrement"`
	CartID     uint             `gorm:"column:cart_id;not null;index:idx_cart_items_cart"`
	ProductID  uint             `gorm:"column:product_id;not null"`
	Amount     int              `gorm:"column:amount;not null;default:1"`
	Price      int64            `gorm:"column:price;not null"`
	Attributes types.Attributes `gorm:"column:attributes;type:jsonb"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (CartItem) TableName() string { return "cart_items" }
