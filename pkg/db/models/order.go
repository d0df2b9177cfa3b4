package models

import (
	"time"

	"github.com/parkmarket/marketplace-backend/pkg/enums"
	"github.com/parkmarket/marketplace-backend/pkg/types"
)

// Order is immutable after creation except for Status. The customer_* and
// address_* columns are a snapshot of the checkout form.
type Order struct {
	ID               uint              `gorm:"column:id;primaryKey;autoIncrement"`
	StoreID          uint              `gorm:"column:store_id;not null;index:idx_orders_store_created,priority:1"`
	CustomerID       uint              `gorm:"column:customer_id;not null;index:idx_orders_customer"`
	Code             string            `gorm:"column:code;type:varchar(64);not null;uniqueIndex:idx_orders_code"`
	Status           enums.OrderStatus `gorm:"column:status;type:varchar(20);not null;default:'created'"`
	CustomerName     string            `gorm:"column:customer_name;type:varchar(255);not null"`
	CustomerEmail    string            `gorm:"column:customer_email;type:varchar(255);not null"`
	CustomerDocument string            `gorm:"column:customer_document;type:varchar(50);not null"`
	CustomerPhone    string            `gorm:"column:customer_phone;type:varchar(50);not null"`
	AddressStreet    string            `gorm:"column:address_street;type:varchar(255);not null"`
	AddressNumber    string            `gorm:"column:address_number;type:varchar(50);not null"`
	AddressCity      string            `gorm:"column:address_city;type:varchar(100);not null"`
	AddressState     string            `gorm:"column:address_state;type:varchar(100);not null"`
	AddressZip       string            `gorm:"column:address_zip;type:varchar(20);not null"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime;index:idx_orders_store_created,priority:2"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`

	Store    *Store      `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	Customer *Customer   `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

// OrderItem copies price, amount and attributes from the cart line it came from.
type OrderItem struct {
	ID         uint             `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID    uint             `gorm:"column:order_id;not null;index:idx_order_items_order"`
	ProductID  uint             `gorm:"column:product_id;not null"`
	Amount     int              `gorm:"column:amount;not null"`
	Price      int64            `gorm:"column:price;not null"`
	Attributes types.Attributes `gorm:"column:attributes;type:jsonb"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (OrderItem) TableName() string { return "order_items" }

// TotalPrice sums price x amount over the loaded items.
func (o *Order) TotalPrice() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Price * int64(item.Amount)
	}
	return total
}
