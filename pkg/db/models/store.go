package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store is the tenant: customers, products, carts and orders hang off it.
type Store struct {
	ID                   uint            `gorm:"column:id;primaryKey;autoIncrement"`
	SellerID             uint            `gorm:"column:seller_id;not null;index:idx_stores_seller"`
	Name                 string          `gorm:"column:name;type:varchar(255);not null"`
	Credential           string          `gorm:"column:credential;type:varchar(255);not null;uniqueIndex:idx_stores_credential"`
	CommissionPercentage decimal.Decimal `gorm:"column:commission_percentage;type:numeric(5,2);not null;default:0"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Seller *Seller `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
}

func (Store) TableName() string { return "stores" }
