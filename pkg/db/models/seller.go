package models

import (
	"time"

	"github.com/parkmarket/marketplace-backend/pkg/enums"
)

// Seller owns a store and signs in to manage it.
type Seller struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:name;type:varchar(255);not null"`
	Email        string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex:idx_sellers_email"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Seller) TableName() string { return "sellers" }

// SellerAuth is an opaque access token issued to a seller.
// At most one row per seller is valid at a time.
type SellerAuth struct {
	ID          uint             `gorm:"column:id;primaryKey;autoIncrement"`
	SellerID    uint             `gorm:"column:seller_id;not null;index:idx_seller_auths_seller;uniqueIndex:idx_seller_auths_single_valid,where:status = 'valid'"`
	Status      enums.AuthStatus `gorm:"column:status;type:varchar(20);not null;default:'valid'"`
	AccessToken string           `gorm:"column:access_token;type:varchar(255);not null;uniqueIndex:idx_seller_auths_token"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`

	Seller *Seller `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
}

func (SellerAuth) TableName() string { return "seller_auths" }
