package models

import (
	"time"

	"github.com/parkmarket/marketplace-backend/pkg/enums"
)

// Customer is scoped to a single store; the same email may exist in other stores.
type Customer struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	StoreID      uint      `gorm:"column:store_id;not null;uniqueIndex:idx_customers_store_email,priority:1"`
	Name         string    `gorm:"column:name;type:varchar(255);not null"`
	Email        string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex:idx_customers_store_email,priority:2"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Store *Store `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
}

func (Customer) TableName() string { return "customers" }

// CustomerAuth mirrors SellerAuth for customers.
type CustomerAuth struct {
	ID          uint             `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID  uint             `gorm:"column:customer_id;not null;index:idx_customer_auths_customer;uniqueIndex:idx_customer_auths_single_valid,where:status = 'valid'"`
	Status      enums.AuthStatus `gorm:"column:status;type:varchar(20);not null;default:'valid'"`
	AccessToken string           `gorm:"column:access_token;type:varchar(255);not null;uniqueIndex:idx_customer_auths_token"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

func (CustomerAuth) TableName() string { return "customer_auths" }
