package products

import (
	"time"

	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"github.com/parkmarket/marketplace-backend/pkg/enums"
)

// ProductDTO is the public product view. Price is in minor units.
type ProductDTO struct {
	ID          uint                `json:"id"`
	StoreID     uint                `json:"store_id"`
	Status      enums.ProductStatus `json:"status"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Price       int64               `json:"price"`
	ProductCode string              `json:"product_code"`
	ParkCode    string              `json:"park_code"`
	CreatedAt   time.Time           `json:"created_at"`
}

// CreateProductRequest is the seller payload for adding a product by hand.
type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	ExternalID  string `json:"external_id" validate:"required,max=100"`
	ParkCode    string `json:"park_code" validate:"max=50"`
}

// ExternalCodeResponse is returned by the find-or-create endpoint.
type ExternalCodeResponse struct {
	ProductID uint `json:"product_id"`
}

// FromModel maps a product row to its view.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		StoreID:     p.StoreID,
		Status:      p.Status,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ProductCode: p.ProductCode,
		ParkCode:    p.ParkCode,
		CreatedAt:   p.CreatedAt,
	}
}
