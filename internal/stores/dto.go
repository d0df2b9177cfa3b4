package stores

import (
	"time"

	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// CreateStoreRequest is the payload an authenticated seller sends to open a store.
type CreateStoreRequest struct {
	Name                 string           `json:"name" validate:"required,max=255"`
	CommissionPercentage *decimal.Decimal `json:"commission_percentage,omitempty"`
}

// StoreDTO is the seller-facing store view. The credential is only exposed
// through the dedicated endpoint.
type StoreDTO struct {
	ID                   uint            `json:"id"`
	Name                 string          `json:"name"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	CreatedAt            time.Time       `json:"created_at"`
}

// CredentialResponse wraps the Store-Credential value.
type CredentialResponse struct {
	Credential string `json:"credential"`
}

// FromModel maps a store row to its view.
func FromModel(s *models.Store) *StoreDTO {
	if s == nil {
		return nil
	}
	return &StoreDTO{
		ID:                   s.ID,
		Name:                 s.Name,
		CommissionPercentage: s.CommissionPercentage,
		CreatedAt:            s.CreatedAt,
	}
}
