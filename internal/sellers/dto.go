package sellers

import (
	"strings"

	"github.com/parkmarket/marketplace-backend/pkg/db/models"
)

// RegisterRequest is the open seller sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginRequest carries seller credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	SellerID    uint   `json:"seller_id"`
	Name        string `json:"name"`
}

// SellerDTO is the public view of a seller.
type SellerDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FromModel maps a seller row to its public view.
func FromModel(s *models.Seller) *SellerDTO {
	if s == nil {
		return nil
	}
	return &SellerDTO{ID: s.ID, Name: s.Name, Email: s.Email}
}

// NormalizeEmail trims and lowercases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
