package products

import (
	"context"
	"strings"
	"unicode"

	"github.com/parkmarket/marketplace-backend/pkg/db"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"github.com/parkmarket/marketplace-backend/pkg/enums"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"github.com/parkmarket/marketplace-backend/pkg/maria"
)

const (
	maxNameLength        = 255
	maxAboutLength       = 500
	maxDescriptionLength = 1000
	maxProductCodeLength = 100
	maxParkCodeLength    = 50
)

// Materialize finds the store's product for a catalog reference or creates it
// from the catalog detail, priced with the platform and store commissions.
func (s *service) Materialize(ctx context.Context, store *models.Store, productCode, parkCode string) (uint, error) {
	if store == nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}

	productCode = SanitizeCode(productCode)
	parkCode = SanitizeCode(parkCode)
	if productCode == "" || parkCode == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "Invalid product_code or park_code")
	}
	if len([]rune(productCode)) > maxProductCodeLength || len([]rune(parkCode)) > maxParkCodeLength {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product_code or park_code too long").WithDetails(map[string]any{
			"product_code_max": maxProductCodeLength,
			"park_code_max":    maxParkCodeLength,
		})
	}

	existing, err := s.repo.FindByReference(ctx, store.ID, productCode, parkCode)
	if err == nil {
		return existing.ID, nil
	}
	if !db.IsNotFound(err) {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}

	detail, err := s.catalog.GetParkProduct(ctx, parkCode, productCode)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"park_code":    parkCode,
				"product_code": productCode,
				"error":        err.Error(),
			}), "catalog product lookup failed")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Product not found in catalog")
	}

	name := truncate(strings.TrimSpace(detail.TicketName), maxNameLength)
	if name == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "Invalid product: missing ticket_name")
	}

	base := detail.StartingPrice.USDBRL.Amount
	if !base.IsPositive() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "Invalid product: price must be greater than 0")
	}
	price, err := s.pricing.FinalPrice(base, store.CommissionPercentage)
	if err != nil {
		return 0, err
	}

	product := &models.Product{
		StoreID:     store.ID,
		Status:      enums.ProductStatusActive,
		Name:        name,
		Description: buildDescription(detail, name),
		Price:       price,
		ProductCode: productCode,
		ParkCode:    parkCode,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			// lost a race with a concurrent materialization of the same reference
			if winner, findErr := s.repo.FindByReference(ctx, store.ID, productCode, parkCode); findErr == nil {
				return winner.ID, nil
			}
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Error creating product")
	}
	return product.ID, nil
}

// SanitizeCode trims the value and drops everything except letters, digits and hyphens.
func SanitizeCode(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return -1
	}, strings.TrimSpace(raw))
}

func buildDescription(detail *maria.ParkProductDetail, fallback string) string {
	var parts []string
	if park := strings.TrimSpace(detail.ParkIncluded); park != "" {
		parts = append(parts, "Park: "+park)
	}
	if about := strings.TrimSpace(detail.Extensions.AboutTicket); about != "" {
		parts = append(parts, truncate(about, maxAboutLength))
	} else if kind := strings.TrimSpace(detail.Extensions.TicketType); kind != "" {
		parts = append(parts, "Type: "+kind)
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.TrimSpace(truncate(strings.Join(parts, "\n"), maxDescriptionLength))
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
