package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parkmarket/marketplace-backend/pkg/db"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"github.com/parkmarket/marketplace-backend/pkg/enums"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"github.com/parkmarket/marketplace-backend/pkg/logger"
	"github.com/parkmarket/marketplace-backend/pkg/maria"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByReference(ctx context.Context, storeID uint, productCode, parkCode string) (*models.Product, error)
	FindForStore(ctx context.Context, storeID, productID uint) (*models.Product, error)
}

type catalogClient interface {
	GetParkProduct(ctx context.Context, parkCode, productCode string) (*maria.ParkProductDetail, error)
}

type priceEngine interface {
	FinalPrice(base, storePercentage decimal.Decimal) (int64, error)
}

// Service exposes product materialization and seller product management.
type Service interface {
	Materialize(ctx context.Context, store *models.Store, productCode, parkCode string) (uint, error)
	Create(ctx context.Context, store *models.Store, req CreateProductRequest) (*ProductDTO, error)
	Get(ctx context.Context, storeID, productID uint) (*ProductDTO, error)
}

type service struct {
	repo    productRepository
	catalog catalogClient
	pricing priceEngine
	logg    *logger.Logger
}

// ServiceParams bundles the product service dependencies.
type ServiceParams struct {
	Repo    productRepository
	Catalog catalogClient
	Pricing priceEngine
	Logger  *logger.Logger
}

// NewService builds the product service.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("product repository is required")
	case params.Catalog == nil:
		return nil, fmt.Errorf("catalog client is required")
	case params.Pricing == nil:
		return nil, fmt.Errorf("pricing engine is required")
	}
	return &service{repo: params.Repo, catalog: params.Catalog, pricing: params.Pricing, logg: params.Logger}, nil
}

func (s *service) Create(ctx context.Context, store *models.Store, req CreateProductRequest) (*ProductDTO, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}
	name := strings.TrimSpace(req.Name)
	code := SanitizeCode(req.ExternalID)
	if name == "" || code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and external_id are required")
	}
	if req.Price <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidPrice, "price must be greater than 0")
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = name
	}

	product := &models.Product{
		StoreID:     store.ID,
		Status:      enums.ProductStatusActive,
		Name:        truncate(name, maxNameLength),
		Description: truncate(description, maxDescriptionLength),
		Price:       req.Price,
		ProductCode: code,
		ParkCode:    SanitizeCode(req.ParkCode),
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Product already exists for this store")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Get(ctx context.Context, storeID, productID uint) (*ProductDTO, error) {
	product, err := s.repo.FindForStore(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return FromModel(product), nil
}
