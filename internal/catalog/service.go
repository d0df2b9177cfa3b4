// Package catalog proxies the park catalog to storefronts, adding the price
// each store would charge.
package catalog

import (
	"context"
	"fmt"

	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"github.com/parkmarket/marketplace-backend/pkg/maria"
	"github.com/shopspring/decimal"
)

type catalogClient interface {
	ListParks(ctx context.Context) ([]maria.Park, error)
	GetPark(ctx context.Context, parkCode string) (*maria.Park, error)
	ListParkProducts(ctx context.Context, parkCode string, query maria.ProductQuery) ([]maria.ParkProduct, error)
	GetParkProduct(ctx context.Context, parkCode, productCode string) (*maria.ParkProductDetail, error)
}

type priceEngine interface {
	FinalPrice(base, storePercentage decimal.Decimal) (int64, error)
}

// ProductView is a catalog product with the store's final price in minor units.
// FinalPrice is nil when the catalog price cannot be charged.
type ProductView struct {
	maria.ParkProduct
	FinalPrice *int64 `json:"final_price"`
}

// ProductDetailView is ProductView for the single-product endpoint.
type ProductDetailView struct {
	maria.ParkProductDetail
	FinalPrice *int64 `json:"final_price"`
}

// Service exposes the catalog passthrough.
type Service interface {
	ListParks(ctx context.Context) ([]maria.Park, error)
	GetPark(ctx context.Context, parkCode string) (*maria.Park, error)
	ListParkProducts(ctx context.Context, store *models.Store, parkCode string, query maria.ProductQuery) ([]ProductView, error)
	GetParkProduct(ctx context.Context, store *models.Store, parkCode, productCode string) (*ProductDetailView, error)
}

type service struct {
	client  catalogClient
	pricing priceEngine
}

// NewService builds the passthrough service.
func NewService(client catalogClient, pricing priceEngine) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("catalog client is required")
	}
	if pricing == nil {
		return nil, fmt.Errorf("pricing engine is required")
	}
	return &service{client: client, pricing: pricing}, nil
}

func (s *service) ListParks(ctx context.Context) ([]maria.Park, error) {
	parks, err := s.client.ListParks(ctx)
	if err != nil {
		return nil, upstream(err)
	}
	if parks == nil {
		parks = []maria.Park{}
	}
	return parks, nil
}

func (s *service) GetPark(ctx context.Context, parkCode string) (*maria.Park, error) {
	park, err := s.client.GetPark(ctx, parkCode)
	if err != nil {
		return nil, upstream(err)
	}
	return park, nil
}

func (s *service) ListParkProducts(ctx context.Context, store *models.Store, parkCode string, query maria.ProductQuery) ([]ProductView, error) {
	items, err := s.client.ListParkProducts(ctx, parkCode, query)
	if err != nil {
		return nil, upstream(err)
	}
	commission := storeCommission(store)
	views := make([]ProductView, 0, len(items))
	for _, item := range items {
		views = append(views, ProductView{
			ParkProduct: item,
			FinalPrice:  s.finalPrice(item.StartingPrice, commission),
		})
	}
	return views, nil
}

func (s *service) GetParkProduct(ctx context.Context, store *models.Store, parkCode, productCode string) (*ProductDetailView, error) {
	detail, err := s.client.GetParkProduct(ctx, parkCode, productCode)
	if err != nil {
		return nil, upstream(err)
	}
	return &ProductDetailView{
		ParkProductDetail: *detail,
		FinalPrice:        s.finalPrice(detail.StartingPrice, storeCommission(store)),
	}, nil
}

func (s *service) finalPrice(price maria.PricePair, commission decimal.Decimal) *int64 {
	amount, err := s.pricing.FinalPrice(price.USDBRL.Amount, commission)
	if err != nil {
		return nil
	}
	return &amount
}

func storeCommission(store *models.Store) decimal.Decimal {
	if store == nil {
		return decimal.Zero
	}
	return store.CommissionPercentage
}

// upstream keeps client-side codes (validation, not found) and folds every
// other failure into UPSTREAM_ERROR.
func upstream(err error) error {
	switch pkgerrors.CodeOf(err) {
	case pkgerrors.CodeValidation, pkgerrors.CodeNotFound, pkgerrors.CodeUpstream:
		return err
	default:
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "catalog request failed")
	}
}
