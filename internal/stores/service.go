package stores

import (
	"context"
	"fmt"
	"strings"

	"github.com/parkmarket/marketplace-backend/pkg/db"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"github.com/parkmarket/marketplace-backend/pkg/security"
	"github.com/shopspring/decimal"
)

const invalidCredentialMessage = "Store credential is invalid"

var maxCommission = decimal.NewFromInt(100)

type storeRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindByID(ctx context.Context, id uint) (*models.Store, error)
	FindBySeller(ctx context.Context, sellerID uint) (*models.Store, error)
	FindByCredential(ctx context.Context, credential string) (*models.Store, error)
}

// Service exposes store operations.
type Service interface {
	Create(ctx context.Context, sellerID uint, req CreateStoreRequest) (*StoreDTO, error)
	GetForSeller(ctx context.Context, sellerID uint) (*StoreDTO, error)
	GetCredential(ctx context.Context, sellerID, storeID uint) (*CredentialResponse, error)
	ResolveCredential(ctx context.Context, credential string) (*models.Store, error)
	RequireOwner(ctx context.Context, sellerID, storeID uint) (*models.Store, error)
}

type service struct {
	repo          storeRepository
	newCredential func() string
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository is required")
	}
	return &service{repo: repo, newCredential: security.NewStoreCredential}, nil
}

func (s *service) Create(ctx context.Context, sellerID uint, req CreateStoreRequest) (*StoreDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	commission := decimal.Zero
	if req.CommissionPercentage != nil {
		commission = *req.CommissionPercentage
		if commission.IsNegative() || commission.GreaterThan(maxCommission) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "commission_percentage must be between 0 and 100")
		}
	}

	if _, err := s.repo.FindBySeller(ctx, sellerID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Seller already owns a store")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check seller store")
	}

	store := &models.Store{
		SellerID:             sellerID,
		Name:                 name,
		Credential:           s.newCredential(),
		CommissionPercentage: commission.Round(2),
	}
	if err := s.repo.Create(ctx, store); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "store credential collision, try again")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create store")
	}
	return FromModel(store), nil
}

func (s *service) GetForSeller(ctx context.Context, sellerID uint) (*StoreDTO, error) {
	store, err := s.repo.FindBySeller(ctx, sellerID)
	if err != nil {
		return nil, mapFindError(err)
	}
	return FromModel(store), nil
}

func (s *service) GetCredential(ctx context.Context, sellerID, storeID uint) (*CredentialResponse, error) {
	store, err := s.RequireOwner(ctx, sellerID, storeID)
	if err != nil {
		return nil, err
	}
	return &CredentialResponse{Credential: store.Credential}, nil
}

func (s *service) ResolveCredential(ctx context.Context, credential string) (*models.Store, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialMessage)
	}
	store, err := s.repo.FindByCredential(ctx, credential)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve store credential")
	}
	return store, nil
}

func (s *service) RequireOwner(ctx context.Context, sellerID, storeID uint) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return nil, mapFindError(err)
	}
	if store.SellerID != sellerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Seller does not own this store")
	}
	return store, nil
}

func mapFindError(err error) error {
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Store not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load store")
}
