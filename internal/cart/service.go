package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parkmarket/marketplace-backend/pkg/db"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	"github.com/parkmarket/marketplace-backend/pkg/enums"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the single active cart of a customer inside a store.
type Service interface {
	Current(ctx context.Context, storeID, customerID uint) (*View, error)
	AddItem(ctx context.Context, storeID, customerID uint, req AddItemRequest) (*View, error)
	UpdateAmount(ctx context.Context, storeID, customerID uint, req UpdateAmountRequest) (*View, error)
	RemoveItem(ctx context.Context, storeID, customerID, productID uint) (*View, error)
}

type service struct {
	repo *Repository
	tx   txRunner
	now  func() time.Time
}

// NewService builds the cart service.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{repo: repo, tx: tx, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) Current(ctx context.Context, storeID, customerID uint) (*View, error) {
	return CurrentView(ctx, s.repo, storeID, customerID)
}

// CurrentView loads the active cart through repo, which may be bound to a transaction.
func CurrentView(ctx context.Context, repo *Repository, storeID, customerID uint) (*View, error) {
	cart, err := repo.FindActive(ctx, storeID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmptyView(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	items, err := repo.Items(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart items")
	}
	return BuildView(items), nil
}

func (s *service) AddItem(ctx context.Context, storeID, customerID uint, req AddItemRequest) (*View, error) {
	var view *View
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		product, err := repo.FindProduct(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		if product.StoreID != storeID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
		}
		if product.Status == enums.ProductStatusInactive {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Product inactive")
		}

		cart, err := s.findOrCreate(ctx, repo, storeID, customerID)
		if err != nil {
			return err
		}

		item := &models.CartItem{
			CartID:     cart.ID,
			ProductID:  product.ID,
			Amount:     normalizeAmount(req.Amount),
			Price:      product.Price,
			Attributes: req.Attributes.Clone(),
		}
		if err := repo.AddItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart item")
		}
		if err := repo.Touch(ctx, cart.ID, s.now()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "touch cart")
		}

		view, err = CurrentView(ctx, repo, storeID, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) UpdateAmount(ctx context.Context, storeID, customerID uint, req UpdateAmountRequest) (*View, error) {
	var view *View
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		cart, item, err := findLine(ctx, repo, storeID, customerID, req.ProductID)
		if err != nil {
			return err
		}
		if err := repo.UpdateItemAmount(ctx, item.ID, normalizeAmount(req.Amount)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
		}
		if err := repo.Touch(ctx, cart.ID, s.now()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "touch cart")
		}
		view, err = CurrentView(ctx, repo, storeID, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) RemoveItem(ctx context.Context, storeID, customerID, productID uint) (*View, error) {
	var view *View
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		cart, item, err := findLine(ctx, repo, storeID, customerID, productID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, item.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
		}

		remaining, err := repo.CountItems(ctx, cart.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count cart items")
		}
		if remaining == 0 {
			if err := repo.DeleteCart(ctx, cart.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart")
			}
			view = EmptyView()
			return nil
		}
		if err := repo.Touch(ctx, cart.ID, s.now()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "touch cart")
		}
		view, err = CurrentView(ctx, repo, storeID, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) findOrCreate(ctx context.Context, repo *Repository, storeID, customerID uint) (*models.Cart, error) {
	cart, err := repo.FindActive(ctx, storeID, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	cart = &models.Cart{StoreID: storeID, CustomerID: customerID, Status: enums.CartStatusActive}
	if err := repo.CreateCart(ctx, cart); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Cart is being updated, try again")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	return cart, nil
}

func findLine(ctx context.Context, repo *Repository, storeID, customerID, productID uint) (*models.Cart, *models.CartItem, error) {
	cart, err := repo.FindActive(ctx, storeID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "Cart not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	item, err := repo.FindItem(ctx, cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "Cart item not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}
	return cart, item, nil
}
