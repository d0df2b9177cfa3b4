package middleware

import (
	"context"

	"github.com/parkmarket/marketplace-backend/pkg/db/models"
)

type contextKey string

const (
	ctxSeller   contextKey = "seller"
	ctxCustomer contextKey = "customer"
	ctxStore    contextKey = "store"
	ctxTrail    contextKey = "principal_trail"
)

// principalTrail records the ids resolved further down the chain so outer
// middleware (the recoverer) can log them after the inner context is gone.
type principalTrail struct {
	sellerID   uint
	customerID uint
	storeID    uint
}

func withPrincipalTrail(ctx context.Context) (context.Context, *principalTrail) {
	trail := &principalTrail{}
	return context.WithValue(ctx, ctxTrail, trail), trail
}

func trailFromContext(ctx context.Context) *principalTrail {
	v, _ := ctx.Value(ctxTrail).(*principalTrail)
	return v
}

func (t *principalTrail) fields() map[string]any {
	fields := map[string]any{}
	if t == nil {
		return fields
	}
	if t.sellerID != 0 {
		fields["seller_id"] = t.sellerID
	}
	if t.customerID != 0 {
		fields["customer_id"] = t.customerID
	}
	if t.storeID != 0 {
		fields["store_id"] = t.storeID
	}
	return fields
}

func SellerFromContext(ctx context.Context) *models.Seller {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxSeller).(*models.Seller)
	return v
}

func CustomerFromContext(ctx context.Context) *models.Customer {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxCustomer).(*models.Customer)
	return v
}

// StoreFromContext returns the store resolved from the Store-Credential header.
func StoreFromContext(ctx context.Context) *models.Store {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxStore).(*models.Store)
	return v
}

// WithSeller injects the authenticated seller into the context.
func WithSeller(ctx context.Context, seller *models.Seller) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if trail := trailFromContext(ctx); trail != nil && seller != nil {
		trail.sellerID = seller.ID
	}
	return context.WithValue(ctx, ctxSeller, seller)
}

// WithCustomer injects the authenticated customer into the context.
func WithCustomer(ctx context.Context, customer *models.Customer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if trail := trailFromContext(ctx); trail != nil && customer != nil {
		trail.customerID = customer.ID
	}
	return context.WithValue(ctx, ctxCustomer, customer)
}

// WithStore injects the resolved store into the context.
func WithStore(ctx context.Context, store *models.Store) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if trail := trailFromContext(ctx); trail != nil && store != nil {
		trail.storeID = store.ID
	}
	return context.WithValue(ctx, ctxStore, store)
}
