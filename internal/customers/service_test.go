package customers_test

import (
	"context"
	"testing"

	"github.com/parkmarket/marketplace-backend/internal/auth"
	"github.com/parkmarket/marketplace-backend/internal/customers"
	"github.com/parkmarket/marketplace-backend/pkg/config"
	"github.com/parkmarket/marketplace-backend/pkg/db"
	"github.com/parkmarket/marketplace-backend/pkg/db/dbtest"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"github.com/parkmarket/marketplace-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	svc    customers.Service
	auth   auth.Service
	storeA uint
	storeB uint
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := dbtest.Open(t)
	client := db.NewFromGorm(conn)

	authSvc, err := auth.NewService(auth.ServiceParams{Repo: auth.NewRepository(conn), Tx: client})
	require.NoError(t, err)

	svc, err := customers.NewService(customers.ServiceParams{
		Repo:   customers.NewRepository(conn),
		Tx:     client,
		Tokens: authSvc,
		Hasher: security.NewArgon2Hasher(config.PasswordConfig{ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}),
	})
	require.NoError(t, err)

	return fixture{svc: svc, auth: authSvc, storeA: seedStore(t, conn, "a"), storeB: seedStore(t, conn, "b")}
}

func seedStore(t *testing.T, conn *gorm.DB, suffix string) uint {
	t.Helper()
	seller := &models.Seller{Name: "Seller " + suffix, Email: suffix + "@sellers.test", PasswordHash: "x"}
	require.NoError(t, conn.Create(seller).Error)
	store := &models.Store{SellerID: seller.ID, Name: "Store " + suffix, Credential: "sc_" + suffix}
	require.NoError(t, conn.Create(store).Error)
	return store.ID
}

func TestRegisterAndLoginWithinStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, f.storeA, customers.RegisterRequest{Name: "Bia", Email: "bia@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Bia", registered.Name)

	loggedIn, err := f.svc.Login(ctx, f.storeA, customers.LoginRequest{Email: "BIA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.CustomerID, loggedIn.CustomerID)

	_, err = f.auth.AuthenticateCustomer(ctx, "Bearer "+registered.AccessToken)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
	customer, err := f.auth.AuthenticateCustomer(ctx, "Bearer "+loggedIn.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.storeA, customer.StoreID)
}

func TestSameEmailIsDistinctPerStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := customers.RegisterRequest{Name: "Bia", Email: "bia@example.com", Password: "secret1"}

	a, err := f.svc.Register(ctx, f.storeA, req)
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, f.storeB, customers.LoginRequest{Email: req.Email, Password: req.Password})
	assert.Equal(t, pkgerrors.CodeInvalidCredentials, pkgerrors.CodeOf(err))

	b, err := f.svc.Register(ctx, f.storeB, req)
	require.NoError(t, err)
	assert.NotEqual(t, a.CustomerID, b.CustomerID)

	_, err = f.svc.Register(ctx, f.storeA, req)
	assert.Equal(t, pkgerrors.CodeAlreadyRegistered, pkgerrors.CodeOf(err))
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, f.storeA, customers.RegisterRequest{Name: "Bia", Email: "bia@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, f.storeA, customers.LoginRequest{Email: "bia@example.com", Password: "nope"})
	assert.Equal(t, pkgerrors.CodeInvalidCredentials, pkgerrors.CodeOf(err))
}
