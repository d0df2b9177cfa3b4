package sellers_test

import (
	"context"
	"testing"

	"github.com/parkmarket/marketplace-backend/internal/auth"
	"github.com/parkmarket/marketplace-backend/internal/sellers"
	"github.com/parkmarket/marketplace-backend/pkg/config"
	"github.com/parkmarket/marketplace-backend/pkg/db"
	"github.com/parkmarket/marketplace-backend/pkg/db/dbtest"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"github.com/parkmarket/marketplace-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cheapHasher() security.PasswordHasher {
	return security.NewArgon2Hasher(config.PasswordConfig{
		ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32,
	})
}

func newServices(t *testing.T) (sellers.Service, auth.Service) {
	t.Helper()
	conn := dbtest.Open(t)
	client := db.NewFromGorm(conn)

	authSvc, err := auth.NewService(auth.ServiceParams{Repo: auth.NewRepository(conn), Tx: client})
	require.NoError(t, err)

	svc, err := sellers.NewService(sellers.ServiceParams{
		Repo:   sellers.NewRepository(conn),
		Tx:     client,
		Tokens: authSvc,
		Hasher: cheapHasher(),
	})
	require.NoError(t, err)
	return svc, authSvc
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := sellers.NewService(sellers.ServiceParams{})
	require.Error(t, err)
}

func TestRegisterIssuesToken(t *testing.T) {
	svc, authSvc := newServices(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, sellers.RegisterRequest{Name: " Ana ", Email: " Ana@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.NotZero(t, resp.SellerID)
	assert.Equal(t, "Ana", resp.Name)
	require.NotEmpty(t, resp.AccessToken)

	seller, err := authSvc.AuthenticateSeller(ctx, "Bearer "+resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", seller.Email)
	assert.NotEqual(t, "secret1", seller.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, sellers.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, sellers.RegisterRequest{Name: "Other", Email: "ANA@example.com", Password: "secret2"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeAlreadyRegistered, typed.Code())
	assert.Equal(t, "Email already registered", typed.Message())
}

func TestLoginRotatesToken(t *testing.T) {
	svc, authSvc := newServices(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, sellers.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	loggedIn, err := svc.Login(ctx, sellers.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.SellerID, loggedIn.SellerID)

	_, err = authSvc.AuthenticateSeller(ctx, "Bearer "+registered.AccessToken)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))

	_, err = authSvc.AuthenticateSeller(ctx, "Bearer "+loggedIn.AccessToken)
	assert.NoError(t, err)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newServices(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, sellers.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	cases := []sellers.LoginRequest{
		{Email: "ana@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "secret1"},
		{Email: "", Password: ""},
	}
	for _, tc := range cases {
		_, err := svc.Login(ctx, tc)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, tc.Email)
		assert.Equal(t, pkgerrors.CodeInvalidCredentials, typed.Code())
		assert.Equal(t, "Invalid credentials", typed.Message())
	}
}
