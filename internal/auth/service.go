package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/parkmarket/marketplace-backend/pkg/db"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"github.com/parkmarket/marketplace-backend/pkg/security"
	"gorm.io/gorm"
)

const unauthorizedMessage = "Unauthorized"

type tokenRepository interface {
	RotateSellerToken(tx *gorm.DB, sellerID uint, token string) (*models.SellerAuth, error)
	RotateCustomerToken(tx *gorm.DB, customerID uint, token string) (*models.CustomerAuth, error)
	FindSellerByToken(ctx context.Context, token string) (*models.Seller, error)
	FindCustomerByToken(ctx context.Context, token string) (*models.Customer, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service issues and resolves opaque access tokens.
type Service interface {
	// IssueSellerToken rotates the seller's token. A nil tx opens a new transaction.
	IssueSellerToken(ctx context.Context, tx *gorm.DB, sellerID uint) (string, error)
	IssueCustomerToken(ctx context.Context, tx *gorm.DB, customerID uint) (string, error)
	AuthenticateSeller(ctx context.Context, header string) (*models.Seller, error)
	AuthenticateCustomer(ctx context.Context, header string) (*models.Customer, error)
}

type service struct {
	repo     tokenRepository
	tx       txRunner
	newToken func() string
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Repo     tokenRepository
	Tx       txRunner
	NewToken func() string
}

// NewService constructs the token service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("token repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	newToken := params.NewToken
	if newToken == nil {
		newToken = security.NewAccessToken
	}
	return &service{repo: params.Repo, tx: params.Tx, newToken: newToken}, nil
}

func (s *service) IssueSellerToken(ctx context.Context, tx *gorm.DB, sellerID uint) (string, error) {
	token := s.newToken()
	err := s.inTx(ctx, tx, func(tx *gorm.DB) error {
		_, err := s.repo.RotateSellerToken(tx, sellerID, token)
		return err
	})
	if err != nil {
		return "", mapIssueError(err)
	}
	return token, nil
}

func (s *service) IssueCustomerToken(ctx context.Context, tx *gorm.DB, customerID uint) (string, error) {
	token := s.newToken()
	err := s.inTx(ctx, tx, func(tx *gorm.DB) error {
		_, err := s.repo.RotateCustomerToken(tx, customerID, token)
		return err
	})
	if err != nil {
		return "", mapIssueError(err)
	}
	return token, nil
}

func (s *service) AuthenticateSeller(ctx context.Context, header string) (*models.Seller, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, unauthorizedMessage)
	}
	seller, err := s.repo.FindSellerByToken(ctx, token)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return seller, nil
}

func (s *service) AuthenticateCustomer(ctx context.Context, header string) (*models.Customer, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, unauthorizedMessage)
	}
	customer, err := s.repo.FindCustomerByToken(ctx, token)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return customer, nil
}

func (s *service) inTx(ctx context.Context, tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx != nil {
		return fn(tx)
	}
	return s.tx.WithTx(ctx, fn)
}

func mapIssueError(err error) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a concurrent sign-in is in progress, try again")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue access token")
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, unauthorizedMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve access token")
}
