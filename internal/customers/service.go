package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parkmarket/marketplace-backend/pkg/db"
	"github.com/parkmarket/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/parkmarket/marketplace-backend/pkg/errors"
	"github.com/parkmarket/marketplace-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	invalidCredentialsMessage = "Invalid credentials"
	emailTakenMessage         = "Email already registered"
)

type customerRepository interface {
	FindByEmail(ctx context.Context, storeID uint, email string) (*models.Customer, error)
}

type tokenIssuer interface {
	IssueCustomerToken(ctx context.Context, tx *gorm.DB, customerID uint) (string, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service handles customer sign-up and sign-in inside a store.
type Service interface {
	Register(ctx context.Context, storeID uint, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, storeID uint, req LoginRequest) (*AuthResponse, error)
}

type service struct {
	repo   customerRepository
	tx     txRunner
	tokens tokenIssuer
	hasher security.PasswordHasher
}

// ServiceParams packages the dependencies of the customer service.
type ServiceParams struct {
	Repo   customerRepository
	Tx     txRunner
	Tokens tokenIssuer
	Hasher security.PasswordHasher
}

// NewService builds a customer service.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("customer repository is required")
	case params.Tx == nil:
		return nil, fmt.Errorf("transaction runner is required")
	case params.Tokens == nil:
		return nil, fmt.Errorf("token issuer is required")
	case params.Hasher == nil:
		return nil, fmt.Errorf("password hasher is required")
	}
	return &service{repo: params.Repo, tx: params.Tx, tokens: params.Tokens, hasher: params.Hasher}, nil
}

func (s *service) Register(ctx context.Context, storeID uint, req RegisterRequest) (*AuthResponse, error) {
	if storeID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized")
	}
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	customer := &models.Customer{StoreID: storeID, Name: name, Email: email, PasswordHash: hash}
	var token string
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByEmail(ctx, storeID, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeAlreadyRegistered, emailTakenMessage)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check customer email")
		}

		if err := repo.Create(ctx, customer); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeAlreadyRegistered, err, emailTakenMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer")
		}

		issued, err := s.tokens.IssueCustomerToken(ctx, tx, customer.ID)
		if err != nil {
			return err
		}
		token = issued
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &AuthResponse{AccessToken: token, CustomerID: customer.ID, Name: customer.Name}, nil
}

func (s *service) Login(ctx context.Context, storeID uint, req LoginRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if storeID == 0 || email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	customer, err := s.repo.FindByEmail(ctx, storeID, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup customer")
	}

	ok, err := s.hasher.Verify(req.Password, customer.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	token, err := s.tokens.IssueCustomerToken(ctx, nil, customer.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{AccessToken: token, CustomerID: customer.ID, Name: customer.Name}, nil
}
