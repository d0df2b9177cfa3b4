package sellers

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

type sellerRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Seller, error)
}

type tokenIssuer interface {
	IssueSellerToken(ctx context.Context, tx *gorm.DB, sellerID uint) (string, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service handles seller sign-up and sign-in.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
}

type service struct {
	repo   sellerRepository
	tx     txRunner
	tokens tokenIssuer
	hasher security.PasswordHasher
}

// ServiceParams packages the dependencies of the seller service.
type ServiceParams struct {
	Repo   sellerRepository
	Tx     txRunner
	Tokens tokenIssuer
	Hasher security.PasswordHasher
}

// NewService builds a seller service.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Repo == nil:
		return nil, fmt.Errorf("seller repository is required")
	case params.Tx == nil:
		return nil, fmt.Errorf("transaction runner is required")
	case params.Tokens == nil:
		return nil, fmt.Errorf("token issuer is required")
	case params.Hasher == nil:
		return nil, fmt.Errorf("password hasher is required")
	}
	return &service{repo: params.Repo, tx: params.Tx, tokens: params.Tokens, hasher: params.Hasher}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	seller := &models.Seller{Name: name, Email: email, PasswordHash: hash}
	var token string
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeAlreadyRegistered, emailTakenMessage)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check seller email")
		}

		if err := repo.Create(ctx, seller); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeAlreadyRegistered, err, emailTakenMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create seller")
		}

		issued, err := s.tokens.IssueSellerToken(ctx, tx, seller.ID)
		if err != nil {
			return err
		}
		token = issued
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &AuthResponse{AccessToken: token, SellerID: seller.ID, Name: seller.Name}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	seller, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup seller")
	}

	ok, err := s.hasher.Verify(req.Password, seller.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, invalidCredentialsMessage)
	}

	token, err := s.tokens.IssueSellerToken(ctx, nil, seller.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{AccessToken: token, SellerID: seller.ID, Name: seller.Name}, nil
}
