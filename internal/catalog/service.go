package catalog

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/wom/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	DeleteUser(ctx context.Context, id int64) error

	CreateBook(ctx context.Context, b *Book) error
	GetBook(ctx context.Context, id int64) (*Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (*Book, error)
	DeleteBook(ctx context.Context, id int64) error

	CreateSupplier(ctx context.Context, s *Supplier) error
	GetSupplier(ctx context.Context, id int64) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	FindEditor(ctx context.Context, isbn string) (*Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error

	CreateSeller(ctx context.Context, s *Seller) error
	GetSeller(ctx context.Context, id int64) (*Seller, error)
	ListSellers(ctx context.Context) ([]*Seller, error)
	DeleteSeller(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateUserParams struct {
	Email    string `validate:"required,email,max=50"`
	Password string `validate:"required,min=8,max=72"`
}

type CreateSupplierParams struct {
	Name             string  `validate:"required,max=50"`
	EditorISBNPrefix *string `validate:"omitempty,len=6,number"`
	StripeAccountID  string  `validate:"required,max=255"`
}

type CreateSellerParams struct {
	Name            string `validate:"required,max=50"`
	StripeAccountID string `validate:"required,max=255"`
}

type isbnParam struct {
	ISBN string `validate:"len=13,number"`
}

// CreateUser stores a new user with a bcrypt hash of the given password.
func (s *Service) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{Email: params.Email, Password: string(hash)}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, isbn string) (*Book, error) {
	if err := validation.Struct(isbnParam{ISBN: isbn}); err != nil {
		return nil, err
	}

	b := &Book{ISBN: isbn}
	if err := s.repo.CreateBook(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) GetBook(ctx context.Context, id int64) (*Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) GetBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	return s.repo.GetBookByISBN(ctx, isbn)
}

// DeleteBook fails with dberr.ErrRestrictedDelete while any deposit or line item
// references the book.
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}

// CreateSupplier registers the supplier together with its unassigned-stock deposit.
func (s *Service) CreateSupplier(ctx context.Context, params CreateSupplierParams) (*Supplier, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	sup := &Supplier{
		Name:             params.Name,
		EditorISBNPrefix: params.EditorISBNPrefix,
		StripeAccountID:  params.StripeAccountID,
	}
	if err := s.repo.CreateSupplier(ctx, sup); err != nil {
		return nil, err
	}

	return sup, nil
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (*Supplier, error) {
	return s.repo.GetSupplier(ctx, id)
}

func (s *Service) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

// EditorOf returns the supplier whose editor prefix starts isbn.
func (s *Service) EditorOf(ctx context.Context, isbn string) (*Supplier, error) {
	if err := validation.Struct(isbnParam{ISBN: isbn}); err != nil {
		return nil, err
	}

	return s.repo.FindEditor(ctx, isbn)
}

func (s *Service) DeleteSupplier(ctx context.Context, id int64) error {
	return s.repo.DeleteSupplier(ctx, id)
}

func (s *Service) CreateSeller(ctx context.Context, params CreateSellerParams) (*Seller, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	sel := &Seller{Name: params.Name, StripeAccountID: params.StripeAccountID}
	if err := s.repo.CreateSeller(ctx, sel); err != nil {
		return nil, err
	}

	return sel, nil
}

func (s *Service) GetSeller(ctx context.Context, id int64) (*Seller, error) {
	return s.repo.GetSeller(ctx, id)
}

func (s *Service) ListSellers(ctx context.Context) ([]*Seller, error) {
	return s.repo.ListSellers(ctx)
}

// DeleteSeller removes the seller and, by cascade, its deposits.
func (s *Service) DeleteSeller(ctx context.Context, id int64) error {
	return s.repo.DeleteSeller(ctx, id)
}
