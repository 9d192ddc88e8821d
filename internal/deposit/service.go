package deposit

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/wom/internal/dberr"
	"github.com/MrJamesThe3rd/wom/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=deposit
type Repository interface {
	CreateSupplierDeposit(ctx context.Context, d *SupplierDeposit) error
	ListSupplierDeposits(ctx context.Context, supplierID int64) ([]*SupplierDeposit, error)
	DeleteSupplierDeposit(ctx context.Context, supplierID int64, name string) error

	PutBook(ctx context.Context, b *Book) error
	SetQuantity(ctx context.Context, supplierID int64, name string, bookID int64, quantity int) error
	RemoveBook(ctx context.Context, supplierID int64, name string, bookID int64) error
	ListContents(ctx context.Context, supplierID int64, name string) ([]*Book, error)
	MoveBooks(ctx context.Context, params MoveParams) error
	ImportManifest(ctx context.Context, supplierID int64, name string, rows []ManifestRow) ([]*Book, error)

	CreateSellerDeposit(ctx context.Context, d *SellerDeposit) error
	ListSellerDeposits(ctx context.Context, sellerID int64) ([]*SellerDeposit, error)
	DeleteSellerDeposit(ctx context.Context, sellerID int64, name string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateSupplierDepositParams struct {
	SupplierID int64  `validate:"gt=0"`
	Name       string `validate:"required,max=50"`
}

type PutBookParams struct {
	SupplierID  int64   `validate:"gt=0"`
	DepositName string  `validate:"max=50"`
	BookID      int64   `validate:"gt=0"`
	Description *string `validate:"omitempty,max=255"`
	Quantity    int     `validate:"gte=0,max=2147483647"`
}

type MoveParams struct {
	SupplierID int64  `validate:"gt=0"`
	From       string `validate:"max=50"`
	To         string `validate:"max=50"`
	BookID     int64  `validate:"gt=0"`
	Quantity   int    `validate:"gt=0,max=2147483647"`
}

type CreateSellerDepositParams struct {
	SellerID int64  `validate:"gt=0"`
	Name     string `validate:"required,max=255"`
}

type quantityParam struct {
	Quantity int `validate:"gte=0,max=2147483647"`
}

type manifestParams struct {
	SupplierID  int64         `validate:"gt=0"`
	DepositName string        `validate:"max=50"`
	Rows        []ManifestRow `validate:"required,min=1,dive"`
}

func (s *Service) CreateSupplierDeposit(ctx context.Context, params CreateSupplierDepositParams) (*SupplierDeposit, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	d := &SupplierDeposit{SupplierID: params.SupplierID, Name: params.Name}
	if err := s.repo.CreateSupplierDeposit(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Service) ListSupplierDeposits(ctx context.Context, supplierID int64) ([]*SupplierDeposit, error) {
	return s.repo.ListSupplierDeposits(ctx, supplierID)
}

// DeleteSupplierDeposit fails with dberr.ErrRestrictedDelete until the deposit is
// empty. The unassigned deposit goes only with its supplier.
func (s *Service) DeleteSupplierDeposit(ctx context.Context, supplierID int64, name string) error {
	if name == Unassigned {
		return fmt.Errorf("%w: the unassigned deposit cannot be deleted on its own", dberr.ErrValidation)
	}

	return s.repo.DeleteSupplierDeposit(ctx, supplierID, name)
}

// PutBook inserts a content row or overwrites the description and quantity of an
// existing one.
func (s *Service) PutBook(ctx context.Context, params PutBookParams) (*Book, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	b := &Book{
		DepositSupplierID: params.SupplierID,
		DepositName:       params.DepositName,
		BookID:            params.BookID,
		Description:       params.Description,
		Quantity:          params.Quantity,
	}
	if err := s.repo.PutBook(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) SetQuantity(ctx context.Context, supplierID int64, name string, bookID int64, quantity int) error {
	if err := validation.Struct(quantityParam{Quantity: quantity}); err != nil {
		return err
	}

	return s.repo.SetQuantity(ctx, supplierID, name, bookID, quantity)
}

func (s *Service) RemoveBook(ctx context.Context, supplierID int64, name string, bookID int64) error {
	return s.repo.RemoveBook(ctx, supplierID, name, bookID)
}

func (s *Service) ListContents(ctx context.Context, supplierID int64, name string) ([]*Book, error) {
	return s.repo.ListContents(ctx, supplierID, name)
}

// MoveBooks transfers copies between two deposits of the same supplier. A source
// row that reaches zero is removed, which is how a deposit gets emptied before
// deletion.
func (s *Service) MoveBooks(ctx context.Context, params MoveParams) error {
	if err := validation.Struct(params); err != nil {
		return err
	}

	if params.From == params.To {
		return fmt.Errorf("%w: %w", dberr.ErrValidation, ErrSameDeposit)
	}

	return s.repo.MoveBooks(ctx, params)
}

// ImportManifest adds every row to the deposit in one atomic write. Rows repeating
// an ISBN are merged first.
func (s *Service) ImportManifest(ctx context.Context, supplierID int64, name string, rows []ManifestRow) ([]*Book, error) {
	params := manifestParams{SupplierID: supplierID, DepositName: name, Rows: rows}
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	books, err := s.repo.ImportManifest(ctx, supplierID, name, mergeRows(rows))
	if err != nil {
		return nil, fmt.Errorf("import manifest: %w", err)
	}

	return books, nil
}

func (s *Service) CreateSellerDeposit(ctx context.Context, params CreateSellerDepositParams) (*SellerDeposit, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	d := &SellerDeposit{SellerID: params.SellerID, Name: params.Name}
	if err := s.repo.CreateSellerDeposit(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Service) ListSellerDeposits(ctx context.Context, sellerID int64) ([]*SellerDeposit, error) {
	return s.repo.ListSellerDeposits(ctx, sellerID)
}

func (s *Service) DeleteSellerDeposit(ctx context.Context, sellerID int64, name string) error {
	return s.repo.DeleteSellerDeposit(ctx, sellerID, name)
}

// mergeRows sums quantities of rows sharing an ISBN, keeping first-seen order and
// the first non-nil description.
func mergeRows(rows []ManifestRow) []ManifestRow {
	index := make(map[string]int, len(rows))
	merged := make([]ManifestRow, 0, len(rows))

	for _, r := range rows {
		i, found := index[r.ISBN]
		if !found {
			index[r.ISBN] = len(merged)
			merged = append(merged, r)

			continue
		}

		merged[i].Quantity += r.Quantity
		if merged[i].Description == nil {
			merged[i].Description = r.Description
		}
	}

	return merged
}
