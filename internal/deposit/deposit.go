package deposit

import (
	"errors"
	"time"
)

// Unassigned is the deposit name of books a supplier holds outside any named deposit.
const Unassigned = ""

var ErrSameDeposit = errors.New("source and destination deposit are the same")

// SupplierDeposit is a named batch of stock a supplier placed with the platform.
type SupplierDeposit struct {
	SupplierID int64
	Name       string
	CreatedAt  time.Time
}

// Book is one content row of a supplier deposit: Quantity copies of BookID.
type Book struct {
	DepositSupplierID int64
	DepositName       string
	BookID            int64
	Description       *string
	Quantity          int
}

// SellerDeposit is a named batch on the seller side. Names are unique across sellers.
type SellerDeposit struct {
	SellerID  int64
	Name      string
	CreatedAt time.Time
}

// ManifestRow is one line of a supplier's deposit manifest, keyed by ISBN rather
// than book id so unknown books can be registered on the fly.
type ManifestRow struct {
	ISBN        string  `validate:"len=13,number"`
	Quantity    int     `validate:"gt=0,max=2147483647"`
	Description *string `validate:"omitempty,max=255"`
}
