package settlement

import (
	"errors"
	"time"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTransferConflict  = errors.New("seller already has a different transfer")
	ErrDuplicateLine     = errors.New("duplicate line item")
)

// TransactionKey identifies a DepositTransaction.
type TransactionKey struct {
	SupplierID int64
	SellerID   int64
	CreatedAt  time.Time
}

// LineKey identifies a DepositTransactionBook. SupplierDepositID and
// SellerDepositID hold deposit names, scoped by the supplier and seller of the key.
type LineKey struct {
	TransactionKey
	BookID            int64
	SupplierDepositID string
	SellerDepositID   string
}

// Transaction is one payment event between a supplier and a seller.
type Transaction struct {
	Key             TransactionKey
	PaymentIntentID string
	// Transfers maps a seller id to the processor transfer id paid to it.
	Transfers map[int64]string
	Status    Status
	Lines     []*Line
}

// Line moves Quantity copies of a book from a supplier deposit to a seller deposit.
type Line struct {
	Key           LineKey
	Quantity      int
	PaymentStatus PaymentStatus
	Status        LineStatus
	DueAt         time.Time
}

// Event is a processor notification about a transaction. ID is the processor's
// event id and is what redeliveries share.
type Event struct {
	ID     string
	Key    TransactionKey
	Status Status
}

// LineFilter selects a seller's line items. Nil fields are not filtered on.
type LineFilter struct {
	SellerID        int64
	SellerDepositID *string
	Status          *LineStatus
	Since           *time.Time
	Until           *time.Time
}
