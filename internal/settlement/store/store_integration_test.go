//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/wom/internal/catalog"
	catalogstore "github.com/MrJamesThe3rd/wom/internal/catalog/store"
	"github.com/MrJamesThe3rd/wom/internal/database/databasetest"
	"github.com/MrJamesThe3rd/wom/internal/dberr"
	"github.com/MrJamesThe3rd/wom/internal/deposit"
	depositstore "github.com/MrJamesThe3rd/wom/internal/deposit/store"
	"github.com/MrJamesThe3rd/wom/internal/settlement"
	"github.com/MrJamesThe3rd/wom/internal/settlement/store"
)

type fixture struct {
	svc           *settlement.Service
	catalog       *catalogstore.Store
	supplier      *catalog.Supplier
	seller        *catalog.Seller
	sellerDeposit string
	books         []*catalog.Book
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := databasetest.Open(t)
	ctx := context.Background()

	f := &fixture{
		svc:     settlement.NewService(store.New(db), settlement.WithPaymentTerms(time.Hour)),
		catalog: catalogstore.New(db),
	}

	f.supplier = &catalog.Supplier{Name: databasetest.Name("sup", 50), StripeAccountID: "acct_sup"}
	require.NoError(t, f.catalog.CreateSupplier(ctx, f.supplier))

	f.seller = &catalog.Seller{Name: databasetest.Name("sel", 50), StripeAccountID: "acct_sel"}
	require.NoError(t, f.catalog.CreateSeller(ctx, f.seller))

	f.sellerDeposit = databasetest.Name("front", 255)
	require.NoError(t, depositstore.New(db).CreateSellerDeposit(ctx, &deposit.SellerDeposit{
		SellerID: f.seller.ID,
		Name:     f.sellerDeposit,
	}))

	for range 2 {
		b := &catalog.Book{ISBN: databasetest.ISBN("978")}
		require.NoError(t, f.catalog.CreateBook(ctx, b))
		f.books = append(f.books, b)
	}

	return f
}

func (f *fixture) record(t *testing.T) *settlement.Transaction {
	t.Helper()

	tx, err := f.svc.Record(context.Background(), settlement.RecordParams{
		SupplierID:      f.supplier.ID,
		SellerID:        f.seller.ID,
		PaymentIntentID: "pi_" + databasetest.Digits(12),
		Lines: []settlement.LineParams{
			{BookID: f.books[0].ID, SellerDepositID: f.sellerDeposit, Quantity: 2},
			{BookID: f.books[1].ID, SellerDepositID: f.sellerDeposit, Quantity: 1},
		},
	})
	require.NoError(t, err)

	return tx
}

func TestStore_RecordAndGet(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tx := f.record(t)

	got, err := f.svc.Get(ctx, tx.Key)
	require.NoError(t, err)

	assert.True(t, tx.Key.CreatedAt.Equal(got.Key.CreatedAt))
	assert.Equal(t, settlement.StatusPending, got.Status)
	assert.Empty(t, got.Transfers)
	require.Len(t, got.Lines, 2)

	for _, l := range got.Lines {
		assert.Equal(t, settlement.LineTransit, l.Status)
		assert.Equal(t, settlement.PaymentPending, l.PaymentStatus)
		assert.True(t, l.DueAt.Equal(tx.Key.CreatedAt.Add(time.Hour)))
	}
}

func TestStore_RecordIsAtomic(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	before, err := f.svc.ListSellerLines(ctx, settlement.LineFilter{SellerID: f.seller.ID})
	require.NoError(t, err)

	_, err = f.svc.Record(ctx, settlement.RecordParams{
		SupplierID:      f.supplier.ID,
		SellerID:        f.seller.ID,
		PaymentIntentID: "pi_broken",
		Lines: []settlement.LineParams{
			{BookID: f.books[0].ID, SellerDepositID: f.sellerDeposit, Quantity: 2},
			{BookID: 1 << 60, SellerDepositID: f.sellerDeposit, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, dberr.ErrForeignKeyViolation)
	assert.Equal(t, "deposits_transactions_books_book_fkey", dberr.Constraint(err))

	after, err := f.svc.ListSellerLines(ctx, settlement.LineFilter{SellerID: f.seller.ID})
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestStore_RecordKeepsDepositNamesAsText(t *testing.T) {
	f := setup(t)

	tx, err := f.svc.Record(context.Background(), settlement.RecordParams{
		SupplierID:      f.supplier.ID,
		SellerID:        f.seller.ID,
		PaymentIntentID: "pi_" + databasetest.Digits(12),
		Lines: []settlement.LineParams{
			{BookID: f.books[0].ID, SupplierDepositID: "Winter2019", SellerDepositID: "no-such-shelf", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, tx.Lines, 1)
	assert.Equal(t, "Winter2019", tx.Lines[0].Key.SupplierDepositID)
	assert.Equal(t, "no-such-shelf", tx.Lines[0].Key.SellerDepositID)
}

func TestStore_AdvanceStatusIsIdempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tx := f.record(t)

	applied, err := f.svc.AdvanceStatus(ctx, tx.Key, settlement.StatusSucceeded)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = f.svc.AdvanceStatus(ctx, tx.Key, settlement.StatusSucceeded)
	require.NoError(t, err)
	assert.False(t, applied)

	// A late "completed" does not pull the transaction back.
	applied, err = f.svc.AdvanceStatus(ctx, tx.Key, settlement.StatusCompleted)
	require.NoError(t, err)
	assert.False(t, applied)

	_, err = f.svc.AdvanceStatus(ctx, tx.Key, settlement.StatusFailed)
	assert.ErrorIs(t, err, settlement.ErrInvalidTransition)

	got, err := f.svc.Get(ctx, tx.Key)
	require.NoError(t, err)
	assert.Equal(t, settlement.StatusSucceeded, got.Status)
}

func TestStore_AdvanceStatusConcurrent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tx := f.record(t)

	var (
		wg      sync.WaitGroup
		applied atomic.Int32
	)

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			ok, err := f.svc.AdvanceStatus(ctx, tx.Key, settlement.StatusSucceeded)
			assert.NoError(t, err)

			if ok {
				applied.Add(1)
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, int32(1), applied.Load())
}

func TestStore_AdvanceStatusNotFound(t *testing.T) {
	f := setup(t)

	_, err := f.svc.AdvanceStatus(context.Background(), settlement.TransactionKey{
		SupplierID: f.supplier.ID,
		SellerID:   f.seller.ID,
		CreatedAt:  time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	}, settlement.StatusSucceeded)
	assert.ErrorIs(t, err, dberr.ErrNotFound)
}

func TestStore_SetTransfer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tx := f.record(t)

	require.NoError(t, f.svc.SetTransfer(ctx, tx.Key, f.seller.ID, "tr_1"))
	require.NoError(t, f.svc.SetTransfer(ctx, tx.Key, f.seller.ID, "tr_1"))

	err := f.svc.SetTransfer(ctx, tx.Key, f.seller.ID, "tr_2")
	assert.ErrorIs(t, err, settlement.ErrTransferConflict)

	got, err := f.svc.Get(ctx, tx.Key)
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{f.seller.ID: "tr_1"}, got.Transfers)
}

func TestStore_LineLifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	tx := f.record(t)

	key := tx.Lines[0].Key

	applied, err := f.svc.AdvanceLine(ctx, key, settlement.LineUsable)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = f.svc.AdvanceLine(ctx, key, settlement.LineClosedSold)
	require.NoError(t, err)
	assert.True(t, applied)

	_, err = f.svc.AdvanceLine(ctx, key, settlement.LineClosedReturned)
	assert.ErrorIs(t, err, settlement.ErrInvalidTransition)

	applied, err = f.svc.MarkLinePaid(ctx, key)
	require.NoError(t, err)
	assert.True(t, applied)

	n, err := f.svc.MarkTransactionPaid(ctx, tx.Key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = f.svc.MarkTransactionPaid(ctx, tx.Key)
	require.NoError(t, err)
	assert.Zero(t, n)

	closed := settlement.LineClosedSold
	lines, err := f.svc.ListSellerLines(ctx, settlement.LineFilter{
		SellerID:        f.seller.ID,
		SellerDepositID: &f.sellerDeposit,
		Status:          &closed,
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, settlement.PaymentPaid, lines[0].PaymentStatus)
}

func TestStore_ListOverdue(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)

	tx, err := f.svc.Record(ctx, settlement.RecordParams{
		SupplierID:      f.supplier.ID,
		SellerID:        f.seller.ID,
		PaymentIntentID: "pi_overdue",
		Lines: []settlement.LineParams{
			{BookID: f.books[0].ID, SellerDepositID: f.sellerDeposit, Quantity: 1, DueAt: &past},
			{BookID: f.books[1].ID, SellerDepositID: f.sellerDeposit, Quantity: 1},
		},
	})
	require.NoError(t, err)

	overdue, err := f.svc.ListOverdue(ctx, f.seller.ID)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, f.books[0].ID, overdue[0].Key.BookID)

	_, err = f.svc.MarkLinePaid(ctx, tx.Lines[0].Key)
	require.NoError(t, err)

	overdue, err = f.svc.ListOverdue(ctx, f.seller.ID)
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestStore_ReferencedRowsAreRestricted(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.record(t)

	assert.ErrorIs(t, f.catalog.DeleteBook(ctx, f.books[0].ID), dberr.ErrRestrictedDelete)
	assert.ErrorIs(t, f.catalog.DeleteSeller(ctx, f.seller.ID), dberr.ErrRestrictedDelete)
	assert.ErrorIs(t, f.catalog.DeleteSupplier(ctx, f.supplier.ID), dberr.ErrRestrictedDelete)
}
