//go:build integration

package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/wom/internal/catalog"
	catalogstore "github.com/MrJamesThe3rd/wom/internal/catalog/store"
	"github.com/MrJamesThe3rd/wom/internal/database/databasetest"
	"github.com/MrJamesThe3rd/wom/internal/dberr"
	"github.com/MrJamesThe3rd/wom/internal/deposit"
	"github.com/MrJamesThe3rd/wom/internal/deposit/store"
	"github.com/MrJamesThe3rd/wom/internal/settlement"
	settlementstore "github.com/MrJamesThe3rd/wom/internal/settlement/store"
)

type fixture struct {
	db       *sql.DB
	catalog  *catalogstore.Store
	deposits *store.Store
	supplier *catalog.Supplier
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := databasetest.Open(t)
	f := &fixture{db: db, catalog: catalogstore.New(db), deposits: store.New(db)}

	f.supplier = &catalog.Supplier{Name: databasetest.Name("sup", 50), StripeAccountID: "acct_d"}
	require.NoError(t, f.catalog.CreateSupplier(context.Background(), f.supplier))

	return f
}

func (f *fixture) book(t *testing.T) *catalog.Book {
	t.Helper()

	b := &catalog.Book{ISBN: databasetest.ISBN("979")}
	require.NoError(t, f.catalog.CreateBook(context.Background(), b))

	return b
}

func TestStore_SupplierDepositLifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.deposits.CreateSupplierDeposit(ctx, &deposit.SupplierDeposit{SupplierID: f.supplier.ID, Name: "Spring2024"}))

	err := f.deposits.CreateSupplierDeposit(ctx, &deposit.SupplierDeposit{SupplierID: f.supplier.ID, Name: "Spring2024"})
	assert.ErrorIs(t, err, dberr.ErrUniqueViolation)

	err = f.deposits.CreateSupplierDeposit(ctx, &deposit.SupplierDeposit{SupplierID: -1, Name: "Ghost"})
	assert.ErrorIs(t, err, dberr.ErrForeignKeyViolation)

	b := f.book(t)
	require.NoError(t, f.deposits.PutBook(ctx, &deposit.Book{
		DepositSupplierID: f.supplier.ID,
		DepositName:       "Spring2024",
		BookID:            b.ID,
		Quantity:          5,
	}))

	assert.ErrorIs(t, f.deposits.DeleteSupplierDeposit(ctx, f.supplier.ID, "Spring2024"), dberr.ErrRestrictedDelete)

	require.NoError(t, f.deposits.RemoveBook(ctx, f.supplier.ID, "Spring2024", b.ID))
	require.NoError(t, f.deposits.DeleteSupplierDeposit(ctx, f.supplier.ID, "Spring2024"))
	assert.ErrorIs(t, f.deposits.DeleteSupplierDeposit(ctx, f.supplier.ID, "Spring2024"), dberr.ErrNotFound)
}

func TestStore_SoldFromDepositCanBeDeleted(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := f.book(t)

	require.NoError(t, f.deposits.CreateSupplierDeposit(ctx, &deposit.SupplierDeposit{SupplierID: f.supplier.ID, Name: "Spring2024"}))
	require.NoError(t, f.deposits.PutBook(ctx, &deposit.Book{
		DepositSupplierID: f.supplier.ID,
		DepositName:       "Spring2024",
		BookID:            b.ID,
		Quantity:          3,
	}))

	seller := &catalog.Seller{Name: databasetest.Name("sel", 50), StripeAccountID: "acct_s"}
	require.NoError(t, f.catalog.CreateSeller(ctx, seller))

	shelf := databasetest.Name("shelf", 255)
	require.NoError(t, f.deposits.CreateSellerDeposit(ctx, &deposit.SellerDeposit{SellerID: seller.ID, Name: shelf}))

	sales := settlement.NewService(settlementstore.New(f.db))
	tx, err := sales.Record(ctx, settlement.RecordParams{
		SupplierID:      f.supplier.ID,
		SellerID:        seller.ID,
		PaymentIntentID: "pi_" + databasetest.Digits(12),
		Lines: []settlement.LineParams{
			{BookID: b.ID, SupplierDepositID: "Spring2024", SellerDepositID: shelf, Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.deposits.MoveBooks(ctx, deposit.MoveParams{
		SupplierID: f.supplier.ID,
		From:       "Spring2024",
		To:         "",
		BookID:     b.ID,
		Quantity:   2,
	}))
	require.NoError(t, f.deposits.RemoveBook(ctx, f.supplier.ID, "Spring2024", b.ID))

	require.NoError(t, f.deposits.DeleteSupplierDeposit(ctx, f.supplier.ID, "Spring2024"))
	require.NoError(t, f.deposits.DeleteSellerDeposit(ctx, seller.ID, shelf))

	got, err := sales.Get(ctx, tx.Key)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Spring2024", got.Lines[0].Key.SupplierDepositID)
	assert.Equal(t, shelf, got.Lines[0].Key.SellerDepositID)
}

func TestStore_PutBookRejectsUnknownDeposit(t *testing.T) {
	f := setup(t)

	err := f.deposits.PutBook(context.Background(), &deposit.Book{
		DepositSupplierID: f.supplier.ID,
		DepositName:       "Missing",
		BookID:            f.book(t).ID,
		Quantity:          1,
	})
	assert.ErrorIs(t, err, dberr.ErrForeignKeyViolation)
}

func TestStore_SetQuantityRejectsNegative(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := f.book(t)

	require.NoError(t, f.deposits.PutBook(ctx, &deposit.Book{DepositSupplierID: f.supplier.ID, BookID: b.ID, Quantity: 2}))

	assert.ErrorIs(t, f.deposits.SetQuantity(ctx, f.supplier.ID, "", b.ID, -1), dberr.ErrValidation)
	require.NoError(t, f.deposits.SetQuantity(ctx, f.supplier.ID, "", b.ID, 0))

	contents, err := f.deposits.ListContents(ctx, f.supplier.ID, "")
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, 0, contents[0].Quantity)
}

func TestStore_MoveBooks(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := f.book(t)

	require.NoError(t, f.deposits.CreateSupplierDeposit(ctx, &deposit.SupplierDeposit{SupplierID: f.supplier.ID, Name: "Autumn"}))
	require.NoError(t, f.deposits.PutBook(ctx, &deposit.Book{DepositSupplierID: f.supplier.ID, BookID: b.ID, Quantity: 3}))

	move := deposit.MoveParams{SupplierID: f.supplier.ID, From: "", To: "Autumn", BookID: b.ID, Quantity: 2}
	require.NoError(t, f.deposits.MoveBooks(ctx, move))

	move.Quantity = 5
	assert.ErrorIs(t, f.deposits.MoveBooks(ctx, move), dberr.ErrValidation)

	move.Quantity = 1
	require.NoError(t, f.deposits.MoveBooks(ctx, move))

	unassigned, err := f.deposits.ListContents(ctx, f.supplier.ID, "")
	require.NoError(t, err)
	assert.Empty(t, unassigned)

	autumn, err := f.deposits.ListContents(ctx, f.supplier.ID, "Autumn")
	require.NoError(t, err)
	require.Len(t, autumn, 1)
	assert.Equal(t, 3, autumn[0].Quantity)

	assert.ErrorIs(t, f.deposits.MoveBooks(ctx, move), dberr.ErrNotFound)
}

func TestStore_ImportManifestIsAtomic(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	known := f.book(t)
	fresh := databasetest.ISBN("978")
	desc := "Signed copy"

	books, err := f.deposits.ImportManifest(ctx, f.supplier.ID, "", []deposit.ManifestRow{
		{ISBN: known.ISBN, Quantity: 2},
		{ISBN: fresh, Quantity: 1, Description: &desc},
	})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, known.ID, books[0].BookID)

	registered, err := f.catalog.GetBookByISBN(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, books[1].BookID)

	_, err = f.deposits.ImportManifest(ctx, f.supplier.ID, "", []deposit.ManifestRow{
		{ISBN: known.ISBN, Quantity: 4},
		{ISBN: "12345", Quantity: 1},
	})
	assert.ErrorIs(t, err, dberr.ErrValidation)

	contents, err := f.deposits.ListContents(ctx, f.supplier.ID, "")
	require.NoError(t, err)
	require.Len(t, contents, 2)

	for _, c := range contents {
		if c.BookID == known.ID {
			assert.Equal(t, 2, c.Quantity)
		}
	}
}

func TestStore_SellerDepositNamesAreGlobal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := &catalog.Seller{Name: databasetest.Name("sel", 50), StripeAccountID: "acct_a"}
	b := &catalog.Seller{Name: databasetest.Name("sel", 50), StripeAccountID: "acct_b"}
	require.NoError(t, f.catalog.CreateSeller(ctx, a))
	require.NoError(t, f.catalog.CreateSeller(ctx, b))

	name := databasetest.Name("front", 255)
	require.NoError(t, f.deposits.CreateSellerDeposit(ctx, &deposit.SellerDeposit{SellerID: a.ID, Name: name}))

	err := f.deposits.CreateSellerDeposit(ctx, &deposit.SellerDeposit{SellerID: b.ID, Name: name})
	assert.ErrorIs(t, err, dberr.ErrUniqueViolation)

	list, err := f.deposits.ListSellerDeposits(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, name, list[0].Name)
}

func TestStore_AcmeBooksScenario(t *testing.T) {
	db := databasetest.Open(t)
	cat := catalogstore.New(db)
	deposits := store.New(db)
	ctx := context.Background()

	const isbn = "9780000000001"

	acme := &catalog.Supplier{Name: databasetest.Name("Acme Books", 50), StripeAccountID: "acct_acme"}
	require.NoError(t, cat.CreateSupplier(ctx, acme))
	require.NoError(t, deposits.CreateSupplierDeposit(ctx, &deposit.SupplierDeposit{SupplierID: acme.ID, Name: "Spring2024"}))

	books, err := deposits.ImportManifest(ctx, acme.ID, "Spring2024", []deposit.ManifestRow{{ISBN: isbn, Quantity: 10}})
	require.NoError(t, err)
	require.Len(t, books, 1)

	bookID := books[0].BookID
	assert.Equal(t, 10, books[0].Quantity)

	assert.ErrorIs(t, cat.DeleteBook(ctx, bookID), dberr.ErrRestrictedDelete)

	require.NoError(t, deposits.SetQuantity(ctx, acme.ID, "Spring2024", bookID, 0))
	require.NoError(t, deposits.RemoveBook(ctx, acme.ID, "Spring2024", bookID))
	require.NoError(t, cat.DeleteBook(ctx, bookID))

	_, err = cat.GetBookByISBN(ctx, isbn)
	assert.ErrorIs(t, err, dberr.ErrNotFound)
}
