package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/wom/internal/database"
	"github.com/MrJamesThe3rd/wom/internal/dberr"
	"github.com/MrJamesThe3rd/wom/internal/deposit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) CreateSupplierDeposit(ctx context.Context, d *deposit.SupplierDeposit) error {
	d.CreatedAt = database.Now()

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers_deposits (supplier_id, name, created_at)
		VALUES ($1, $2, $3)
	`, d.SupplierID, d.Name, d.CreatedAt); err != nil {
		return fmt.Errorf("creating supplier deposit: %w", dberr.Classify(dberr.OpWrite, err))
	}

	return nil
}

func (s *Store) ListSupplierDeposits(ctx context.Context, supplierID int64) ([]*deposit.SupplierDeposit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT supplier_id, name, created_at
		FROM suppliers_deposits
		WHERE supplier_id = $1
		ORDER BY name ASC
	`, supplierID)
	if err != nil {
		return nil, fmt.Errorf("listing supplier deposits: %w", err)
	}
	defer rows.Close()

	var deposits []*deposit.SupplierDeposit

	for rows.Next() {
		var d deposit.SupplierDeposit
		if err := rows.Scan(&d.SupplierID, &d.Name, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning supplier deposit: %w", err)
		}

		deposits = append(deposits, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating supplier deposits: %w", err)
	}

	return deposits, nil
}

func (s *Store) DeleteSupplierDeposit(ctx context.Context, supplierID int64, name string) error {
	return deleteOne(ctx, s.db, "deleting supplier deposit", `
		DELETE FROM suppliers_deposits WHERE supplier_id = $1 AND name = $2
	`, supplierID, name)
}

func (s *Store) PutBook(ctx context.Context, b *deposit.Book) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers_deposits_books (supplier_id, name, book_id, description, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (supplier_id, name, book_id)
		DO UPDATE SET description = EXCLUDED.description, quantity = EXCLUDED.quantity
	`, b.DepositSupplierID, b.DepositName, b.BookID, b.Description, b.Quantity); err != nil {
		return fmt.Errorf("putting deposit book: %w", dberr.Classify(dberr.OpWrite, err))
	}

	return nil
}

func (s *Store) SetQuantity(ctx context.Context, supplierID int64, name string, bookID int64, quantity int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE suppliers_deposits_books
		SET quantity = $4
		WHERE supplier_id = $1 AND name = $2 AND book_id = $3
	`, supplierID, name, bookID, quantity)
	if err != nil {
		return fmt.Errorf("setting quantity: %w", dberr.Classify(dberr.OpWrite, err))
	}

	return requireOne(res, "setting quantity")
}

func (s *Store) RemoveBook(ctx context.Context, supplierID int64, name string, bookID int64) error {
	return deleteOne(ctx, s.db, "removing deposit book", `
		DELETE FROM suppliers_deposits_books WHERE supplier_id = $1 AND name = $2 AND book_id = $3
	`, supplierID, name, bookID)
}

const selectBookColumns = `supplier_id, name, book_id, description, quantity`

func scanBook(sc scanner) (*deposit.Book, error) {
	var (
		b    deposit.Book
		desc sql.NullString
	)

	if err := sc.Scan(&b.DepositSupplierID, &b.DepositName, &b.BookID, &desc, &b.Quantity); err != nil {
		return nil, err
	}

	if desc.Valid {
		b.Description = &desc.String
	}

	return &b, nil
}

func (s *Store) ListContents(ctx context.Context, supplierID int64, name string) ([]*deposit.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectBookColumns+`
		FROM suppliers_deposits_books
		WHERE supplier_id = $1 AND name = $2
		ORDER BY book_id ASC
	`, supplierID, name)
	if err != nil {
		return nil, fmt.Errorf("listing deposit contents: %w", err)
	}
	defer rows.Close()

	var books []*deposit.Book

	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deposit book: %w", err)
		}

		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deposit contents: %w", err)
	}

	return books, nil
}

// MoveBooks decrements the source row and adds to the destination in one
// transaction. The quantity CHECK rejects moving more copies than the source holds.
func (s *Store) MoveBooks(ctx context.Context, p deposit.MoveParams) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var (
		remaining int
		desc      sql.NullString
	)

	err = dbTx.QueryRowContext(ctx, `
		UPDATE suppliers_deposits_books
		SET quantity = quantity - $4
		WHERE supplier_id = $1 AND name = $2 AND book_id = $3
		RETURNING quantity, description
	`, p.SupplierID, p.From, p.BookID, p.Quantity).Scan(&remaining, &desc)
	if err != nil {
		return fmt.Errorf("taking from deposit %q: %w", p.From, dberr.Classify(dberr.OpWrite, err))
	}

	if remaining == 0 {
		if _, err := dbTx.ExecContext(ctx, `
			DELETE FROM suppliers_deposits_books WHERE supplier_id = $1 AND name = $2 AND book_id = $3
		`, p.SupplierID, p.From, p.BookID); err != nil {
			return fmt.Errorf("removing emptied row: %w", dberr.Classify(dberr.OpDelete, err))
		}
	}

	if err := addBooks(ctx, dbTx, p.SupplierID, p.To, p.BookID, desc, p.Quantity); err != nil {
		return fmt.Errorf("adding to deposit %q: %w", p.To, err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// ImportManifest registers unknown ISBNs and adds every row to the deposit. Either
// all rows land or none do.
func (s *Store) ImportManifest(ctx context.Context, supplierID int64, name string, rows []deposit.ManifestRow) ([]*deposit.Book, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	books := make([]*deposit.Book, 0, len(rows))

	for _, r := range rows {
		var bookID int64

		err := dbTx.QueryRowContext(ctx, `
			INSERT INTO books (isbn)
			VALUES ($1)
			ON CONFLICT (isbn) DO UPDATE SET isbn = EXCLUDED.isbn
			RETURNING id
		`, r.ISBN).Scan(&bookID)
		if err != nil {
			return nil, fmt.Errorf("upserting book %s: %w", r.ISBN, dberr.Classify(dberr.OpWrite, err))
		}

		b, err := scanBook(dbTx.QueryRowContext(ctx, `
			INSERT INTO suppliers_deposits_books (supplier_id, name, book_id, description, quantity)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (supplier_id, name, book_id)
			DO UPDATE SET
				quantity = suppliers_deposits_books.quantity + EXCLUDED.quantity,
				description = COALESCE(EXCLUDED.description, suppliers_deposits_books.description)
			RETURNING `+selectBookColumns,
			supplierID, name, bookID, r.Description, r.Quantity))
		if err != nil {
			return nil, fmt.Errorf("adding book %s: %w", r.ISBN, dberr.Classify(dberr.OpWrite, err))
		}

		books = append(books, b)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return books, nil
}

func (s *Store) CreateSellerDeposit(ctx context.Context, d *deposit.SellerDeposit) error {
	d.CreatedAt = database.Now()

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO sellers_deposits (seller_id, name, created_at)
		VALUES ($1, $2, $3)
	`, d.SellerID, d.Name, d.CreatedAt); err != nil {
		return fmt.Errorf("creating seller deposit: %w", dberr.Classify(dberr.OpWrite, err))
	}

	return nil
}

func (s *Store) ListSellerDeposits(ctx context.Context, sellerID int64) ([]*deposit.SellerDeposit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seller_id, name, created_at
		FROM sellers_deposits
		WHERE seller_id = $1
		ORDER BY created_at ASC, name ASC
	`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("listing seller deposits: %w", err)
	}
	defer rows.Close()

	var deposits []*deposit.SellerDeposit

	for rows.Next() {
		var d deposit.SellerDeposit
		if err := rows.Scan(&d.SellerID, &d.Name, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning seller deposit: %w", err)
		}

		deposits = append(deposits, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating seller deposits: %w", err)
	}

	return deposits, nil
}

func (s *Store) DeleteSellerDeposit(ctx context.Context, sellerID int64, name string) error {
	return deleteOne(ctx, s.db, "deleting seller deposit", `
		DELETE FROM sellers_deposits WHERE seller_id = $1 AND name = $2
	`, sellerID, name)
}

func addBooks(ctx context.Context, ex execer, supplierID int64, name string, bookID int64, desc sql.NullString, qty int) error {
	if _, err := ex.ExecContext(ctx, `
		INSERT INTO suppliers_deposits_books (supplier_id, name, book_id, description, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (supplier_id, name, book_id)
		DO UPDATE SET quantity = suppliers_deposits_books.quantity + EXCLUDED.quantity
	`, supplierID, name, bookID, desc, qty); err != nil {
		return dberr.Classify(dberr.OpWrite, err)
	}

	return nil
}

func deleteOne(ctx context.Context, ex execer, op, query string, args ...any) error {
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, dberr.Classify(dberr.OpDelete, err))
	}

	return requireOne(res, op)
}

func requireOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, dberr.ErrNotFound)
	}

	return nil
}
