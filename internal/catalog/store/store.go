package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/wom/internal/catalog"
	"github.com/MrJamesThe3rd/wom/internal/database"
	"github.com/MrJamesThe3rd/wom/internal/dberr"
)

// UnassignedDeposit names the deposit holding a supplier's books that are not in
// any named deposit. Every supplier gets one on creation.
const UnassignedDeposit = ""

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) CreateUser(ctx context.Context, u *catalog.User) error {
	u.CreatedAt = database.Now()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, u.Email, u.Password, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("creating user: %w", dberr.Classify(dberr.OpWrite, err))
	}

	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*catalog.User, error) {
	var u catalog.User

	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password, created_at FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", dberr.Classify(dberr.OpWrite, err))
	}

	return &u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "users", id)
}

func (s *Store) CreateBook(ctx context.Context, b *catalog.Book) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO books (isbn) VALUES ($1) RETURNING id
	`, b.ISBN).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("creating book: %w", dberr.Classify(dberr.OpWrite, err))
	}

	return nil
}

func (s *Store) GetBook(ctx context.Context, id int64) (*catalog.Book, error) {
	var b catalog.Book

	err := s.db.QueryRowContext(ctx, `SELECT id, isbn FROM books WHERE id = $1`, id).Scan(&b.ID, &b.ISBN)
	if err != nil {
		return nil, fmt.Errorf("getting book: %w", dberr.Classify(dberr.OpWrite, err))
	}

	return &b, nil
}

func (s *Store) GetBookByISBN(ctx context.Context, isbn string) (*catalog.Book, error) {
	var b catalog.Book

	err := s.db.QueryRowContext(ctx, `SELECT id, isbn FROM books WHERE isbn = $1`, isbn).Scan(&b.ID, &b.ISBN)
	if err != nil {
		return nil, fmt.Errorf("getting book by isbn: %w", dberr.Classify(dberr.OpWrite, err))
	}

	return &b, nil
}

func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "books", id)
}

// CreateSupplier inserts the supplier and its unassigned deposit atomically, so
// content rows using the empty deposit name always have a parent.
func (s *Store) CreateSupplier(ctx context.Context, sup *catalog.Supplier) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	sup.CreatedAt = database.Now()

	err = dbTx.QueryRowContext(ctx, `
		INSERT INTO suppliers (name, editor_isbn_prefix, created_at, stripe_account_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, sup.Name, sup.EditorISBNPrefix, sup.CreatedAt, sup.StripeAccountID).Scan(&sup.ID)
	if err != nil {
		return fmt.Errorf("creating supplier: %w", dberr.Classify(dberr.OpWrite, err))
	}

	if _, err := dbTx.ExecContext(ctx, `
		INSERT INTO suppliers_deposits (supplier_id, name, created_at)
		VALUES ($1, $2, $3)
	`, sup.ID, UnassignedDeposit, sup.CreatedAt); err != nil {
		return fmt.Errorf("creating unassigned deposit: %w", dberr.Classify(dberr.OpWrite, err))
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

const selectSupplierColumns = `id, name, editor_isbn_prefix, created_at, stripe_account_id`

func scanSupplier(sc scanner) (*catalog.Supplier, error) {
	var (
		sup    catalog.Supplier
		prefix sql.NullString
	)

	if err := sc.Scan(&sup.ID, &sup.Name, &prefix, &sup.CreatedAt, &sup.StripeAccountID); err != nil {
		return nil, err
	}

	if prefix.Valid {
		sup.EditorISBNPrefix = &prefix.String
	}

	return &sup, nil
}

func (s *Store) GetSupplier(ctx context.Context, id int64) (*catalog.Supplier, error) {
	sup, err := scanSupplier(s.db.QueryRowContext(ctx,
		`SELECT `+selectSupplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("getting supplier: %w", dberr.Classify(dberr.OpWrite, err))
	}

	return sup, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]*catalog.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectSupplierColumns+` FROM suppliers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*catalog.Supplier

	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning supplier: %w", err)
		}

		suppliers = append(suppliers, sup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating suppliers: %w", err)
	}

	return suppliers, nil
}

func (s *Store) FindEditor(ctx context.Context, isbn string) (*catalog.Supplier, error) {
	sup, err := scanSupplier(s.db.QueryRowContext(ctx, `
		SELECT `+selectSupplierColumns+`
		FROM suppliers
		WHERE editor_isbn_prefix IS NOT NULL AND $1 LIKE editor_isbn_prefix || '%'
	`, isbn))
	if err != nil {
		return nil, fmt.Errorf("finding editor: %w", dberr.Classify(dberr.OpWrite, err))
	}

	return sup, nil
}

// DeleteSupplier drops the supplier together with its unassigned deposit. It
// fails while that deposit holds books, while any named deposit exists, or while
// a transaction references the supplier.
func (s *Store) DeleteSupplier(ctx context.Context, id int64) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `
		DELETE FROM suppliers_deposits WHERE supplier_id = $1 AND name = $2
	`, id, UnassignedDeposit); err != nil {
		return fmt.Errorf("deleting unassigned deposit: %w", dberr.Classify(dberr.OpDelete, err))
	}

	if err := deleteByID(ctx, dbTx, "suppliers", id); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) CreateSeller(ctx context.Context, sel *catalog.Seller) error {
	sel.CreatedAt = database.Now()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sellers (name, created_at, stripe_account_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, sel.Name, sel.CreatedAt, sel.StripeAccountID).Scan(&sel.ID)
	if err != nil {
		return fmt.Errorf("creating seller: %w", dberr.Classify(dberr.OpWrite, err))
	}

	return nil
}

func scanSeller(sc scanner) (*catalog.Seller, error) {
	var sel catalog.Seller
	if err := sc.Scan(&sel.ID, &sel.Name, &sel.CreatedAt, &sel.StripeAccountID); err != nil {
		return nil, err
	}

	return &sel, nil
}

func (s *Store) GetSeller(ctx context.Context, id int64) (*catalog.Seller, error) {
	sel, err := scanSeller(s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, stripe_account_id FROM sellers WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("getting seller: %w", dberr.Classify(dberr.OpWrite, err))
	}

	return sel, nil
}

func (s *Store) ListSellers(ctx context.Context) ([]*catalog.Seller, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, stripe_account_id FROM sellers ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing sellers: %w", err)
	}
	defer rows.Close()

	var sellers []*catalog.Seller

	for rows.Next() {
		sel, err := scanSeller(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning seller: %w", err)
		}

		sellers = append(sellers, sel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sellers: %w", err)
	}

	return sellers, nil
}

// DeleteSeller cascades to the seller's deposits. It still fails while any
// transaction or line item references the seller or one of those deposits.
func (s *Store) DeleteSeller(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "sellers", id)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// deleteByID only ever receives table names from this file.
func deleteByID(ctx context.Context, ex execer, table string, id int64) error {
	res, err := ex.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, dberr.Classify(dberr.OpDelete, err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}

	if n == 0 {
		return fmt.Errorf("deleting from %s: %w", table, dberr.ErrNotFound)
	}

	return nil
}
