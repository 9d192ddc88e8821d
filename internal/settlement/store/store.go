package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/MrJamesThe3rd/wom/internal/dberr"
	"github.com/MrJamesThe3rd/wom/internal/settlement"
)

// maxAdvanceAttempts bounds the update/re-read loop in advance. A row can only move
// forward, so a second attempt already sees its final word.
const maxAdvanceAttempts = 3

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateTransaction inserts the transaction and every line item in one database
// transaction. Readers see all of the rows or none of them.
func (s *Store) CreateTransaction(ctx context.Context, tx *settlement.Transaction) error {
	transfers, err := encodeTransfers(tx.Transfers)
	if err != nil {
		return err
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	k := tx.Key

	if _, err := dbTx.ExecContext(ctx, `
		INSERT INTO deposits_transactions (supplier_id, seller_id, created_at, payment_intent_id, transfers, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, k.SupplierID, k.SellerID, k.CreatedAt, tx.PaymentIntentID, transfers, string(tx.Status)); err != nil {
		return fmt.Errorf("creating deposit transaction: %w", dberr.Classify(dberr.OpWrite, err))
	}

	for _, l := range tx.Lines {
		if _, err := dbTx.ExecContext(ctx, `
			INSERT INTO deposits_transactions_books (
				supplier_id, seller_id, created_at, book_id, supplier_deposit_id, seller_deposit_id,
				quantity, "paymentStatus", status, due_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			k.SupplierID, k.SellerID, k.CreatedAt, l.Key.BookID, l.Key.SupplierDepositID, l.Key.SellerDepositID,
			l.Quantity, string(l.PaymentStatus), string(l.Status), l.DueAt,
		); err != nil {
			return fmt.Errorf("creating line for book %d: %w", l.Key.BookID, dberr.Classify(dberr.OpWrite, err))
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// GetTransaction reads the transaction and its lines from one snapshot.
func (s *Store) GetTransaction(ctx context.Context, key settlement.TransactionKey) (*settlement.Transaction, error) {
	dbTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var (
		tx        settlement.Transaction
		transfers []byte
		status    string
	)

	err = dbTx.QueryRowContext(ctx, `
		SELECT supplier_id, seller_id, created_at, payment_intent_id, transfers, status
		FROM deposits_transactions
		WHERE supplier_id = $1 AND seller_id = $2 AND created_at = $3
	`, key.SupplierID, key.SellerID, key.CreatedAt).Scan(
		&tx.Key.SupplierID, &tx.Key.SellerID, &tx.Key.CreatedAt, &tx.PaymentIntentID, &transfers, &status,
	)
	if err != nil {
		return nil, fmt.Errorf("getting deposit transaction: %w", dberr.Classify(dberr.OpWrite, err))
	}

	tx.Key.CreatedAt = tx.Key.CreatedAt.UTC()
	tx.Status = settlement.Status(status)

	if tx.Transfers, err = decodeTransfers(transfers); err != nil {
		return nil, err
	}

	tx.Lines, err = queryLines(ctx, dbTx, `
		SELECT `+selectLineColumns+`
		FROM deposits_transactions_books
		WHERE supplier_id = $1 AND seller_id = $2 AND created_at = $3
		ORDER BY book_id ASC, supplier_deposit_id ASC, seller_deposit_id ASC
	`, key.SupplierID, key.SellerID, key.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &tx, nil
}

func (s *Store) UpdateStatus(ctx context.Context, key settlement.TransactionKey, status settlement.Status) (bool, error) {
	return s.advance(ctx, advanceQuery{
		table:  "deposits_transactions",
		column: "status",
		where:  "supplier_id = $1 AND seller_id = $2 AND created_at = $3",
		args:   []any{key.SupplierID, key.SellerID, key.CreatedAt},
		next:   string(status),
		from:   status.Predecessors(),
		classify: func(cur string) settlement.Transition {
			return settlement.Classify(settlement.Status(cur), status)
		},
	})
}

func (s *Store) UpdateLineStatus(ctx context.Context, key settlement.LineKey, status settlement.LineStatus) (bool, error) {
	return s.advance(ctx, advanceQuery{
		table:  "deposits_transactions_books",
		column: "status",
		where:  lineWhere,
		args:   lineArgs(key),
		next:   string(status),
		from:   status.Predecessors(),
		classify: func(cur string) settlement.Transition {
			return settlement.Classify(settlement.LineStatus(cur), status)
		},
	})
}

func (s *Store) UpdateLinePayment(ctx context.Context, key settlement.LineKey, status settlement.PaymentStatus) (bool, error) {
	return s.advance(ctx, advanceQuery{
		table:  "deposits_transactions_books",
		column: `"paymentStatus"`,
		where:  lineWhere,
		args:   lineArgs(key),
		next:   string(status),
		from:   status.Predecessors(),
		classify: func(cur string) settlement.Transition {
			return settlement.Classify(settlement.PaymentStatus(cur), status)
		},
	})
}

func (s *Store) MarkTransactionPaid(ctx context.Context, key settlement.TransactionKey) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE deposits_transactions_books
		SET "paymentStatus" = 'paid'
		WHERE supplier_id = $1 AND seller_id = $2 AND created_at = $3 AND "paymentStatus" = 'pending'
	`, key.SupplierID, key.SellerID, key.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("marking transaction paid: %w", dberr.Classify(dberr.OpWrite, err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("marking transaction paid: %w", err)
	}

	if n == 0 {
		if err := s.requireTransaction(ctx, key); err != nil {
			return 0, fmt.Errorf("marking transaction paid: %w", err)
		}
	}

	return n, nil
}

// SetTransfer merges sellerID -> transferID into the transfers object. The guard
// makes a redelivered update a no-op and refuses to overwrite a different transfer.
func (s *Store) SetTransfer(ctx context.Context, key settlement.TransactionKey, sellerID int64, transferID string) error {
	seller := strconv.FormatInt(sellerID, 10)

	res, err := s.db.ExecContext(ctx, `
		UPDATE deposits_transactions
		SET transfers = transfers || jsonb_build_object($4::text, $5::text)
		WHERE supplier_id = $1 AND seller_id = $2 AND created_at = $3
			AND (transfers ->> $4::text IS NULL OR transfers ->> $4::text = $5::text)
	`, key.SupplierID, key.SellerID, key.CreatedAt, seller, transferID)
	if err != nil {
		return fmt.Errorf("setting transfer: %w", dberr.Classify(dberr.OpWrite, err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting transfer: %w", err)
	}

	if n == 1 {
		return nil
	}

	if err := s.requireTransaction(ctx, key); err != nil {
		return fmt.Errorf("setting transfer: %w", err)
	}

	return fmt.Errorf("setting transfer for seller %d: %w: %w", sellerID, dberr.ErrValidation, settlement.ErrTransferConflict)
}

// ListSellerLines is served by deposits_transactions_books_seller_idx.
func (s *Store) ListSellerLines(ctx context.Context, filter settlement.LineFilter) ([]*settlement.Line, error) {
	query := `SELECT ` + selectLineColumns + `
		FROM deposits_transactions_books
		WHERE seller_id = $1`

	args := []any{filter.SellerID}
	argIdx := 2

	if filter.SellerDepositID != nil {
		query += fmt.Sprintf(" AND seller_deposit_id = $%d", argIdx)

		args = append(args, *filter.SellerDepositID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, string(*filter.Status))
		argIdx++
	}

	if filter.Since != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)

		args = append(args, *filter.Since)
		argIdx++
	}

	if filter.Until != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)

		args = append(args, *filter.Until)
	}

	query += " ORDER BY created_at ASC, book_id ASC"

	return queryLines(ctx, s.db, query, args...)
}

// ListOverdue is served by the partial deposits_transactions_books_unpaid_due_idx.
// The cutoff is a query argument, never a value frozen into the index.
func (s *Store) ListOverdue(ctx context.Context, sellerID int64, now time.Time) ([]*settlement.Line, error) {
	return queryLines(ctx, s.db, `
		SELECT `+selectLineColumns+`
		FROM deposits_transactions_books
		WHERE seller_id = $1 AND "paymentStatus" = 'pending' AND due_at < $2
		ORDER BY due_at ASC, created_at ASC
	`, sellerID, now)
}

type advanceQuery struct {
	table    string
	column   string
	where    string // uses $1..$len(args)
	args     []any
	next     string
	from     []string
	classify func(current string) settlement.Transition
}

// advance moves one row's state column forward. The UPDATE only matches rows in a
// predecessor state, so the row lock serialises racing writers. When nothing
// matched, the current state decides between no-op, not found and conflict.
func (s *Store) advance(ctx context.Context, q advanceQuery) (bool, error) {
	n := len(q.args)
	update := fmt.Sprintf(`UPDATE %s SET %s = $%d WHERE %s AND %s = ANY($%d)`,
		q.table, q.column, n+1, q.where, q.column, n+2)
	current := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, q.column, q.table, q.where)

	updateArgs := append(append([]any{}, q.args...), q.next, q.from)

	for range maxAdvanceAttempts {
		res, err := s.db.ExecContext(ctx, update, updateArgs...)
		if err != nil {
			return false, fmt.Errorf("updating %s.%s: %w", q.table, q.column, dberr.Classify(dberr.OpWrite, err))
		}

		changed, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("updating %s.%s: %w", q.table, q.column, err)
		}

		if changed == 1 {
			return true, nil
		}

		var cur string
		if err := s.db.QueryRowContext(ctx, current, q.args...).Scan(&cur); err != nil {
			return false, fmt.Errorf("reading %s.%s: %w", q.table, q.column, dberr.Classify(dberr.OpWrite, err))
		}

		switch q.classify(cur) {
		case settlement.TransitionNone, settlement.TransitionStale:
			return false, nil
		case settlement.TransitionInvalid:
			return false, fmt.Errorf("%w: %w: %s -> %s", dberr.ErrValidation, settlement.ErrInvalidTransition, cur, q.next)
		case settlement.TransitionForward:
			// Moved between the two statements; try again.
		}
	}

	return false, fmt.Errorf("updating %s.%s: gave up after %d attempts", q.table, q.column, maxAdvanceAttempts)
}

func (s *Store) requireTransaction(ctx context.Context, key settlement.TransactionKey) error {
	var one int

	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM deposits_transactions
		WHERE supplier_id = $1 AND seller_id = $2 AND created_at = $3
	`, key.SupplierID, key.SellerID, key.CreatedAt).Scan(&one)

	return dberr.Classify(dberr.OpWrite, err)
}

const lineWhere = `supplier_id = $1 AND seller_id = $2 AND created_at = $3
	AND book_id = $4 AND supplier_deposit_id = $5 AND seller_deposit_id = $6`

func lineArgs(k settlement.LineKey) []any {
	return []any{k.SupplierID, k.SellerID, k.CreatedAt, k.BookID, k.SupplierDepositID, k.SellerDepositID}
}

const selectLineColumns = `supplier_id, seller_id, created_at, book_id, supplier_deposit_id, seller_deposit_id,
	quantity, "paymentStatus", status, due_at`

func scanLine(sc scanner) (*settlement.Line, error) {
	var (
		l                     settlement.Line
		paymentStatus, status string
	)

	if err := sc.Scan(
		&l.Key.SupplierID, &l.Key.SellerID, &l.Key.CreatedAt, &l.Key.BookID,
		&l.Key.SupplierDepositID, &l.Key.SellerDepositID,
		&l.Quantity, &paymentStatus, &status, &l.DueAt,
	); err != nil {
		return nil, err
	}

	l.Key.CreatedAt = l.Key.CreatedAt.UTC()
	l.DueAt = l.DueAt.UTC()
	l.PaymentStatus = settlement.PaymentStatus(paymentStatus)
	l.Status = settlement.LineStatus(status)

	return &l, nil
}

func queryLines(ctx context.Context, q querier, query string, args ...any) ([]*settlement.Line, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing lines: %w", err)
	}
	defer rows.Close()

	var lines []*settlement.Line

	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}

		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lines: %w", err)
	}

	return lines, nil
}

func encodeTransfers(m map[int64]string) (string, error) {
	if m == nil {
		return "{}", nil
	}

	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding transfers: %w", err)
	}

	return string(b), nil
}

func decodeTransfers(raw []byte) (map[int64]string, error) {
	m := map[int64]string{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decoding transfers: %w", err)
	}

	return m, nil
}
