package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/wom/internal/database"
	"github.com/MrJamesThe3rd/wom/internal/dberr"
	"github.com/MrJamesThe3rd/wom/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=settlement
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, key TransactionKey) (*Transaction, error)
	UpdateStatus(ctx context.Context, key TransactionKey, status Status) (bool, error)
	SetTransfer(ctx context.Context, key TransactionKey, sellerID int64, transferID string) error

	UpdateLineStatus(ctx context.Context, key LineKey, status LineStatus) (bool, error)
	UpdateLinePayment(ctx context.Context, key LineKey, status PaymentStatus) (bool, error)
	MarkTransactionPaid(ctx context.Context, key TransactionKey) (int64, error)

	ListSellerLines(ctx context.Context, filter LineFilter) ([]*Line, error)
	ListOverdue(ctx context.Context, sellerID int64, now time.Time) ([]*Line, error)
}

// Deduper remembers processor event ids so redelivered events skip the database.
type Deduper interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

const DefaultPaymentTerms = 30 * 24 * time.Hour

type Service struct {
	repo         Repository
	dedup        Deduper
	paymentTerms time.Duration
	now          func() time.Time
}

type Option func(*Service)

// WithDeduper enables event de-duplication in ApplyEvent.
func WithDeduper(d Deduper) Option {
	return func(s *Service) { s.dedup = d }
}

// WithPaymentTerms sets how long after creation a line item falls due.
func WithPaymentTerms(d time.Duration) Option {
	return func(s *Service) { s.paymentTerms = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		paymentTerms: DefaultPaymentTerms,
		now:          database.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type LineParams struct {
	BookID            int64  `validate:"gt=0"`
	SupplierDepositID string `validate:"max=50"`
	SellerDepositID   string `validate:"required,max=255"`
	Quantity          int    `validate:"gt=0,max=2147483647"`
	DueAt             *time.Time
}

type RecordParams struct {
	SupplierID      int64            `validate:"gt=0"`
	SellerID        int64            `validate:"gt=0"`
	PaymentIntentID string           `validate:"required,max=255"`
	Transfers       map[int64]string `validate:"omitempty,dive,keys,gt=0,endkeys,required,max=255"`
	Status          Status
	Lines           []LineParams `validate:"required,min=1,dive"`
}

// Record stores a transaction and all of its line items as one atomic write.
// The creation time is assigned here and becomes part of the returned key.
func (s *Service) Record(ctx context.Context, params RecordParams) (*Transaction, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	if params.Status == "" {
		params.Status = StatusPending
	}

	if !params.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", dberr.ErrValidation, params.Status)
	}

	key := TransactionKey{
		SupplierID: params.SupplierID,
		SellerID:   params.SellerID,
		CreatedAt:  s.now(),
	}

	transfers := params.Transfers
	if transfers == nil {
		transfers = map[int64]string{}
	}

	tx := &Transaction{
		Key:             key,
		PaymentIntentID: params.PaymentIntentID,
		Transfers:       transfers,
		Status:          params.Status,
		Lines:           make([]*Line, 0, len(params.Lines)),
	}

	seen := make(map[LineKey]struct{}, len(params.Lines))

	for _, lp := range params.Lines {
		lk := LineKey{
			TransactionKey:    key,
			BookID:            lp.BookID,
			SupplierDepositID: lp.SupplierDepositID,
			SellerDepositID:   lp.SellerDepositID,
		}

		if _, dup := seen[lk]; dup {
			return nil, fmt.Errorf("%w: %w: book %d from %q to %q",
				dberr.ErrValidation, ErrDuplicateLine, lp.BookID, lp.SupplierDepositID, lp.SellerDepositID)
		}

		seen[lk] = struct{}{}

		due := key.CreatedAt.Add(s.paymentTerms)
		if lp.DueAt != nil {
			due = lp.DueAt.UTC().Truncate(time.Microsecond)
		}

		tx.Lines = append(tx.Lines, &Line{
			Key:           lk,
			Quantity:      lp.Quantity,
			PaymentStatus: PaymentPending,
			Status:        LineTransit,
			DueAt:         due,
		})
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, key TransactionKey) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, key)
}

// AdvanceStatus moves the transaction forward. It reports false without error when
// the transaction already is in, or past, the requested status.
func (s *Service) AdvanceStatus(ctx context.Context, key TransactionKey, status Status) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: unknown status %q", dberr.ErrValidation, status)
	}

	return s.repo.UpdateStatus(ctx, key, status)
}

// SetTransfer records the processor transfer paid to a seller. Repeating the same
// pair is a no-op; a different transfer for the same seller is rejected.
func (s *Service) SetTransfer(ctx context.Context, key TransactionKey, sellerID int64, transferID string) error {
	if sellerID <= 0 || transferID == "" {
		return fmt.Errorf("%w: seller id and transfer id are required", dberr.ErrValidation)
	}

	return s.repo.SetTransfer(ctx, key, sellerID, transferID)
}

func (s *Service) AdvanceLine(ctx context.Context, key LineKey, status LineStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: unknown line status %q", dberr.ErrValidation, status)
	}

	return s.repo.UpdateLineStatus(ctx, key, status)
}

func (s *Service) MarkLinePaid(ctx context.Context, key LineKey) (bool, error) {
	return s.repo.UpdateLinePayment(ctx, key, PaymentPaid)
}

// MarkTransactionPaid flags every pending line of the transaction as paid and
// returns how many changed.
func (s *Service) MarkTransactionPaid(ctx context.Context, key TransactionKey) (int64, error) {
	return s.repo.MarkTransactionPaid(ctx, key)
}

func (s *Service) ListSellerLines(ctx context.Context, filter LineFilter) ([]*Line, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown line status %q", dberr.ErrValidation, *filter.Status)
	}

	return s.repo.ListSellerLines(ctx, filter)
}

// ListOverdue returns the seller's unpaid line items whose due date has passed.
func (s *Service) ListOverdue(ctx context.Context, sellerID int64) ([]*Line, error) {
	return s.repo.ListOverdue(ctx, sellerID, s.now())
}

// ApplyEvent applies a processor event at most once per event id when a Deduper is
// configured. Without one, the status transition is still idempotent.
func (s *Service) ApplyEvent(ctx context.Context, ev Event) (bool, error) {
	if ev.ID == "" {
		return false, fmt.Errorf("%w: event id is required", dberr.ErrValidation)
	}

	claimed := false

	if s.dedup != nil {
		ok, err := s.dedup.Claim(ctx, ev.ID)
		if err != nil {
			slog.Warn("event de-duplication unavailable", "event_id", ev.ID, "error", err)
		} else if !ok {
			slog.Info("skipping duplicate event", "event_id", ev.ID)
			return false, nil
		} else {
			claimed = true
		}
	}

	applied, err := s.AdvanceStatus(ctx, ev.Key, ev.Status)
	if err != nil {
		if claimed {
			if relErr := s.dedup.Release(ctx, ev.ID); relErr != nil {
				slog.Error("failed to release event", "event_id", ev.ID, "error", relErr)
			}
		}

		return false, fmt.Errorf("applying event %s: %w", ev.ID, err)
	}

	slog.Info("applied payment event",
		"event_id", ev.ID,
		"supplier_id", ev.Key.SupplierID,
		"seller_id", ev.Key.SellerID,
		"status", ev.Status,
		"changed", applied,
	)

	return applied, nil
}
