package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/wom/internal/deposit"
	"github.com/MrJamesThe3rd/wom/internal/importer/manifest"
)

// Depositor is the part of deposit.Service the importer writes through.
type Depositor interface {
	ImportManifest(ctx context.Context, supplierID int64, name string, rows []deposit.ManifestRow) ([]*deposit.Book, error)
}

type Service struct {
	deposits Depositor
	parsers  map[Format]Importer
}

func NewService(deposits Depositor) *Service {
	return &Service{
		deposits: deposits,
		parsers: map[Format]Importer{
			FormatCSV: manifest.NewParser(),
		},
	}
}

func (s *Service) Parse(format Format, r io.Reader) ([]deposit.ManifestRow, error) {
	p, ok := s.parsers[format]
	if !ok {
		return nil, fmt.Errorf("unknown manifest format: %s", format)
	}

	return p.Parse(r)
}

// Import parses a manifest and adds its books to the supplier deposit. Nothing is
// written when any row is invalid.
func (s *Service) Import(ctx context.Context, format Format, supplierID int64, depositName string, r io.Reader) ([]*deposit.Book, error) {
	rows, err := s.Parse(format, r)
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	books, err := s.deposits.ImportManifest(ctx, supplierID, depositName, rows)
	if err != nil {
		return nil, err
	}

	slog.Info("imported manifest",
		"supplier_id", supplierID,
		"deposit", depositName,
		"rows", len(rows),
		"books", len(books),
	)

	return books, nil
}
