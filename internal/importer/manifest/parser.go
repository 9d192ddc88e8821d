package manifest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/wom/internal/dberr"
	"github.com/MrJamesThe3rd/wom/internal/deposit"
	enc "github.com/MrJamesThe3rd/wom/internal/encoding"
	"github.com/MrJamesThe3rd/wom/internal/validation"
)

var (
	ErrUnknownFormat = errors.New("no matching manifest format")
	ErrInvalidRow    = errors.New("invalid manifest row")
)

// separators are tried in order; the first one yielding a known header wins.
var separators = []rune{';', ','}

// Parser reads deposit manifests exported by suppliers and distributors. The
// format is detected by matching a header row against known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the manifest rows in file order. Every invalid data row is
// reported in the returned error with its 1-based row number.
func (p *Parser) Parse(r io.Reader) ([]deposit.ManifestRow, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	for _, sep := range separators {
		rows, err := readCSV(data, sep)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		slog.Debug("detected manifest format",
			"profile", profile.Name,
			"separator", string(sep),
			"charset", charset,
		)

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, fmt.Errorf("%w: expected columns for %s", ErrUnknownFormat, strings.Join(Profiles(), ", "))
}

func readCSV(data []byte, sep rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps folded column names to their index in the row.
type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := headerKey(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[headerKey(name)]; !ok {
			return false
		}
	}

	return true
}

// parseRows converts data rows. headerRowNum is the 0-based index of the header.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]deposit.ManifestRow, error) {
	isbnIdx := cols[headerKey(p.ISBNCol)]
	qtyIdx := cols[headerKey(p.QuantityCol)]

	descIdx, hasDesc := cols[headerKey(p.DescCol)]
	if !hasDesc {
		descIdx = -1
	}

	var (
		out  []deposit.ManifestRow
		errs []error
	)

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		isbn := normalizeISBN(cellValue(row, isbnIdx))
		if !strings.ContainsAny(isbn, "0123456789") {
			// blank cells and "Total" footers
			continue
		}

		mr, err := parseRow(isbn, cellValue(row, qtyIdx), cellValue(row, descIdx))
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w: %w", rowNum, ErrInvalidRow, err))
			continue
		}

		out = append(out, mr)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return out, nil
}

func parseRow(isbn, qty, desc string) (deposit.ManifestRow, error) {
	n, err := strconv.Atoi(qty)
	if err != nil {
		return deposit.ManifestRow{}, fmt.Errorf("%w: quantity %q is not a whole number", dberr.ErrValidation, qty)
	}

	mr := deposit.ManifestRow{ISBN: isbn, Quantity: n}
	if desc != "" {
		mr.Description = &desc
	}

	if err := validation.Struct(mr); err != nil {
		return deposit.ManifestRow{}, err
	}

	return mr, nil
}

// normalizeISBN strips hyphens, spaces and the ="..." wrapper spreadsheets use
// to keep leading zeros.
func normalizeISBN(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	}

	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}

		return r
	}, s)
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
