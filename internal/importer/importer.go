package importer

import (
	"io"

	"github.com/MrJamesThe3rd/wom/internal/deposit"
)

type Format string

const (
	FormatCSV Format = "csv"
)

type Importer interface {
	Parse(r io.Reader) ([]deposit.ManifestRow, error)
}
