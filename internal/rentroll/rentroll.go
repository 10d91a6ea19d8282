// Package rentroll decodes rent roll CSV files into payment records.
package rentroll

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/propshield/credit-iapp/internal/model"
)

// Canonical column names.
const (
	ColMonthlyRent   = "Monthly_Rent"
	ColPaymentStatus = "Payment_Status"
)

// Fallback column names, tried when the canonical column is absent.
var columnAliases = map[string][]string{
	ColMonthlyRent:   {"Rent"},
	ColPaymentStatus: {"Status"},
}

// Header holds the resolved indexes of the required columns.
type Header struct {
	Rent   int
	Status int
}

// ResolveHeader locates the required columns in a header row. Names are
// matched exactly after trimming whitespace; when a name repeats, the last
// column with that name is used.
func ResolveHeader(header []string) (Header, error) {
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}

	var missing []string
	lookup := func(col string) int {
		if i, ok := colIdx[col]; ok {
			return i
		}
		for _, alias := range columnAliases[col] {
			if i, ok := colIdx[alias]; ok {
				return i
			}
		}
		missing = append(missing, col)
		return -1
	}

	h := Header{
		Rent:   lookup(ColMonthlyRent),
		Status: lookup(ColPaymentStatus),
	}
	if len(missing) > 0 {
		return Header{}, eris.Wrapf(model.ErrMalformedInput, "rentroll: missing required column(s) %s", strings.Join(missing, ", "))
	}
	return h, nil
}

// Read decodes a rent roll. The first row must be the header; a leading UTF-8
// byte order mark is dropped. Blank lines are skipped and extra columns are
// ignored. Any field that is not valid UTF-8 fails the whole read.
func Read(r io.Reader) ([]model.PaymentRecord, error) {
	// Nop keeps invalid bytes intact so they are reported instead of replaced.
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.Wrap(model.ErrMalformedInput, "rentroll: file has no header row")
	}
	if err != nil {
		return nil, eris.Wrapf(model.ErrMalformedInput, "rentroll: read header: %v", err)
	}
	if col, ok := invalidUTF8(header); ok {
		return nil, eris.Wrapf(model.ErrMalformedInput, "rentroll: header column %d is not valid UTF-8", col+1)
	}

	h, err := ResolveHeader(header)
	if err != nil {
		return nil, err
	}
	need := max(h.Rent, h.Status)

	var records []model.PaymentRecord
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(model.ErrMalformedInput, "rentroll: row %d: %v", row, err)
		}
		if col, ok := invalidUTF8(fields); ok {
			return nil, eris.Wrapf(model.ErrMalformedInput, "rentroll: row %d: column %d is not valid UTF-8", row, col+1)
		}
		if len(fields) <= need {
			return nil, eris.Wrapf(model.ErrMalformedInput, "rentroll: row %d: expected at least %d fields, got %d", row, need+1, len(fields))
		}
		records = append(records, model.PaymentRecord{
			Row:           row,
			MonthlyRent:   fields[h.Rent],
			PaymentStatus: fields[h.Status],
		})
	}

	return records, nil
}

// invalidUTF8 returns the index of the first field holding invalid UTF-8.
func invalidUTF8(fields []string) (int, bool) {
	for i, f := range fields {
		if !utf8.ValidString(f) {
			return i, true
		}
	}
	return 0, false
}

// ReadFile opens path on fs and decodes it. A path that cannot be opened or
// that names a directory yields ErrInputNotFound.
func ReadFile(fs afero.Fs, path string) ([]model.PaymentRecord, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, eris.Wrapf(model.ErrInputNotFound, "rentroll: file not found at %s: %v", path, err)
	}
	if info.IsDir() {
		return nil, eris.Wrapf(model.ErrInputNotFound, "rentroll: %s is a directory", path)
	}

	f, err := fs.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, eris.Wrapf(model.ErrInputNotFound, "rentroll: open %s: %v", path, err)
	}
	defer f.Close() //nolint:errcheck

	records, err := Read(f)
	if err != nil {
		return nil, eris.Wrapf(err, "rentroll: %s", path)
	}
	return records, nil
}
