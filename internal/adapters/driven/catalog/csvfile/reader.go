// Package csvfile reads product catalogs from delimited text files.
//
// Files are UTF-8; a leading byte order mark is ignored. The first record is
// the header. Records may have fewer fields than the header.
package csvfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/custodia-labs/intentmatch/internal/core/domain"
	"github.com/custodia-labs/intentmatch/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.CatalogReader = (*Reader)(nil)

// DefaultDelimiter separates fields unless configured otherwise.
const DefaultDelimiter = ','

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader reads catalog tables from CSV files.
type Reader struct {
	delimiter rune
}

// NewReader creates a reader using delimiter. An empty or multi-character
// delimiter falls back to a comma; "\t" selects tab-separated files.
func NewReader(delimiter string) *Reader {
	d := DefaultDelimiter
	switch {
	case delimiter == `\t`:
		d = '\t'
	case utf8.RuneCountInString(delimiter) == 1:
		r, _ := utf8.DecodeRuneInString(delimiter)
		d = r
	}
	return &Reader{delimiter: d}
}

// Read loads the table at path.
func (r *Reader) Read(ctx context.Context, path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrData, err)
	}
	defer f.Close()

	return r.ReadFrom(ctx, f)
}

// ReadFrom loads a table from an arbitrary reader.
func (r *Reader) ReadFrom(ctx context.Context, src io.Reader) (*domain.Table, error) {
	br := bufio.NewReader(src)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = r.delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty catalog", domain.ErrData)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", domain.ErrData, err)
	}

	table := &domain.Table{Columns: header}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrData, err)
		}
		if isBlank(record) {
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if f != "" {
			return false
		}
	}
	return true
}
