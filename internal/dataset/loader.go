// Package dataset loads transaction stores from delimited files.
//
// Each row's first field is a transaction identifier and is discarded; the
// remaining fields form the transaction's item set. Rows are not validated
// further: a row with a single field becomes the empty transaction.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/blackwell-systems/basketmine/internal/itemset"
)

// FileAccessError reports a transaction file that could not be opened.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot open transaction file %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

type readOptions struct {
	comma rune
}

// Option configures Read and Load.
type Option func(*readOptions)

// WithComma sets the field delimiter. The default is ','.
func WithComma(r rune) Option {
	return func(o *readOptions) {
		o.comma = r
	}
}

// Load reads the transaction file at path.
func Load(path string, opts ...Option) ([]itemset.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	txs, err := Read(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return txs, nil
}

// Read parses transactions from r in row order.
func Read(r io.Reader, opts ...Option) ([]itemset.Transaction, error) {
	o := readOptions{comma: ','}
	for _, opt := range opts {
		opt(&o)
	}

	cr := csv.NewReader(r)
	cr.Comma = o.comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var txs []itemset.Transaction
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(txs)+1, err)
		}

		if len(row) <= 1 {
			txs = append(txs, itemset.New())
			continue
		}
		txs = append(txs, itemset.New(row[1:]...))
	}

	return txs, nil
}
