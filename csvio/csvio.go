// Package csvio turns CSV documents into the raw maps the mapper
// consumes, one map per record keyed by the header row.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Options tune how cells become map values.
type Options struct {
	// EmptyAsMissing drops empty cells entirely, so required-field
	// semantics treat them as absent instead of present-but-null.
	EmptyAsMissing bool

	// Comma overrides the field separator; zero keeps ','.
	Comma rune
}

// Decode reads a CSV document whose first record is the header row and
// returns one source map per remaining record. Every cell stays a
// string; type coercion is the mapper's job. Empty cells become nil
// values unless EmptyAsMissing is set.
func Decode(r io.Reader, opts Options) ([]map[string]any, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv document has no header row")
	}

	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}

	var out []map[string]any

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}

		row := make(map[string]any, len(header))

		for i, key := range header {
			if i >= len(record) {
				break
			}

			cell := record[i]
			if cell == "" {
				if opts.EmptyAsMissing {
					continue
				}

				row[key] = nil

				continue
			}

			row[key] = cell
		}

		out = append(out, row)
	}

	return out, nil
}

// DecodeFile is Decode over a file path.
func DecodeFile(path string, opts Options) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f, opts)
}
