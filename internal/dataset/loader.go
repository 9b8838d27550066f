package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nishad/biosubmit/internal/errors"
)

const maxLineSize = 4 * 1024 * 1024

// Load reads a tab-delimited table. Leading lines starting with '#' are
// template comments and are skipped; the first remaining line is the header.
// Header names are trimmed and a leading '*' (required-column marker in NCBI
// templates) is removed. Data rows are kept verbatim, blank ones included.
func Load(r io.Reader) (*Dataset, error) {
	const op errors.Op = "dataset.Load"

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var header []string
	var rows []string
	for scanner.Scan() {
		line := scanner.Text()
		if header == nil {
			line = strings.TrimPrefix(line, "\ufeff")
			if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
				continue
			}
			cols, err := parseHeader(line)
			if err != nil {
				return nil, errors.E(op, errors.KindParse, err)
			}
			header = cols
			continue
		}
		rows = append(rows, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(op, errors.KindIO, err, "failed to read table")
	}
	if header == nil {
		return nil, errors.E(op, errors.KindParse, "missing header row")
	}

	return New(header, rows), nil
}

// LoadFile reads a tab-delimited table from disk
func LoadFile(path string) (*Dataset, error) {
	const op errors.Op = "dataset.LoadFile"

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(op, errors.KindIO, err)
	}
	defer f.Close()

	ds, err := Load(f)
	if err != nil {
		return nil, errors.WrapMsg(op, path, err)
	}
	return ds, nil
}

func parseHeader(line string) ([]string, error) {
	cols := SplitRow(line)
	seen := make(map[string]int, len(cols))
	for i, c := range cols {
		name := strings.TrimPrefix(strings.TrimSpace(c), "*")
		cols[i] = name
		if name == "" {
			continue
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("duplicate column %q at positions %d and %d", name, prev, i)
		}
		seen[name] = i
	}
	return cols, nil
}
