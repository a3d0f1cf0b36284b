package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/campaigns/internal/logging"
)

// WriteDataset writes every table of ds as a CSV file into dir, creating the
// directory if needed. Existing files are overwritten. Returns the written
// paths in table order.
func WriteDataset(ctx context.Context, dir string, ds *Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tables := ds.Tables()
	paths := make([]string, 0, len(tables))

	for _, t := range tables {
		path := filepath.Join(dir, t.Info().FileName)
		if err := WriteTable(path, t); err != nil {
			return nil, err
		}
		logging.FromContext(ctx).Debug("table written", "table", t.Info().Key, "path", path, "rows", t.Len())
		paths = append(paths, path)
	}

	return paths, nil
}

// WriteTable writes t to path: header row, comma separated, no index column.
func WriteTable(path string, t Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(t.Info().Columns); err != nil {
		return fmt.Errorf("writing header of %s: %w", path, err)
	}
	for i := 0; i < t.Len(); i++ {
		if err := w.Write(t.Cells(i)); err != nil {
			return fmt.Errorf("writing row %d of %s: %w", i, path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}
