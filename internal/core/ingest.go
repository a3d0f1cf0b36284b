package core

// ingest.go reads raw records out of zip archives without extracting them.
//
// Archives are visited in lexical order of their file names and CSV entries in
// the order the archive lists them, so the concatenated row order (and with it
// every synthesized client_id) is stable across runs.

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/JonMunkholm/campaigns/internal/logging"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	// ArchiveExt is the extension of input archives.
	ArchiveExt = ".zip"

	// EntryExt is the suffix of archive entries decoded as CSV.
	EntryExt = ".csv"
)

// HeaderIndex maps exact column names to their position in a CSV row.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Names are matched exactly; the raw schema is case-sensitive.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		idx[h] = i
	}
	return idx
}

// Schema is the validated header of one CSV entry.
type Schema struct {
	Columns []string
	index   HeaderIndex
}

// NewSchema validates a header row against RequiredColumns.
func NewSchema(header []string) (*Schema, error) {
	idx := MakeHeaderIndex(header)
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, col)
		}
	}
	return &Schema{Columns: slices.Clone(header), index: idx}, nil
}

// HasClientID reports whether the source carries its own client_id column.
func (s *Schema) HasClientID() bool {
	_, ok := s.index[ColClientID]
	return ok
}

// SameColumns reports whether both schemas name the same column set.
// Column order may differ; cells are looked up by name.
func (s *Schema) SameColumns(other *Schema) bool {
	a := slices.Sorted(maps.Keys(s.index))
	b := slices.Sorted(maps.Keys(other.index))
	return slices.Equal(a, b)
}

// Decode converts one CSV row into a RawRecord.
func (s *Schema) Decode(row []string) (RawRecord, error) {
	d := rowDecoder{row: row, idx: s.index}

	rec := RawRecord{
		Age:                      d.int8(ColAge),
		Job:                      d.text(ColJob),
		Marital:                  d.text(ColMarital),
		Education:                d.text(ColEducation),
		CreditDefault:            d.text(ColCreditDefault),
		Mortgage:                 d.text(ColMortgage),
		NumberContacts:           d.int8(ColNumberContacts),
		ContactDuration:          d.int8(ColContactDuration),
		PreviousCampaignContacts: d.int8(ColPreviousCampaignContacts),
		PreviousOutcome:          d.text(ColPreviousOutcome),
		CampaignOutcome:          d.text(ColCampaignOutcome),
		Day:                      d.text(ColDay),
		Month:                    d.text(ColMonth),
		ConsPriceIdx:             d.float8(ColConsPriceIdx),
		EuriborThreeMonths:       d.float8(ColEuriborThreeMonths),
	}

	if s.HasClientID() {
		rec.ClientID = d.int8(ColClientID)
		if d.err == nil && !rec.ClientID.Valid {
			d.err = fmt.Errorf("column %q: %w: empty", ColClientID, ErrInvalidNumber)
		}
	}

	if d.err != nil {
		return RawRecord{}, d.err
	}
	return rec, nil
}

// rowDecoder reads typed cells from a row and keeps the first error.
type rowDecoder struct {
	row []string
	idx HeaderIndex
	err error
}

func (d *rowDecoder) text(col string) string {
	pos := d.idx[col]
	if pos >= len(d.row) {
		return ""
	}
	return d.row[pos]
}

func (d *rowDecoder) int8(col string) pgtype.Int8 {
	if d.err != nil {
		return pgtype.Int8{}
	}
	v, err := ToPgInt8(d.text(col))
	if err != nil {
		d.err = fmt.Errorf("column %q: %w", col, err)
	}
	return v
}

func (d *rowDecoder) float8(col string) pgtype.Float8 {
	if d.err != nil {
		return pgtype.Float8{}
	}
	v, err := ToPgFloat8(d.text(col))
	if err != nil {
		d.err = fmt.Errorf("column %q: %w", col, err)
	}
	return v
}

// FindArchives lists the archives directly inside dir, sorted by name.
func FindArchives(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ArchiveExt {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// IngestStats counts what a Source has read so far.
type IngestStats struct {
	Archives int
	Entries  int
	Rows     int
}

// Source produces the raw records of every archive in a directory.
type Source struct {
	dir    string
	schema *Schema
	stats  IngestStats
}

// NewSource creates a Source over the archives in dir.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Schema returns the schema of the first entry read, or nil before any entry
// has been read.
func (s *Source) Schema() *Schema {
	return s.schema
}

// Stats returns the counts accumulated by Records.
func (s *Source) Stats() IngestStats {
	return s.stats
}

// Records returns a lazy sequence of raw records across all archives.
// The sequence stops at the first error, which is yielded with a zero record.
func (s *Source) Records(ctx context.Context) iter.Seq2[RawRecord, error] {
	return func(yield func(RawRecord, error) bool) {
		paths, err := FindArchives(s.dir)
		if err != nil {
			yield(RawRecord{}, err)
			return
		}

		logging.FromContext(ctx).Debug("archives discovered", "dir", s.dir, "count", len(paths))

		for _, path := range paths {
			if !s.readArchive(ctx, path, yield) {
				return
			}
		}
	}
}

func (s *Source) readArchive(ctx context.Context, path string, yield func(RawRecord, error) bool) bool {
	archive := filepath.Base(path)

	zr, err := zip.OpenReader(path)
	if err != nil {
		yield(RawRecord{}, fmt.Errorf("opening archive %s: %w", archive, err))
		return false
	}
	defer zr.Close()

	s.stats.Archives++

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, EntryExt) {
			continue
		}
		if !s.readEntry(ctx, archive, f, yield) {
			return false
		}
	}
	return true
}

func (s *Source) readEntry(ctx context.Context, archive string, f *zip.File, yield func(RawRecord, error) bool) bool {
	where := archive + ":" + f.Name

	fail := func(err error) bool {
		yield(RawRecord{}, fmt.Errorf("%s: %w", where, err))
		return false
	}

	rc, err := f.Open()
	if err != nil {
		return fail(fmt.Errorf("opening entry: %w", err))
	}
	defer rc.Close()

	r := csv.NewReader(NewBOMSkippingReader(rc))

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return fail(ErrNoHeader)
	}
	if err != nil {
		return fail(fmt.Errorf("reading header: %w", err))
	}

	schema, err := NewSchema(header)
	if err != nil {
		return fail(err)
	}
	if s.schema == nil {
		s.schema = schema
	} else if !s.schema.SameColumns(schema) {
		return fail(fmt.Errorf("%w: got %v, want %v", ErrSchemaMismatch, schema.Columns, s.schema.Columns))
	}

	s.stats.Entries++
	rows := 0

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(fmt.Errorf("reading csv: %w", err))
		}

		rec, err := schema.Decode(row)
		if err != nil {
			line, _ := r.FieldPos(0)
			return fail(fmt.Errorf("line %d: %w", line, err))
		}

		rows++
		s.stats.Rows++
		if !yield(rec, nil) {
			return false
		}
	}

	logging.FromContext(ctx).Debug("entry decoded", "archive", archive, "entry", f.Name, "rows", rows)
	return true
}

// Collect materializes every record of src. When the source has no
// client_id column, ids are synthesized as the zero-based row position.
func Collect(ctx context.Context, src *Source) ([]RawRecord, error) {
	var records []RawRecord
	for rec, err := range src.Records(ctx) {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if schema := src.Schema(); schema == nil || !schema.HasClientID() {
		for i := range records {
			records[i].ClientID = pgtype.Int8{Int64: int64(i), Valid: true}
		}
	}

	return records, nil
}
