package core

// convert.go holds the cell-level rules of the pipeline: decoding raw CSV text
// into nullable pgtype values, the per-column cleaning rules, and formatting
// of typed values back into CSV text.
//
// Missing values are pgtype values with Valid=false. They are written as
// empty CSV cells and as NULL by the database sink.

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// ContactYear is the year stamped on every last_contact_date.
const ContactYear = "2022"

// monthNumbers maps lowercase English month abbreviations to two-digit numbers.
var monthNumbers = map[string]string{
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"may": "05", "jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty.
func ToPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgInt8 parses a base-10 integer cell.
// An empty cell is missing, not an error.
func ToPgInt8(s string) (pgtype.Int8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Int8{Valid: false}, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return pgtype.Int8{Valid: false}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return pgtype.Int8{Int64: n, Valid: true}, nil
}

// ToPgFloat8 parses a decimal cell. Empty cells and NaN are missing.
func ToPgFloat8(s string) (pgtype.Float8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Float8{Valid: false}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return pgtype.Float8{Valid: false}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	if math.IsNaN(f) {
		return pgtype.Float8{Valid: false}, nil
	}
	return pgtype.Float8{Float64: f, Valid: true}, nil
}

// CleanJob removes every "." and replaces every "-" with "_".
func CleanJob(s string) string {
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, "-", "_")
}

// CleanEducation replaces every "." with "_". The value "unknown" and empty
// cells become missing.
func CleanEducation(s string) pgtype.Text {
	s = strings.ReplaceAll(s, ".", "_")
	if s == "unknown" {
		return pgtype.Text{Valid: false}
	}
	return ToPgText(s)
}

// Flag returns 1 when s is exactly want, otherwise 0. The match is
// case-sensitive and missing values count as 0.
func Flag(s, want string) int {
	if s == want {
		return 1
	}
	return 0
}

// LastContactDate builds "2022-MM-DD" from a month abbreviation and a day.
// The day is zero-padded to two characters and otherwise left as is.
// An unrecognized month or an empty day yields a missing value.
func LastContactDate(day, month string) pgtype.Text {
	mm, ok := monthNumbers[month]
	if !ok || day == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: ContactYear + "-" + mm + "-" + zeroPad(day, 2), Valid: true}
}

// zeroPad left-pads s with zeros to width. Longer values are not truncated.
func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// FormatInt writes an integer in base 10.
func FormatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

// FormatInt8 writes a nullable integer; missing is "".
func FormatInt8(n pgtype.Int8) string {
	if !n.Valid {
		return ""
	}
	return FormatInt(n.Int64)
}

// FormatText writes a nullable string; missing is "".
func FormatText(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// FormatFloat8 writes a nullable float in shortest round-trip form.
// Integral values keep a ".0" suffix and very small or very large magnitudes
// use exponent notation, so 1 is "1.0" and 0.00001 is "1e-05".
func FormatFloat8(f pgtype.Float8) string {
	if !f.Valid {
		return ""
	}
	v := f.Float64
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
