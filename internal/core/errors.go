package core

// errors.go defines the pipeline's sentinel errors and maps failures to short
// codes that are logged next to the technical error.
//
//	SCH001 - Missing column: a required raw column is absent
//	SCH002 - Schema mismatch: entries disagree on their column set
//	VAL001 - Invalid number: a numeric cell is not a number
//	VAL002 - Ragged row: a row has a different field count than its header
//	FILE001 - Empty entry: a CSV entry has no header row
//	FILE002 - Not found: the input directory or an archive is missing
//	FILE003 - Bad archive: an input file is not a valid zip
//	RUN001 - Timeout: the run exceeded its deadline
//	ERR000 - Unknown error

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"io/fs"
)

// Errors returned by the pipeline. They are wrapped with the archive, entry
// and line they were found at; match them with errors.Is.
var (
	// ErrMissingColumn: a required raw column is absent from an entry header.
	ErrMissingColumn = errors.New("missing required column")

	// ErrSchemaMismatch: an entry's header names a different column set than
	// the first entry read.
	ErrSchemaMismatch = errors.New("column set differs from first entry")

	// ErrInvalidNumber: a numeric cell is neither empty nor a number.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrNoHeader: a CSV entry is empty.
	ErrNoHeader = errors.New("csv entry has no header row")
)

// UserMessage is an operator-facing description of a failure.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Reference code
}

// errorKind pairs a matcher with its message. The first match wins.
type errorKind struct {
	match func(error) bool
	msg   UserMessage
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

var errorKinds = []errorKind{
	{is(ErrMissingColumn), UserMessage{
		Message: "A required column is missing from an input file",
		Action:  "Check the header row of the reported entry",
		Code:    "SCH001",
	}},
	{is(ErrSchemaMismatch), UserMessage{
		Message: "Input files do not share the same columns",
		Action:  "Make every CSV entry carry the same header",
		Code:    "SCH002",
	}},
	{is(ErrInvalidNumber), UserMessage{
		Message: "A numeric column holds a non-numeric value",
		Action:  "Fix the reported line and column",
		Code:    "VAL001",
	}},
	{is(csv.ErrFieldCount), UserMessage{
		Message: "A row has the wrong number of fields",
		Action:  "Fix the reported line so it matches the header",
		Code:    "VAL002",
	}},
	{is(ErrNoHeader), UserMessage{
		Message: "An input CSV entry is empty",
		Action:  "Remove the empty entry from the archive",
		Code:    "FILE001",
	}},
	{is(fs.ErrNotExist), UserMessage{
		Message: "The input directory or an archive was not found",
		Action:  "Place the archives under files/input",
		Code:    "FILE002",
	}},
	{is(zip.ErrFormat), UserMessage{
		Message: "An input file is not a valid zip archive",
		Action:  "Replace or remove the corrupt archive",
		Code:    "FILE003",
	}},
	{is(context.DeadlineExceeded), UserMessage{
		Message: "The run timed out",
		Action:  "Check database availability and try again",
		Code:    "RUN001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log for the underlying error",
	Code:    "ERR000",
}

// MapError returns the UserMessage describing err.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	for _, k := range errorKinds {
		if k.match(err) {
			return k.msg
		}
	}
	return defaultMessage
}
