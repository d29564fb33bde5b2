package model

import (
	"errors"
	"fmt"
)

// Build failures wrap one of these sentinels, so callers can match with
// errors.Is while the RecordError keeps the offending record.
var (
	ErrMalformedRecord = errors.New("malformed record")
	ErrDuplicateEntry  = errors.New("duplicate entry")
)

// RecordError reports a record rejected during tree construction
type RecordError struct {
	Record Record
	Reason string
	kind   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.kind, e.Record.Path, e.Reason)
}

func (e *RecordError) Unwrap() error { return e.kind }

func malformed(rec Record, reason string) error {
	return &RecordError{Record: rec, Reason: reason, kind: ErrMalformedRecord}
}

func duplicate(rec Record, reason string) error {
	return &RecordError{Record: rec, Reason: reason, kind: ErrDuplicateEntry}
}
