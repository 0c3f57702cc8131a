package symbol

import "errors"

var (
	// ErrNotFound is returned by Get when no registered ticker matches.
	ErrNotFound = errors.New("ticker not found")
	// ErrAmbiguousTicker is returned by Get when a ticker matches more than
	// one distinct identity, e.g. two custom data types on the same root.
	ErrAmbiguousTicker = errors.New("ambiguous ticker")
)
