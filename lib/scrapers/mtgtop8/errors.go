package mtgtop8

import (
	"errors"
	"fmt"
)

var (
	// ErrStructureNotFound means the page does not have the layout the
	// extractor expects (ex. the listing table is missing).
	ErrStructureNotFound = errors.New("page structure not found")
	// ErrMalformedRow means a single listing row did not have the expected
	// cells or query parameters.
	ErrMalformedRow = errors.New("malformed row")
)

// FetchError is returned by Client.Fetch once retries are exhausted.
type FetchError struct {
	Resource Resource
	// 0 when no response was received
	Status   int
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d after %d attempt(s)", e.Resource, e.Status, e.Attempts)
	}
	return fmt.Sprintf("fetch %s: %v after %d attempt(s)", e.Resource, e.Err, e.Attempts)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RowError describes a listing row that was skipped.
type RowError struct {
	// index among the deck rows of the listing table
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

func (e RowError) Unwrap() error {
	return ErrMalformedRow
}
