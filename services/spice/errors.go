package spice

import (
	"fmt"
	"strings"
)

type Stage string

const (
	StageFetchListing   Stage = "fetch-listing"
	StageExtractListing Stage = "extract-listing"
	StageMalformedRow   Stage = "malformed-row"
	StagePersistDeck    Stage = "persist-deck"
	StageFetchDeck      Stage = "fetch-deck"
	StageExtractCards   Stage = "extract-cards"
	StagePersistCard    Stage = "persist-card"
)

// PersistenceError is a gateway call that failed, as opposed to one that
// found the record already stored.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Failure is an item of a run that could not be processed, the run carries
// on without it.
type Failure struct {
	Stage       Stage
	ArchetypeId int64
	EventId     string
	DeckId      string
	Card        string
	Err         error
}

func (f Failure) Error() string {
	parts := []string{fmt.Sprintf("archetype=%d", f.ArchetypeId)}
	if f.EventId != "" || f.DeckId != "" {
		parts = append(parts, fmt.Sprintf("deck=%s/%s", f.EventId, f.DeckId))
	}
	if f.Card != "" {
		parts = append(parts, fmt.Sprintf("card=%q", f.Card))
	}
	return fmt.Sprintf("%s (%s): %v", f.Stage, strings.Join(parts, " "), f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}
