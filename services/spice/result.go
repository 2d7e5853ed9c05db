package spice

import (
	"fmt"

	"spicetracker/lib/spicestore"
)

// DeckReport is a deck processed during a run and the cards it was the
// first to contribute.
type DeckReport struct {
	Deck     spicestore.DeckSummary
	NewDeck  bool
	NewCards []string
}

func (d DeckReport) String() string {
	return fmt.Sprintf("%s (%s)", d.Deck.Name, DeckKey(d.Deck))
}

type Result struct {
	RunID string
	// in archetype order, then listing order
	Decks    []DeckReport
	Failures []Failure
	// set when the run was stopped before every archetype and deck was
	// started
	Cancelled bool
	// archetypes whose listing could not be fetched or read
	FailedArchetypes int
	Archetypes       int
}

// Spice maps deck names to the cards newly stored for them. Decks sharing a
// name are merged in run order, decks without new cards are left out.
func (r Result) Spice() map[string][]string {
	out := make(map[string][]string)
	for _, d := range r.Decks {
		if len(d.NewCards) == 0 {
			continue
		}
		out[d.Deck.Name] = append(out[d.Deck.Name], d.NewCards...)
	}
	return out
}

func (r Result) NewCardCount() int {
	count := 0
	for _, d := range r.Decks {
		count += len(d.NewCards)
	}
	return count
}

func (r Result) NewDeckCount() int {
	count := 0
	for _, d := range r.Decks {
		if d.NewDeck {
			count++
		}
	}
	return count
}

func (r Result) FailuresByStage() map[Stage][]Failure {
	out := make(map[Stage][]Failure)
	for _, f := range r.Failures {
		out[f.Stage] = append(out[f.Stage], f)
	}
	return out
}

// AllFailed is true when there was something to ingest and no archetype
// listing could be read.
func (r Result) AllFailed() bool {
	return r.Archetypes > 0 && r.FailedArchetypes == r.Archetypes
}
