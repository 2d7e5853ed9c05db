package spice

import (
	"errors"
	"testing"

	"spicetracker/lib/spicestore"

	"github.com/stretchr/testify/require"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Archetypes: 2,
		Decks: []DeckReport{
			{Deck: spicestore.DeckSummary{Name: "Living End"}, NewDeck: true, NewCards: []string{"Street Wraith"}},
			{Deck: spicestore.DeckSummary{Name: "Rakdos Scam"}},
			{Deck: spicestore.DeckSummary{Name: "Living End"}, NewCards: []string{"Force of Vigor"}},
		},
		Failures: []Failure{
			{Stage: StageFetchDeck, ArchetypeId: 985, EventId: "1", DeckId: "2", Err: errors.New("boom")},
			{Stage: StageFetchDeck, ArchetypeId: 918, Err: errors.New("boom")},
			{Stage: StageMalformedRow, ArchetypeId: 985, Err: errors.New("bad row")},
		},
		FailedArchetypes: 1,
	}

	require.Equal(t, map[string][]string{"Living End": {"Street Wraith", "Force of Vigor"}}, result.Spice())
	require.Equal(t, 2, result.NewCardCount())
	require.Equal(t, 1, result.NewDeckCount())
	require.Len(t, result.FailuresByStage()[StageFetchDeck], 2)
	require.False(t, result.AllFailed())
	require.Equal(t, "fetch-deck (archetype=985 deck=1/2): boom", result.Failures[0].Error())
}
