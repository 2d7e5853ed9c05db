package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"spicetracker/lib/spicestore"
	"spicetracker/services/spice"

	"github.com/stretchr/testify/require"
)

func sampleResult() spice.Result {
	return spice.Result{
		RunID: "abc",
		Decks: []spice.DeckReport{
			{
				Deck:     spicestore.DeckSummary{Name: "Living End", PlayerName: "Kenji", EventName: "Challenge"},
				NewDeck:  true,
				NewCards: []string{"Street Wraith", "Force of Vigor"},
			},
			{
				Deck:     spicestore.DeckSummary{Name: "Amulet Titan"},
				NewCards: []string{"Urza's Saga"},
			},
		},
		Failures: []spice.Failure{
			{Stage: spice.StageFetchDeck, ArchetypeId: 985, EventId: "1", DeckId: "2", Err: errors.New("status 503")},
		},
	}
}

func TestSpiceText(t *testing.T) {
	require.Equal(
		t,
		"Amulet Titan: Urza's Saga\nLiving End: Street Wraith, Force of Vigor\n",
		spiceText(sampleResult()),
	)
	require.Empty(t, spiceText(spice.Result{}))
}

func TestTableNotifier(t *testing.T) {
	out := &bytes.Buffer{}
	err := tableNotifier{out: out}.Notify(context.Background(), sampleResult())
	require.NoError(t, err)

	text := out.String()
	require.Contains(t, text, "run abc: 2 decks (1 new), 3 new cards, 1 failures")
	require.Contains(t, text, "Force of Vigor")
	require.Contains(t, text, "Kenji")
	require.Contains(t, text, "status 503")
	require.Contains(t, text, "1/2")
}

func TestEmailNotifierSkipsEmptyRuns(t *testing.T) {
	// a zero Email would fail to send, nothing is sent without new cards
	err := emailNotifier{}.Notify(context.Background(), spice.Result{RunID: "abc"})
	require.NoError(t, err)
}
