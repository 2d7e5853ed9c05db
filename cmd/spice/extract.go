package main

import (
	"fmt"
	"os"

	"spicetracker/lib/scrapers/mtgtop8"
	"spicetracker/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run an extractor over a saved page.",
}

func init() {
	extractCmd.AddCommand(extractDecksCmd)
	extractCmd.AddCommand(extractCardsCmd)
	rootCmd.AddCommand(extractCmd)
}

func readPage(path string) string {
	contents, err := os.ReadFile(path)
	if err != nil {
		serviceutil.Fatal("failed to read page", err)
	}
	return string(contents)
}

var extractDecksCmd = &cobra.Command{
	Use:   "decks <archetype page.html>",
	Short: "Print the decks of a saved archetype listing page.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		listing, err := mtgtop8.ExtractDecks(cmd.Context(), readPage(args[0]))
		if err != nil {
			serviceutil.Fatal("failed to extract decks", err)
		}

		t := newTable(os.Stdout)
		t.AppendHeader(table.Row{"Event", "Deck", "Name", "Player", "Event name", "Stars", "Date"})
		for _, d := range listing.Decks {
			t.AppendRow(table.Row{d.EventId, d.DeckId, d.Name, d.PlayerName, d.EventName, d.EventStrength, d.EventDate})
		}
		t.Render()

		for _, skipped := range listing.Skipped {
			fmt.Fprintln(os.Stderr, "skipped", skipped.Error())
		}
	},
}

var extractCardsCmd = &cobra.Command{
	Use:   "cards <event page.html>",
	Short: "Print the cards of a saved event deck page.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cards, err := mtgtop8.ExtractCards(cmd.Context(), readPage(args[0]))
		if err != nil {
			serviceutil.Fatal("failed to extract cards", err)
		}

		t := newTable(os.Stdout)
		t.AppendHeader(table.Row{"#", "Card"})
		for i, c := range cards {
			t.AppendRow(table.Row{i + 1, c})
		}
		t.Render()
	},
}
