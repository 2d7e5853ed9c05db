package main

import (
	"os"

	"spicetracker/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cardsCmd)
}

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List the cards stored for every configured archetype.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		config, err := readConfig(configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		s, closeStore, err := openStore(ctx, config)
		if err != nil {
			serviceutil.Fatal("failed to open store", err)
		}
		defer closeStore()

		t := newTable(os.Stdout)
		t.AppendHeader(table.Row{"Archetype", "Card", "First seen in deck"})
		for _, a := range config.Archetypes {
			name := a.Name
			if name == "" {
				name = "-"
			}
			cards, err := s.ArchetypeCards(ctx, a.Id)
			if err != nil {
				serviceutil.Fatal("failed to list cards", err)
			}
			for _, c := range cards {
				t.AppendRow(table.Row{name, c.CardName, c.DeckId})
			}
		}
		t.Render()
	},
}
