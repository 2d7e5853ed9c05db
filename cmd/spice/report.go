package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"spicetracker/lib/notify"
	"spicetracker/services/spice"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	if out != nil {
		t.SetOutputMirror(out)
	}
	return t
}

func spiceTable(result spice.Result) table.Writer {
	t := newTable(nil)
	t.SetTitle(fmt.Sprintf("New spice (%d cards)", result.NewCardCount()))
	t.AppendHeader(table.Row{"Deck", "Player", "Event", "Date", "Card"})
	for _, d := range result.Decks {
		for _, card := range d.NewCards {
			t.AppendRow(table.Row{
				d.Deck.Name,
				d.Deck.PlayerName,
				d.Deck.EventName,
				d.Deck.EventDate,
				card,
			})
		}
	}
	return t
}

func failureTable(result spice.Result) table.Writer {
	t := newTable(nil)
	t.SetTitle(fmt.Sprintf("Failures (%d)", len(result.Failures)))
	t.AppendHeader(table.Row{"Stage", "Archetype", "Deck", "Card", "Error"})
	for _, f := range result.Failures {
		deck := ""
		if f.EventId != "" || f.DeckId != "" {
			deck = fmt.Sprintf("%s/%s", f.EventId, f.DeckId)
		}
		t.AppendRow(table.Row{f.Stage, f.ArchetypeId, deck, f.Card, f.Err.Error()})
	}
	return t
}

// spiceText lists new cards per deck name, deck names sorted.
func spiceText(result spice.Result) string {
	found := result.Spice()
	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)

	sb := strings.Builder{}
	for _, name := range names {
		fmt.Fprintf(&sb, "%s: %s\n", name, strings.Join(found[name], ", "))
	}
	return sb.String()
}

type tableNotifier struct {
	out io.Writer
}

func (n tableNotifier) Notify(_ context.Context, result spice.Result) error {
	summary := fmt.Sprintf(
		"run %s: %d decks (%d new), %d new cards, %d failures",
		result.RunID,
		len(result.Decks),
		result.NewDeckCount(),
		result.NewCardCount(),
		len(result.Failures),
	)
	if result.Cancelled {
		summary += ", cancelled"
	}
	_, err := fmt.Fprintln(n.out, summary)
	if err != nil {
		return err
	}

	if result.NewCardCount() > 0 {
		_, err = fmt.Fprintln(n.out, spiceTable(result).Render())
		if err != nil {
			return err
		}
	}
	if len(result.Failures) > 0 {
		_, err = fmt.Fprintln(n.out, failureTable(result).Render())
		if err != nil {
			return err
		}
	}
	return nil
}

type emailNotifier struct {
	email notify.Email
}

// Notify mails the report when the run found new cards.
func (n emailNotifier) Notify(ctx context.Context, result spice.Result) error {
	if result.NewCardCount() == 0 {
		return nil
	}

	text := spiceText(result)
	if len(result.Failures) > 0 {
		text += fmt.Sprintf("\n%d item(s) failed, see the logs of run %s.\n", len(result.Failures), result.RunID)
	}
	return n.email.Send(ctx, notify.Message{
		Subject: fmt.Sprintf("%d new spice card(s)", result.NewCardCount()),
		Text:    text,
		Html:    spiceTable(result).RenderHTML(),
	})
}

func notifiers(config Config) ([]spice.Notifier, error) {
	out := []spice.Notifier{tableNotifier{out: os.Stdout}}
	if config.Email.Enabled() {
		email, err := notify.NewEmail(config.Email)
		if err != nil {
			return nil, err
		}
		out = append(out, emailNotifier{email: email})
	}
	return out, nil
}
