package spice

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"spicetracker/lib/scrapers/mtgtop8"
)

type listedDeck struct {
	eventId string
	deckId  string
	name    string
	player  string
}

func listingPage(decks ...listedDeck) string {
	sb := strings.Builder{}
	sb.WriteString(`<html><body><table class="Stable" width="99%" align="center">`)
	sb.WriteString(`<tr><td colspan="7">Decks</td></tr>`)
	for _, d := range decks {
		href := fmt.Sprintf("event?e=%s&f=MO", d.eventId)
		if d.deckId != "" {
			href = fmt.Sprintf("event?e=%s&d=%s&f=MO", d.eventId, d.deckId)
		}
		fmt.Fprintf(
			&sb,
			`<tr class="hover_tr"><td></td><td><a href="%s">%s</a></td><td>%s</td><td>Challenge</td><td><img src="star.png"></td><td>5-0</td><td>14/03/24</td></tr>`,
			href, d.name, d.player,
		)
	}
	sb.WriteString(`</table></body></html>`)
	return sb.String()
}

func deckPage(cards ...string) string {
	sb := strings.Builder{}
	sb.WriteString(`<html><body><div class="deck_column">`)
	for _, c := range cards {
		fmt.Fprintf(&sb, `<div class="deck_line hover_tr">1 <span class="L14">%s</span></div>`, c)
	}
	sb.WriteString(`</div></body></html>`)
	return sb.String()
}

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[mtgtop8.Resource]string
	errs  map[mtgtop8.Resource]error
	calls int
	// called before every fetch when set
	before func(ctx context.Context, resource mtgtop8.Resource)
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[mtgtop8.Resource]string),
		errs:  make(map[mtgtop8.Resource]error),
	}
}

func (f *fakeFetcher) listing(archetypeId int64, decks ...listedDeck) {
	f.pages[mtgtop8.ArchetypeResource(archetypeId, 0)] = listingPage(decks...)
}

func (f *fakeFetcher) deck(eventId, deckId string, cards ...string) {
	f.pages[mtgtop8.EventDeckResource(eventId, deckId)] = deckPage(cards...)
}

func (f *fakeFetcher) Fetch(ctx context.Context, resource mtgtop8.Resource) (string, error) {
	if f.before != nil {
		f.before(ctx, resource)
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[resource]; ok {
		return "", err
	}
	page, ok := f.pages[resource]
	if !ok {
		return "", &mtgtop8.FetchError{Resource: resource, Status: 404, Attempts: 1}
	}
	return page, nil
}
