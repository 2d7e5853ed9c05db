package mtgtop8

import (
	"context"
	"fmt"
	"strings"

	"spicetracker/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// column positions inside a listing row
const (
	colDeck     = 1
	colPlayer   = 2
	colEvent    = 3
	colStrength = 4
	colDate     = 6
	minColumns  = colDate + 1
)

const (
	listingTableSelector = `table.Stable[align="center"][width="99%"]`
	deckRowSelector      = "tr.hover_tr"
)

// DeckRow is one deck of an archetype listing page.
type DeckRow struct {
	EventId    string
	DeckId     string
	Name       string
	PlayerName string
	EventName  string
	// number of star glyphs shown next to the event, the page has no
	// textual form of this value
	EventStrength int
	// as displayed, ex. "14/03/24"
	EventDate string
}

// Listing is the result of extracting an archetype listing page.
type Listing struct {
	Decks []DeckRow
	// rows that looked like decks but could not be read
	Skipped []RowError
}

// ExtractDecks reads the deck rows of an archetype listing page in page order.
//
// A page without the listing table fails with ErrStructureNotFound. A listing
// table without any deck rows is an archetype with no decks and yields an
// empty Listing. Rows whose deck link does not point to an event are not
// decks (ex. pagination) and are ignored, rows that do but are otherwise
// unreadable are reported in Listing.Skipped.
func ExtractDecks(ctx context.Context, page string) (Listing, error) {
	_, span := tracer.Start(ctx, "ExtractDecks")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return Listing{}, err
	}

	table := doc.Find(listingTableSelector).First()
	if table.Length() == 0 {
		span.SetStatus(codes.Error, "listing table not found")
		return Listing{}, fmt.Errorf("%w: no listing table", ErrStructureNotFound)
	}

	var listing Listing
	table.Find(deckRowSelector).Each(func(i int, row *goquery.Selection) {
		deck, isDeck, err := extractDeckRow(i, row)
		if err != nil {
			listing.Skipped = append(listing.Skipped, *err)
			return
		}
		if isDeck {
			listing.Decks = append(listing.Decks, deck)
		}
	})

	span.SetAttributes(
		attribute.Int("decks", len(listing.Decks)),
		attribute.Int("skipped", len(listing.Skipped)),
	)
	return listing, nil
}

func extractDeckRow(i int, row *goquery.Selection) (DeckRow, bool, *RowError) {
	columns := row.ChildrenFiltered("td")
	// no deck cell, no event link: not a deck (ex. a full-width pager)
	if columns.Length() <= colDeck {
		return DeckRow{}, false, nil
	}

	anchor, ok := htmlutil.FirstAnchor(columns.Eq(colDeck))
	if !ok || !strings.Contains(anchor.Href, "event?") {
		return DeckRow{}, false, nil
	}

	query, err := anchor.Query()
	if err != nil {
		return DeckRow{}, false, &RowError{Row: i, Reason: fmt.Sprintf("unparsable deck link %q: %v", anchor.Href, err)}
	}
	eventId := query.Get("e")
	deckId := query.Get("d")
	if eventId == "" || deckId == "" {
		return DeckRow{}, false, &RowError{Row: i, Reason: fmt.Sprintf("deck link %q is missing e or d", anchor.Href)}
	}

	if columns.Length() < minColumns {
		return DeckRow{}, false, &RowError{Row: i, Reason: fmt.Sprintf("expected at least %d cells, got %d", minColumns, columns.Length())}
	}

	return DeckRow{
		EventId:       eventId,
		DeckId:        deckId,
		Name:          anchor.Name,
		PlayerName:    htmlutil.CleanText(columns.Eq(colPlayer).Text()),
		EventName:     htmlutil.CleanText(columns.Eq(colEvent).Text()),
		EventStrength: columns.Eq(colStrength).Find("img").Length(),
		EventDate:     htmlutil.CleanText(columns.Eq(colDate).Text()),
	}, true, nil
}
