package mtgtop8

import (
	"context"
	"strings"

	"spicetracker/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// the site marks every card line of a deck with this class, main deck and
// sideboard alike
const cardNameSelector = "span.L14"

// ExtractCards returns the card names of an event deck page in page order.
// A card appears once per copy, names are kept as rendered. Blank spans are
// dropped.
func ExtractCards(ctx context.Context, page string) ([]string, error) {
	_, span := tracer.Start(ctx, "ExtractCards")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	var cards []string
	doc.Find(cardNameSelector).Each(func(_ int, s *goquery.Selection) {
		name := s.Text()
		if textutil.IsBlank(name) {
			return
		}
		cards = append(cards, name)
	})

	span.SetAttributes(attribute.Int("cards", len(cards)))
	return cards, nil
}
