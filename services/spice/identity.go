package spice

import (
	"fmt"

	"spicetracker/lib/spicestore"
	"spicetracker/lib/textutil"
)

// CardKey is the identity of a card under an archetype. Card names are
// compared case-insensitively with all whitespace removed, the deck the card
// came from plays no part in it.
func CardKey(archetypeId int64, cardName string) string {
	return fmt.Sprintf("a_%d_%s", archetypeId, textutil.NormalizeName(cardName))
}

func DeckKey(deck spicestore.DeckSummary) string {
	return deck.Key()
}
