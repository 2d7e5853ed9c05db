package spicestore

import "fmt"

// DeckSummary is a deck of an archetype listing. (SourceEventId,
// SourceDeckId) is its natural key, the other fields are what was shown the
// first time the deck was seen.
type DeckSummary struct {
	SourceEventId string
	SourceDeckId  string
	ArchetypeId   int64
	// 0 when the deck was not listed under a metagame
	MetaId        int64
	Name          string
	PlayerName    string
	EventName     string
	EventStrength int
	EventDate     string
}

func (d DeckSummary) Key() string {
	return fmt.Sprintf("%s/%s", d.SourceEventId, d.SourceDeckId)
}

// CardEntry is a card seen in a deck. IdentityKey is unique across the
// store, it is derived from the archetype and the card name only, so the
// first deck to contribute a card under an archetype owns the entry.
type CardEntry struct {
	IdentityKey string
	ArchetypeId int64
	// the SourceDeckId of the deck the card was first seen in
	DeckId   string
	CardName string

	// cross references to external card catalogs, optional
	TcgplayerId   string
	ScryfallId    string
	CardkingdomId string
}
