package spice

import (
	"context"

	"spicetracker/lib/scrapers/mtgtop8"
	"spicetracker/lib/spicestore"
)

// Fetcher returns the raw html of a page.
type Fetcher interface {
	Fetch(ctx context.Context, resource mtgtop8.Resource) (string, error)
}

// Gateway is where decks and cards are persisted. Implementations must
// enforce uniqueness of the deck key and the card identity key themselves,
// an insert that loses to a concurrent insert of the same key reports
// inserted=false and no error.
type Gateway interface {
	UpsertDeckIfAbsent(ctx context.Context, deck spicestore.DeckSummary) (inserted bool, err error)
	CardExists(ctx context.Context, identityKey string) (bool, error)
	InsertCard(ctx context.Context, card spicestore.CardEntry) (inserted bool, err error)
}

// Notifier receives the result of a run.
type Notifier interface {
	Notify(ctx context.Context, result Result) error
}

var (
	_ Fetcher = (*mtgtop8.Client)(nil)
	_ Gateway = spicestore.Store{}
)
