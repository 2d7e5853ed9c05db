package spicestore

import (
	"context"
	"database/sql"
	"time"

	"spicetracker/lib/spicestore/db"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Store persists decks and cards to a sqlite or libsql database that has
// db.Schema applied. Every method is a single statement so each write is
// all-or-nothing.
type Store struct {
	db  *sql.DB
	qry *db.Queries
	now func() time.Time
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
		now: time.Now,
	}
}

// UpsertDeckIfAbsent inserts the deck unless a deck with the same key is
// already stored, in which case the stored row is left as is.
func (s Store) UpsertDeckIfAbsent(ctx context.Context, deck DeckSummary) (bool, error) {
	ctx, span := tracer.Start(ctx, "Store:UpsertDeckIfAbsent")
	defer span.End()
	span.SetAttributes(attribute.String("deck", deck.Key()))

	n, err := s.qry.InsertDeckIfAbsent(ctx, db.Deck{
		EventID:       deck.SourceEventId,
		DeckID:        deck.SourceDeckId,
		ArchetypeID:   deck.ArchetypeId,
		MetaID:        deck.MetaId,
		Name:          deck.Name,
		PlayerName:    deck.PlayerName,
		EventName:     deck.EventName,
		EventStrength: int64(deck.EventStrength),
		EventDate:     deck.EventDate,
		CreatedAt:     s.now().Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert deck")
		return false, err
	}
	return n > 0, nil
}

func (s Store) CardExists(ctx context.Context, identityKey string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Store:CardExists")
	defer span.End()

	exists, err := s.qry.CardExists(ctx, identityKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query card")
		return false, err
	}
	return exists, nil
}

// InsertCard inserts the card, a card whose identity key is already stored
// is reported as not inserted.
func (s Store) InsertCard(ctx context.Context, card CardEntry) (bool, error) {
	ctx, span := tracer.Start(ctx, "Store:InsertCard")
	defer span.End()
	span.SetAttributes(attribute.String("identity_key", card.IdentityKey))

	n, err := s.qry.InsertCardIfAbsent(ctx, db.Card{
		SpecialID:     card.IdentityKey,
		ArchetypeID:   card.ArchetypeId,
		DeckID:        card.DeckId,
		CardName:      card.CardName,
		TcgplayerID:   db.NullString(card.TcgplayerId),
		ScryfallID:    db.NullString(card.ScryfallId),
		CardkingdomID: db.NullString(card.CardkingdomId),
		CreatedAt:     s.now().Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert card")
		return false, err
	}
	return n > 0, nil
}

// Decks returns every stored deck ordered by archetype then key.
func (s Store) Decks(ctx context.Context) ([]DeckSummary, error) {
	rows, err := s.qry.ListDecks(ctx)
	if err != nil {
		return nil, err
	}
	decks := make([]DeckSummary, len(rows))
	for i, r := range rows {
		decks[i] = DeckSummary{
			SourceEventId: r.EventID,
			SourceDeckId:  r.DeckID,
			ArchetypeId:   r.ArchetypeID,
			MetaId:        r.MetaID,
			Name:          r.Name,
			PlayerName:    r.PlayerName,
			EventName:     r.EventName,
			EventStrength: int(r.EventStrength),
			EventDate:     r.EventDate,
		}
	}
	return decks, nil
}

// Cards returns every stored card ordered by archetype then identity key.
func (s Store) Cards(ctx context.Context) ([]CardEntry, error) {
	rows, err := s.qry.ListCards(ctx)
	if err != nil {
		return nil, err
	}
	return cardEntries(rows), nil
}

// ArchetypeCards returns the cards stored under an archetype ordered by
// identity key.
func (s Store) ArchetypeCards(ctx context.Context, archetypeId int64) ([]CardEntry, error) {
	rows, err := s.qry.ListCardsByArchetype(ctx, archetypeId)
	if err != nil {
		return nil, err
	}
	return cardEntries(rows), nil
}

func cardEntries(rows []db.Card) []CardEntry {
	cards := make([]CardEntry, len(rows))
	for i, r := range rows {
		cards[i] = CardEntry{
			IdentityKey:   r.SpecialID,
			ArchetypeId:   r.ArchetypeID,
			DeckId:        r.DeckID,
			CardName:      r.CardName,
			TcgplayerId:   r.TcgplayerID.String,
			ScryfallId:    r.ScryfallID.String,
			CardkingdomId: r.CardkingdomID.String,
		}
	}
	return cards
}
