package pgstore

import (
	"context"
	_ "embed"
	"fmt"

	"spicetracker/lib/spicestore"
	"spicetracker/lib/telemetry"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/codes"
)

//go:embed schema.sql
var Schema string

var tracer = telemetry.Tracer("spicetracker.lib.spicestore.pgstore")

// Store persists decks and cards to postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) Store {
	return Store{pool: pool}
}

// Open connects to `dsn` and applies Schema.
func Open(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}
	_, err = pool.Exec(ctx, Schema)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return pool, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s Store) UpsertDeckIfAbsent(ctx context.Context, deck spicestore.DeckSummary) (bool, error) {
	ctx, span := tracer.Start(ctx, "Store:UpsertDeckIfAbsent")
	defer span.End()

	tag, err := s.pool.Exec(ctx, `
		insert into decks (
			event_id, deck_id, archetype_id, meta_id, name, player_name,
			event_name, event_strength, event_date
		) values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		on conflict (event_id, deck_id) do nothing`,
		deck.SourceEventId,
		deck.SourceDeckId,
		deck.ArchetypeId,
		deck.MetaId,
		deck.Name,
		deck.PlayerName,
		deck.EventName,
		deck.EventStrength,
		deck.EventDate,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert deck")
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s Store) CardExists(ctx context.Context, identityKey string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Store:CardExists")
	defer span.End()

	var exists bool
	err := s.pool.QueryRow(ctx,
		`select exists(select 1 from cards where special_id = $1)`,
		identityKey,
	).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query card")
		return false, err
	}
	return exists, nil
}

func (s Store) InsertCard(ctx context.Context, card spicestore.CardEntry) (bool, error) {
	ctx, span := tracer.Start(ctx, "Store:InsertCard")
	defer span.End()

	tag, err := s.pool.Exec(ctx, `
		insert into cards (
			special_id, archetype_id, deck_id, card_name,
			tcgplayer_id, scryfall_id, cardkingdom_id
		) values ($1, $2, $3, $4, $5, $6, $7)
		on conflict (special_id) do nothing`,
		card.IdentityKey,
		card.ArchetypeId,
		card.DeckId,
		card.CardName,
		nullable(card.TcgplayerId),
		nullable(card.ScryfallId),
		nullable(card.CardkingdomId),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert card")
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Cards returns the cards stored under an archetype ordered by identity key.
func (s Store) Cards(ctx context.Context, archetypeId int64) ([]spicestore.CardEntry, error) {
	rows, err := s.pool.Query(ctx, `
		select
			special_id, archetype_id, deck_id, card_name,
			coalesce(tcgplayer_id, ''), coalesce(scryfall_id, ''), coalesce(cardkingdom_id, '')
		from cards
		where archetype_id = $1
		order by special_id`,
		archetypeId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []spicestore.CardEntry
	for rows.Next() {
		var c spicestore.CardEntry
		err = rows.Scan(
			&c.IdentityKey,
			&c.ArchetypeId,
			&c.DeckId,
			&c.CardName,
			&c.TcgplayerId,
			&c.ScryfallId,
			&c.CardkingdomId,
		)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
