package db

import (
	"context"
	"database/sql"
)

const insertDeckIfAbsent = `
insert into decks (
    event_id, deck_id, archetype_id, meta_id, name, player_name,
    event_name, event_strength, event_date, created_at
) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
on conflict (event_id, deck_id) do nothing
`

// InsertDeckIfAbsent returns the number of inserted rows, 0 when the deck
// is already known.
func (q *Queries) InsertDeckIfAbsent(ctx context.Context, arg Deck) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertDeckIfAbsent,
		arg.EventID,
		arg.DeckID,
		arg.ArchetypeID,
		arg.MetaID,
		arg.Name,
		arg.PlayerName,
		arg.EventName,
		arg.EventStrength,
		arg.EventDate,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const cardExists = `
select exists(select 1 from cards where special_id = ?)
`

func (q *Queries) CardExists(ctx context.Context, specialID string) (bool, error) {
	row := q.db.QueryRowContext(ctx, cardExists, specialID)
	var exists int64
	err := row.Scan(&exists)
	return exists != 0, err
}

const insertCardIfAbsent = `
insert into cards (
    special_id, archetype_id, deck_id, card_name,
    tcgplayer_id, scryfall_id, cardkingdom_id, created_at
) values (?, ?, ?, ?, ?, ?, ?, ?)
on conflict (special_id) do nothing
`

func (q *Queries) InsertCardIfAbsent(ctx context.Context, arg Card) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertCardIfAbsent,
		arg.SpecialID,
		arg.ArchetypeID,
		arg.DeckID,
		arg.CardName,
		arg.TcgplayerID,
		arg.ScryfallID,
		arg.CardkingdomID,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listDecks = `
select
    event_id, deck_id, archetype_id, meta_id, name, player_name,
    event_name, event_strength, event_date, created_at
from decks
order by archetype_id, event_id, deck_id
`

func (q *Queries) ListDecks(ctx context.Context) ([]Deck, error) {
	rows, err := q.db.QueryContext(ctx, listDecks)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Deck
	for rows.Next() {
		var i Deck
		if err := rows.Scan(
			&i.EventID,
			&i.DeckID,
			&i.ArchetypeID,
			&i.MetaID,
			&i.Name,
			&i.PlayerName,
			&i.EventName,
			&i.EventStrength,
			&i.EventDate,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listCards = `
select
    special_id, archetype_id, deck_id, card_name,
    tcgplayer_id, scryfall_id, cardkingdom_id, created_at
from cards
order by archetype_id, special_id
`

func (q *Queries) ListCards(ctx context.Context) ([]Card, error) {
	rows, err := q.db.QueryContext(ctx, listCards)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Card
	for rows.Next() {
		var i Card
		if err := rows.Scan(
			&i.SpecialID,
			&i.ArchetypeID,
			&i.DeckID,
			&i.CardName,
			&i.TcgplayerID,
			&i.ScryfallID,
			&i.CardkingdomID,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listCardsByArchetype = `
select
    special_id, archetype_id, deck_id, card_name,
    tcgplayer_id, scryfall_id, cardkingdom_id, created_at
from cards
where archetype_id = ?
order by special_id
`

func (q *Queries) ListCardsByArchetype(ctx context.Context, archetypeID int64) ([]Card, error) {
	rows, err := q.db.QueryContext(ctx, listCardsByArchetype, archetypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Card
	for rows.Next() {
		var i Card
		if err := rows.Scan(
			&i.SpecialID,
			&i.ArchetypeID,
			&i.DeckID,
			&i.CardName,
			&i.TcgplayerID,
			&i.ScryfallID,
			&i.CardkingdomID,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// NullString maps "" to NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
