package db

import "database/sql"

type Deck struct {
	EventID       string
	DeckID        string
	ArchetypeID   int64
	MetaID        int64
	Name          string
	PlayerName    string
	EventName     string
	EventStrength int64
	EventDate     string
	CreatedAt     int64
}

type Card struct {
	SpecialID     string
	ArchetypeID   int64
	DeckID        string
	CardName      string
	TcgplayerID   sql.NullString
	ScryfallID    sql.NullString
	CardkingdomID sql.NullString
	CreatedAt     int64
}
