package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"spicetracker/lib/spicestore"
	"spicetracker/lib/telemetry"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("spicetracker.lib.spicestore.redisstore")

const prefix = "spice"

func deckKey(deck spicestore.DeckSummary) string {
	return fmt.Sprintf("%s:deck:%s:%s", prefix, deck.SourceEventId, deck.SourceDeckId)
}

func cardKey(identityKey string) string {
	return fmt.Sprintf("%s:card:%s", prefix, identityKey)
}

func archetypeDecksKey(archetypeId int64) string {
	return fmt.Sprintf("%s:archetype:%d:decks", prefix, archetypeId)
}

func archetypeCardsKey(archetypeId int64) string {
	return fmt.Sprintf("%s:archetype:%d:cards", prefix, archetypeId)
}

type storedDeck struct {
	spicestore.DeckSummary
	CreatedAt int64 `json:"created_at"`
}

type storedCard struct {
	spicestore.CardEntry
	CreatedAt int64 `json:"created_at"`
}

// Store keeps every deck and card as a JSON value under its own key, a server
// side script gives insert-if-absent. Archetypes keep a set of the keys stored under them.
type Store struct {
	rdb *redis.Client
	now func() time.Time
}

func NewStore(rdb *redis.Client) Store {
	return Store{rdb: rdb, now: time.Now}
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

// Open connects and pings the server.
func Open(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	err := rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// setIfAbsentScript runs server side as one step. The value key is written last
// so a failure leaves nothing behind, the index only ever lists keys that
// are stored or about to be.
var setIfAbsentScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("SADD", KEYS[2], KEYS[1])
redis.call("SET", KEYS[1], ARGV[1])
return 1
`)

// setIfAbsent stores value at key and records key in index, neither is
// written when key already exists.
func (s Store) setIfAbsent(ctx context.Context, key, index string, value any) (bool, error) {
	buff, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	n, err := setIfAbsentScript.Run(ctx, s.rdb, []string{key, index}, buff).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s Store) UpsertDeckIfAbsent(ctx context.Context, deck spicestore.DeckSummary) (bool, error) {
	ctx, span := tracer.Start(ctx, "Store:UpsertDeckIfAbsent")
	defer span.End()
	span.SetAttributes(attribute.String("deck", deck.Key()))

	inserted, err := s.setIfAbsent(
		ctx,
		deckKey(deck),
		archetypeDecksKey(deck.ArchetypeId),
		storedDeck{DeckSummary: deck, CreatedAt: s.now().Unix()},
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert deck")
		return false, err
	}
	return inserted, nil
}

func (s Store) CardExists(ctx context.Context, identityKey string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Store:CardExists")
	defer span.End()

	n, err := s.rdb.Exists(ctx, cardKey(identityKey)).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query card")
		return false, err
	}
	return n > 0, nil
}

func (s Store) InsertCard(ctx context.Context, card spicestore.CardEntry) (bool, error) {
	ctx, span := tracer.Start(ctx, "Store:InsertCard")
	defer span.End()
	span.SetAttributes(attribute.String("identity_key", card.IdentityKey))

	inserted, err := s.setIfAbsent(
		ctx,
		cardKey(card.IdentityKey),
		archetypeCardsKey(card.ArchetypeId),
		storedCard{CardEntry: card, CreatedAt: s.now().Unix()},
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert card")
		return false, err
	}
	return inserted, nil
}

// Cards returns the cards stored under an archetype.
func (s Store) Cards(ctx context.Context, archetypeId int64) ([]spicestore.CardEntry, error) {
	keys, err := s.rdb.SMembers(ctx, archetypeCardsKey(archetypeId)).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	var cards []spicestore.CardEntry
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var card storedCard
		err = json.Unmarshal([]byte(str), &card)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card.CardEntry)
	}
	return cards, nil
}
