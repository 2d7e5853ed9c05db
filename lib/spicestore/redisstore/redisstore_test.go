package redisstore

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"spicetracker/lib/spicestore"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setup(t *testing.T) (Store, func()) {
	if testing.Short() {
		t.Skip("needs docker")
	}

	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatal(err)
	}

	rdb, err := Open(ctx, Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	if err != nil {
		t.Fatal(err)
	}

	return NewStore(rdb), func() {
		rdb.Close()
		err := container.Terminate(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestStore(t *testing.T) {
	store, cleanup := setup(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	deck := spicestore.DeckSummary{
		SourceEventId: "52837",
		SourceDeckId:  "592372",
		ArchetypeId:   985,
		Name:          "Living End",
	}
	inserted, err := store.UpsertDeckIfAbsent(ctx, deck)
	require.NoError(t, err)
	require.True(t, inserted)

	deck.Name = "Renamed"
	inserted, err = store.UpsertDeckIfAbsent(ctx, deck)
	require.NoError(t, err)
	require.False(t, inserted)

	card := spicestore.CardEntry{
		IdentityKey: "a_985_streetwraith",
		ArchetypeId: 985,
		DeckId:      "592372",
		CardName:    "Street Wraith",
	}
	exists, err := store.CardExists(ctx, card.IdentityKey)
	require.NoError(t, err)
	require.False(t, exists)

	inserted, err = store.InsertCard(ctx, card)
	require.NoError(t, err)
	require.True(t, inserted)

	other := card
	other.DeckId = "600001"
	inserted, err = store.InsertCard(ctx, other)
	require.NoError(t, err)
	require.False(t, inserted)

	cards, err := store.Cards(ctx, 985)
	require.NoError(t, err)
	require.Equal(t, []spicestore.CardEntry{card}, cards)
}

func TestFailedIndexWriteLeavesNoCard(t *testing.T) {
	store, cleanup := setup(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	// the index key holding a string makes SADD fail with WRONGTYPE
	index := archetypeCardsKey(918)
	require.NoError(t, store.rdb.Set(ctx, index, "not a set", 0).Err())

	card := spicestore.CardEntry{
		IdentityKey: "a_918_thoughtseize",
		ArchetypeId: 918,
		DeckId:      "7",
		CardName:    "Thoughtseize",
	}
	inserted, err := store.InsertCard(ctx, card)
	require.Error(t, err)
	require.False(t, inserted)

	exists, err := store.CardExists(ctx, card.IdentityKey)
	require.NoError(t, err)
	require.False(t, exists)

	// once the index is usable the card is new
	require.NoError(t, store.rdb.Del(ctx, index).Err())
	inserted, err = store.InsertCard(ctx, card)
	require.NoError(t, err)
	require.True(t, inserted)

	cards, err := store.Cards(ctx, 918)
	require.NoError(t, err)
	require.Equal(t, []spicestore.CardEntry{card}, cards)
}
