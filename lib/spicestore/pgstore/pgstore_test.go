package pgstore

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
	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		Started: true,
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "spice",
				"POSTGRES_PASSWORD": "spice",
				"POSTGRES_DB":       "spice",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	host, err := postgres.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatal(err)
	}

	pool, err := Open(ctx, fmt.Sprintf("postgres://spice:spice@%s:%s/spice?sslmode=disable", host, port.Port()), 4)
	if err != nil {
		t.Fatal(err)
	}

	return NewStore(pool), func() {
		pool.Close()
		err := postgres.Terminate(context.Background())
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
		EventStrength: 3,
	}
	inserted, err := store.UpsertDeckIfAbsent(ctx, deck)
	require.NoError(t, err)
	require.True(t, inserted)
	inserted, err = store.UpsertDeckIfAbsent(ctx, deck)
	require.NoError(t, err)
	require.False(t, inserted)

	card := spicestore.CardEntry{
		IdentityKey: "a_985_lightningbolt",
		ArchetypeId: 985,
		DeckId:      "592372",
		CardName:    "Lightning Bolt",
	}
	exists, err := store.CardExists(ctx, card.IdentityKey)
	require.NoError(t, err)
	require.False(t, exists)

	inserted, err = store.InsertCard(ctx, card)
	require.NoError(t, err)
	require.True(t, inserted)
	inserted, err = store.InsertCard(ctx, card)
	require.NoError(t, err)
	require.False(t, inserted)

	exists, err = store.CardExists(ctx, card.IdentityKey)
	require.NoError(t, err)
	require.True(t, exists)

	cards, err := store.Cards(ctx, 985)
	require.NoError(t, err)
	require.Equal(t, []spicestore.CardEntry{card}, cards)
}
