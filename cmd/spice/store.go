package main

import (
	"context"
	"fmt"
	"log/slog"

	configlibsql "spicetracker/lib/configutil/libsql"
	"spicetracker/lib/spicestore"
	spicedb "spicetracker/lib/spicestore/db"
	"spicetracker/lib/spicestore/pgstore"
	"spicetracker/lib/spicestore/redisstore"
	"spicetracker/services/spice"
)

// store is a spice.Gateway that can also list what it holds.
type store interface {
	spice.Gateway
	ArchetypeCards(ctx context.Context, archetypeId int64) ([]spicestore.CardEntry, error)
}

type redisStore struct {
	redisstore.Store
}

func (s redisStore) ArchetypeCards(ctx context.Context, archetypeId int64) ([]spicestore.CardEntry, error) {
	return s.Cards(ctx, archetypeId)
}

type pgStore struct {
	pgstore.Store
}

func (s pgStore) ArchetypeCards(ctx context.Context, archetypeId int64) ([]spicestore.CardEntry, error) {
	return s.Cards(ctx, archetypeId)
}

func openStore(ctx context.Context, config Config) (store, func(), error) {
	slog.DebugContext(ctx, "opening store", "driver", config.Store.Driver)

	switch config.Store.Driver {
	case "sqlite", "libsql":
		dbconfig := configlibsql.Struct{File: config.Store.File}
		if config.Store.Driver == "libsql" {
			dbconfig = configlibsql.Struct{Url: config.Store.Url, AuthToken: config.Store.AuthToken}
		}
		db, err := dbconfig.OpenDB(spicedb.Schema)
		if err != nil {
			return nil, nil, err
		}
		return spicestore.NewStore(db), func() { db.Close() }, nil
	case "postgres":
		pool, err := pgstore.Open(ctx, config.Store.Url, int32(config.Concurrency*2))
		if err != nil {
			return nil, nil, err
		}
		return pgStore{pgstore.NewStore(pool)}, pool.Close, nil
	case "redis":
		rdb, err := redisstore.Open(ctx, redisstore.Options{
			Addr:     config.Store.Addr,
			Password: config.Store.Password,
			DB:       config.Store.Db,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisStore{redisstore.NewStore(rdb)}, func() { rdb.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", config.Store.Driver)
}
