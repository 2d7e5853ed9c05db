package configlibsql

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	devenv "spicetracker/dev/env"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Struct configures either a local sqlite file or a remote libsql database,
// `url` takes precedence over `file`.
type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

// OpenDB opens the database and applies `schema` to it. The schema must be
// idempotent (create ... if not exists).
func (config Struct) OpenDB(schema string) (*sql.DB, error) {
	db, err := config.open()
	if err != nil {
		return nil, err
	}
	if schema == "" {
		return db, nil
	}
	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

func (config Struct) open() (*sql.DB, error) {
	if config.Url != "" {
		values := url.Values{}
		if config.AuthToken != "" {
			values.Add("authToken", config.AuthToken)
		}
		link := config.Url
		if len(values) > 0 {
			link += "?" + values.Encode()
		}
		return sql.Open("libsql", link)
	}

	if config.File == "" {
		return nil, fmt.Errorf("neither a database url or file was specified")
	}
	dbpath, err := devenv.ResolvePath(config.File)
	if err != nil {
		return nil, err
	}
	err = os.MkdirAll(filepath.Dir(dbpath), 0777)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
