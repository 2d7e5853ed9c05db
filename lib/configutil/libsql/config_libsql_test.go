package configlibsql

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenDBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "spice.db")
	schema := `create table if not exists t (id integer primary key);`

	db, err := Struct{File: path}.OpenDB(schema)
	require.NoError(t, err)
	_, err = db.Exec("insert into t (id) values (1)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// reopening applies the schema again without failing
	db, err = Struct{File: path}.OpenDB(schema)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("select count(*) from t").Scan(&count))
	require.Equal(t, 1, count)
}

func TestOpenDBMissingTarget(t *testing.T) {
	_, err := Struct{}.OpenDB("")
	require.Error(t, err)
}
