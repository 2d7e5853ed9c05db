package devenv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	plain, err := ResolvePath("results.db")
	require.NoError(t, err)
	require.Equal(t, "results.db", plain)

	root, err := GetWorkspaceRoot()
	require.NoError(t, err)

	resolved, err := ResolvePath("<dev_state>/spice.db")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "dev", ".state", "spice.db"), resolved)
}
