package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{name: "Thoughtseize", expected: "thoughtseize"},
		{name: "Lightning Bolt", expected: "lightningbolt"},
		{name: "  Fire //\tIce \n", expected: "fire//ice"},
		{name: "", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeName(test.name))
	}
}

func TestIsBlank(t *testing.T) {
	require.True(t, IsBlank(" \n\t"))
	require.False(t, IsBlank(" a "))
}
