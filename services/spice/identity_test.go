package spice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCardKey(t *testing.T) {
	require.Equal(t, CardKey(918, "Thoughtseize"), CardKey(918, "thoughtseize"))
	require.Equal(t, "a_918_thoughtseize", CardKey(918, "Thoughtseize"))
	require.Equal(t, "a_985_architectsofwill", CardKey(985, " Architects of  Will"))
	require.NotEqual(t, CardKey(918, "Thoughtseize"), CardKey(985, "Thoughtseize"))
}

func TestKeyedMutex(t *testing.T) {
	locks := newKeyedMutex()
	unlockA := locks.Lock("a")
	unlockB := locks.Lock("b")
	require.Equal(t, 2, locks.size())

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("a")
		unlock()
		close(done)
	}()

	unlockB()
	unlockA()
	<-done
	require.Zero(t, locks.size())
}
