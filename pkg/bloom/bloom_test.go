package bloom

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterLoadVector(t *testing.T) {
	f := New(10, 5, 99)
	f.Add([]byte("Hello World"))
	f.Add([]byte("Goodbye!"))

	got := hex.EncodeToString(f.Serialize(MatchAll))
	require.Equal(t, "0a4000600a080000010940050000006300000001", got)
}

func TestContainsAfterAdd(t *testing.T) {
	f := New(10, 5, 99)
	f.Add([]byte("Hello World"))
	require.True(t, f.Contains([]byte("Hello World")))
}
