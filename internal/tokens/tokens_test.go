package tokens

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	require := require.New(t)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok := New()
		require.Len(tok, Length)
		require.Regexp("^[0-9a-f]+$", tok)
		require.False(seen[tok], "token minted twice")
		seen[tok] = true
	}
}
