package tokenauthority

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RandomSource(t *testing.T) {
	t.Parallel()

	source := RandomSource{}

	t.Run("generates url safe tokens", func(t *testing.T) {
		token, err := source.New()
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err, "token must be url safe base64")
		assert.Len(t, raw, 32, "token must carry 32 bytes of entropy")
	})

	t.Run("generates unique tokens", func(t *testing.T) {
		seen := map[string]bool{}
		for range 100 {
			token, err := source.New()
			require.NoError(t, err)
			require.False(t, seen[token], "tokens must never repeat")
			seen[token] = true
		}
	})

	t.Run("hash is deterministic", func(t *testing.T) {
		token, err := source.New()
		require.NoError(t, err)

		first := source.Hash(token)
		second := source.Hash(token)

		assert.Equal(t, first, second)
		assert.NotEqual(t, token, first, "digest must differ from the plaintext")
		assert.Len(t, first, 64, "sha256 hex digest is 64 characters")
	})
}
