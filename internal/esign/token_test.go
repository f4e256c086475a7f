package esign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashBytes_Stable(t *testing.T) {
	data := []byte("%PDF-1.4 fixture")
	first := HashBytes(data)
	second := HashBytes(data)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64, "hex-encoded SHA-256")
	assert.NotEqual(t, first, HashBytes([]byte("%PDF-1.4 fixture!")))
}

func TestVerifyHash(t *testing.T) {
	data := []byte("signature payload")
	digest := HashBytes(data)

	assert.True(t, VerifyHash(data, digest))
	assert.False(t, VerifyHash([]byte("tampered payload"), digest))
}

func TestNewSigningToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewSigningToken()
		require.NoError(t, err)
		assert.Len(t, token, 32, "16 bytes hex-encoded")
		assert.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}
