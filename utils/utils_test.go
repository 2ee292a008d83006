package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(14)
	assert.Len(t, s, 14)
	for _, r := range s {
		assert.Contains(t, string(letterRunes), string(r))
	}
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, a, 64) // hex doubles the byte count

	b, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashTokenIsDeterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 4.7, Round1(4.66666))
	assert.Equal(t, 4.6, Round1(4.64))
	assert.Equal(t, 5.0, Round1(4.96))
	assert.Equal(t, 0.0, Round1(0))
}
