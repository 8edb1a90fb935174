package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hashed, err := Hash("s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", hashed)
	assert.NoError(t, Compare(hashed, "s3cret-pass"))
	assert.ErrorIs(t, Compare(hashed, "wrong-pass"), ErrMismatch)
}

func TestHash_Salted(t *testing.T) {
	a, err := Hash("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := Hash("same", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCompare_MalformedHash(t *testing.T) {
	err := Compare("not-a-bcrypt-hash", "anything")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatch)
}
