package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hashed, err := hasher.Hash("s3cret-password")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-password", hashed)

	assert.True(t, hasher.Verify("s3cret-password", hashed))
	assert.False(t, hasher.Verify("wrong-password", hashed))
	assert.False(t, hasher.Verify("s3cret-password", "not-a-hash"))
}
