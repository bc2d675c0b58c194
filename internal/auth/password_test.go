package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptPasswordHasher(t *testing.T) {
	hasher := NewBcryptPasswordHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("s3cret42")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret42", hash)

	assert.NoError(t, hasher.Verify(hash, "s3cret42"))
	assert.Error(t, hasher.Verify(hash, "wrong"))
}

func TestBcryptPasswordHasherDefaultCost(t *testing.T) {
	hasher := NewBcryptPasswordHasher(0)
	assert.Equal(t, bcrypt.DefaultCost, hasher.Cost)

	hasher = NewBcryptPasswordHasher(-5)
	assert.Equal(t, bcrypt.DefaultCost, hasher.Cost)
}
