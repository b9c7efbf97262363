package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hashed, err := Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", string(hashed))

	assert.NoError(t, VerifyPassword(string(hashed), "correct horse"))
	assert.ErrorIs(t, VerifyPassword(string(hashed), "battery staple"), bcrypt.ErrMismatchedHashAndPassword)
}
