package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestHash_SaltedPerCall(t *testing.T) {
	h := newTestHasher(t)

	d1, err := h.Hash("secret1")
	require.NoError(t, err)
	d2, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, d1, d2, "same plaintext must produce different digests")
	assert.NotContains(t, d1, "secret1")
	assert.True(t, h.Verify("secret1", d1))
	assert.True(t, h.Verify("secret1", d2))
}

func TestHash_UsesConfiguredCost(t *testing.T) {
	h, err := NewPasswordHasher(5)
	require.NoError(t, err)

	digest, err := h.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestNewPasswordHasher_OutOfRangeCostFallsBack(t *testing.T) {
	h, err := NewPasswordHasher(0)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, h.(*bcryptHasher).cost)
}

func TestHash_RejectsInvalidPlaintext(t *testing.T) {
	h := newTestHasher(t)

	_, err := h.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = h.Hash(strings.Repeat("a", MaxPasswordLength+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = h.Hash(strings.Repeat("a", MaxPasswordLength))
	assert.NoError(t, err)
}

func TestVerify(t *testing.T) {
	h := newTestHasher(t)
	digest, err := h.Hash("secret1")
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
		digest    string
		want      bool
	}{
		{name: "match", plaintext: "secret1", digest: digest, want: true},
		{name: "wrong password", plaintext: "secret2", digest: digest},
		{name: "case matters", plaintext: "Secret1", digest: digest},
		{name: "empty digest", plaintext: "secret1", digest: ""},
		{name: "malformed digest", plaintext: "secret1", digest: "not-a-bcrypt-digest"},
		{name: "empty plaintext", plaintext: "", digest: digest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Verify(tt.plaintext, tt.digest))
		})
	}
}
