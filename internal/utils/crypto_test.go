package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cryptoTestKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecryptSecret_RoundTrip(t *testing.T) {
	for _, plaintext := range []string{
		"hunter2",
		"a much longer secret spanning more than one AES block for sure",
		"short",
		"exactly-16-bytes",
	} {
		encrypted, err := EncryptSecret(plaintext, cryptoTestKey)
		require.NoError(t, err)
		require.NotEqual(t, plaintext, encrypted)

		parts := strings.SplitN(encrypted, ":", 2)
		require.Len(t, parts, 2)
		assert.Len(t, parts[0], 32) // 16-byte IV, hex encoded

		decrypted, err := DecryptSecret(encrypted, cryptoTestKey)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncryptSecret_RandomIV(t *testing.T) {
	first, err := EncryptSecret("same secret", cryptoTestKey)
	require.NoError(t, err)
	second, err := EncryptSecret("same secret", cryptoTestKey)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestEncryptSecret_EmptyPassthrough(t *testing.T) {
	encrypted, err := EncryptSecret("", cryptoTestKey)
	require.NoError(t, err)
	assert.Equal(t, "", encrypted)

	decrypted, err := DecryptSecret("", cryptoTestKey)
	require.NoError(t, err)
	assert.Equal(t, "", decrypted)
}

func TestDecryptSecret_LegacyPlaintextPassthrough(t *testing.T) {
	// Values stored before encryption was introduced have no iv:cipher
	// shape and must come back unchanged.
	for _, legacy := range []string{"plain-password", "no colon here", "nothex:abcdef"} {
		decrypted, err := DecryptSecret(legacy, cryptoTestKey)
		require.NoError(t, err)
		assert.Equal(t, legacy, decrypted)
	}
}

func TestEncryptSecret_BadKeyLength(t *testing.T) {
	_, err := EncryptSecret("secret", "too-short")
	assert.Error(t, err)
}
