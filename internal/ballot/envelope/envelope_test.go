package envelope

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestSealOpenRoundTrip(t *testing.T) {
	key := testKey(t)
	plaintext := []byte(`{"choice":"candidate-3"}`)

	sealed, err := Seal(key, plaintext)
	require.NoError(t, err)

	opened, err := Open(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestSealedPayloadDiffersFromPlaintext(t *testing.T) {
	key := testKey(t)
	plaintext := []byte(`{"choice":"candidate-3"}`)

	sealed, err := Seal(key, plaintext)
	require.NoError(t, err)

	assert.False(t, bytes.Contains(sealed, plaintext))
}

func TestSealIsNonDeterministic(t *testing.T) {
	key := testKey(t)
	plaintext := []byte("same vote twice")

	first, err := Seal(key, plaintext)
	require.NoError(t, err)
	second, err := Seal(key, plaintext)
	require.NoError(t, err)

	// Fresh nonce per seal: two identical votes never produce identical rows.
	assert.NotEqual(t, first, second)
}

func TestOpenRejectsWrongKey(t *testing.T) {
	sealed, err := Seal(testKey(t), []byte("secret"))
	require.NoError(t, err)

	_, err = Open(testKey(t), sealed)
	assert.Error(t, err)
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	key := testKey(t)
	sealed, err := Seal(key, []byte("secret"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0x01
	_, err = Open(key, sealed)
	assert.Error(t, err)
}

func TestOpenRejectsTruncatedPayload(t *testing.T) {
	_, err := Open(testKey(t), []byte("short"))
	assert.Error(t, err)
}

func TestSealRejectsBadKeySize(t *testing.T) {
	_, err := Seal([]byte("short key"), []byte("secret"))
	assert.Error(t, err)
}
