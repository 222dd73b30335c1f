package cryptox

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T, pin string) []byte {
	t.Helper()
	return DeriveKey([]byte(pin), []byte("0123456789abcdef"))
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	k1 := DeriveKey([]byte("1234"), salt)
	k2 := DeriveKey([]byte("1234"), salt)
	assert.Len(t, k1, KeySize)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, DeriveKey([]byte("1235"), salt))
	assert.NotEqual(t, k1, DeriveKey([]byte("1234"), []byte("fedcba9876543210")))
}

func TestNewSalt(t *testing.T) {
	a, err := NewSalt()
	require.NoError(t, err)
	b, err := NewSalt()
	require.NoError(t, err)
	assert.Len(t, a, SaltSize)
	assert.NotEqual(t, a, b)
}

func TestVerify(t *testing.T) {
	key := testKey(t, "1234")
	v := MakeVerifier(key)
	assert.True(t, Verify(key, v))
	assert.False(t, Verify(testKey(t, "9999"), v))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := testKey(t, "1234")

	sealed, err := Seal("secret plans", key)
	require.NoError(t, err)
	assert.True(t, IsSealed(sealed))
	assert.NotContains(t, sealed, "secret")

	again, err := Seal("secret plans", key)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "fresh nonce per seal")

	got, err := Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, "secret plans", got)

	empty, err := Seal("", key)
	require.NoError(t, err)
	got, err = Open(empty, key)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpen_Failures(t *testing.T) {
	key := testKey(t, "1234")
	sealed, err := Seal("secret", key)
	require.NoError(t, err)

	_, err = Open(sealed, testKey(t, "0000"))
	assert.ErrorIs(t, err, ErrOpen)

	_, err = Open("plain text", key)
	assert.ErrorIs(t, err, ErrNotSealed)

	_, err = Open(sealedPrefix+"!!!", key)
	assert.ErrorIs(t, err, ErrOpen)

	_, err = Open(sealedPrefix+"AAAA", key)
	assert.ErrorIs(t, err, ErrOpen)

	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	_, err = Open(sealedPrefix+base64.RawStdEncoding.EncodeToString(raw), key)
	assert.ErrorIs(t, err, ErrOpen)
}

func TestWipe(t *testing.T) {
	b := []byte("pin")
	Wipe(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
	Wipe(nil)
}
