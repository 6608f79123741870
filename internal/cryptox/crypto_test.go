package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt-16byt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	require.Len(t, key1, KeySize)
	assert.True(t, bytes.Equal(key1, key2), "same inputs must give the same key")
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveKey(password, []byte("salt-1"))
	key2 := DeriveKey(password, []byte("salt-2"))

	assert.False(t, bytes.Equal(key1, key2))
}

func TestNewSalt(t *testing.T) {
	a, err := NewSalt()
	require.NoError(t, err)
	b, err := NewSalt()
	require.NoError(t, err)

	assert.Len(t, a, SaltSize)
	assert.NotEqual(t, a, b)
}

type secretDoc struct {
	PrivateKey []byte `json:"private_key"`
	Label      string `json:"label"`
}

func TestSealOpenJSON_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	in := secretDoc{PrivateKey: []byte{1, 2, 3}, Label: "main"}

	ct, nonce, err := SealJSON(in, key)
	require.NoError(t, err)
	require.Len(t, nonce, 12)
	assert.NotContains(t, string(ct), "main")

	var out secretDoc
	require.NoError(t, OpenJSON(ct, nonce, key, &out))
	assert.Equal(t, in, out)
}

func TestSealJSON_FreshNonce(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))

	ct1, n1, err := SealJSON("x", key)
	require.NoError(t, err)
	ct2, n2, err := SealJSON("x", key)
	require.NoError(t, err)

	assert.NotEqual(t, n1, n2)
	assert.NotEqual(t, ct1, ct2)
}

func TestOpenJSON_WrongKey(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	other := DeriveKey([]byte("other"), []byte("salt"))

	ct, nonce, err := SealJSON(secretDoc{Label: "a"}, key)
	require.NoError(t, err)

	var out secretDoc
	err = OpenJSON(ct, nonce, other, &out)
	require.ErrorIs(t, err, ErrWrongKey)
}

func TestOpenJSON_BadNonceAndKey(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"))
	var out secretDoc

	require.Error(t, OpenJSON([]byte("x"), []byte{1, 2}, key, &out))
	require.Error(t, OpenJSON([]byte("x"), make([]byte, 12), []byte("short"), &out))
}
