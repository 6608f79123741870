package ledger

import (
	"crypto/ed25519"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddress(t *testing.T) {
	full := "0x" + strings.Repeat("ab", 32)

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"canonical", full, full, false},
		{"upper case", "0x" + strings.Repeat("AB", 32), full, false},
		{"no prefix", strings.Repeat("ab", 32), full, false},
		{"whitespace", "  " + full + "\n", full, false},
		{"short", "0x2", "0x" + strings.Repeat("0", 63) + "2", false},
		{"odd length", "0xabc", "0x" + strings.Repeat("0", 61) + "abc", false},
		{"empty", "", "", true},
		{"prefix only", "0x", "", true},
		{"too long", "0x" + strings.Repeat("a", 65), "", true},
		{"not hex", "0xzz", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAddress(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidAddress)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddress_EqualityFollowsNormalization(t *testing.T) {
	a := MustParseAddress("0x00000000000000000000000000000000000000000000000000000000000000AB")
	b := MustParseAddress("ab")
	assert.Equal(t, a, b)
	assert.False(t, a.IsZero())
	assert.True(t, Address{}.IsZero())
}

func TestAddressFromBytes(t *testing.T) {
	_, err := AddressFromBytes([]byte{1, 2})
	require.ErrorIs(t, err, ErrInvalidAddress)

	raw := make([]byte, AddressLength)
	raw[31] = 7
	a, err := AddressFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, MustParseAddress("0x7"), a)
	assert.Equal(t, raw, a.Bytes())
}

func TestAddressFromPublicKey_Deterministic(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)

	a1 := AddressFromPublicKey(pub)
	a2 := AddressFromPublicKey(pub)
	assert.Equal(t, a1, a2)
	assert.False(t, a1.IsZero())
}

func TestAddress_TextRoundTrip(t *testing.T) {
	type doc struct {
		Owner Address `json:"owner"`
	}
	in := doc{Owner: MustParseAddress("0x1234")}

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), in.Owner.String())

	var out doc
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)

	require.Error(t, json.Unmarshal([]byte(`{"owner":"nope"}`), &out))
}
