package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- GenerateRandByteArray ----------

func TestGenerateRandByteArray_Basic(t *testing.T) {
	a := GenerateRandByteArray(24)
	b := GenerateRandByteArray(24)
	require.Len(t, a, 24)
	require.Len(t, b, 24)
	if string(a) == string(b) {
		t.Logf("warning: two GenerateRandByteArray results are identical; extremely unlikely")
	}
}

// ---------- WipeByteArray ----------

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buf)
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

// ---------- SanitizeAddresses ----------

func TestSanitizeAddresses(t *testing.T) {
	addr := "0x" + strings.Repeat("aB", 32)
	in := fmt.Sprintf("expected %s got %s", addr, "0x12")

	out := SanitizeAddresses(in)

	assert.Equal(t, "expected [address] got 0x12", out)
}

// ---------- sentinels ----------

func TestSentinels_MatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("put blob: %w", ErrUpload)
	assert.True(t, errors.Is(err, ErrUpload))
	assert.False(t, errors.Is(err, ErrDownload))
}
