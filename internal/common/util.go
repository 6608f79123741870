package common

import (
	"crypto/rand"
	"regexp"
)

// GenerateRandByteArray returns n bytes from crypto/rand. It panics if the
// system randomness source fails, which crypto/rand documents as fatal.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites b with zeros. Nil is allowed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

var addressRe = regexp.MustCompile(`0x[a-fA-F0-9]{64}`)

// SanitizeAddresses hides full-length ledger addresses inside s.
func SanitizeAddresses(s string) string {
	return addressRe.ReplaceAllString(s, AddressPlaceholder)
}
