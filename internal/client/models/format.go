package models

import (
	"fmt"
	"math"
	"strconv"
)

// ExpirationText renders the remaining retention of a record. One epoch is
// displayed as one day.
func ExpirationText(expiresAt, currentEpoch uint64) string {
	if expiresAt == 0 {
		return "No expiration"
	}
	if expiresAt <= currentEpoch {
		return "Expired"
	}
	remaining := expiresAt - currentEpoch
	if remaining == 1 {
		return "Expires in 1 day"
	}
	return fmt.Sprintf("Expires in %d days", remaining)
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders n with base 1024 units and up to two decimals,
// e.g. "0 Bytes", "1.5 KB", "10 MB".
func FormatFileSize(n uint64) string {
	if n == 0 {
		return "0 Bytes"
	}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
