// Package util provides utility functions for the DealFlow application.
package util

import (
	"math/rand/v2"
	"strings"
)

// RecordSuffixLength is the length of the random portion of a record ID.
const RecordSuffixLength = 5

// GenerateRandomUpperAlphaNumeric generates a random uppercase alphanumeric
// string of the specified length. Uses math/rand/v2; record IDs are
// human-readable references, not secrets.
func GenerateRandomUpperAlphaNumeric(length int) string {
	if length <= 0 {
		return ""
	}

	const chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		builder.WriteByte(chars[rand.IntN(len(chars))])
	}

	return builder.String()
}

// GenerateRecordSuffix generates the 5-character random portion of a
// business record ID.
func GenerateRecordSuffix() string {
	return GenerateRandomUpperAlphaNumeric(RecordSuffixLength)
}
