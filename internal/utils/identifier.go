package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// identifierBytes yields 32-char hex identifiers, the key format of every table.
const identifierBytes = 16

// GenerateIdentifier returns a new 32-character hex identifier.
func GenerateIdentifier() string {
	b := make([]byte, identifierBytes)
	// rand.Read never fails on the supported platforms
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
