// Package oid generates and validates the 24-character hexadecimal
// identifiers used as primary keys across every collection.
package oid

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
)

var pattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// New returns a fresh 24-hex identifier.
func New() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; panicking here
		// beats handing out duplicate keys.
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// IsValid reports whether raw has the expected 24-hex shape. Malformed
// identifiers are rejected before any store lookup.
func IsValid(raw string) bool {
	return pattern.MatchString(raw)
}
