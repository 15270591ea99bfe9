package util

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

const shortDigestLen = 12

// NewDigest returns the hash used to fingerprint uploads in logs.
func NewDigest() hash.Hash {
	return sha256.New()
}

// ShortDigest renders the first bytes of a digest as hex for log fields.
func ShortDigest(h hash.Hash) string {
	sum := hex.EncodeToString(h.Sum(nil))
	return sum[:shortDigestLen]
}
