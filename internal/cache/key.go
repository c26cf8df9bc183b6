package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key derives the cache key for a pipeline applied to an input circuit.
// Both arguments are canonical textual forms, so equal content hashes
// equal regardless of where the text came from.
func Key(pipeline, input string) string {
	h := sha256.New()
	h.Write([]byte(pipeline))
	h.Write([]byte{0})
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}
