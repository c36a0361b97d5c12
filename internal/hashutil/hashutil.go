package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes returns the hex SHA256 of b, used to key cached file contents.
func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
