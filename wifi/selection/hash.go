package selection

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// hasher renders SSIDs and BSSIDs for logs without exposing them. The key is
// random per process so hashes only correlate within one run.
type hasher struct {
	key []byte
}

func newHasher() *hasher {
	key := make([]byte, 32)
	// rand.Read never returns an error.
	_, _ = rand.Read(key)
	return &hasher{key: key}
}

func (h *hasher) hash(b []byte) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write(b)
	return hex.EncodeToString(mac.Sum(nil)[:8])
}
