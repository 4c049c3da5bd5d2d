package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// TokenHasher derives the lookup key under which a token is stored.
// Raw tokens are never persisted.
type TokenHasher struct {
	key []byte
}

func NewTokenHasher(key string) *TokenHasher {
	return &TokenHasher{key: []byte(key)}
}

func (h *TokenHasher) Hash(raw string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}
