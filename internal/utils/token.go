package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for session tokens
	"encoding/hex"  // hex encoding functions
	"time"          // time utilities for generating expirations
)

// SessionToken represents a login session credential.  The Raw field
// contains the raw token string returned to the client; it doubles as the
// session's durable identifier.  The Exp field records when the session
// expires.  In the database only a SHA-256 hash of the raw string is stored
// for security reasons.
type SessionToken struct {
	Raw string    // raw token string returned to the client
	Exp time.Time // UTC expiration time
}

// NewSessionToken returns a cryptographically secure random token (raw) and
// its expiration time.  The ttlHours parameter controls how many hours the
// session is valid; logins use a fixed 24-hour window.
func NewSessionToken(ttlHours int) (SessionToken, error) {
	// 48 random bytes -> 96 hex chars.
	raw, err := randomHex(48)
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour),
	}, nil
}

// HashTokenRaw returns the SHA-256 hash of the raw session token as a hex
// string.  Storing only the hash in the database prevents attackers from
// using stolen database entries to hijack sessions.
func HashTokenRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
