// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/subtle"
	"encoding/hex"
	"net"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// # Submitter Identity

// IdentityHasher turns network addresses into stable, non-reversible keys
// used only for rate limiting.
type IdentityHasher struct {
	key [32]byte
}

// NewIdentityHasher derives a BLAKE2b key from secret.
func NewIdentityHasher(secret string) *IdentityHasher {
	return &IdentityHasher{key: blake2b.Sum256([]byte("inkwell-identity:" + secret))}
}

// Hash returns the hex keyed BLAKE2b-256 digest of the canonical form of addr.
func (hasher *IdentityHasher) Hash(addr string) string {
	return keyedDigest(hasher.key, canonicalAddr(addr))
}

// keyedDigest computes BLAKE2b-256 in MAC mode.
func keyedDigest(key [32]byte, message string) string {
	mac, err := blake2b.New256(key[:])
	if err != nil {
		// Only reachable with a key longer than 64 bytes.
		panic("sec: invalid blake2b key: " + err.Error())
	}
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// canonicalAddr normalises textual variants of the same IP address.
func canonicalAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if ip := net.ParseIP(addr); ip != nil {
		return ip.String()
	}
	return strings.ToLower(addr)
}

// # Anti-Forgery Tokens

// FormTokens issues and checks anti-forgery tokens bound to an operator.
type FormTokens struct {
	key [32]byte
}

// NewFormTokens creates a token source keyed by secret. The key is domain
// separated from the [IdentityHasher] key derived from the same secret.
func NewFormTokens(secret string) *FormTokens {
	return &FormTokens{key: blake2b.Sum256([]byte("inkwell-form:" + secret))}
}

// Issue returns the token an operator must echo back on mutating requests.
func (tokens *FormTokens) Issue(subject string) string {
	return keyedDigest(tokens.key, subject)
}

// Verify reports whether token was issued for subject.
func (tokens *FormTokens) Verify(subject, token string) bool {
	if subject == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(tokens.Issue(subject)), []byte(token)) == 1
}
