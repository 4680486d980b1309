// Package callbacksig signs and verifies payment gateway callbacks with a
// keyed BLAKE2b-256 MAC over the raw request body.
package callbacksig

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"
)

// Header carries the hex encoded MAC.
const Header = "X-Payment-Signature"

var ErrBadSignature = errors.New("payment callback signature mismatch")

type Verifier struct {
	key []byte
}

// NewVerifier derives a fixed 32-byte MAC key from secret, so any secret length works.
func NewVerifier(secret string) *Verifier {
	key := blake2b.Sum256([]byte(secret))
	return &Verifier{key: key[:]}
}

func (v *Verifier) Sign(body []byte) string {
	mac, _ := blake2b.New256(v.key)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (v *Verifier) Verify(body []byte, signature string) error {
	got, err := hex.DecodeString(signature)
	if err != nil || len(got) != blake2b.Size256 {
		return ErrBadSignature
	}
	want, _ := hex.DecodeString(v.Sign(body))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrBadSignature
	}
	return nil
}
