// Package payment talks to the external payment gateway and verifies its
// callbacks.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Verifier checks the authenticity of gateway callbacks. The gateway signs
// "<gatewayOrderID>|<paymentID>" with HMAC-SHA256 over the shared secret and
// sends the hex digest alongside.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify recomputes the signature and compares in constant time. It never
// errors; a malformed signature is simply not authentic.
func (v *Verifier) Verify(gatewayOrderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
