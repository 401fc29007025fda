package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyAccepts(t *testing.T) {
	v := NewVerifier("topsecret")
	sig := sign("topsecret", "gw_order_1", "pay_1")
	assert.True(t, v.Verify("gw_order_1", "pay_1", sig))
}

func TestVerifyRejects(t *testing.T) {
	v := NewVerifier("topsecret")
	sig := sign("topsecret", "gw_order_1", "pay_1")

	assert.False(t, v.Verify("gw_order_1", "pay_2", sig))
	assert.False(t, v.Verify("gw_order_2", "pay_1", sig))
	assert.False(t, v.Verify("gw_order_1", "pay_1", "deadbeef"))
	assert.False(t, v.Verify("gw_order_1", "pay_1", ""))

	other := NewVerifier("othersecret")
	assert.False(t, other.Verify("gw_order_1", "pay_1", sig))
}
