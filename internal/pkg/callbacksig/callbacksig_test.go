package callbacksig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifier(t *testing.T) {
	v := NewVerifier("gateway-secret")
	body := []byte(`{"entity_kind":"project","entity_id":"x","amount_kind":"deposit"}`)
	sig := v.Sign(body)

	assert.NoError(t, v.Verify(body, sig))
	assert.ErrorIs(t, v.Verify([]byte(`{"tampered":true}`), sig), ErrBadSignature)
	assert.ErrorIs(t, NewVerifier("other").Verify(body, sig), ErrBadSignature)
	assert.ErrorIs(t, v.Verify(body, "not-hex"), ErrBadSignature)
	assert.ErrorIs(t, v.Verify(body, ""), ErrBadSignature)
}
