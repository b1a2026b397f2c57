package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/crosslogic/bookingcore/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPayload = `{"id":"evt_test_1","type":"payment_intent.succeeded"}`

// signedPayload builds a Stripe-shaped Stripe-Signature header by hand
// (t=<unix>,v1=<hmac>), following the scheme webhook.ConstructEvent verifies,
// so tests don't depend on a live webhook endpoint secret.
func signedPayload(t *testing.T, secret string) (payload []byte, header string) {
	t.Helper()
	ts := time.Now().Unix()
	signedString := fmt.Sprintf("%d.%s", ts, testPayload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signedString))
	sig := hex.EncodeToString(mac.Sum(nil))
	return []byte(testPayload), fmt.Sprintf("t=%d,v1=%s", ts, sig)
}

func TestVerifySignature_ValidSignature(t *testing.T) {
	payload, header := signedPayload(t, "whsec_primary")

	event, err := VerifySignature(payload, header, "whsec_primary", "", true)
	require.NoError(t, err)
	assert.Equal(t, "evt_test_1", event.ID)
}

func TestVerifySignature_InvalidSignature(t *testing.T) {
	payload, _ := signedPayload(t, "whsec_primary")

	_, err := VerifySignature(payload, "t=1,v1=bogus", "whsec_primary", "", true)
	require.Error(t, err)
	ae, ok := err.(*apperr.Error)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeWebhookBadSignature, ae.Code)
}

func TestVerifySignature_DevFallbackOnlyOutsideProduction(t *testing.T) {
	payload, header := signedPayload(t, "whsec_dev_fallback")

	t.Run("falls back in development", func(t *testing.T) {
		event, err := VerifySignature(payload, header, "whsec_primary", "whsec_dev_fallback", false)
		require.NoError(t, err)
		assert.Equal(t, "evt_test_1", event.ID)
	})

	t.Run("never falls back in production", func(t *testing.T) {
		_, err := VerifySignature(payload, header, "whsec_primary", "whsec_dev_fallback", true)
		require.Error(t, err)
	})
}

func TestExtractEventID(t *testing.T) {
	t.Run("extracts the id field", func(t *testing.T) {
		id, err := ExtractEventID([]byte(testPayload))
		require.NoError(t, err)
		assert.Equal(t, "evt_test_1", id)
	})

	t.Run("rejects a payload with no id", func(t *testing.T) {
		_, err := ExtractEventID([]byte(`{"type":"payment_intent.succeeded"}`))
		require.Error(t, err)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := ExtractEventID([]byte(`not json`))
		require.Error(t, err)
	})
}
