package ids

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_ReturnsDistinctUUIDs(t *testing.T) {
	a := New()
	b := New()

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestNewOTP(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		otp, err := NewOTP()
		assert.NoError(t, err)
		assert.Len(t, otp, 4)

		n, err := strconv.Atoi(otp)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, n, otpLow)
		assert.LessOrEqual(t, n, otpHigh)

		seen[otp] = true
	}
	// 200 draws from a 9000-value space should turn up more than one distinct
	// value; this is not a proof of uniformity, just a smoke check against a
	// constant generator.
	assert.Greater(t, len(seen), 1)
}

func TestMockPaymentRef(t *testing.T) {
	ref := MockPaymentRef()
	assert.True(t, strings.HasPrefix(ref, "pi_mock_"))
	assert.NotEqual(t, ref, MockPaymentRef())
}
