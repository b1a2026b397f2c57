// Package ids generates identifiers and one-time passcodes for the booking
// core: UUIDs via google/uuid, and the 4-digit customer OTP via crypto/rand.
// No third-party OTP/random library exists anywhere in the example pack for
// this narrow a need, so crypto/rand.Int is used directly rather than adding a
// dependency for four random digits.
package ids

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// New returns a fresh random UUID string, used for booking/intent/outbox IDs.
func New() string {
	return uuid.New().String()
}

// otpLow and otpHigh bound the 4-digit OTP space : uniformly from
// [1000, 9999].
const (
	otpLow  = 1000
	otpHigh = 9999
)

// NewOTP returns a 4-digit decimal OTP drawn uniformly from [1000, 9999].
func NewOTP() (string, error) {
	span := big.NewInt(otpHigh - otpLow + 1)
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%04d", otpLow+int(n.Int64())), nil
}

// MockPaymentRef returns a pi_mock_<rand> style reference for use when no real
// payment provider SDK is configured.
func MockPaymentRef() string {
	return "pi_mock_" + uuid.New().String()[:12]
}
