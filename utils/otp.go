package utils

import (
	"crypto/rand"
	"encoding/base32"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// OTPPeriod is the TOTP time step in seconds. Codes are told to customers as
// "valid for 10 minutes"; expiry checks use the same window.
const OTPPeriod = 600

var otpOpts = totp.ValidateOpts{
	Period:    OTPPeriod,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// NewOTPSecret returns a fresh base32-encoded shared secret with 20 bytes of entropy.
func NewOTPSecret() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

// GenerateOTP derives the 6-digit code for secret at time t.
func GenerateOTP(secret string, t time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, t, otpOpts)
}

// VerifyOTP reports whether code matches the derivation for secret at time t,
// tolerating one time step of clock skew either way.
func VerifyOTP(secret, code string, t time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, t, otpOpts)
	return err == nil && ok
}
