package auth

import (
	"strings"
	"time"

	"mrportal/internal/errors"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTPIssuer names the portal in authenticator apps.
const TOTPIssuer = "MR Consultoria"

// GenerateTOTPSecret creates a base32 secret for account and the otpauth URL
// an authenticator app can import.
func GenerateTOTPSecret(account string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      TOTPIssuer,
		AccountName: account,
	})
	if err != nil {
		return "", "", errors.Wrap(err, "failed to generate TOTP secret")
	}
	return key.Secret(), key.URL(), nil
}

// ValidateTOTP checks a 6-digit code, accepting one 30s step of drift either way.
func ValidateTOTP(code, secret string, at time.Time) bool {
	ok, err := totp.ValidateCustom(strings.TrimSpace(code), secret, at, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
