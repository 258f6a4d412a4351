package security

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const qrCodeSize = 200

// TOTPSetup holds provisioning material for an authenticator app.
type TOTPSetup struct {
	Secret    string
	URL       string
	QRCodeURL string
}

var totpValidateOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// GenerateTOTP creates a new secret for accountName and renders its QR code as a PNG data URL.
func GenerateTOTP(issuer, accountName string) (TOTPSetup, error) {
	key, errGenerate := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
		Period:      totpValidateOpts.Period,
		Digits:      totpValidateOpts.Digits,
		Algorithm:   totpValidateOpts.Algorithm,
	})
	if errGenerate != nil {
		return TOTPSetup{}, fmt.Errorf("generate totp secret: %w", errGenerate)
	}
	img, errImage := key.Image(qrCodeSize, qrCodeSize)
	if errImage != nil {
		return TOTPSetup{}, fmt.Errorf("render totp qr code: %w", errImage)
	}
	var buf bytes.Buffer
	if errEncode := png.Encode(&buf, img); errEncode != nil {
		return TOTPSetup{}, fmt.Errorf("encode totp qr code: %w", errEncode)
	}
	return TOTPSetup{
		Secret:    key.Secret(),
		URL:       key.URL(),
		QRCodeURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// ValidateTOTP checks a 6-digit code against secret, allowing one step of clock skew.
func ValidateTOTP(code, secret string, now time.Time) bool {
	code = strings.TrimSpace(code)
	if code == "" || secret == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, now.UTC(), totpValidateOpts)
	return err == nil && ok
}
