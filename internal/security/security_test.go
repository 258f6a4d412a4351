package security

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter22" {
		t.Fatalf("expected hashed value")
	}
	if !CheckPassword(hash, "hunter22") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "hunter23") {
		t.Fatalf("expected wrong password to fail")
	}
	if _, errEmpty := HashPassword(""); errEmpty == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(32)
	if err != nil {
		t.Fatalf("GenerateRandomString: %v", err)
	}
	b, _ := GenerateRandomString(32)
	if len(a) != 64 || a == b {
		t.Fatalf("expected distinct 64-char tokens, got %q and %q", a, b)
	}
}

func TestGenerateAndValidateTOTP(t *testing.T) {
	setup, err := GenerateTOTP("Kernal.wtf Admin", "admin")
	if err != nil {
		t.Fatalf("GenerateTOTP: %v", err)
	}
	if !strings.HasPrefix(setup.URL, "otpauth://totp/") {
		t.Fatalf("unexpected provisioning url %q", setup.URL)
	}
	if !strings.HasPrefix(setup.QRCodeURL, "data:image/png;base64,") {
		t.Fatalf("expected png data url")
	}

	now := time.Now()
	code, errCode := totp.GenerateCode(setup.Secret, now)
	if errCode != nil {
		t.Fatalf("GenerateCode: %v", errCode)
	}
	if !ValidateTOTP(code, setup.Secret, now) {
		t.Fatalf("expected current code to validate")
	}
	if !ValidateTOTP(code, setup.Secret, now.Add(30*time.Second)) {
		t.Fatalf("expected one step of skew to be accepted")
	}
	if ValidateTOTP(code, setup.Secret, now.Add(5*time.Minute)) {
		t.Fatalf("expected stale code to be rejected")
	}
	if ValidateTOTP("", setup.Secret, now) {
		t.Fatalf("expected empty code to be rejected")
	}
}
