package auth

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/router-for-me/storefront/internal/apperr"
	"github.com/router-for-me/storefront/internal/db"
	"github.com/router-for-me/storefront/internal/models"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	conn, err := db.Open("file:" + filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	svc := NewService(conn, "Kernal.wtf Admin")
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func mustCreateAdmin(t *testing.T, svc *Service) models.AdminUser {
	t.Helper()
	admin, err := svc.CreateAdmin(context.Background(), "admin", "secret123")
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	return admin
}

func TestLogin_PasswordOnly(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	admin := mustCreateAdmin(t, svc)

	if _, err := svc.Login(ctx, "", "secret123", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Login(ctx, "admin", "wrong", ""); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "secret123", ""); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}

	res, err := svc.Login(ctx, "admin", "secret123", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.TwoFactorRequired || res.Admin.ID != admin.ID {
		t.Fatalf("unexpected result %+v", res)
	}

	stored, errUser := svc.CurrentUser(ctx, admin.ID)
	if errUser != nil {
		t.Fatalf("CurrentUser: %v", errUser)
	}
	if stored.LastLogin == nil || !stored.LastLogin.Equal(fixedNow) {
		t.Fatalf("expected last login %v, got %v", fixedNow, stored.LastLogin)
	}
}

func TestTwoFactorLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	admin := mustCreateAdmin(t, svc)

	if err := svc.EnableTwoFactor(ctx, admin.ID, "123456"); !errors.Is(err, ErrTwoFactorNotPending) {
		t.Fatalf("expected not pending, got %v", err)
	}

	setup, err := svc.SetupTwoFactor(ctx, admin.ID)
	if err != nil {
		t.Fatalf("SetupTwoFactor: %v", err)
	}
	if setup.Secret == "" || setup.ManualEntryKey != setup.Secret {
		t.Fatalf("unexpected setup %+v", setup)
	}
	if !strings.HasPrefix(setup.OTPAuthURL, "otpauth://totp/") || !strings.HasPrefix(setup.QRCodeURL, "data:image/png;base64,") {
		t.Fatalf("unexpected urls %q %q", setup.OTPAuthURL, setup.QRCodeURL)
	}

	// A pending secret does not gate login yet.
	if res, errLogin := svc.Login(ctx, "admin", "secret123", ""); errLogin != nil || res.TwoFactorRequired {
		t.Fatalf("expected plain login while pending, got %+v %v", res, errLogin)
	}

	if errEnable := svc.EnableTwoFactor(ctx, admin.ID, "000000"); !errors.Is(errEnable, apperr.ErrInvalidTwoFactorCode) {
		t.Fatalf("expected invalid code, got %v", errEnable)
	}
	code, errCode := totp.GenerateCode(setup.Secret, fixedNow)
	if errCode != nil {
		t.Fatalf("GenerateCode: %v", errCode)
	}
	if errEnable := svc.EnableTwoFactor(ctx, admin.ID, code); errEnable != nil {
		t.Fatalf("EnableTwoFactor: %v", errEnable)
	}

	if _, errSetup := svc.SetupTwoFactor(ctx, admin.ID); !errors.Is(errSetup, ErrTwoFactorAlreadyEnabled) {
		t.Fatalf("expected setup to be rejected while enabled, got %v", errSetup)
	}

	res, errLogin := svc.Login(ctx, "admin", "secret123", "")
	if errLogin != nil || !res.TwoFactorRequired {
		t.Fatalf("expected 2FA challenge, got %+v %v", res, errLogin)
	}
	if _, errLogin = svc.Login(ctx, "admin", "secret123", "000000"); !errors.Is(errLogin, apperr.ErrInvalidTwoFactorCode) {
		t.Fatalf("expected invalid code, got %v", errLogin)
	}
	res, errLogin = svc.Login(ctx, "admin", "secret123", code)
	if errLogin != nil || res.TwoFactorRequired {
		t.Fatalf("expected login with code, got %+v %v", res, errLogin)
	}

	// A wrong password never reaches the second factor.
	for _, attempt := range []string{"", code} {
		res, errLogin = svc.Login(ctx, "admin", "wrong", attempt)
		if !errors.Is(errLogin, apperr.ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials with code %q, got %v", attempt, errLogin)
		}
		if res.TwoFactorRequired {
			t.Fatalf("expected no 2FA challenge for wrong password with code %q", attempt)
		}
	}

	if errDisable := svc.DisableTwoFactor(ctx, admin.ID, "wrong"); !errors.Is(errDisable, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected invalid password, got %v", errDisable)
	}
	if errDisable := svc.DisableTwoFactor(ctx, admin.ID, "secret123"); errDisable != nil {
		t.Fatalf("DisableTwoFactor: %v", errDisable)
	}
	stored, _ := svc.CurrentUser(ctx, admin.ID)
	if stored.TwoFactorEnabled || stored.TwoFactorSecret != nil {
		t.Fatalf("expected 2FA cleared, got %+v", stored)
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	admin := mustCreateAdmin(t, svc)

	if err := svc.ChangePassword(ctx, admin.ID, "secret123", "abc"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected short password rejection, got %v", err)
	}
	if err := svc.ChangePassword(ctx, admin.ID, "secret123", strings.Repeat("x", 80)); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected long password rejection, got %v", err)
	}
	if err := svc.ChangePassword(ctx, admin.ID, "nope", "newsecret"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected invalid password, got %v", err)
	}
	if err := svc.ChangePassword(ctx, admin.ID, "secret123", "newsecret"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Login(ctx, "admin", "newsecret", ""); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestCreateAdmin_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	if _, err := svc.CreateAdmin(ctx, "admin", strings.Repeat("x", MaxPasswordBytes+8)); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected long password rejection, got %v", err)
	}
	if _, err := svc.CreateAdmin(ctx, "admin", strings.Repeat("x", MaxPasswordBytes)); err != nil {
		t.Fatalf("expected %d-byte password to be accepted, got %v", MaxPasswordBytes, err)
	}
}

func TestInsertAdmin_DuplicateUsername(t *testing.T) {
	svc := newTestService(t)
	mustCreateAdmin(t, svc)

	err := insertAdmin(svc.db, &models.AdminUser{Username: "admin", PasswordHash: "x"})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected duplicate username to be a validation error, got %v", err)
	}
	if msg, _ := apperr.Message(err); msg != "Username already exists" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	created, err := svc.EnsureAdmin(ctx, "", "")
	if err != nil || created {
		t.Fatalf("expected no-op without credentials, got %v %v", created, err)
	}
	created, err = svc.EnsureAdmin(ctx, "root", "secret123")
	if err != nil || !created {
		t.Fatalf("expected admin created, got %v %v", created, err)
	}
	created, err = svc.EnsureAdmin(ctx, "other", "secret123")
	if err != nil || created {
		t.Fatalf("expected no second admin, got %v %v", created, err)
	}
	if _, errCreate := svc.CreateAdmin(ctx, "other", "secret123"); !errors.Is(errCreate, ErrAdminExists) {
		t.Fatalf("expected ErrAdminExists, got %v", errCreate)
	}
	has, errHas := svc.HasAdmin(ctx)
	if errHas != nil || !has {
		t.Fatalf("expected HasAdmin true, got %v %v", has, errHas)
	}
}

func TestCurrentUser_Unknown(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.CurrentUser(context.Background(), "missing"); !errors.Is(err, apperr.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}
