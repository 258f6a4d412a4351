// Package auth implements admin login, two-factor enrolment and bootstrap of the first account.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/router-for-me/storefront/internal/apperr"
	"github.com/router-for-me/storefront/internal/db"
	"github.com/router-for-me/storefront/internal/models"
	"github.com/router-for-me/storefront/internal/security"
	"gorm.io/gorm"
)

const (
	// MinPasswordLength is the shortest accepted admin password.
	MinPasswordLength = 6
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

var (
	// ErrTwoFactorNotPending is returned when enabling 2FA before a secret was generated.
	ErrTwoFactorNotPending = apperr.Validation("2FA setup required first")
	// ErrTwoFactorAlreadyEnabled is returned when setup runs while 2FA is active.
	ErrTwoFactorAlreadyEnabled = apperr.Validation("Two-factor authentication is already enabled")
	// ErrAdminExists is returned by CreateAdmin once an account exists.
	ErrAdminExists = apperr.Validation("System already initialized")
)

// dummyHash is compared against when the username is unknown so both paths pay for bcrypt.
var dummyHash = func() string {
	hashed, err := security.HashPassword("storefront-unknown-admin")
	if err != nil {
		return ""
	}
	return hashed
}()

// Service authenticates admins and manages their second factor.
type Service struct {
	db     *gorm.DB
	issuer string
	now    func() time.Time
}

// NewService constructs an auth service; issuer labels the TOTP entry in authenticator apps.
func NewService(db *gorm.DB, issuer string) *Service {
	return &Service{db: db, issuer: strings.TrimSpace(issuer), now: time.Now}
}

// LoginResult is the outcome of a credential check.
type LoginResult struct {
	Admin             models.AdminUser
	TwoFactorRequired bool
}

// TwoFactorSetup is returned when a new TOTP secret is provisioned.
type TwoFactorSetup struct {
	Secret         string
	OTPAuthURL     string
	QRCodeURL      string
	ManualEntryKey string
}

// Login verifies username, password and, when enabled, the TOTP code.
// A missing code for a 2FA account yields TwoFactorRequired without error.
func (s *Service) Login(ctx context.Context, username, password, code string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, apperr.Validation("Username and password required")
	}

	var admin models.AdminUser
	errFind := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			security.CheckPassword(dummyHash, password)
			return LoginResult{}, apperr.WithMessage(apperr.ErrInvalidCredentials, "Invalid credentials")
		}
		return LoginResult{}, fmt.Errorf("load admin: %w", errFind)
	}
	if !security.CheckPassword(admin.PasswordHash, password) {
		return LoginResult{}, apperr.WithMessage(apperr.ErrInvalidCredentials, "Invalid credentials")
	}

	if admin.TwoFactorEnabled {
		code = strings.TrimSpace(code)
		if code == "" {
			return LoginResult{Admin: admin, TwoFactorRequired: true}, nil
		}
		if admin.TwoFactorSecret == nil || !security.ValidateTOTP(code, *admin.TwoFactorSecret, s.now()) {
			return LoginResult{}, apperr.WithMessage(apperr.ErrInvalidTwoFactorCode, "Invalid two-factor authentication code")
		}
	}

	now := s.now().UTC()
	if errUpdate := s.db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("id = ?", admin.ID).
		Update("last_login", now).Error; errUpdate != nil {
		return LoginResult{}, fmt.Errorf("update last login: %w", errUpdate)
	}
	admin.LastLogin = &now
	return LoginResult{Admin: admin}, nil
}

// CurrentUser resolves a session's admin id.
func (s *Service) CurrentUser(ctx context.Context, adminID string) (models.AdminUser, error) {
	var admin models.AdminUser
	if strings.TrimSpace(adminID) == "" {
		return admin, apperr.ErrUnauthenticated
	}
	if errFind := s.db.WithContext(ctx).First(&admin, "id = ?", adminID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return admin, apperr.WithMessage(apperr.ErrUnauthenticated, "User not found")
		}
		return admin, fmt.Errorf("load admin: %w", errFind)
	}
	return admin, nil
}

// SetupTwoFactor stores a fresh secret without enabling it.
func (s *Service) SetupTwoFactor(ctx context.Context, adminID string) (TwoFactorSetup, error) {
	admin, errUser := s.CurrentUser(ctx, adminID)
	if errUser != nil {
		return TwoFactorSetup{}, errUser
	}
	if admin.TwoFactorEnabled {
		return TwoFactorSetup{}, ErrTwoFactorAlreadyEnabled
	}

	setup, errGenerate := security.GenerateTOTP(s.issuer, admin.Username)
	if errGenerate != nil {
		return TwoFactorSetup{}, errGenerate
	}
	if errUpdate := s.db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("id = ?", admin.ID).
		Updates(map[string]any{
			"two_factor_secret":  setup.Secret,
			"two_factor_enabled": false,
		}).Error; errUpdate != nil {
		return TwoFactorSetup{}, fmt.Errorf("store totp secret: %w", errUpdate)
	}
	return TwoFactorSetup{
		Secret:         setup.Secret,
		OTPAuthURL:     setup.URL,
		QRCodeURL:      setup.QRCodeURL,
		ManualEntryKey: setup.Secret,
	}, nil
}

// EnableTwoFactor verifies code against the pending secret and turns 2FA on.
func (s *Service) EnableTwoFactor(ctx context.Context, adminID, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return apperr.Validation("Verification code required")
	}
	admin, errUser := s.CurrentUser(ctx, adminID)
	if errUser != nil {
		return errUser
	}
	if !admin.HasPendingSecret() {
		return ErrTwoFactorNotPending
	}
	if !security.ValidateTOTP(code, *admin.TwoFactorSecret, s.now()) {
		return apperr.WithMessage(apperr.ErrInvalidTwoFactorCode, "Invalid verification code")
	}
	if errUpdate := s.db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("id = ?", admin.ID).
		Update("two_factor_enabled", true).Error; errUpdate != nil {
		return fmt.Errorf("enable two-factor: %w", errUpdate)
	}
	return nil
}

// DisableTwoFactor re-checks the password, then clears the secret.
func (s *Service) DisableTwoFactor(ctx context.Context, adminID, password string) error {
	if password == "" {
		return apperr.Validation("Password required to disable 2FA")
	}
	admin, errUser := s.CurrentUser(ctx, adminID)
	if errUser != nil {
		return errUser
	}
	if !security.CheckPassword(admin.PasswordHash, password) {
		return apperr.WithMessage(apperr.ErrInvalidCredentials, "Invalid password")
	}
	if errUpdate := s.db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("id = ?", admin.ID).
		Updates(map[string]any{
			"two_factor_secret":  nil,
			"two_factor_enabled": false,
		}).Error; errUpdate != nil {
		return fmt.Errorf("disable two-factor: %w", errUpdate)
	}
	return nil
}

// ChangePassword replaces the admin password after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, adminID, current, next string) error {
	if current == "" || next == "" {
		return apperr.Validation("Current and new password are required")
	}
	if errLen := checkPasswordLength(next); errLen != nil {
		return errLen
	}
	admin, errUser := s.CurrentUser(ctx, adminID)
	if errUser != nil {
		return errUser
	}
	if !security.CheckPassword(admin.PasswordHash, current) {
		return apperr.WithMessage(apperr.ErrInvalidCredentials, "Invalid password")
	}
	hashed, errHash := security.HashPassword(next)
	if errHash != nil {
		return fmt.Errorf("hash password: %w", errHash)
	}
	if errUpdate := s.db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("id = ?", admin.ID).
		Update("password_hash", hashed).Error; errUpdate != nil {
		return fmt.Errorf("update password: %w", errUpdate)
	}
	return nil
}

// HasAdmin reports whether at least one admin account exists.
func (s *Service) HasAdmin(ctx context.Context) (bool, error) {
	var count int64
	if errCount := s.db.WithContext(ctx).Model(&models.AdminUser{}).Count(&count).Error; errCount != nil {
		return false, fmt.Errorf("count admins: %w", errCount)
	}
	return count > 0, nil
}

// CreateAdmin creates the first admin; it fails once any admin exists.
func (s *Service) CreateAdmin(ctx context.Context, username, password string) (models.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.AdminUser{}, apperr.Validation("Username and password required")
	}
	if errLen := checkPasswordLength(password); errLen != nil {
		return models.AdminUser{}, errLen
	}
	hashed, errHash := security.HashPassword(password)
	if errHash != nil {
		return models.AdminUser{}, fmt.Errorf("hash password: %w", errHash)
	}

	admin := models.AdminUser{Username: username, PasswordHash: hashed}
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if errCount := tx.Model(&models.AdminUser{}).Count(&count).Error; errCount != nil {
			return fmt.Errorf("count admins: %w", errCount)
		}
		if count > 0 {
			return ErrAdminExists
		}
		return insertAdmin(tx, &admin)
	})
	if errTx != nil {
		return models.AdminUser{}, errTx
	}
	return admin, nil
}

func insertAdmin(tx *gorm.DB, admin *models.AdminUser) error {
	if errCreate := tx.Create(admin).Error; errCreate != nil {
		if db.IsUniqueViolation(errCreate) {
			return apperr.Validation("Username already exists")
		}
		return fmt.Errorf("create admin: %w", errCreate)
	}
	return nil
}

func checkPasswordLength(password string) error {
	if len(password) < MinPasswordLength {
		return apperr.Validationf("Password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return apperr.Validationf("Password must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin when none exists and credentials are configured.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return false, nil
	}
	exists, errHas := s.HasAdmin(ctx)
	if errHas != nil {
		return false, errHas
	}
	if exists {
		return false, nil
	}
	if _, errCreate := s.CreateAdmin(ctx, username, password); errCreate != nil {
		if errors.Is(errCreate, ErrAdminExists) {
			return false, nil
		}
		return false, errCreate
	}
	return true, nil
}
