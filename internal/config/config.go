package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath        = "CONFIG_PATH"
	EnvDBConnection      = "DB_CONNECTION"
	EnvAdminUsername     = "ADMIN_USERNAME"
	EnvAdminPassword     = "ADMIN_PASSWORD"
	EnvSellAuthAPIKey    = "SELLAUTH_API_KEY"
	EnvSellAuthShopID    = "SELLAUTH_SHOP_ID"
	EnvSellAuthWebhook   = "SELLAUTH_WEBHOOK_SECRET"
	EnvSMTPHost          = "SMTP_HOST"
	EnvSMTPPort          = "SMTP_PORT"
	EnvSMTPUser          = "SMTP_USER"
	EnvSMTPPass          = "SMTP_PASS"
	EnvSendGridAPIKey    = "SENDGRID_API_KEY"
	EnvRedisAddr         = "REDIS_ADDR"
	EnvSessionSecure     = "SESSION_SECURE"
	EnvDiscordInviteCode = "DISCORD_INVITE_CODE"
)

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
// A .env file in the working directory is applied first when present.
func LoadFromEnv() (AppConfig, error) {
	if errEnv := godotenv.Load(); errEnv != nil && !errors.Is(errEnv, os.ErrNotExist) {
		log.WithError(errEnv).Warn("config: .env file could not be parsed")
	}
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// ErrMissingDatabaseDSN indicates no database DSN is present in the config file.
var ErrMissingDatabaseDSN = errors.New("missing database dsn (set `database-dsn` or `database.dsn` in config file)")

// Config is the full storefront configuration file.
type Config struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	DatabaseDSN string `yaml:"database-dsn"`
	Database    struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	Debug         bool   `yaml:"debug"`
	LoggingToFile bool   `yaml:"logging-to-file"`
	LogDir        string `yaml:"log-dir"`
	SiteName      string `yaml:"site-name"`

	Admin     AdminConfig     `yaml:"admin"`
	Session   SessionConfig   `yaml:"session"`
	Mail      MailConfig      `yaml:"mail"`
	Support   SupportConfig   `yaml:"support"`
	SellAuth  SellAuthConfig  `yaml:"sellauth"`
	Discord   DiscordConfig   `yaml:"discord"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
}

// AdminConfig holds bootstrap credentials for the first admin account.
type AdminConfig struct {
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	TOTPIssuer string `yaml:"totp-issuer"`
}

// SessionConfig controls the admin session cookie and its backing store.
type SessionConfig struct {
	Backend       string        `yaml:"backend"`
	CookieName    string        `yaml:"cookie-name"`
	TTL           time.Duration `yaml:"ttl"`
	Secure        bool          `yaml:"secure"`
	PurgeSchedule string        `yaml:"purge-schedule"`
	RedisAddr     string        `yaml:"redis-addr"`
	RedisPassword string        `yaml:"redis-password"`
	RedisDB       int           `yaml:"redis-db"`
	RedisPrefix   string        `yaml:"redis-prefix"`
}

// MailConfig selects and configures the outbound mail transport.
type MailConfig struct {
	FromName       string     `yaml:"from-name"`
	FromAddress    string     `yaml:"from-address"`
	SendGridAPIKey string     `yaml:"sendgrid-api-key"`
	SMTP           SMTPConfig `yaml:"smtp"`
}

// SMTPConfig holds SMTP relay settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SupportConfig holds helpdesk addresses and reply identity.
type SupportConfig struct {
	Mailbox       string `yaml:"mailbox"`
	ReplyName     string `yaml:"reply-name"`
	ReplyEmail    string `yaml:"reply-email"`
	DiscordInvite string `yaml:"discord-invite"`
}

// SellAuthConfig holds payment API credentials and checkout defaults.
type SellAuthConfig struct {
	BaseURL                string        `yaml:"base-url"`
	APIKey                 string        `yaml:"api-key"`
	ShopID                 string        `yaml:"shop-id"`
	Timeout                time.Duration `yaml:"timeout"`
	CheckoutProductID      int64         `yaml:"checkout-product-id"`
	CheckoutVariantID      int64         `yaml:"checkout-variant-id"`
	Gateway                string        `yaml:"gateway"`
	CountryCode            string        `yaml:"country-code"`
	UserAgent              string        `yaml:"user-agent"`
	ResolveVariantByPlan   bool          `yaml:"resolve-variant-by-plan"`
	ShopScopedPayments     bool          `yaml:"shop-scoped-payments"`
	WebhookSecret          string        `yaml:"webhook-secret"`
	VerifyWebhookSignature bool          `yaml:"verify-webhook-signature"`
}

// DiscordConfig controls the optional community stats refresh.
type DiscordConfig struct {
	SyncEnabled  bool   `yaml:"sync-enabled"`
	SyncSchedule string `yaml:"sync-schedule"`
	InviteCode   string `yaml:"invite-code"`
	APIBaseURL   string `yaml:"api-base-url"`
}

// CatalogConfig holds catalog defaults.
type CatalogConfig struct {
	FeaturedLimit int    `yaml:"featured-limit"`
	DefaultShopID string `yaml:"default-shop-id"`
	SeedDefaults  bool   `yaml:"seed-defaults"` // Seed sample products, Discord stats and FAQ on an empty database.
}

// RateLimitConfig holds per-IP request budgets for abuse-prone endpoints.
type RateLimitConfig struct {
	LoginPerMinute   int    `yaml:"login-per-minute"`
	SupportPerMinute int    `yaml:"support-per-minute"`
	RedisAddr        string `yaml:"redis-addr"`
	RedisPassword    string `yaml:"redis-password"`
	RedisDB          int    `yaml:"redis-db"`
	RedisPrefix      string `yaml:"redis-prefix"`
}

// Session backends.
const (
	SessionBackendDatabase = "database"
	SessionBackendRedis    = "redis"
	SessionBackendMemory   = "memory"
)

// Default returns a config with every default applied.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

// Load reads the YAML config at configPath, applies defaults and environment overrides.
// A missing file is tolerated; the caller decides whether the resulting DSN is usable.
func Load(configPath string) (Config, error) {
	var cfg Config
	data, errRead := os.ReadFile(configPath)
	switch {
	case errRead == nil:
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
			return Config{}, fmt.Errorf("parse config file: %w", errUnmarshal)
		}
	case errors.Is(errRead, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config file: %w", errRead)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// DSN returns the configured database DSN.
func (c Config) DSN() (string, error) {
	if dsn := strings.TrimSpace(c.DatabaseDSN); dsn != "" {
		return dsn, nil
	}
	if dsn := strings.TrimSpace(c.Database.DSN); dsn != "" {
		return dsn, nil
	}
	return "", ErrMissingDatabaseDSN
}

// LoadDatabaseDSN reads the database DSN from the environment or the YAML config file.
func LoadDatabaseDSN(configPath string) (string, error) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		return dsn, nil
	}
	cfg, err := Load(configPath)
	if err != nil {
		return "", err
	}
	return cfg.DSN()
}

func (c *Config) applyEnv() {
	setString(&c.DatabaseDSN, EnvDBConnection)
	setString(&c.Admin.Username, EnvAdminUsername)
	setString(&c.Admin.Password, EnvAdminPassword)
	setString(&c.SellAuth.APIKey, EnvSellAuthAPIKey)
	setString(&c.SellAuth.ShopID, EnvSellAuthShopID)
	setString(&c.SellAuth.WebhookSecret, EnvSellAuthWebhook)
	setString(&c.Mail.SMTP.Host, EnvSMTPHost)
	setString(&c.Mail.SMTP.Username, EnvSMTPUser)
	setString(&c.Mail.SMTP.Password, EnvSMTPPass)
	setString(&c.Mail.SendGridAPIKey, EnvSendGridAPIKey)
	setString(&c.Discord.InviteCode, EnvDiscordInviteCode)
	if addr := strings.TrimSpace(os.Getenv(EnvRedisAddr)); addr != "" {
		c.Session.RedisAddr = addr
		c.RateLimit.RedisAddr = addr
	}
	if raw := strings.TrimSpace(os.Getenv(EnvSMTPPort)); raw != "" {
		if port, errParse := strconv.Atoi(raw); errParse == nil && port > 0 {
			c.Mail.SMTP.Port = port
		}
	}
	if raw := strings.TrimSpace(os.Getenv(EnvSessionSecure)); raw != "" {
		if secure, errParse := strconv.ParseBool(raw); errParse == nil {
			c.Session.Secure = secure
		}
	}
}

func setString(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

// defaultSessionTTL matches the 24h admin session cookie lifetime.
const defaultSessionTTL = 24 * time.Hour

func (c *Config) applyDefaults() {
	if c.Port <= 0 {
		c.Port = 5000
	}
	if strings.TrimSpace(c.LogDir) == "" {
		c.LogDir = "logs"
	}
	if strings.TrimSpace(c.SiteName) == "" {
		c.SiteName = "Kernal.wtf"
	}
	if strings.TrimSpace(c.Admin.TOTPIssuer) == "" {
		c.Admin.TOTPIssuer = c.SiteName + " Admin"
	}

	c.Session.Backend = strings.ToLower(strings.TrimSpace(c.Session.Backend))
	if c.Session.Backend == "" {
		c.Session.Backend = SessionBackendDatabase
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		c.Session.CookieName = "sid"
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = defaultSessionTTL
	}
	if strings.TrimSpace(c.Session.PurgeSchedule) == "" {
		c.Session.PurgeSchedule = "@every 1h"
	}
	if strings.TrimSpace(c.Session.RedisPrefix) == "" {
		c.Session.RedisPrefix = "storefront:sess"
	}

	if strings.TrimSpace(c.Mail.FromName) == "" {
		c.Mail.FromName = c.SiteName + " Support"
	}
	if strings.TrimSpace(c.Mail.FromAddress) == "" {
		if user := strings.TrimSpace(c.Mail.SMTP.Username); strings.Contains(user, "@") {
			c.Mail.FromAddress = user
		} else {
			c.Mail.FromAddress = "noreply@kernal.wtf"
		}
	}
	if c.Mail.SMTP.Port <= 0 {
		c.Mail.SMTP.Port = 587
	}

	if strings.TrimSpace(c.Support.Mailbox) == "" {
		c.Support.Mailbox = "support@kernal.com"
	}
	if strings.TrimSpace(c.Support.ReplyName) == "" {
		c.Support.ReplyName = "Support Team"
	}
	if strings.TrimSpace(c.Support.ReplyEmail) == "" {
		c.Support.ReplyEmail = c.Support.Mailbox
	}
	if strings.TrimSpace(c.Support.DiscordInvite) == "" {
		c.Support.DiscordInvite = "https://discord.gg/kernal"
	}

	if strings.TrimSpace(c.SellAuth.BaseURL) == "" {
		c.SellAuth.BaseURL = "https://api.sellauth.com/v1"
	}
	if c.SellAuth.Timeout <= 0 {
		c.SellAuth.Timeout = 15 * time.Second
	}
	if c.SellAuth.CheckoutProductID <= 0 {
		c.SellAuth.CheckoutProductID = 436109
	}
	if c.SellAuth.CheckoutVariantID <= 0 {
		c.SellAuth.CheckoutVariantID = 634959
	}
	if strings.TrimSpace(c.SellAuth.Gateway) == "" {
		c.SellAuth.Gateway = "STRIPE"
	}
	if strings.TrimSpace(c.SellAuth.CountryCode) == "" {
		c.SellAuth.CountryCode = "US"
	}
	if strings.TrimSpace(c.SellAuth.UserAgent) == "" {
		c.SellAuth.UserAgent = c.SiteName + " Website"
	}

	if strings.TrimSpace(c.Discord.SyncSchedule) == "" {
		c.Discord.SyncSchedule = "@every 10m"
	}
	if strings.TrimSpace(c.Discord.APIBaseURL) == "" {
		c.Discord.APIBaseURL = "https://discord.com/api/v10"
	}

	if c.Catalog.FeaturedLimit <= 0 {
		c.Catalog.FeaturedLimit = 3
	}
	if strings.TrimSpace(c.Catalog.DefaultShopID) == "" {
		if shop := strings.TrimSpace(c.SellAuth.ShopID); shop != "" {
			c.Catalog.DefaultShopID = shop
		} else {
			c.Catalog.DefaultShopID = "174522"
		}
	}

	if c.RateLimit.LoginPerMinute < 0 {
		c.RateLimit.LoginPerMinute = 0
	} else if c.RateLimit.LoginPerMinute == 0 {
		c.RateLimit.LoginPerMinute = 10
	}
	if c.RateLimit.SupportPerMinute < 0 {
		c.RateLimit.SupportPerMinute = 0
	} else if c.RateLimit.SupportPerMinute == 0 {
		c.RateLimit.SupportPerMinute = 5
	}
	if strings.TrimSpace(c.RateLimit.RedisPrefix) == "" {
		c.RateLimit.RedisPrefix = "storefront:rl"
	}
}
