package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/router-for-me/storefront/internal/auth"
	"github.com/router-for-me/storefront/internal/catalog"
	"github.com/router-for-me/storefront/internal/checkout"
	"github.com/router-for-me/storefront/internal/config"
	"github.com/router-for-me/storefront/internal/db"
	"github.com/router-for-me/storefront/internal/discord"
	"github.com/router-for-me/storefront/internal/http/middleware"
	"github.com/router-for-me/storefront/internal/logging"
	"github.com/router-for-me/storefront/internal/mail"
	"github.com/router-for-me/storefront/internal/ratelimit"
	"github.com/router-for-me/storefront/internal/sellauth"
	"github.com/router-for-me/storefront/internal/session"
	"github.com/router-for-me/storefront/internal/support"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds the wired services and HTTP engine.
type App struct {
	cfg config.Config
	db  *gorm.DB

	Engine   *gin.Engine
	Auth     *auth.Service
	Catalog  *catalog.Service
	Support  *support.Service
	Checkout *checkout.Bridge

	sessionStore session.Store
	sessions     *middleware.Sessions
	limiter      *ratelimit.Manager
	discord      *discord.Syncer
	scheduler    *cron.Cron
}

// Option overrides a collaborator, mainly for tests.
type Option func(*options)

type options struct {
	mailer       mail.Mailer
	payments     checkout.PaymentClient
	sessionStore session.Store
}

// WithMailer replaces the configured mail transport.
func WithMailer(m mail.Mailer) Option {
	return func(o *options) { o.mailer = m }
}

// WithPaymentClient replaces the SellAuth client.
func WithPaymentClient(c checkout.PaymentClient) Option {
	return func(o *options) { o.payments = c }
}

// WithSessionStore replaces the configured session backend.
func WithSessionStore(s session.Store) Option {
	return func(o *options) { o.sessionStore = s }
}

// New wires services and routes over an open, migrated connection.
func New(cfg config.Config, conn *gorm.DB, opts ...Option) (*App, error) {
	if conn == nil {
		return nil, errors.New("app: nil db")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.mailer == nil {
		o.mailer = mail.New(cfg.Mail)
	}
	if o.payments == nil {
		client := sellauth.NewClient(cfg.SellAuth)
		if !client.Configured() {
			log.Warn("sellauth credentials not configured; checkout and payment verification will fail")
		}
		o.payments = client
	}
	if o.sessionStore == nil {
		store, errStore := session.New(cfg.Session, conn)
		if errStore != nil {
			return nil, errStore
		}
		o.sessionStore = store
	}

	a := &App{cfg: cfg, db: conn, sessionStore: o.sessionStore}
	a.Auth = auth.NewService(conn, cfg.Admin.TOTPIssuer)
	a.Catalog = catalog.NewService(conn, cfg.Catalog)
	a.Support = support.NewService(conn, mail.NewNotifier(o.mailer, cfg), support.Sender{
		Name:  cfg.Support.ReplyName,
		Email: cfg.Support.ReplyEmail,
	})
	a.Checkout = checkout.NewBridge(conn, o.payments, a.Catalog, cfg.SellAuth)
	a.sessions = middleware.NewSessions(o.sessionStore, cfg.Session)

	a.limiter = ratelimit.NewManager(cfg.RateLimit)

	if cfg.Discord.SyncEnabled {
		a.discord = discord.NewSyncer(a.Catalog, cfg.Discord)
		if a.discord == nil {
			log.Warn("discord sync enabled without an invite code; skipping")
		}
	}

	engine, errRouter := NewRouter(a)
	if errRouter != nil {
		return nil, errRouter
	}
	a.Engine = engine
	return a, nil
}

// EnsureAdmin creates the configured bootstrap admin when none exists.
func (a *App) EnsureAdmin(ctx context.Context) error {
	created, err := a.Auth.EnsureAdmin(ctx, a.cfg.Admin.Username, a.cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		log.WithField("username", a.cfg.Admin.Username).Info("bootstrap admin created")
	}
	return nil
}

// SeedDefaults loads the sample catalog when catalog.seed-defaults is set.
func (a *App) SeedDefaults(ctx context.Context) error {
	if !a.cfg.Catalog.SeedDefaults {
		return nil
	}
	if _, err := a.Catalog.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}
	return nil
}

// Close stops background jobs and releases backend clients.
func (a *App) Close() error {
	if a.scheduler != nil {
		<-a.scheduler.Stop().Done()
	}
	var errs []error
	if errLimiter := a.limiter.Close(); errLimiter != nil {
		errs = append(errs, errLimiter)
	}
	if closer, ok := a.sessionStore.(io.Closer); ok {
		if errSession := closer.Close(); errSession != nil {
			errs = append(errs, errSession)
		}
	}
	return errors.Join(errs...)
}

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	return db.Migrate(conn.WithContext(ctx))
}

// RunServer boots the storefront API and blocks until ctx is cancelled.
func RunServer(ctx context.Context, appCfg config.AppConfig, port int) error {
	configPath := config.ResolveConfigPath(appCfg.ConfigPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Port = port
	}
	logCloser := logging.Setup(cfg)
	defer func() {
		if errClose := logCloser.Close(); errClose != nil {
			log.Errorf("log file close error: %v", errClose)
		}
	}()

	dsn, err := cfg.DSN()
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	a, err := New(cfg, conn)
	if err != nil {
		return err
	}
	defer func() {
		if errClose := a.Close(); errClose != nil {
			log.Errorf("app close error: %v", errClose)
		}
	}()

	if errAdmin := a.EnsureAdmin(ctx); errAdmin != nil {
		return errAdmin
	}
	if errSeed := a.SeedDefaults(ctx); errSeed != nil {
		return errSeed
	}
	initialized, errInit := a.Auth.HasAdmin(ctx)
	if errInit != nil {
		return errInit
	}
	if !initialized {
		log.Warn("no admin account exists; create one with POST /api/init/setup")
	}

	if errJobs := a.StartJobs(ctx); errJobs != nil {
		return errJobs
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			log.Errorf("server shutdown error: %v", errShutdown)
		}
	}()

	log.Infof("storefront listening on %s", addr)
	if errListen := srv.ListenAndServe(); errListen != nil && !errors.Is(errListen, http.ErrServerClosed) {
		return errListen
	}
	log.Info("storefront stopped")
	return nil
}
