package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/router-for-me/storefront/internal/app"
	"github.com/router-for-me/storefront/internal/config"

	log "github.com/sirupsen/logrus"
)

// main runs the CLI entrypoint and exits on unrecoverable command errors.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if errRun := run(ctx, os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("command failed")
		stop()
		os.Exit(1)
	}
}

// run parses flags, resolves the config path, and either migrates or serves.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	port := fs.Int("port", 0, "server port (overrides config when set)")
	migrateOnly := fs.Bool("migrate", false, "run database migrations and exit")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}

	if *port != 0 {
		if errValidate := validatePort(*port); errValidate != nil {
			return errValidate
		}
	}

	appCfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if strings.TrimSpace(*cfgPath) != "" {
		appCfg.ConfigPath = config.ResolveConfigPath(*cfgPath)
	}

	if *migrateOnly {
		if errMigrate := app.Migrate(ctx, appCfg); errMigrate != nil {
			return errMigrate
		}
		log.Info("migrations applied")
		return nil
	}
	return app.RunServer(ctx, appCfg, *port)
}

func validatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}
