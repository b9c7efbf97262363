package api

import (
	"yatube/api/config"
	"yatube/api/controllers"
	"yatube/api/seed"
	Logger "yatube/api/utils/log"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

var server = controllers.Server{}

func setup() *config.Config {
	config.LoadDotEnvs()
	cfg := config.Load()
	Logger.InitLogger(cfg.AppEnv, cfg.DatadogAPIKey)

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.AppEnv,
		})
		if err != nil {
			Logger.Log.WithError(err).Warn("sentry disabled")
		}
	}
	return cfg
}

// Run wires the server from the environment and serves until it fails.
func Run() error {
	cfg := setup()
	if err := server.Initialize(cfg); err != nil {
		return err
	}
	return server.Run(":" + cfg.Port)
}

// Seed migrates the configured database and loads the YAML fixture at path.
func Seed(path string) error {
	cfg := setup()
	if err := server.Initialize(cfg); err != nil {
		return err
	}
	if _, err := seed.LoadFile(server.DB, path); err != nil {
		return errors.Wrapf(err, "seed %s", path)
	}
	return nil
}
