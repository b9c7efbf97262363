package log

import (
	"os"
	"time"

	ddhook "github.com/bin3377/logrus-datadog-hook"
	"github.com/sirupsen/logrus"
)

const (
	serviceName      = "yatube"
	datadogUSHost    = "http-intake.logs.datadoghq.com"
	syncFrequencySec = 30
	syncRetry        = 3
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// Tests and tools that never reach main still get a usable logger.
func init() {
	InitLogger("dev", "")
}

// InitLogger rebuilds the global logger for the given environment. Production
// logs are JSON and, when an API key is provided, shipped to Datadog.
func InitLogger(env, datadogAPIKey string) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	isProduction := env == "production"
	if isProduction {
		logger.SetFormatter(&logrus.JSONFormatter{})
		if datadogAPIKey != "" {
			logger.Hooks.Add(ddhook.NewHook(
				datadogUSHost,
				datadogAPIKey,
				syncFrequencySec*time.Second,
				syncRetry,
				logrus.InfoLevel,
				&logrus.JSONFormatter{},
				ddhook.Options{},
			))
		}
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if env == "test" {
		logger.SetLevel(logrus.WarnLevel)
	}

	Log = logger.WithFields(logrus.Fields{
		"service":        serviceName,
		"is_development": !isProduction,
	})
}
