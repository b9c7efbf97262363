package controllers

import (
	"context"
	"html/template"
	"net/http"
	"strings"
	"time"

	"yatube/api/cache"
	"yatube/api/config"
	"yatube/api/feed"
	"yatube/api/mailer"
	"yatube/api/media"
	"yatube/api/middlewares"
	"yatube/api/models"
	Logger "yatube/api/utils/log"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Server struct {
	DB     *gorm.DB
	Router *gin.Engine

	Config *config.Config
	Cache  cache.Store
	Media  media.Store
	Mailer mailer.Mailer
	Feed   *feed.Service

	templates *template.Template
}

// seedAdmin creates the staff account named by ADMIN_EMAIL/ADMIN_PASSWORD, or
// promotes it when it already exists.
func seedAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		Logger.Log.Info("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin creation")
		return nil
	}

	existing, err := models.FindUserByEmail(db, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Logger.Log.WithField("email", email).Info("creating initial admin")

		admin := models.User{
			Username: strings.Split(email, "@")[0],
			Email:    email,
			Password: password,
			IsAdmin:  true,
		}
		admin.Prepare()

		if msgs := admin.Validate(""); len(msgs) > 0 {
			Logger.Log.WithField("errors", msgs).Warn("admin validation failed")
			return nil
		}
		_, err = admin.SaveUser(db)
		return err
	}
	if err != nil {
		return err
	}
	if !existing.IsAdmin {
		Logger.Log.WithField("email", email).Info("ensuring admin flag")
		return db.Model(&models.User{}).Where("id = ?", existing.ID).Update("is_admin", true).Error
	}
	return nil
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{}
	if cfg.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return gorm.Open(sqlite.Open(cfg.DSN()), gormCfg)
	case config.DriverPostgres:
		return gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	default:
		return nil, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func newMediaStore(cfg *config.Config) (media.Store, error) {
	if cfg.S3Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return media.NewS3Store(ctx, cfg.S3Bucket, cfg.AWSRegion)
	}
	return media.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
}

// Initialize connects every backing service and builds the router.
func (server *Server) Initialize(cfg *config.Config) error {
	server.Config = cfg

	db, err := openDB(cfg)
	if err != nil {
		return errors.Wrap(err, "connect database")
	}
	server.DB = db

	if err := models.AutoMigrate(server.DB); err != nil {
		return errors.Wrap(err, "migrate database")
	}
	if err := seedAdmin(server.DB, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		Logger.Log.WithError(err).Error("error seeding admin user")
	}

	server.Cache = cache.New(cfg)
	if server.Media, err = newMediaStore(cfg); err != nil {
		return errors.Wrap(err, "media store")
	}
	server.Mailer = mailer.New(cfg)

	return server.Setup()
}

// Setup builds the router over already wired dependencies.
func (server *Server) Setup() error {
	if server.Config == nil {
		server.Config = &config.Config{}
	}
	cfg := server.Config
	if server.Cache == nil {
		server.Cache = cache.NewMemoryStore()
	}
	if server.Mailer == nil {
		server.Mailer = mailer.New(cfg)
	}
	if server.Feed == nil {
		server.Feed = feed.NewService(server.DB, cfg.PostsPerPage)
	}

	tmpl, err := parseTemplates(server)
	if err != nil {
		return errors.Wrap(err, "parse templates")
	}
	server.templates = tmpl

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server.Router = gin.New()
	server.Router.Use(gin.CustomRecovery(server.recoverPanic))
	if cfg.SentryDSN != "" {
		server.Router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	server.Router.Use(middlewares.RequestLogger())
	server.Router.Use(middlewares.Metrics())
	if cfg.RateLimit {
		server.Router.Use(middlewares.RateLimitMiddleware())
	}
	server.Router.Use(middlewares.Authenticate(server.DB, cfg.APISecret))
	server.Router.SetHTMLTemplate(tmpl)
	server.Router.NoRoute(server.notFound)

	server.initializeRoutes()
	return nil
}

func (server *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	Logger.Log.WithField("addr", addr).Info("listening")
	return srv.ListenAndServe()
}
