package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docshare-backend/internal/account"
	googleauth "docshare-backend/internal/auth"
	"docshare-backend/internal/blobs"
	"docshare-backend/internal/documents"
	"docshare-backend/internal/export/pdfexport"
	"docshare-backend/internal/export/pngexport"
	"docshare-backend/internal/export/toolkit"
	"docshare-backend/internal/exports"
	"docshare-backend/internal/services/health"
	"docshare-backend/internal/shared/config"
	"docshare-backend/internal/shared/server"
	"docshare-backend/internal/shared/storage/db"
	"docshare-backend/internal/shared/storage/object"
	localstore "docshare-backend/internal/shared/storage/object/local"
	memstore "docshare-backend/internal/shared/storage/object/memory"
	s3store "docshare-backend/internal/shared/storage/object/s3"
	"docshare-backend/internal/shared/telemetry"
	"docshare-backend/internal/shares"
	"docshare-backend/internal/users"
)

const (
	reapSchedule      = "@every 1m"
	defaultBlobTTL    = 15 * time.Minute
	defaultShareRate  = 2
	defaultShareBurst = 20
)

// App holds shared dependencies and the wired router.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Blobs            *blobs.Registry
	Reaper           *blobs.Reaper
	Toolkit          *toolkit.Loader
	DocumentsService *documents.Service
	UsersService     *users.Service
	SharesService    *shares.Service
	ExportsService   *exports.Service
	AccountService   *account.Service
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "memory"
	}
	if cfg.BlobTTL <= 0 {
		cfg.BlobTTL = defaultBlobTTL
	}
	if cfg.ShareResolveRate <= 0 || cfg.ShareResolveBurst <= 0 {
		cfg.ShareResolveRate, cfg.ShareResolveBurst = defaultShareRate, defaultShareBurst
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	registry := blobs.NewRegistry(store, cfg.PublicBaseURL)
	reaper, err := blobs.NewReaper(registry, cfg.BlobTTL, reapSchedule)
	if err != nil {
		closeDB(sqlDB)
		return nil, fmt.Errorf("blob reaper: %w", err)
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		Blobs:   registry,
		Reaper:  reaper,
		Toolkit: toolkit.NewLoader(nil),
	}

	deps := buildServices(app)
	app.Router = server.NewRouter(deps)

	reaper.Start()
	return app, nil
}

// Close stops background work and releases the database pool.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Reaper != nil {
		a.Reaper.Stop()
	}
	closeDB(a.DB)
	a.DB = nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID,
			s3store.WithEndpoint(cfg.S3Endpoint),
			s3store.WithStaticCredentials(cfg.S3AccessKeyID, cfg.S3SecretAccessKey),
		)
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		return memstore.New(), nil
	}
}

func buildServices(app *App) server.RouterDeps {
	var (
		docRepo   documents.DocumentsRepo
		userRepo  users.Repo
		shareRepo shares.Repo
	)
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
		shareRepo = &shares.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
		shareRepo = shares.NewMemoryRepo()
	}

	docSvc := documents.NewService(docRepo)
	userSvc := users.NewService(userRepo)
	shareSvc := shares.NewService(shareRepo, docSvc, userSvc, app.Config.AppOrigin)

	pdf := pdfexport.New(app.Toolkit, app.Blobs)
	png := pngexport.New(app.Toolkit, app.Blobs)
	exportSvc := exports.NewService(pdf, png, docSvc, app.Blobs, app.Config.ExportTimeout)

	accountSvc := account.NewService(docSvc)
	google := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.DocumentsService = docSvc
	app.UsersService = userSvc
	app.SharesService = shareSvc
	app.ExportsService = exportSvc
	app.AccountService = accountSvc
	app.GoogleAuth = google

	healthSvc := health.NewService().Add("toolkit", func(ctx context.Context) error {
		_, err := app.Toolkit.Get(ctx)
		return err
	})
	if app.DB != nil {
		healthSvc.AddPinger("db", app.DB)
	}

	shareHandler := shares.NewHandler(shareSvc, exportSvc)
	return server.RouterDeps{
		Config: app.Config,
		Health: healthSvc,
		Public: []server.RouteRegistrar{
			google,
			blobs.NewHandler(app.Blobs),
		},
		Identified: []server.RouteRegistrar{
			documents.NewHandler(docSvc),
			exports.NewHandler(exportSvc),
		},
		Owner: []server.RouteRegistrar{
			shareHandler,
			users.NewHandler(userSvc),
			account.NewHandler(accountSvc),
		},
		Shares: shareHandler,
	}
}

func closeDB(sqlDB *sql.DB) {
	if sqlDB == nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		telemetry.Warn("bootstrap.db.close_failed", map[string]any{"error": err})
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
