package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"magazine-backend/internal/content"
	"magazine-backend/internal/shared/config"
	"magazine-backend/internal/shared/server"
	"magazine-backend/internal/shared/storage/db"
	"magazine-backend/internal/shared/storage/files"
)

var errRequiredDatabase = errors.New("DATABASE_URL is required")

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Files          *files.Store
	ContentRepo    content.Repo
	ContentService *content.Service
	ContentHandler *content.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := files.New(cfg.UploadDir)

	var repo content.Repo
	if sqlDB != nil {
		repo = &content.PGRepo{DB: sqlDB}
	} else {
		repo = content.NewMemoryRepo()
	}

	svc := &content.Service{
		Repo:    repo,
		Files:   store,
		BaseURL: cfg.APIBaseURL,
	}
	handler := content.NewHandler(svc)

	app := &App{
		Config:         cfg,
		DB:             sqlDB,
		Files:          store,
		ContentRepo:    repo,
		ContentService: svc,
		ContentHandler: handler,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		ContentHandler: handler,
		UploadsDir:     store.BaseDir(),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repository")
			return nil, nil
		}
		return nil, errRequiredDatabase
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repository: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
