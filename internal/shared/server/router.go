package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"magazine-backend/internal/content"
	"magazine-backend/internal/shared/config"
	"magazine-backend/internal/shared/server/middleware"
	"magazine-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers and config the router wires up.
type RouterDeps struct {
	Config         config.Config
	ContentHandler *content.Handler
	UploadsDir     string
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	// Thumbnails and committed artifacts are served statically, mirroring
	// the /uploads URL prefix baked into stored thumbnail URLs.
	if deps.UploadsDir != "" {
		r.Static("/uploads", deps.UploadsDir)
	}

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	contentGroup := api.Group("/content")
	deps.ContentHandler.RegisterPublicRoutes(contentGroup)

	admin := contentGroup.Group("", middleware.RequireAdmin())
	deps.ContentHandler.RegisterAdminRoutes(admin)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
