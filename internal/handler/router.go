package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/pkg/config"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/logger"
	"github.com/noah-isme/classroom-api/pkg/middleware/cors"
	"github.com/noah-isme/classroom-api/pkg/middleware/requestid"
	"github.com/noah-isme/classroom-api/pkg/response"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Accounts *AccountHandler
	Courses  *CourseHandler
	Rooms    *RoomHandler
	Members  *MemberHandler
	Files    *FileHandler

	AuthService *service.AuthService
	Metrics     *service.MetricsService
}

// NewRouter builds the gin engine with the full middleware chain and
// every route mounted under the API prefix.
func NewRouter(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(recovery(log))
	r.Use(cors.New(cfg.CORS.AllowedOrigins))
	if h.Metrics != nil {
		r.Use(middleware.Metrics(h.Metrics))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", middleware.Auth(h.AuthService), h.Auth.Me)
	}

	accounts := api.Group("/accounts")
	{
		accounts.GET("", h.Accounts.List)
		accounts.GET("/:id", h.Accounts.Get)
		accounts.POST("", h.Accounts.Create)
		accounts.PUT("/:id", h.Accounts.Update)
		accounts.PUT("/:id/archive", h.Accounts.Archive)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", h.Courses.List)
		courses.GET("/:id", h.Courses.Get)
		courses.POST("", h.Courses.Create)
		courses.PUT("/:id", h.Courses.Update)
		courses.PUT("/:id/archive", h.Courses.ToggleArchive)
	}

	rooms := api.Group("/rooms")
	{
		rooms.GET("", h.Rooms.List)
		rooms.GET("/:id", h.Rooms.Get)
		rooms.POST("", h.Rooms.Create)
		rooms.PUT("/:id", h.Rooms.Update)
		rooms.PUT("/:id/archive", h.Rooms.ToggleArchive)
	}

	members := api.Group("/members")
	{
		members.GET("", h.Members.List)
		members.GET("/:id", h.Members.Get)
		members.POST("", h.Members.Add)
		members.PUT("/:id", h.Members.Remove)
	}

	files := api.Group("/files")
	{
		files.GET("", h.Files.List)
		files.POST("", h.Files.Upload)
		files.DELETE("/:id", h.Files.Delete)
	}

	return r
}

// recovery converts panics into the uniform error envelope instead of
// leaking a stack trace to the client.
func recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered", zap.Any("panic", recovered))
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "Internal Server Error"))
		c.Abort()
	})
}
