package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/api/handler"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/api/middleware"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/domain"
	"github.com/VinhDat267/Scalable-Content-Management-System-CMS-API/internal/core/ports"
)

// Dependencies carries everything the router needs to build its handlers.
type Dependencies struct {
	Auth      ports.AuthService
	Users     ports.UserService
	Posts     ports.PostService
	Comments  ports.CommentService
	Retention ports.RetentionService

	Tokens     middleware.TokenVerifier
	Identities middleware.IdentityLoader

	HealthChecks []handler.Check
	Log          zerolog.Logger

	// Metrics receives the HTTP collectors. Nil means the default registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "cms",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Authenticate(deps.Tokens, deps.Identities, deps.Log))

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Users)
	userHandler := handler.NewUserHandler(deps.Users)
	postHandler := handler.NewPostHandler(deps.Posts)
	commentHandler := handler.NewCommentHandler(deps.Comments)
	adminHandler := handler.NewAdminHandler(deps.Retention)

	authenticated := middleware.RequireAuthenticated()
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authenticated)

	// --- Users ---
	users := v1.Group("/users")
	users.POST("/register", authHandler.Register)
	users.GET("", userHandler.List)
	users.GET("/search", userHandler.Search)
	users.GET("/role/:role", userHandler.ListByRole)
	users.GET("/:id", userHandler.Get)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Posts ---
	posts := v1.Group("/posts")
	posts.GET("", postHandler.List)
	posts.GET("/search", postHandler.Search)
	posts.GET("/recent", postHandler.Recent)
	posts.GET("/deleted", postHandler.ListDeleted, authenticated)
	posts.GET("/user/:userId", postHandler.ListByAuthor)
	posts.GET("/:id", postHandler.Get)
	posts.POST("", postHandler.Create, authenticated)
	posts.PUT("/:id", postHandler.Update, authenticated)
	posts.DELETE("/:id", postHandler.SoftDelete, authenticated)
	posts.POST("/:id/restore", postHandler.Restore, authenticated)
	posts.DELETE("/:id/permanent", postHandler.HardDelete, adminOnly)

	// --- Comments ---
	posts.GET("/:id/comments", commentHandler.ListByPost)
	posts.POST("/:id/comments", commentHandler.Create, authenticated)
	posts.PUT("/:id/comments/:commentId", commentHandler.Update, authenticated)
	posts.DELETE("/:id/comments/:commentId", commentHandler.SoftDelete, authenticated)
	posts.POST("/:id/comments/:commentId/restore", commentHandler.Restore, authenticated)

	comments := v1.Group("/comments")
	comments.GET("/search", commentHandler.Search)
	comments.GET("/user/:userId", commentHandler.ListByAuthor)

	// --- Admin ---
	admin := v1.Group("/admin", adminOnly)
	admin.POST("/cleanup/posts", adminHandler.Cleanup)
	admin.POST("/cleanup/posts/custom", adminHandler.CleanupCustom)
	admin.GET("/cleanup/stats", adminHandler.Stats)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			if username, ok := c.Get(middleware.UsernameKey).(string); ok {
				ev = ev.Str("username", username)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
