package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yukikurage/todo-api/internal/constants"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/validation"
)

// Router builds the HTTP handler. Every route is served both at the root and
// under /api.
func (a *App) Router() *gin.Engine {
	binding.Validator = validation.New()

	r := gin.New()
	r.Use(
		middleware.RequestLogger(a.log),
		middleware.Recovery(a.cfg.IsProduction()),
	)
	if len(a.cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     a.cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(
		middleware.ErrorHandler(a.cfg.IsProduction()),
		sessions.Sessions(constants.SessionCookieName, a.sessionStore),
	)

	// Health check endpoint
	r.GET("/health", a.health.Check)

	a.registerRoutes(&r.RouterGroup)
	a.registerRoutes(r.Group("/api"))

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})

	return r
}

func (a *App) registerRoutes(rg *gin.RouterGroup) {
	requireAuth := middleware.RequireAuth(a.tokens)

	// Auth routes (public)
	auth := rg.Group("/auth")
	{
		auth.POST("/register", a.authHandler.Register)
		auth.POST("/login", a.authHandler.Login)
		auth.POST("/refresh", a.authHandler.Refresh)
		auth.POST("/logout", a.authHandler.Logout)
		auth.GET("/me", requireAuth, a.authHandler.Me)
	}

	// Todo routes (protected)
	todos := rg.Group("/todos")
	todos.Use(requireAuth)
	{
		todos.GET("", a.todoHandler.List)
		todos.GET("/active", a.todoHandler.ListActive)
		todos.GET("/completed", a.todoHandler.ListCompleted)
		todos.GET("/stats", a.todoHandler.Stats)
		todos.POST("/generate", a.todoHandler.Generate)
		todos.GET("/:id", a.todoHandler.Get)
		todos.POST("", a.todoHandler.Create)
		todos.PUT("/:id", a.todoHandler.Update)
		todos.PATCH("/:id/toggle", a.todoHandler.Toggle)
		todos.DELETE("/:id", a.todoHandler.Delete)
	}
}
