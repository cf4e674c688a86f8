package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/notekeep/backend/internal/metrics"
	"github.com/notekeep/backend/internal/model"
)

type RouterConfig struct {
	Auth            Authenticator
	Notes           NoteService
	Categories      CategoryService
	CORSOrigins     []string
	CORSCredentials bool
	MetricsPath     string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		RequestIDMiddleware(),
		metrics.Middleware(),
		CORSMiddleware(cfg.CORSOrigins, cfg.CORSCredentials),
	)

	metricsPath := cfg.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	router.GET("/ping", Ping)
	router.GET("/", Root)
	router.GET("/openapi.json", OpenAPIDoc)
	router.GET(metricsPath, metrics.Handler())

	authHandler := NewAuthHandler(cfg.Auth)
	noteHandler := NewNoteHandler(cfg.Notes)
	categoryHandler := NewCategoryHandler(cfg.Categories)

	public := router.Group("/api/auth")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/login", authHandler.Login)
	}

	v1 := router.Group("/api/v1", AuthMiddleware(cfg.Auth))
	{
		v1.GET("/check/token", authHandler.CheckToken)
		v1.POST("/logout", authHandler.Logout)
	}

	notes := v1.Group("/notes", RequireAbility(model.AbilityNotes))
	{
		notes.GET("", noteHandler.List)
		notes.POST("", noteHandler.Create)
		notes.GET("/:id", noteHandler.Get)
		notes.PUT("/:id", noteHandler.Update)
		notes.PATCH("/:id", noteHandler.Update)
		notes.DELETE("/:id", noteHandler.Delete)
	}

	categories := v1.Group("/categories", RequireAbility(model.AbilityCategories))
	{
		categories.GET("", categoryHandler.List)
		categories.POST("", categoryHandler.Create)
	}

	return router
}
