package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/config"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/handlers"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/middleware"
)

// HealthFunc reports backend health; a "status" of "down" makes /health return 503.
type HealthFunc func() map[string]string

type Server struct {
	handler   *handlers.Handler
	health    HealthFunc
	jwtSecret []byte
	log       logrus.FieldLogger
}

func New(handler *handlers.Handler, health HealthFunc, jwtSecret []byte, log logrus.FieldLogger) *Server {
	return &Server{handler: handler, health: health, jwtSecret: jwtSecret, log: log}
}

// NewServer creates and configures the HTTP server
func NewServer(cfg *config.Config, s *Server) *http.Server {
	gin.SetMode(cfg.GinMode)

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(s.log))

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", s.healthHandler)

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Public reads
		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/posts/:id", s.handler.Post.GetPost)
		api.GET("/posts/:id/comments", s.handler.Comment.GetComments)
		api.GET("/comments/breakdown", s.handler.Comment.Breakdown)
		api.GET("/users/:id", s.handler.User.GetUserProfile)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.jwtSecret))
		{
			protected.GET("/me", s.handler.Auth.GetMe)
			protected.PUT("/users/me", s.handler.User.UpdateUserProfile)
			protected.PUT("/users/me/settings", s.handler.User.UpdateSettings)

			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.PUT("/posts/:id", s.handler.Post.UpdatePost)
			protected.DELETE("/posts/:id", s.handler.Post.DeletePost)

			protected.POST("/posts/:id/comments", s.handler.Comment.CreateComment)
			protected.GET("/comments/:commentId", s.handler.Comment.GetComment)
			protected.PUT("/comments/:commentId", s.handler.Comment.UpdateComment)
			protected.DELETE("/comments/:commentId", s.handler.Comment.DeleteComment)
		}
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "up"})
		return
	}

	stats := s.health()
	if stats["status"] == "down" {
		c.JSON(http.StatusServiceUnavailable, stats)
		return
	}
	c.JSON(http.StatusOK, stats)
}
