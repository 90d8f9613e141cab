package api

import (
	"context"
	"net/http"
	"time"

	"github.com/article-comments-api/internal/broadcast"
	"github.com/article-comments-api/internal/config"
	"github.com/article-comments-api/internal/metrics"
	"github.com/article-comments-api/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const serviceName = "article-comments-api"

// Hub registers live event subscribers. *broadcast.Broadcaster satisfies it.
type Hub interface {
	Subscribe() *broadcast.Subscription
	Unsubscribe(sub *broadcast.Subscription)
}

// HealthChecker reports whether the comment document is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, hub Hub, health HealthChecker, m *metrics.Metrics, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(&cfg.Server))
	if m != nil {
		router.Use(m.Middleware())
	}

	// Handlers
	commentHandler := NewCommentHandler(services, log)
	streamHandler := NewStreamHandler(hub, &cfg.Server, log)

	// Health check
	router.GET("/health", healthCheck(health))
	router.GET("/stats", statsHandler(services))
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Real-time events
	router.GET("/ws", streamHandler.Serve)

	api := router.Group("/api")
	{
		comments := api.Group("/comments")
		{
			comments.GET("/:articleId", commentHandler.ListComments)
			comments.POST("/:articleId", commentHandler.CreateComment)
			comments.POST("/:articleId/reply/:commentId", commentHandler.CreateReply)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(health HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if health != nil {
			if err := health.HealthCheck(c.Request.Context()); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   serviceName,
		})
	}
}

// statsHandler returns corpus and subscriber counts
func statsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := services.Comment.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"corpus": gin.H{
				"articles": stats.Articles,
				"comments": stats.Comments,
				"replies":  stats.Replies,
			},
			"subscribers": stats.Subscribers,
			"timestamp":   time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// requestIDMiddleware propagates or assigns an X-Request-ID
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("request_id")).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS for the configured origins
func corsMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.AllowAllOrigins() {
		// Credentials cannot be combined with a literal "*"; echo the caller's origin instead
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOriginFunc = cfg.OriginAllowed
	}
	return cors.New(corsCfg)
}
