package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"templegraph/backend/internal/graph"
	"templegraph/backend/internal/report"
	"templegraph/backend/pkg/config"
	"templegraph/backend/pkg/logger"
)

// Reader is the read side of the temple graph served over HTTP
type Reader interface {
	report.Source
	GetTemple(ctx context.Context, name string) (*graph.TempleDetail, error)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting temple graph API server...")

	// Connect to Neo4j
	ctx := context.Background()
	driver, err := graph.Connect(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	graphRepo := graph.NewRepository(driver).WithDatabase(cfg.Neo4jDatabase)
	defer graphRepo.Close(context.Background())

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(graphRepo, log)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// newRouter wires the read endpoints onto a gin engine
func newRouter(reader Reader, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api")
	{
		api.GET("/stats", func(c *gin.Context) {
			stats, err := reader.Stats(c.Request.Context())
			if err != nil {
				internalError(c, log, "Failed to fetch statistics", err)
				return
			}
			c.JSON(http.StatusOK, stats)
		})

		api.GET("/temples/:name", func(c *gin.Context) {
			name := c.Param("name")

			detail, err := reader.GetTemple(c.Request.Context(), name)
			if err != nil {
				var notFound graph.ErrTempleNotFound
				if errors.As(err, &notFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "Temple not found"})
					return
				}
				internalError(c, log, "Failed to fetch temple", err)
				return
			}

			c.JSON(http.StatusOK, detail)
		})

		api.GET("/deities/search", func(c *gin.Context) {
			terms := c.QueryArray("q")
			if len(terms) == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "at least one q parameter is required"})
				return
			}

			links, err := reader.TemplesByDeity(c.Request.Context(), terms)
			if err != nil {
				internalError(c, log, "Failed to search deities", err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"results": links})
		})

		api.GET("/styles/:style/temples", func(c *gin.Context) {
			names, err := reader.TemplesByStyle(c.Request.Context(), c.Param("style"))
			if err != nil {
				internalError(c, log, "Failed to list temples by style", err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"temples": names})
		})

		api.GET("/scriptures/search", func(c *gin.Context) {
			fragment := c.Query("q")
			if fragment == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter is required"})
				return
			}

			links, err := reader.TemplesByScripture(c.Request.Context(), fragment)
			if err != nil {
				internalError(c, log, "Failed to search scriptures", err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"results": links})
		})

		api.GET("/regions/:region/temples", func(c *gin.Context) {
			names, err := reader.TemplesInRegion(c.Request.Context(), c.Param("region"))
			if err != nil {
				internalError(c, log, "Failed to list temples by region", err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"temples": names})
		})
	}

	return router
}

func internalError(c *gin.Context, log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
