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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/userapi/userapi/internal/config"
	"github.com/userapi/userapi/internal/metrics"
	"github.com/userapi/userapi/internal/users"
)

// Build information, set via -ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const appName = "userapi-server"

// AppState holds all application services
type AppState struct {
	Logger      *zap.Logger
	Config      *config.Config
	UserStore   users.UserStore
	UserService users.UserService
	Metrics     *metrics.Collector
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		host       string
		port       int
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "User management API",
		Long: `userapi-server serves create, read, search, update and delete
operations on user records over HTTP.

Records live in process memory only; restarting the server clears them.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, host, port, logLevel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&host, "host", "", "Interface to bind (overrides config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func run(configPath, host string, port int, logLevel string) error {
	// Load configuration
	config.Load(configPath)
	config.Override(host, port, logLevel)

	// Initialize logger with config
	logger := initLogger()
	defer func() { _ = logger.Sync() }()

	as := newAppState(logger)

	gin.SetMode(gin.ReleaseMode)
	router := setupRouter(as)

	httpConfig := config.Http()
	server := &http.Server{
		Addr:         httpConfig.Addr(),
		Handler:      router,
		ReadTimeout:  time.Duration(httpConfig.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(httpConfig.WriteTimeout) * time.Second,
	}

	// Setup graceful shutdown
	done := setupSignalHandler(server, logger, time.Duration(httpConfig.ShutdownTimeout)*time.Second)

	logger.Info("Starting user API server",
		zap.String("address", server.Addr),
		zap.String("version", Version))

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	<-done
	logger.Info("Server shutdown complete")
	return nil
}

// newAppState creates and initializes the application state
func newAppState(logger *zap.Logger) *AppState {
	userStore := users.NewInMemoryStore()
	userService := users.NewUserService(userStore)

	return &AppState{
		Logger:      logger,
		Config:      config.Get(),
		UserStore:   userStore,
		UserService: userService,
		Metrics:     metrics.NewCollector(userService, logger),
	}
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var config zap.Config
	if logConfig.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	// Set log level
	switch logConfig.Level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func setupRouter(as *AppState) *gin.Engine {
	router := gin.New()

	router.Use(cors.Default())
	router.Use(RequestLoggingMiddleware(as))
	router.Use(gin.Recovery())
	router.Use(MaxRequestSizeMiddleware(as.Config.Common.Http.MaxRequestSize))
	router.Use(as.Metrics.Middleware())

	router.GET("/", rootHandler())

	router.GET("/health", func(c *gin.Context) {
		count, err := as.UserService.CountUsers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": time.Now().Format(time.RFC3339),
				"error":     err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"users":     count,
		})
	})

	router.GET("/metrics", as.Metrics.Handler())

	users.NewUserHandlers(as.UserService, as.Logger).RegisterRoutes(router)

	return router
}

// rootHandler lists the available endpoints
func rootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the User Management API",
			"endpoints": gin.H{
				"Create user":          "POST /users/",
				"Get user by ID":       "GET /users/{user_id}",
				"Search users by name": "GET /users/search?name={name}",
				"Update user":          "PUT /users/{user_id}",
				"Delete user":          "DELETE /users/{user_id}",
				"Health check":         "GET /health",
				"Metrics":              "GET /metrics",
			},
		})
	}
}

// RequestLoggingMiddleware tags every request with an id and logs it once it completes
func RequestLoggingMiddleware(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(startTime)),
			zap.String("remote_addr", c.ClientIP()),
		}

		switch {
		case status >= http.StatusInternalServerError:
			as.Logger.Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			as.Logger.Warn("Request rejected", fields...)
		default:
			as.Logger.Info("Request handled", fields...)
		}
	}
}

// MaxRequestSizeMiddleware caps request bodies at limit bytes
func MaxRequestSizeMiddleware(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func setupSignalHandler(server *http.Server, logger *zap.Logger, timeout time.Duration) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down server...")

		// Create context with timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}

		done <- struct{}{}
	}()

	return done
}
