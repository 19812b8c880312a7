package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-backoffice/config"
	"github.com/fekuna/omnipos-backoffice/internal/auth"
	"github.com/fekuna/omnipos-backoffice/internal/cache"
	"github.com/fekuna/omnipos-backoffice/internal/database/postgres"
	"github.com/fekuna/omnipos-backoffice/internal/logger"
	"github.com/fekuna/omnipos-backoffice/internal/metrics"
	"github.com/fekuna/omnipos-backoffice/internal/server"

	catH "github.com/fekuna/omnipos-backoffice/internal/category/handler"
	"github.com/fekuna/omnipos-backoffice/internal/category/expanded"
	catRepoPkg "github.com/fekuna/omnipos-backoffice/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-backoffice/internal/category/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     cfg.IsDevelopment(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.IsProduction() {
		logConfig.Encoding = "json"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 3.5 Apply Migrations
	if cfg.Postgres.MigrateOnStart {
		applied, err := postgres.ApplyMigrations(context.Background(), db)
		if err != nil {
			appLogger.Fatal("Could not apply migrations", zap.Error(err))
		}
		appLogger.Info("Migrations applied", zap.Strings("migrations", applied))
	}

	// 4. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	expandedKV := expanded.NewRedisKV(redisClient.Client, cfg.Redis.ExpandedTTL)

	// 6. Initialize UseCases
	collector := metrics.NewCollector("omnipos_backoffice")
	catUC := catUCPkg.NewCategoryUseCase(catRepo, redisClient, expandedKV, collector, appLogger, cfg.Redis.CacheTTL)

	// 6.5 Initialize Authentication
	var validator *auth.JWTValidator
	if cfg.JWT.SecretKey != "" {
		validator, err = auth.NewJWTValidator(cfg.JWT.SecretKey, cfg.JWT.Issuer)
		if err != nil {
			appLogger.Fatal("Could not initialize JWT validator", zap.Error(err))
		}
	}
	if cfg.Server.TrustGatewayHeaders {
		appLogger.Warn("Trusting gateway identity headers for requests without a bearer token")
	}
	authenticator := auth.NewAuthenticator(validator, cfg.Server.TrustGatewayHeaders)

	// 7. Initialize Handlers
	catHandler := catH.NewCategoryHandler(catUC, appLogger)
	catHTTPHandler := catH.NewHTTPHandler(catUC, appLogger)

	// 8. Start gRPC Server
	grpcServer := server.NewGRPCServer(catHandler, authenticator, appLogger, collector)
	if cfg.Server.GRPCPort != "" {
		port := listenAddr(cfg.Server.GRPCPort)
		lis, err := net.Listen("tcp", port)
		if err != nil {
			appLogger.Fatal("failed to listen", zap.String("port", port), zap.Error(err))
		}

		appLogger.Info("Starting gRPC server", zap.String("port", port))
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				appLogger.Fatal("failed to serve gRPC", zap.Error(err))
			}
		}()
	}

	// 9. Start HTTP Server
	var httpServer *http.Server
	if cfg.Server.HTTPPort != "" {
		httpServer = &http.Server{
			Addr: listenAddr(cfg.Server.HTTPPort),
			Handler: server.NewRouter(server.RouterConfig{
				Categories:    catHTTPHandler,
				Authenticator: authenticator,
				Logger:        appLogger,
				Metrics:       collector,
				CORSOrigins:   cfg.Server.CORSOrigins,
				Checks: map[string]server.HealthCheck{
					"postgres": db.PingContext,
					"redis":    redisClient.Ping,
				},
			}),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		appLogger.Info("Starting HTTP server", zap.String("port", httpServer.Addr))
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Fatal("failed to serve HTTP", zap.Error(err))
			}
		}()
	}

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := httpServer.Shutdown(ctx); err != nil {
			appLogger.Error("HTTP shutdown failed", zap.Error(err))
		}
		cancel()
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
