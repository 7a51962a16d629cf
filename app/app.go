package app

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"videotube-api/config"
	"videotube-api/db"
	"videotube-api/handler"
	"videotube-api/logger"
	"videotube-api/repository"
	"videotube-api/router"
	"videotube-api/service"
	"videotube-api/storage"

	"github.com/redis/go-redis/v9"
)

// App holds the wired dependencies of a running server.
type App struct {
	DB     *sql.DB
	Redis  *redis.Client
	Auth   *service.AuthService
	Router http.Handler
}

// New wires repositories, services, handlers and the router together.
func New(cfg *config.Config, database *sql.DB, rdb *redis.Client, uploader storage.IMediaUploader) *App {
	timeout := cfg.Database.QueryTimeout

	// Repositories
	userRepo := repository.NewUserRepository(database, timeout)
	videoRepo := repository.NewVideoRepository(database, timeout)
	commentRepo := repository.NewCommentRepository(database, timeout)
	likeRepo := repository.NewLikeRepository(database, timeout)
	tweetRepo := repository.NewTweetRepository(database, timeout)
	playlistRepo := repository.NewPlaylistRepository(database, timeout)
	subscriptionRepo := repository.NewSubscriptionRepository(database, timeout)

	// Services
	var channels *service.ChannelCache
	if rdb != nil {
		channels = service.NewChannelCache(rdb, cfg.Redis.CacheTTL)
	}
	authService := service.NewAuthService(userRepo, service.NewTokenConfig(cfg))
	userService := service.NewUserService(userRepo, authService, uploader, channels)
	videoService := service.NewVideoService(videoRepo, userRepo, uploader)
	commentService := service.NewCommentService(commentRepo, videoRepo)
	likeService := service.NewLikeService(likeRepo)
	tweetService := service.NewTweetService(tweetRepo)
	playlistService := service.NewPlaylistService(playlistRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, userRepo, channels)

	// Handlers
	cookies := handler.CookieConfig{
		Secure:     cfg.Server.SecureCookies,
		AccessTTL:  cfg.JWT.AccessTokenExpiry,
		RefreshTTL: cfg.JWT.RefreshTokenExpiry,
	}
	handlers := router.Handlers{
		Users:         handler.NewUserHandler(userService, authService, cookies),
		Videos:        handler.NewVideoHandler(videoService),
		Comments:      handler.NewCommentHandler(commentService),
		Likes:         handler.NewLikeHandler(likeService),
		Tweets:        handler.NewTweetHandler(tweetService),
		Playlists:     handler.NewPlaylistHandler(playlistService),
		Subscriptions: handler.NewSubscriptionHandler(subscriptionService),
		Health:        handler.NewHealthHandler(healthChecks(database, rdb)),
	}

	return &App{
		DB:     database,
		Redis:  rdb,
		Auth:   authService,
		Router: router.NewRouter(handlers, authService, cfg.Server.CorsOrigin),
	}
}

func healthChecks(database *sql.DB, rdb *redis.Client) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{}
	if database != nil {
		checks["postgres"] = database.PingContext
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

func Run() {
	logger.Init()
	config.LoadConfig(".")
	logger.SetLevel(config.AppConfig.Log.Level)
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		logger.Log.Fatalf("Error applying migrations: %v", err)
	}

	rdb, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer rdb.Close()

	uploader, err := storage.NewS3Uploader(context.Background())
	if err != nil {
		logger.Log.Fatalf("Error configuring media storage: %v", err)
	}

	application := New(&config.AppConfig, database, rdb, uploader)

	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
