package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studio-backend/internal/config"
	"studio-backend/internal/db"
	"studio-backend/internal/gateway"
	"studio-backend/internal/handlers"
	"studio-backend/internal/logger"
	"studio-backend/internal/metrics"
	"studio-backend/internal/models"
	"studio-backend/internal/repository"
	"studio-backend/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Deps are the collaborators the HTTP server routes to.
type Deps struct {
	Config  *config.Config
	Log     zerolog.Logger
	Users   *services.UserService
	Media   *services.MediaService
	Reviews *services.ReviewService
	Feed    *handlers.FeedHub
}

// NewServer builds the Fiber app with middleware and routes.
func NewServer(d Deps) *fiber.App {
	cfg := d.Config

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit(),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + handlers.PhotographerHeader,
	}))

	// Files stored by the local gateway
	if cfg.StorageBackend == config.StorageLocal {
		app.Static("/uploads", cfg.UploadDir)
	}

	// Auth
	auth := app.Group("/auth")
	auth.Post("/register", handlers.RegisterHandler(d.Users, d.Log))
	auth.Post("/login", handlers.LoginHandler(d.Users, d.Log))

	// Gallery
	app.Get("/images", handlers.ListMediaHandler(d.Media, models.KindImage, d.Log))
	app.Get("/videos", handlers.ListMediaHandler(d.Media, models.KindVideo, d.Log))
	app.Post("/upload",
		handlers.IdentityMiddleware(d.Users, d.Log),
		handlers.UploadHandler(d.Media, cfg.UploadMaxBytes, d.Log),
	)

	// Reviews
	app.Post("/reviews", handlers.CreateReviewHandler(d.Reviews, d.Log))
	app.Get("/reviews", handlers.ListReviewsHandler(d.Reviews, d.Log))

	// Live feed
	app.Use("/ws", handlers.WSUpgradeMiddleware)
	app.Get("/ws/feed", handlers.FeedHandler(d.Feed))

	// Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	return app
}

// NewGateway picks the upload gateway named by STORAGE_BACKEND.
func NewGateway(ctx context.Context, cfg *config.Config, log zerolog.Logger) (gateway.Gateway, error) {
	switch cfg.StorageBackend {
	case config.StorageMinio:
		minioCfg := gateway.MinioConfig{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
			PublicURL: cfg.S3PublicURL,
		}
		client, err := gateway.NewMinioClient(minioCfg)
		if err != nil {
			return nil, err
		}
		gw := gateway.NewMinioGateway(client, minioCfg, log)
		if err := gw.EnsureBucket(ctx); err != nil {
			// Checked again on the next upload
			log.Warn().Err(err).Str("bucket", cfg.S3Bucket).Msg("bucket not ready")
		}
		return gw, nil
	case config.StorageLocal:
		gw, err := gateway.NewLocalGateway(cfg.UploadDir, cfg.BaseURL, log)
		if err != nil {
			return nil, err
		}
		return gw, nil
	}
	return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
}

// Bootstrap loads configuration, connects to the database and applies migrations.
// The caller closes the returned pool.
func Bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, *Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(cfg.DSN(), log); err != nil {
			return nil, log, nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	pool, err := db.InitDB(ctx, cfg.DSN(), db.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	}, log)
	if err != nil {
		return nil, log, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return cfg, log, &Store{
		Photographers: repository.NewPhotographerRepo(pool),
		Media:         repository.NewMediaRepo(pool),
		Reviews:       repository.NewReviewRepo(pool),
		Close:         pool.Close,
	}, nil
}

// Store groups the repositories over one connection pool.
type Store struct {
	Photographers *repository.PhotographerRepo
	Media         *repository.MediaRepo
	Reviews       *repository.ReviewRepo
	Close         func()
}

func Run() {
	ctx := context.Background()

	cfg, log, store, err := Bootstrap(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	gw, err := NewGateway(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up upload gateway")
	}

	// Services
	feed := handlers.NewFeedHub(log)
	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	userService := services.NewUserService(store.Photographers, tokens, log)
	mediaService := services.NewMediaService(services.MediaServiceConfig{
		Store:         store.Media,
		Gateway:       gw,
		Publisher:     feed,
		UploadFolder:  cfg.UploadFolder,
		UploadTimeout: cfg.UploadTimeout,
		Log:           log,
	})
	reviewService := services.NewReviewService(store.Reviews, store.Media, feed, log)

	app := NewServer(Deps{
		Config:  cfg,
		Log:     log,
		Users:   userService,
		Media:   mediaService,
		Reviews: reviewService,
		Feed:    feed,
	})

	// Start Server
	go func() {
		if err := app.Listen(cfg.Addr()); err != nil {
			log.Panic().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	log.Info().
		Str("addr", cfg.Addr()).
		Str("storage", cfg.StorageBackend).
		Msg("server started")

	// Graceful Shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c // Block until signal
	log.Info().Msg("gracefully shutting down...")
	_ = app.ShutdownWithTimeout(10 * time.Second)
	log.Info().Msg("server shutdown complete")
}
