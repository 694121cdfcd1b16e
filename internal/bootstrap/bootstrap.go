package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/ratemyteacher/internal/app/controllers"
	appMigrations "github.com/yigit/ratemyteacher/internal/app/migrations"
	appRepos "github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/app/repositories/gormrepo"
	appRoutes "github.com/yigit/ratemyteacher/internal/app/routes"
	appServices "github.com/yigit/ratemyteacher/internal/app/services"
	"github.com/yigit/ratemyteacher/internal/config"
	"github.com/yigit/ratemyteacher/internal/db"
	appMiddleware "github.com/yigit/ratemyteacher/internal/middleware"
	pkgAuth "github.com/yigit/ratemyteacher/internal/pkg/auth"
	"github.com/yigit/ratemyteacher/internal/pkg/filestorage"
	"github.com/yigit/ratemyteacher/internal/pkg/helpers"
	"github.com/yigit/ratemyteacher/internal/pkg/logger"
	"github.com/yigit/ratemyteacher/internal/seed"
)

// DefaultConfigPath is read relative to the working directory
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Store is an opened and migrated backing store
type Store struct {
	Repos *appRepos.Repositories
	// Applied is the number of migrations run while opening
	Applied int
	close   func()
}

// Close releases the store's connections
func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        appServices.AuthService
	UserService        appServices.UserService
	AdminConfigService appServices.AdminConfigService
	CatalogService     appServices.CatalogService
	TeacherService     appServices.TeacherService
	ReviewService      appServices.ReviewService
	RatingService      appServices.RatingService
	DiscussionService  appServices.DiscussionService
	Controllers        appRoutes.Controllers
	AuthMiddleware     *appMiddleware.AuthMiddleware
	RateLimiter        *appMiddleware.IPRateLimiter // nil when disabled
	Repos              *appRepos.Repositories
	JWTService         *pkgAuth.JWTService
	FileStorage        *filestorage.LocalStorage
	Logger             zerolog.Logger
}

// LoadConfigAndSetupLogger loads .env, the configuration file and the
// environment, then configures the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Msg("Failed to read .env file, continuing with the process environment")
	}

	cfg, err := config.LoadConfig(DefaultConfigPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := SetupLogger(cfg)
	return cfg, lgr, nil
}

// SetupLogger applies the logging section of cfg to the process logger
func SetupLogger(cfg *config.Config) zerolog.Logger {
	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")

	if cfg.JWT.Secret == config.DevJWTSecret && !strings.EqualFold(cfg.Server.Mode, "development") {
		lgr.Warn().Str("mode", cfg.Server.Mode).Msg("JWT secret is the development default, set JWT_SECRET")
	}
	return lgr
}

// SetupStore opens the configured store and brings its schema up to date
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		return setupSQLite(ctx, cfg, lgr)
	default:
		return setupPostgres(ctx, cfg, lgr)
	}
}

func setupPostgres(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, helpers.ParseDuration(cfg.Database.ConnectTimeout, 10*time.Second))
	defer cancel()
	if err := database.Ping(pingCtx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(database.Pool).Migrate(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")

	return &Store{
		Repos:   appRepos.NewRepositories(database),
		Applied: applied,
		close:   database.Close,
	}, nil
}

func setupSQLite(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	lgr.Info().Str("path", cfg.Database.SQLitePath).Msg("Opening SQLite database...")
	gdb, err := db.NewSQLiteDB(cfg.Database.SQLitePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to open SQLite database")
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite pool: %w", err)
	}
	closeDB := func() {
		if err := sqlDB.Close(); err != nil {
			lgr.Error().Err(err).Msg("Failed to close SQLite database")
		}
	}

	if err := gormrepo.AutoMigrate(ctx, gdb); err != nil {
		lgr.Error().Err(err).Msg("SQLite schema migration error")
		closeDB()
		return nil, fmt.Errorf("sqlite migrations failed: %w", err)
	}
	lgr.Info().Msg("SQLite schema is up to date.")

	return &Store{
		Repos: gormrepo.NewRepositories(gdb),
		close: closeDB,
	}, nil
}

// BuildDependencies initializes services, controllers and middleware over repos
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Repos: repos, Logger: lgr}

	// The base URL must match the static file serving path set in SetupRouter
	fileStorageBaseURL := strings.TrimRight(cfg.Server.PublicBaseURL, "/") + "/uploads"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.Path, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	imageUploader := filestorage.NewImageUploader(deps.FileStorage, filestorage.ImageOptions{
		MaxBytes:     cfg.Storage.MaxImageBytes,
		MaxDimension: cfg.Storage.MaxDimension,
	})

	hasher := pkgAuth.NewPasswordHasher(cfg.Security.BcryptCost)
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		Expiration:  helpers.ParseDuration(cfg.JWT.Expiration, 0),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		repos.Users,
		repos.AdminConfig,
		hasher,
		deps.JWTService,
		logger.Component("auth"),
	)
	deps.UserService = appServices.NewUserService(repos.Users, repos.Schools, repos.Classes, hasher, logger.Component("users"))
	deps.AdminConfigService = appServices.NewAdminConfigService(repos.AdminConfig, hasher, logger.Component("admin"))
	deps.CatalogService = appServices.NewCatalogService(repos.Schools, repos.Classes, logger.Component("catalog"))
	deps.TeacherService = appServices.NewTeacherService(repos.Teachers, repos.Classes, deps.FileStorage, logger.Component("teachers"))
	deps.ReviewService = appServices.NewReviewService(repos.Reviews, repos.Teachers, logger.Component("reviews"))
	deps.RatingService = appServices.NewRatingService(repos.Ratings, logger.Component("ratings"))
	deps.DiscussionService = appServices.NewDiscussionService(repos.Discussions, logger.Component("discussions"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.AuthService)
	if cfg.RateLimit.Enabled {
		deps.RateLimiter = appMiddleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(deps.AuthService, deps.UserService, lgr),
		Catalog:    appControllers.NewCatalogController(deps.CatalogService),
		Teacher:    appControllers.NewTeacherController(deps.TeacherService, deps.AdminConfigService),
		Review:     appControllers.NewReviewController(deps.ReviewService, deps.AdminConfigService),
		Rating:     appControllers.NewRatingController(deps.RatingService),
		Discussion: appControllers.NewDiscussionController(deps.DiscussionService),
		Admin: appControllers.NewAdminController(
			deps.AdminConfigService,
			deps.UserService,
			imageUploader,
			cfg.Storage.MaxImageBytes,
			lgr,
		),
		Health: appControllers.NewHealthController(repos.Health, lgr),
	}

	return deps, nil
}

// EnsureDefaults creates the admin configuration row when it is missing
func EnsureDefaults(ctx context.Context, cfg *config.Config, deps *Dependencies) error {
	return seed.EnsureAdminConfig(ctx, deps.AdminConfigService, cfg.Admin.DefaultSecret, deps.Logger)
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.SecurityHeaders())
	router.Use(cors.New(corsConfig(cfg.CORS.AllowedOrigins)))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.RateLimiter)

	router.Static("/uploads", deps.FileStorage.BasePath())
	lgr.Info().Str("path", deps.FileStorage.BasePath()).Msg("Static file serving configured for uploads directory")

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
