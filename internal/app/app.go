package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trailhunt_backend/internal/config"
	"trailhunt_backend/internal/controller"
	"trailhunt_backend/internal/repository"
	"trailhunt_backend/internal/service"
	"trailhunt_backend/pkg/configwatcher"
	"trailhunt_backend/pkg/database"
	"trailhunt_backend/pkg/logger"
	"trailhunt_backend/pkg/monitoring"
	"trailhunt_backend/pkg/security"
	"trailhunt_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user       *repository.UserRepository
	question   *repository.QuestionRepository
	assignment *repository.AssignmentRepository
	answer     *repository.AnswerRepository
	session    *repository.DeviceSessionRepository
	activity   *repository.ActivityLogRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	question    *service.QuestionService
	assignment  *service.AssignmentService
	progression *service.ProgressionService
	answer      *service.AnswerService
	leaderboard *service.LeaderboardService
}

type controllers struct {
	auth        *controller.AuthController
	question    *controller.QuestionController
	hunt        *controller.HuntController
	review      *controller.ReviewController
	leaderboard *controller.LeaderboardController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		question:   repository.NewQuestionRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		answer:     repository.NewAnswerRepository(db),
		session:    repository.NewDeviceSessionRepository(db),
		activity:   repository.NewActivityLogRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.session, cfg, db)
	s.question = service.NewQuestionService(repos.question, repos.assignment, repos.answer)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.question)
	s.progression = service.NewProgressionService(repos.assignment, repos.answer, cfg)
	s.answer = service.NewAnswerService(repos.answer, repos.assignment, repos.question, rdb)
	s.leaderboard = service.NewLeaderboardService(repos.user, repos.answer, repos.activity, rdb, cfg)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		question:    controller.NewQuestionController(s.question, s.storage),
		hunt:        controller.NewHuntController(s.assignment, s.progression, s.answer, s.storage),
		review:      controller.NewReviewController(s.answer, repos.user),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis 只承担缓存，连不上降级为直查数据库
		logger.Log.Warn("Redis unavailable, leaderboard caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, repos, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("trailhunt", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// applyConfig 热更新可以安全调整的参数
func (a *App) applyConfig(newCfg *config.Config) {
	a.Config.SetHuntRules(newCfg.Hunt)
	logger.Log.Info("Config reloaded",
		zap.Int("milestoneSize", newCfg.Hunt.MilestoneSize),
		zap.Int("leaderboardCacheSeconds", newCfg.Hunt.LeaderboardCacheSeconds))
}

func (a *App) Run() {
	go configwatcher.WatchConfig("configs/config.yaml", a.applyConfig)

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
