package app

import (
	"context"
	"focusread_backend/internal/config"
	"focusread_backend/internal/controller"
	"focusread_backend/internal/model"
	"focusread_backend/internal/repository"
	"focusread_backend/internal/service"
	"focusread_backend/pkg/database"
	"focusread_backend/pkg/logger"
	"focusread_backend/pkg/monitoring"
	"focusread_backend/pkg/security"
	"focusread_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user      *repository.UserRepository
	book      *repository.BookRepository
	bookmark  *repository.BookmarkRepository
	goal      *repository.ReadingGoalRepository
	history   *repository.ReadingHistoryRepository
	badge     *repository.BadgeRepository
	userBadge *repository.UserBadgeRepository
	reward    *repository.RewardRepository
	session   *repository.SessionRepository
	block     *repository.BlockListRepository
}

type services struct {
	notification *service.NotificationService
	storage      *service.StorageService
	auth         *service.AuthService
	user         *service.UserService
	book         *service.BookService
	bookmark     *service.BookmarkService
	reading      *service.ReadingService
	badge        *service.BadgeService
	blocking     *service.BlockingService
	focus        *service.FocusService
}

type controllers struct {
	auth     *controller.AuthController
	book     *controller.BookController
	bookmark *controller.BookmarkController
	reading  *controller.ReadingController
	badge    *controller.BadgeController
	focus    *controller.FocusController
	blocking *controller.BlockingController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置文件热更新入口，由 configwatcher 触发。
// 只接受运行期可安全变更的字段，端口、数据库等仍需重启。
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config.CORS = cfg.CORS
	a.Config.RateLimit = cfg.RateLimit
	a.Config.JWT.ExpireTime = cfg.JWT.ExpireTime

	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		book:      repository.NewBookRepository(db),
		bookmark:  repository.NewBookmarkRepository(db),
		goal:      repository.NewReadingGoalRepository(db),
		history:   repository.NewReadingHistoryRepository(db),
		badge:     repository.NewBadgeRepository(db),
		userBadge: repository.NewUserBadgeRepository(db),
		reward:    repository.NewRewardRepository(db),
		session:   repository.NewSessionRepository(db),
		block:     repository.NewBlockListRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	notification, err := service.NewNotificationService(&cfg.AMQP, repos.user)
	if err != nil {
		logger.Log.Fatal("Failed to initialize notification queue", zap.Error(err))
	}
	s.notification = notification

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, rdb, s.notification, cfg)
	s.user = service.NewUserService(repos.user)
	s.book = service.NewBookService(repos.book, s.storage)
	s.bookmark = service.NewBookmarkService(repos.bookmark)
	s.reading = service.NewReadingService(repos.goal, repos.history)
	s.badge = service.NewBadgeService(repos.badge, repos.userBadge, repos.reward, s.notification)
	s.blocking = service.NewBlockingService(repos.block, rdb)
	s.focus = service.NewFocusService(repos.session, s.blocking)

	// 目标完成后触发徽章检查，徽章失败不影响完成结果
	s.reading.OnComplete(func(goal *model.ReadingGoal) {
		if err := s.badge.CheckForBadges(goal); err != nil {
			logger.Log.Error("badge check failed",
				zap.Uint("userId", goal.UserID), zap.Error(err))
		}
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth, s.user),
		book:     controller.NewBookController(s.book),
		bookmark: controller.NewBookmarkController(s.bookmark),
		reading:  controller.NewReadingController(s.reading),
		badge:    controller.NewBadgeController(s.badge),
		focus:    controller.NewFocusController(s.focus),
		blocking: controller.NewBlockingController(s.blocking),
		health:   controller.NewHealthController(db),
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

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 每日零点为所有用户开启新的目标周期
func (a *App) startBackgroundTasks(s *services) {
	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
			time.Sleep(time.Until(next))

			count, err := s.reading.ResetAllGoals()
			if err != nil {
				logger.Log.Error("daily goal reset failed", zap.Error(err))
				continue
			}
			logger.Log.Info("daily goal reset completed", zap.Int("goals", count))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.MigrateOnly {
		logger.Log.Info("Migration completed, exiting (migrate-only mode)")
		os.Exit(0)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("focusread-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
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

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
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
